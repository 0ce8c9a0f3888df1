package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/thenoetrevino/tracker/internal/app"
	"github.com/thenoetrevino/tracker/internal/config"
	"github.com/thenoetrevino/tracker/internal/testutil"
)

type testServer struct {
	t       *testing.T
	db      *sql.DB
	app     *app.App
	server  *Server
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := app.New(db, app.WithLogger(logger), app.WithPasswordCost(bcrypt.MinCost))

	for _, name := range []string{"alice", "bob"} {
		_, err := a.UserService.Register(context.Background(), name, name+"-pw")
		require.NoError(t, err)
	}

	s := NewServer(a, config.Default())
	return &testServer{t: t, db: db, app: a, server: s, handler: s.Handler()}
}

// do sends a request as user; an empty user sends no credentials.
func (ts *testServer) do(method, path, user string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(ts.t, err)
		rd = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, rd)
	if user != "" {
		req.SetBasicAuth(user, user+"-pw")
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) entity(rec *httptest.ResponseRecorder) map[string]any {
	ts.t.Helper()
	require.Equal(ts.t, SirenMediaType, rec.Header().Get("Content-Type"), rec.Body.String())
	var e map[string]any
	require.NoError(ts.t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

func (ts *testServer) problem(rec *httptest.ResponseRecorder, status int, typ string) Problem {
	ts.t.Helper()
	require.Equal(ts.t, status, rec.Code, rec.Body.String())
	require.Equal(ts.t, ProblemMediaType, rec.Header().Get("Content-Type"))
	var p Problem
	require.NoError(ts.t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(ts.t, typ, p.Type)
	assert.Equal(ts.t, status, p.Status)
	return p
}

func patch(ops ...[2]string) []map[string]string {
	doc := make([]map[string]string, 0, len(ops))
	for _, op := range ops {
		path, value := op[0], op[1]
		verb := "add"
		if len(path) > 0 && path[0] == '-' {
			verb, path = "remove", path[1:]
		}
		if len(path) > 0 && path[0] == '=' {
			verb, path = "replace", path[1:]
		}
		doc = append(doc, map[string]string{"op": verb, "path": path, "value": value})
	}
	return doc
}

func props(e map[string]any) map[string]any {
	p, _ := e["properties"].(map[string]any)
	return p
}

func (ts *testServer) createDemoProject() {
	ts.t.Helper()
	rec := ts.do(http.MethodPost, "/projects", "alice", map[string]any{
		"name":          "Demo",
		"description":   "demo project",
		"initialState":  "open",
		"allowedLabels": []string{"bug"},
	})
	require.Equal(ts.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodPatch, "/projects/Demo", "alice", patch(
		[2]string{"state", "closed"},
		[2]string{"state", "archived"},
		[2]string{"stateTransition", "open->closed"},
		[2]string{"stateTransition", "closed->archived"},
	))
	require.Equal(ts.t, http.StatusNoContent, rec.Code, rec.Body.String())
}

func TestDemoScenario(t *testing.T) {
	ts := newTestServer(t)
	ts.createDemoProject()

	rec := ts.do(http.MethodGet, "/projects/Demo", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	project := props(ts.entity(rec))
	assert.Equal(t, "open", project["initialState"])
	assert.Equal(t, "alice", project["projectOwner"])
	assert.ElementsMatch(t, []any{"open", "closed", "archived"}, project["allowedStates"])
	assert.ElementsMatch(t, []any{"open->closed", "closed->archived"}, project["stateTransitions"])
	assert.ElementsMatch(t, []any{"bug"}, project["allowedLabels"])

	rec = ts.do(http.MethodPost, "/projects/Demo/issues", "alice", map[string]any{
		"name": "crash on start", "description": "boom", "labels": []string{"bug"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	issue := props(ts.entity(rec))
	id := int(issue["id"].(float64))
	location := fmt.Sprintf("/projects/Demo/issues/%d", id)
	assert.Equal(t, location, rec.Header().Get("Location"))
	assert.Equal(t, "open", issue["state_name"])
	assert.Equal(t, []any{"bug"}, issue["labels"])
	assert.Nil(t, issue["close_date"])

	rec = ts.do(http.MethodPatch, location, "alice", patch([2]string{"=state", "closed"}))
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodGet, location, "", nil)
	issue = props(ts.entity(rec))
	assert.Equal(t, "closed", issue["state_name"])
	assert.NotNil(t, issue["close_date"])

	rec = ts.do(http.MethodPost, location+"/comments", "bob", map[string]string{"text": "confirmed"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	comment := props(ts.entity(rec))
	assert.Equal(t, "bob", comment["from_username"])
	assert.Equal(t, float64(id), comment["issue_id"])

	// open is not reachable from closed
	rec = ts.do(http.MethodPatch, location, "alice", patch([2]string{"=state", "open"}))
	ts.problem(rec, http.StatusBadRequest, ProbTransition)
}

func TestArchiveScenario(t *testing.T) {
	ts := newTestServer(t)
	ts.createDemoProject()

	rec := ts.do(http.MethodPost, "/projects/Demo/issues", "alice", map[string]any{"name": "old"})
	require.Equal(t, http.StatusCreated, rec.Code)
	location := rec.Header().Get("Location")

	rec = ts.do(http.MethodPatch, location, "alice", patch(
		[2]string{"=state", "closed"},
		[2]string{"=state", "archived"},
	))
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodGet, location, "", nil)
	issue := props(ts.entity(rec))
	assert.Equal(t, "archived", issue["state_name"])
	assert.NotNil(t, issue["close_date"], "archiving keeps the close date")

	rec = ts.do(http.MethodPost, location+"/comments", "alice", map[string]string{"text": "too late"})
	ts.problem(rec, http.StatusBadRequest, ProbBadRequest)

	rec = ts.do(http.MethodGet, location+"/comments", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), props(ts.entity(rec))["collectionSize"])
}

func TestAuthentication(t *testing.T) {
	ts := newTestServer(t)

	t.Run("missing credentials", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/projects", "", map[string]string{"name": "x", "initialState": "open"})
		ts.problem(rec, http.StatusUnauthorized, ProbUnauthorized)
		assert.Equal(t, `Basic realm="tracker"`, rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/projects/x", nil)
		req.SetBasicAuth("alice", "nope")
		rec := httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, req)
		ts.problem(rec, http.StatusUnauthorized, ProbUnauthorized)
		assert.Equal(t, int64(1), ts.server.Metrics().AuthFailures.Load())
	})

	t.Run("public reads ignore bad credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/projects", nil)
		req.SetBasicAuth("mallory", "nope")
		rec := httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestOwnership(t *testing.T) {
	ts := newTestServer(t)
	ts.createDemoProject()

	rec := ts.do(http.MethodPatch, "/projects/Demo", "bob", patch([2]string{"label", "feature"}))
	ts.problem(rec, http.StatusBadRequest, ProbNoPrivileges)

	rec = ts.do(http.MethodDelete, "/projects/Demo", "bob", nil)
	ts.problem(rec, http.StatusBadRequest, ProbNoPrivileges)

	rec = ts.do(http.MethodPost, "/projects/Demo/issues", "alice", map[string]any{"name": "i"})
	require.Equal(t, http.StatusCreated, rec.Code)
	issue := rec.Header().Get("Location")

	rec = ts.do(http.MethodDelete, issue, "bob", nil)
	ts.problem(rec, http.StatusBadRequest, ProbNoPrivileges)

	rec = ts.do(http.MethodPost, issue+"/comments", "alice", map[string]string{"text": "mine"})
	require.Equal(t, http.StatusCreated, rec.Code)
	comment := rec.Header().Get("Location")

	rec = ts.do(http.MethodDelete, comment, "bob", nil)
	ts.problem(rec, http.StatusForbidden, ProbNoPrivileges)

	rec = ts.do(http.MethodDelete, comment, "alice", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(http.MethodGet, comment, "", nil)
	ts.problem(rec, http.StatusNotFound, ProbNotFound)
}

func TestProblems(t *testing.T) {
	ts := newTestServer(t)
	ts.createDemoProject()

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		typ    string
	}{
		{"unknown project", http.MethodGet, "/projects/Nope", nil, http.StatusNotFound, ProbNotFound},
		{"issues of unknown project", http.MethodGet, "/projects/Nope/issues", nil, http.StatusNotFound, ProbNotFound},
		{"unknown issue", http.MethodGet, "/projects/Demo/issues/99", nil, http.StatusNotFound, ProbNotFound},
		{"non-numeric issue id", http.MethodGet, "/projects/Demo/issues/abc", nil, http.StatusBadRequest, ProbBadRequest},
		{"unknown route", http.MethodGet, "/nowhere", nil, http.StatusNotFound, ProbNotFound},
		{"duplicate project", http.MethodPost, "/projects", map[string]any{"name": "Demo", "initialState": "open"}, http.StatusBadRequest, ProbAlreadyExists},
		{"missing initial state", http.MethodPost, "/projects", map[string]any{"name": "Other"}, http.StatusBadRequest, ProbBadRequest},
		{"disallowed label", http.MethodPost, "/projects/Demo/issues", map[string]any{"name": "x", "labels": []string{"feature"}}, http.StatusBadRequest, ProbBadRequest},
		{"unknown patch op", http.MethodPatch, "/projects/Demo", []map[string]string{{"op": "move", "path": "label", "value": "x"}}, http.StatusBadRequest, ProbBadRequest},
		{"transition to unknown state", http.MethodPatch, "/projects/Demo", patch([2]string{"stateTransition", "open->review"}), http.StatusBadRequest, ProbTransition},
		{"malformed transition", http.MethodPatch, "/projects/Demo", patch([2]string{"stateTransition", "open"}), http.StatusBadRequest, ProbTransition},
		{"remove initial state", http.MethodPatch, "/projects/Demo", patch([2]string{"-state", "open"}), http.StatusBadRequest, ProbBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(tt.method, tt.path, "alice", tt.body)
			p := ts.problem(rec, tt.status, tt.typ)
			assert.NotEmpty(t, p.Detail)
		})
	}

	t.Run("no issue was written for the disallowed label", func(t *testing.T) {
		assert.Equal(t, 0, testutil.CountRows(t, ts.db, "SELECT COUNT(*) FROM issues"))
	})
}

func TestMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/projects", bytes.NewBufferString("{not json"))
	req.SetBasicAuth("alice", "alice-pw")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	ts.problem(rec, http.StatusBadRequest, ProbBadRequest)
}

func TestIssuePagination(t *testing.T) {
	ts := newTestServer(t)
	ts.createDemoProject()
	for i := 0; i < 25; i++ {
		rec := ts.do(http.MethodPost, "/projects/Demo/issues", "alice", map[string]any{"name": fmt.Sprintf("issue %d", i)})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	tests := []struct {
		page     int
		count    int
		wantPrev bool
		wantNext bool
	}{
		{1, 10, false, true},
		{2, 10, true, true},
		{3, 5, true, false},
		{4, 0, true, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d", tt.page), func(t *testing.T) {
			rec := ts.do(http.MethodGet, fmt.Sprintf("/projects/Demo/issues?page=%d&size=10", tt.page), "", nil)
			require.Equal(t, http.StatusOK, rec.Code)
			e := ts.entity(rec)

			entities, _ := e["entities"].([]any)
			assert.Len(t, entities, tt.count)
			assert.Equal(t, float64(25), props(e)["collectionSize"])
			assert.Equal(t, float64(tt.page), props(e)["currentPage"])

			rels := map[string]string{}
			for _, l := range e["links"].([]any) {
				l := l.(map[string]any)
				rels[l["rel"].([]any)[0].(string)] = l["href"].(string)
			}
			assert.Equal(t, fmt.Sprintf("/projects/Demo/issues?page=%d&size=10", tt.page), rels["self"])
			_, hasPrev := rels["previous"]
			_, hasNext := rels["next"]
			assert.Equal(t, tt.wantPrev, hasPrev)
			assert.Equal(t, tt.wantNext, hasNext)
		})
	}
}

func TestProjectCollection(t *testing.T) {
	ts := newTestServer(t)
	ts.createDemoProject()

	rec := ts.do(http.MethodGet, "/projects?page=1&limit=5", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	e := ts.entity(rec)
	assert.Equal(t, []any{"Project", "Collection"}, e["class"])

	entities := e["entities"].([]any)
	require.Len(t, entities, 1)
	sub := entities[0].(map[string]any)
	assert.Equal(t, []any{"project"}, sub["rel"])
	assert.Equal(t, "Demo", sub["properties"].(map[string]any)["name"])

	actions := e["actions"].([]any)
	assert.Equal(t, "create-project", actions[0].(map[string]any)["name"])

	rec = ts.do(http.MethodGet, "/projects?page=x", "", nil)
	ts.problem(rec, http.StatusBadRequest, ProbBadRequest)
}

func TestDeleteProjectCascades(t *testing.T) {
	ts := newTestServer(t)
	ts.createDemoProject()

	rec := ts.do(http.MethodPost, "/projects/Demo/issues", "alice", map[string]any{"name": "i", "labels": []string{"bug"}})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = ts.do(http.MethodPost, rec.Header().Get("Location")+"/comments", "bob", map[string]string{"text": "hi"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(http.MethodDelete, "/projects/Demo", "alice", nil)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	for _, table := range []string{"projects", "issues", "comments", "issue_labels", "allowed_labels", "allowed_states", "state_transitions"} {
		assert.Equal(t, 0, testutil.CountRows(t, ts.db, "SELECT COUNT(*) FROM "+table), table)
	}
	rec = ts.do(http.MethodGet, "/projects/Demo", "", nil)
	ts.problem(rec, http.StatusNotFound, ProbNotFound)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	ts.do(http.MethodGet, "/projects/missing", "", nil)

	rec = ts.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var snap MetricsSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.GreaterOrEqual(t, snap.RequestsTotal, int64(2))
	assert.GreaterOrEqual(t, snap.ClientErrors, int64(1))
}

func TestRequestIDPropagates(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ts := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ts.server.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, ln.Addr().String(), ts.server.Addr())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestPageNumberOutOfRange(t *testing.T) {
	ts := newTestServer(t)
	ts.createDemoProject()

	for _, page := range []string{"922337203685477582", "922337203685477581"} {
		rec := ts.do(http.MethodGet, "/projects?page="+page+"&size=10", "", nil)
		p := ts.problem(rec, http.StatusBadRequest, ProbBadRequest)
		assert.Contains(t, p.Detail, "page must not exceed")
	}

	rec := ts.do(http.MethodGet, "/projects?page=922337203685477580&size=10", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	e := ts.entity(rec)
	assert.Empty(t, e["entities"])
	for _, l := range e["links"].([]any) {
		assert.NotEqual(t, "next", l.(map[string]any)["rel"].([]any)[0])
	}
}

func TestPatchAcceptsSingleOperation(t *testing.T) {
	ts := newTestServer(t)
	ts.createDemoProject()

	rec := ts.do(http.MethodPatch, "/projects/Demo", "alice", map[string]string{"op": "add", "path": "label", "value": "feature"})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	rec = ts.do(http.MethodGet, "/projects/Demo", "", nil)
	assert.ElementsMatch(t, []any{"bug", "feature"}, props(ts.entity(rec))["allowedLabels"])

	rec = ts.do(http.MethodPost, "/projects/Demo/issues", "alice", map[string]any{"name": "crash"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	location := rec.Header().Get("Location")

	rec = ts.do(http.MethodPatch, location, "alice", map[string]string{"op": "replace", "path": "state", "value": "closed"})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodPatch, location, "alice", map[string]string{"op": "replace", "path": "state", "value": "open"})
	ts.problem(rec, http.StatusBadRequest, ProbTransition)

	rec = ts.do(http.MethodPatch, location, "alice", "closed")
	ts.problem(rec, http.StatusBadRequest, ProbBadRequest)
}
