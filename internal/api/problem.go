package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/thenoetrevino/tracker/internal/workflow"
)

// ProblemMediaType is the content type of error responses.
const ProblemMediaType = "application/problem+json"

// Problem types.
const (
	ProbNotFound      = "/probs/resource-not-found"
	ProbNoPrivileges  = "/probs/no-privileges-to-resource"
	ProbBadRequest    = "/probs/bad-request"
	ProbAlreadyExists = "/probs/resource-already-exists"
	ProbTransition    = "/probs/transition-problems"
	ProbUnauthorized  = "/probs/unauthorized"
	ProbInternal      = "/probs/internal-error"
)

// Problem is an RFC 7807 problem document.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

type problemMapping struct {
	status int
	typ    string
	title  string
}

var problems = map[workflow.Kind]problemMapping{
	workflow.KindNotFound:                 {http.StatusNotFound, ProbNotFound, "Resource not found"},
	workflow.KindAlreadyExists:            {http.StatusBadRequest, ProbAlreadyExists, "Resource already exists"},
	workflow.KindNotOwner:                 {http.StatusBadRequest, ProbNoPrivileges, "User is not the owner"},
	workflow.KindNoPermission:             {http.StatusForbidden, ProbNoPrivileges, "User has no permission"},
	workflow.KindUnauthorized:             {http.StatusUnauthorized, ProbUnauthorized, "Authentication required"},
	workflow.KindBadRequest:               {http.StatusBadRequest, ProbBadRequest, "Bad request"},
	workflow.KindInvalidLabel:             {http.StatusBadRequest, ProbBadRequest, "Invalid label"},
	workflow.KindRemoveState:              {http.StatusBadRequest, ProbBadRequest, "State cannot be removed"},
	workflow.KindIssueArchived:            {http.StatusBadRequest, ProbBadRequest, "Issue is archived"},
	workflow.KindTransitionNotPossible:    {http.StatusBadRequest, ProbTransition, "Transition not possible"},
	workflow.KindUnableToAddTransition:    {http.StatusBadRequest, ProbTransition, "Unable to add transition"},
	workflow.KindUnableToRemoveTransition: {http.StatusBadRequest, ProbTransition, "Unable to remove transition"},
}

var internalProblem = problemMapping{http.StatusInternalServerError, ProbInternal, "Internal server error"}

// problemFor maps err onto the problem document sent to the client. Only
// *workflow.Error details are exposed.
func problemFor(err error, instance string) Problem {
	var we *workflow.Error
	if !errors.As(err, &we) {
		return Problem{
			Type:     internalProblem.typ,
			Title:    internalProblem.title,
			Status:   internalProblem.status,
			Detail:   "an unexpected error occurred",
			Instance: instance,
		}
	}
	m, ok := problems[we.Kind]
	if !ok {
		m = internalProblem
	}
	return Problem{Type: m.typ, Title: m.title, Status: m.status, Detail: we.Detail, Instance: instance}
}

func (s *Server) writeProblem(w http.ResponseWriter, r *http.Request, err error) {
	p := problemFor(err, r.URL.Path)
	if p.Status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", requestID(r.Context()),
			"error", err,
		)
	}
	if p.Status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Basic realm="tracker"`)
	}

	w.Header().Set("Content-Type", ProblemMediaType)
	w.WriteHeader(p.Status)
	if encErr := json.NewEncoder(w).Encode(p); encErr != nil {
		slog.Debug("failed to write problem", "error", encErr)
	}
}
