package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/thenoetrevino/tracker/internal/workflow"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	userKey      contextKey = "user"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// currentUser returns the authenticated user name, if any.
func currentUser(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(userKey).(string)
	return name, ok && name != ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// observe assigns a request id, recovers panics, counts the request and logs
// it once it completes.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey, id))

		rec := &statusRecorder{ResponseWriter: w}
		s.metrics.InFlight.Add(1)
		defer func() {
			s.metrics.InFlight.Add(-1)
			if p := recover(); p != nil {
				s.writeProblem(rec, r, fmt.Errorf("panic: %v", p))
			}
			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			s.metrics.observe(rec.status)
			s.logger.Info("request",
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		}()

		next.ServeHTTP(rec, r)
	})
}

// authenticate resolves HTTP Basic credentials. Requests without valid
// credentials pass through anonymously and are rejected by authed handlers.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name, password, ok := r.BasicAuth()
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		u, err := s.app.UserService.Authenticate(r.Context(), name, password)
		if workflow.KindOf(err) == workflow.KindUnauthorized {
			s.metrics.IncAuthFailures()
			next.ServeHTTP(w, r)
			return
		}
		if err != nil {
			s.writeProblem(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u.Name)))
	})
}

// handlerFunc is an HTTP handler that reports failures as errors.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle adapts fn, writing any returned error as a problem document.
func (s *Server) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			s.writeProblem(w, r, err)
		}
	}
}

// authed adapts fn for endpoints that need an authenticated user.
func (s *Server) authed(fn func(w http.ResponseWriter, r *http.Request, user string) error) http.HandlerFunc {
	return s.handle(func(w http.ResponseWriter, r *http.Request) error {
		user, ok := currentUser(r.Context())
		if !ok {
			return workflow.Newf(workflow.KindUnauthorized, "authentication is required for this resource")
		}
		return fn(w, r, user)
	})
}
