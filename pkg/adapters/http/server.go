// Package http exposes form sessions over a JSON REST API.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/verdict"
	"github.com/aretw0/verdict/internal/logging"
	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves one form definition; each session holds its own snapshot.
type Server struct {
	Sessions *session.Manager
	Open     session.Opener
	Logger   *slog.Logger
}

// Option configures the handler.
type Option func(*config)

type config struct {
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// WithMetrics mounts GET /metrics for gatherer.
func WithMetrics(gatherer prometheus.Gatherer) Option {
	return func(c *config) {
		c.gatherer = gatherer
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// NewHandler creates the HTTP handler for sessions of the form built by open.
func NewHandler(sessions *session.Manager, open session.Opener, opts ...Option) http.Handler {
	cfg := config{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Server{Sessions: sessions, Open: open, Logger: cfg.logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/form", s.Describe)
	r.Get("/sessions", s.List)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", s.Get)
		r.Delete("/", s.Delete)
		r.Post("/values", s.SetValues)
		r.Post("/validate", s.Validate)
		r.Put("/business-errors", s.SetBusinessErrors)
	})
	if cfg.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.gatherer, promhttp.HandlerOpts{}))
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionResponse is returned by every endpoint that reads or changes a session.
type SessionResponse struct {
	ID                   string                 `json:"id"`
	IsValid              bool                   `json:"isValid"`
	DoNotSaveNativeValue bool                   `json:"doNotSaveNativeValue"`
	Issues               []domain.Issue         `json:"issues,omitempty"`
	Result               *domain.ValidateResult `json:"result,omitempty"`
	Changes              *domain.StateDiff      `json:"changes,omitempty"`
	State                *domain.ManagerState   `json:"state"`
}

// ValuesRequest is the body of POST /sessions/{id}/values.
type ValuesRequest struct {
	Values     map[string]any `json:"values,omitempty"`
	Inputs     map[string]any `json:"inputs,omitempty"`
	Validate   bool           `json:"validate,omitempty"`
	DuringEdit bool           `json:"duringEdit,omitempty"`
}

// ValidateRequest is the optional body of POST /sessions/{id}/validate.
type ValidateRequest struct {
	Group string `json:"group,omitempty"`
}

// Describe handles GET /form.
func (s *Server) Describe(w http.ResponseWriter, r *http.Request) {
	form, err := s.Open(nil)
	if err != nil {
		s.fail(w, "describe", err)
		return
	}
	writeJSON(w, http.StatusOK, form.Descriptors())
}

// List handles GET /sessions.
func (s *Server) List(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, "list", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

// Get handles GET /sessions/{id}.
func (s *Server) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state, err := s.Sessions.Load(r.Context(), id)
	if err != nil {
		s.fail(w, "get", err)
		return
	}
	form, err := s.Open(state)
	if err != nil {
		s.fail(w, "get", err)
		return
	}
	writeJSON(w, http.StatusOK, respond(id, form, nil))
}

// Delete handles DELETE /sessions/{id}.
func (s *Server) Delete(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetValues handles POST /sessions/{id}/values. Native values are applied before inputs.
func (s *Server) SetValues(w http.ResponseWriter, r *http.Request) {
	var body ValuesRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("SetValues: invalid request body", "err", err)
		return
	}

	id := chi.URLParam(r, "id")
	opts := verdict.SetValueOptions{Validate: body.Validate, DuringEdit: body.DuringEdit}
	var before *domain.ManagerState
	form, err := s.Sessions.Update(r.Context(), id, s.Open, func(f *verdict.Form) error {
		before = f.State()
		for name, value := range body.Values {
			if err := f.SetValue(name, value, opts); err != nil {
				return err
			}
		}
		for name, input := range body.Inputs {
			if err := f.SetInputValue(name, input, opts); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.fail(w, "set values", err)
		return
	}
	resp := respond(id, form, nil)
	resp.Changes = domain.Diff(id, before, resp.State)
	writeJSON(w, http.StatusOK, resp)
}

// Validate handles POST /sessions/{id}/validate and waits for async conditions.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	var body ValidateRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			s.Logger.Warn("Validate: invalid request body", "err", err)
			return
		}
	}

	id := chi.URLParam(r, "id")
	var result domain.ValidateResult
	var before *domain.ManagerState
	form, err := s.Sessions.Update(r.Context(), id, s.Open, func(f *verdict.Form) error {
		before = f.State()
		var err error
		if result, err = f.Validate(verdict.ValidateOptions{Group: body.Group}); err != nil {
			return err
		}
		if err := f.ResolvePending(r.Context()); err != nil {
			return err
		}
		result.IsValid = f.IsValid()
		result.DoNotSaveNativeValue = f.DoNotSaveNativeValue()
		return nil
	})
	if err != nil {
		s.fail(w, "validate", err)
		return
	}
	resp := respond(id, form, &result)
	resp.Changes = domain.Diff(id, before, resp.State)
	writeJSON(w, http.StatusOK, resp)
}

// SetBusinessErrors handles PUT /sessions/{id}/business-errors. The body replaces all
// previously supplied business logic errors; an empty array clears them.
func (s *Server) SetBusinessErrors(w http.ResponseWriter, r *http.Request) {
	var errs []domain.BusinessLogicError
	if err := json.NewDecoder(r.Body).Decode(&errs); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("SetBusinessErrors: invalid request body", "err", err)
		return
	}

	id := chi.URLParam(r, "id")
	var before *domain.ManagerState
	form, err := s.Sessions.Update(r.Context(), id, s.Open, func(f *verdict.Form) error {
		before = f.State()
		f.SetBusinessLogicErrors(errs)
		return nil
	})
	if err != nil {
		s.fail(w, "business errors", err)
		return
	}
	resp := respond(id, form, nil)
	resp.Changes = domain.Diff(id, before, resp.State)
	writeJSON(w, http.StatusOK, resp)
}

func respond(id string, form *verdict.Form, result *domain.ValidateResult) SessionResponse {
	return SessionResponse{
		ID:                   id,
		IsValid:              form.IsValid(),
		DoNotSaveNativeValue: form.DoNotSaveNativeValue(),
		Issues:               form.Summary(""),
		Result:               result,
		State:                form.State(),
	}
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrValueHostNotFound):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		s.Logger.Error("request failed", "op", op, "err", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
