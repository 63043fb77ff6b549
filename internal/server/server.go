// Package server exposes the flow engine over HTTP.
//
// The API is a thin mapping from query parameters to engine parameters:
//
//	GET /api/v1/flow?mode=ministry&target=...&project_limit=10&project_level=1
//	GET /api/v1/health
//
// Responses are the engine's deterministic graph serialization; the X-Cache
// header reports whether the graph came from the result cache.
package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mfujita/budgetflow/pkg/errors"
	"github.com/mfujita/budgetflow/pkg/flow"
)

// Server wraps the flow engine behind an HTTP listener.
type Server struct {
	engine *flow.Engine
	log    *log.Logger
	http   *http.Server
}

// New creates a server listening on addr.
func New(addr string, engine *flow.Engine, logger *log.Logger) *Server {
	s := &Server{engine: engine, log: logger}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/api/v1/health", s.handleHealth)
	r.Get("/api/v1/flow", s.handleFlow)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() { errc <- s.http.ListenAndServe() }()

	s.log.Info("listening", "addr", s.http.Addr)
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleFlow(w http.ResponseWriter, r *http.Request) {
	p := paramsFromQuery(r)

	g, cached, err := s.engine.Generate(r.Context(), p)
	if err != nil {
		s.writeError(w, err)
		return
	}

	data, err := g.Marshal()
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.Write(data)
}

// paramsFromQuery maps query parameters onto view parameters. Absent or
// unparsable numbers fall back to zero; the engine canonicalizes from
// there, so the URL never needs to spell out defaults.
func paramsFromQuery(r *http.Request) flow.Params {
	q := r.URL.Query()
	return flow.Params{
		Mode:   flow.Mode(q.Get("mode")),
		Target: q.Get("target"),

		MinistryLimit:     intParam(q.Get("ministry_limit")),
		ProjectLimit:      intParam(q.Get("project_limit")),
		RecipientLimit:    intParam(q.Get("recipient_limit")),
		SubRecipientLimit: intParam(q.Get("sub_recipient_limit")),

		MinistryLevel:  intParam(q.Get("ministry_level")),
		ProjectLevel:   intParam(q.Get("project_level")),
		RecipientLevel: intParam(q.Get("recipient_level")),
	}
}

func intParam(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.IsNotFound(err):
		status = http.StatusNotFound
	case isInvalid(err):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "err", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	body := errorBody{}
	body.Error.Code = string(errors.GetCode(err))
	if body.Error.Code == "" {
		body.Error.Code = string(errors.ErrCodeInternal)
	}
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, body)
}

func isInvalid(err error) bool {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidMode, errors.ErrCodeInvalidParams, errors.ErrCodeInvalidName:
		return true
	}
	return false
}
