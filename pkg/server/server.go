// Package server exposes the line solver over HTTP.
//
// # Endpoints
//
//	POST /v1/solve        {"size": 10, "blocks": [2, 7], "known": "??????????"}
//	POST /v1/solve/batch  {"lines": [{...}, {...}], "workers": 4}
//	GET  /healthz
//
// Every response carries an X-Request-ID header. Clients may supply their
// own; otherwise a UUID is generated. Invalid input yields 400 with a JSON
// body of the form {"code": "INVALID_BLOCK", "error": "..."}.
//
// Line sizes are capped at [errors.MaxLineSize]. The cost of a solve grows
// with the number of placements, which is exponential in slack, so the size
// cap alone does not bound it: every request also runs under
// [Server.Timeout]. A solve that runs past it is abandoned and answered with
// 503 and code TIMEOUT. Solves also stop when the client goes away.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/sisi/pkg/errors"
	sisiio "github.com/matzehuels/sisi/pkg/io"
	"github.com/matzehuels/sisi/pkg/render"
	"github.com/matzehuels/sisi/pkg/solve"
)

const (
	// MaxBodyBytes limits request bodies.
	MaxBodyBytes = 1 << 20

	// MaxBatchLines limits the lines accepted by /v1/solve/batch.
	MaxBatchLines = 1000

	// DefaultTimeout bounds the solving done for one request.
	DefaultTimeout = 10 * time.Second

	shutdownTimeout = 10 * time.Second
)

// Server serves the HTTP API.
type Server struct {
	// Timeout bounds the solving done for one request. Zero or negative
	// means DefaultTimeout.
	Timeout time.Duration

	runner  *solve.Runner
	glyphs  render.Glyphs
	workers int
	logger  *log.Logger
}

// New creates a server around runner. The runner is copied and its MaxSize
// set to errors.MaxLineSize; the caller's runner is left untouched.
func New(runner *solve.Runner, glyphs render.Glyphs, workers int, logger *log.Logger) *Server {
	r := *runner
	r.MaxSize = errors.MaxLineSize
	if logger == nil {
		logger = r.Logger
	}
	if logger == nil {
		logger = log.Default()
	}
	if workers <= 0 {
		workers = 1
	}
	return &Server{
		Timeout: DefaultTimeout,
		runner:  &r,
		glyphs:  glyphs.WithDefaults(),
		workers: workers,
		logger:  logger,
	}
}

// Handler returns the router with all middleware installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.AllowContentType("application/json"))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
		r.Post("/solve/batch", s.handleBatch)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

// =============================================================================
// Handlers
// =============================================================================

type batchRequest struct {
	Lines   []solve.Request `json:"lines"`
	Workers int             `json:"workers,omitempty"`
}

type batchResponse struct {
	Results []sisiio.Record `json:"results"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solve.Request
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := s.solveContext(r.Context())
	defer cancel()

	res, err := s.runner.Solve(ctx, req)
	if err != nil {
		writeError(w, s.timeoutError(ctx, err))
		return
	}
	writeJSON(w, http.StatusOK, sisiio.NewRecord(*res, s.glyphs))
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if len(req.Lines) > MaxBatchLines {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "batch has %d lines (max %d)", len(req.Lines), MaxBatchLines))
		return
	}
	workers := s.workers
	if req.Workers > 0 && req.Workers < workers {
		workers = req.Workers
	}

	ctx, cancel := s.solveContext(r.Context())
	defer cancel()

	results, err := s.runner.SolveBatch(ctx, req.Lines, workers)
	if err != nil {
		writeError(w, s.timeoutError(ctx, err))
		return
	}
	out := batchResponse{Results: make([]sisiio.Record, len(results))}
	for i, res := range results {
		out.Results[i] = sisiio.NewRecord(res, s.glyphs)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) solveContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, s.timeout())
}

// timeoutError tags err with TIMEOUT when it stems from the solve deadline
// rather than the client going away.
func (s *Server) timeoutError(ctx context.Context, err error) error {
	if errors.IsContext(err) && ctx.Err() == context.DeadlineExceeded {
		return errors.Wrap(errors.ErrCodeTimeout, err, "solve did not finish within %s", s.timeout())
	}
	return err
}

func (s *Server) timeout() time.Duration {
	if s.Timeout <= 0 {
		return DefaultTimeout
	}
	return s.Timeout
}

// =============================================================================
// Encoding
// =============================================================================

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

type errorBody struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(err), errorBody{Code: code, Error: errors.UserMessage(err)})
}

func statusFor(err error) int {
	switch {
	case errors.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeTimeout), errors.IsContext(err):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
