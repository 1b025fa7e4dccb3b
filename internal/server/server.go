// Package server exposes the question-answering service over HTTP.
//
// Endpoints:
//
//	POST /ask     — answer a question against the indexed collections
//	GET  /health  — liveness probe
//	GET  /contact — BKN helpdesk contact information
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/helpsek/helpsek/internal/search"
)

// ServiceName identifies this service in health responses.
const ServiceName = "helpsek"

// Asker answers natural-language questions. Satisfied by
// *search.Service.
type Asker interface {
	Ask(ctx context.Context, question string, k int) (*search.AnswerResult, error)
}

// Options configures the Server.
type Options struct {
	Addr            string
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

// Server is the HTTP boundary around the query service.
type Server struct {
	svc  Asker
	opts Options
	log  *slog.Logger
	http *http.Server
}

// New creates a Server. The logger falls back to slog.Default when nil.
func New(svc Asker, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{svc: svc, opts: opts, log: log}
	s.http = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Routes builds the handler tree with CORS and request logging applied.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /ask", s.handleAsk)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /contact", s.handleContact)

	return corsMiddleware(s.loggingMiddleware(mux))
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", s.opts.Addr)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	s.log.Info("http server shutting down")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
