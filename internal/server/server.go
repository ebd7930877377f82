// Package server exposes OBJ conversion over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Faultbox/objtool/internal/config"
	"github.com/Faultbox/objtool/internal/logger"
	"github.com/Faultbox/objtool/pkg/convert"
	"github.com/Faultbox/objtool/pkg/obj"
)

// Server converts OBJ documents posted to it.
type Server struct {
	cfg       config.ServerConfig
	defaults  convert.Options
	encoding  string
	materials obj.Materials
	log       *zap.Logger
}

// New creates a server. defaults supplies the output and metadata used when a
// request does not name its own; materials is the fallback material table.
func New(cfg config.ServerConfig, defaults convert.Options, encoding string, materials obj.Materials) *Server {
	return &Server{
		cfg:       cfg,
		defaults:  defaults,
		encoding:  encoding,
		materials: materials,
		log:       logger.Named("server"),
	}
}

// Handler returns the routed HTTP handler, wrapped with panic recovery.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/convert", s.handleConvert).Methods(http.MethodPost)
	r.HandleFunc("/outputs", s.handleOutputs).Methods(http.MethodGet)
	r.HandleFunc("/colors/{name}", s.handleColor).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	access := logger.Writer("http")
	defer access.Close()

	srv := &http.Server{
		Addr:        s.cfg.Addr,
		Handler:     handlers.LoggingHandler(access, s.Handler()),
		ReadTimeout: s.cfg.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting server", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.log.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
