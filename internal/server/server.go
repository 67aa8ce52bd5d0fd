package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"kameo_report/internal/handlers"
	"kameo_report/internal/transport/auth"
)

type Server struct {
	httpServer *http.Server
}

// NewServer routes the API. /health stays open, everything else needs the
// API token when one is set.
func NewServer(port, apiToken string, h *handlers.Handlers) *Server {
	mux := http.NewServeMux()

	if h != nil {
		guard := auth.BearerToken(apiToken)
		mux.HandleFunc("/health", h.Health)
		mux.Handle("/convert", guard(http.HandlerFunc(h.Convert)))
		mux.Handle("/upload", guard(http.HandlerFunc(h.Upload)))
		mux.Handle("/runs", guard(http.HandlerFunc(h.Runs)))
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%s", port),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Handler exposes the routed mux.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shCtx)
	case err := <-errCh:
		return err
	}
}
