// Package handlers serves the dashboard page and the per-client chart widgets behind it.
package handlers

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"livechart/web"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	renderer Renderer
	handler  *http.ServeMux
	logger   *log.Logger
}

// NewServer routes the renderer's page and handlers. metrics may be nil.
func NewServer(renderer Renderer, metrics http.Handler, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(os.Stdout, "[server] ", log.LstdFlags)
	}
	s := &Server{
		renderer: renderer,
		logger:   logger,
	}

	handler := http.NewServeMux()
	handler.HandleFunc("GET /{$}", s.IndexHandler)
	handler.HandleFunc("GET /health", s.HealthHandler)
	handler.Handle("GET /static/", http.FileServer(http.FS(web.Static)))
	if metrics != nil {
		handler.Handle("GET /metrics", metrics)
	}

	for pattern, uiHandler := range renderer.Handlers() {
		handler.HandleFunc(pattern, uiHandler)
	}

	s.handler = handler

	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("listening on %s …", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.renderer.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// IndexHandler is the main entrypoint for the UI
func (s *Server) IndexHandler(w http.ResponseWriter, _ *http.Request) {
	err := s.renderer.Templates().ExecuteTemplate(w, "index", s.renderer.Data())
	if err != nil {
		s.logger.Printf("couldn't execute template for index %s", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (s *Server) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
