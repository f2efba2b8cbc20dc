package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func (s *Server) addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// Handler returns the routed and instrumented handler
func (s *Server) Handler() http.Handler {
	return s.obs.HTTPMiddleware()(s.setupRoutes())
}

// setupHTTPServer creates and configures the HTTP server
func (s *Server) setupHTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.addr(),
		Handler:      s.Handler(),
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
		IdleTimeout:  s.IdleTimeout,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully. Background
// work (session eviction, limiter cleanup, metrics endpoint and file
// watchers) shares the server's lifetime.
func (s *Server) Run(ctx context.Context) error {
	httpServer := s.setupHTTPServer()
	if err := s.configureTLS(httpServer); err != nil {
		return err
	}

	s.displayServerInfo()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.Logger.Info("Starting HTTP server",
			"address", httpServer.Addr,
			"tls_enabled", httpServer.TLSConfig != nil)

		var err error
		if httpServer.TLSConfig != nil {
			// Certificates come from GetCertificate
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown(httpServer)
	})

	g.Go(func() error { return s.Sessions.Run(gctx) })
	g.Go(func() error { return s.obs.ServePrometheus(gctx) })
	if s.RateLimiter != nil {
		g.Go(func() error { return s.RateLimiter.Run(gctx) })
	}
	for _, w := range s.watchers() {
		g.Go(func() error { return w.Run(gctx) })
	}

	return g.Wait()
}

// watchers returns the file watchers enabled by configuration
func (s *Server) watchers() []*FileWatcher {
	var ws []*FileWatcher
	reload := s.AppConfig.Server.PromptReload
	if reload.Enabled {
		ws = append(ws, NewFileWatcher("prompts", s.AppConfig.PromptFiles(), reload.DebounceDelay,
			s.AppConfig.ReloadPrompts, s.Logger))
	}
	if s.certs != nil {
		if files := s.certs.files(); len(files) > 0 {
			ws = append(ws, NewFileWatcher("tls", files, reload.DebounceDelay, s.certs.rotate, s.Logger))
		}
	}
	return ws
}

// shutdown drains in-flight requests, forcing close after shutdownTimeout
func (s *Server) shutdown(server *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.Logger.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown server gracefully, forcing close")
		return server.Close()
	}

	s.Logger.Info("Server shutdown completed successfully")
	return nil
}
