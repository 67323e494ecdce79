package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	config *Config
	lock   *Lock
	svc    *Services
	server *http.Server
}

func New(config *Config) (*Server, error) {
	return NewWithFs(config, afero.NewOsFs())
}

// NewWithFs builds a server whose file operations go through fsys.
func NewWithFs(config *Config, fsys afero.Fs) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	lock := NewLock(config.DBPath)
	if err := lock.Acquire(); err != nil {
		return nil, err
	}

	svc, err := NewServices(config, fsys)
	if err != nil {
		lock.Release() //nolint:errcheck
		return nil, err
	}

	handler, err := SetupRoutes(config, svc)
	if err != nil {
		svc.Shutdown(context.Background()) //nolint:errcheck
		lock.Release()                     //nolint:errcheck
		return nil, fmt.Errorf("routes: %w", err)
	}

	return &Server{
		config: config,
		lock:   lock,
		svc:    svc,
		server: &http.Server{
			Addr:              config.HTTP.Addr,
			Handler:           handler,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      5 * time.Minute, // large syncs run inside the request
			IdleTimeout:       120 * time.Second,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Handler exposes the route tree, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start(ctx context.Context) error {
	slog.Info("filemanager server start", "config", s.config)
	defer slog.Info("filemanager server stop")

	if err := s.svc.Start(ctx); err != nil {
		s.release(context.Background())
		return err
	}

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		if err := s.runHttpServer(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egCtx.Done()
		slog.Info("shutdown signal")
		return s.Stop(context.Background())
	})

	return eg.Wait()
}

func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := s.release(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Server) release(ctx context.Context) error {
	var errs []error
	if err := s.svc.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.lock.Release(); err != nil {
		errs = append(errs, fmt.Errorf("release lock: %w", err))
	}
	return errors.Join(errs...)
}

func (s *Server) runHttpServer() error {
	if s.config.HTTP.TLS() {
		slog.Info("server start tls", "addr", s.config.HTTP.Addr, "cert", s.config.HTTP.CertFile, "key", s.config.HTTP.KeyFile)
		return s.server.ListenAndServeTLS(s.config.HTTP.CertFile, s.config.HTTP.KeyFile)
	}
	slog.Info("server start http", "addr", s.config.HTTP.Addr)
	return s.server.ListenAndServe()
}
