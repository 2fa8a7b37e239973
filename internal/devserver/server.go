package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/edulibrary/internal/logging"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	cfg      *Config
	log      logging.Logger
	store    *Store
	sessions *Sessions
}

// New builds a server with a fresh store seeded with the admin account.
func New(cfg *Config, log logging.Logger, opts ...StoreOption) (*Server, error) {
	store := NewStore(opts...)
	if _, err := store.AddUser(cfg.AdminUser, cfg.AdminEmail, cfg.AdminPassword, true); err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	return &Server{cfg: cfg, log: log, store: store, sessions: NewSessions()}, nil
}

func (s *Server) Store() *Store {
	return s.store
}

func (s *Server) Handler() http.Handler {
	return NewRouter(s.store, s.sessions, s.log)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "devserver listening", "addr", s.cfg.Addr, "admin", s.cfg.AdminUser)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info(ctx, "devserver stopped")
	return nil
}
