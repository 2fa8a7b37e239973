package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/edulibrary/internal/client/client"
	"github.com/dmitrijs2005/edulibrary/internal/client/models"
	"github.com/dmitrijs2005/edulibrary/internal/logging"
)

// SessionGate owns the authenticated identity of the process.
//
// Contract:
//   - Probe: ask the server whether a session exists; nil means unauthenticated.
//   - Login / Logout: establish or end the server session.
//   - Register: create an account; it does not sign in.
//   - Current: a copy of the session, nil when signed out.
//   - Update: mutate the held session (optimistic counter bumps).
type SessionGate interface {
	Probe(ctx context.Context) (*models.Session, error)
	Login(ctx context.Context, identifier, password string) (*models.Session, error)
	Register(ctx context.Context, req client.RegisterRequest) error
	Logout(ctx context.Context) error
	Current() *models.Session
	Update(fn func(s *models.Session))
}

type sessionGate struct {
	client client.Client
	log    logging.Logger

	mu      sync.RWMutex
	session *models.Session
}

func NewSessionGate(c client.Client, log logging.Logger) SessionGate {
	return &sessionGate{client: c, log: log}
}

// Probe issues one status query. A failed probe leaves the gate signed out
// and returns the error.
func (g *sessionGate) Probe(ctx context.Context) (*models.Session, error) {
	u, err := g.client.SessionInfo(ctx)
	if err != nil {
		g.log.Warn(ctx, "session probe failed", logging.Err(err))
		g.set(nil)
		return nil, fmt.Errorf("session probe: %w", err)
	}
	if u == nil {
		g.set(nil)
		return nil, nil
	}
	s := models.NewSession(*u)
	g.set(s)
	return g.Current(), nil
}

func (g *sessionGate) Login(ctx context.Context, identifier, password string) (*models.Session, error) {
	req := client.LoginRequest{Username: strings.TrimSpace(identifier), Password: password}
	if err := check(req); err != nil {
		return nil, err
	}

	u, err := g.client.Login(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	g.set(models.NewSession(*u))
	g.log.Info(ctx, "signed in", "username", u.Username, "admin", u.IsAdmin)
	return g.Current(), nil
}

func (g *sessionGate) Register(ctx context.Context, req client.RegisterRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := check(req); err != nil {
		return err
	}
	if err := g.client.Register(ctx, req); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// Logout ends the server session. The local session is kept if the request fails.
func (g *sessionGate) Logout(ctx context.Context) error {
	if err := g.client.Logout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	g.set(nil)
	return nil
}

func (g *sessionGate) Current() *models.Session {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.session == nil {
		return nil
	}
	cp := *g.session
	return &cp
}

func (g *sessionGate) Update(fn func(s *models.Session)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session != nil {
		fn(g.session)
	}
}

func (g *sessionGate) set(s *models.Session) {
	g.mu.Lock()
	g.session = s
	g.mu.Unlock()
}
