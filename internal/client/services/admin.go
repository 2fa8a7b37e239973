package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/edulibrary/internal/client/client"
	"github.com/dmitrijs2005/edulibrary/internal/client/models"
	"github.com/dmitrijs2005/edulibrary/internal/logging"
)

// AdminService dispatches the admin dashboard reads and mutations. Every
// method requires an admin session; the server enforces the same rule.
type AdminService interface {
	Users(ctx context.Context) ([]models.User, error)
	// ToggleUser flips the active flag of a user and returns the reloaded list.
	// A failed reload after a successful toggle yields ErrReloadFailed.
	ToggleUser(ctx context.Context, id int64) ([]models.User, error)
	// ToggleFeatured flips the featured flag of a file and reloads the catalog.
	// A failed reload after a successful toggle yields ErrReloadFailed.
	ToggleFeatured(ctx context.Context, id int64) error
	Tickets(ctx context.Context) ([]models.Ticket, error)
	// RespondTicket records a response and returns the reloaded ticket list.
	RespondTicket(ctx context.Context, id int64, req client.RespondRequest) ([]models.Ticket, error)
	Analytics(ctx context.Context) (*models.Analytics, error)
}

type adminService struct {
	client  client.Client
	catalog Refresher
	session SessionGate
	log     logging.Logger
}

func NewAdminService(c client.Client, catalog Refresher, session SessionGate, log logging.Logger) AdminService {
	return &adminService{client: c, catalog: catalog, session: session, log: log}
}

func (s *adminService) guard() error {
	sess := s.session.Current()
	if sess == nil {
		return ErrNotSignedIn
	}
	if !sess.IsAdmin() {
		return ErrAdminOnly
	}
	return nil
}

func (s *adminService) Users(ctx context.Context) ([]models.User, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	users, err := s.client.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *adminService) ToggleUser(ctx context.Context, id int64) ([]models.User, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if err := s.client.ToggleUserStatus(ctx, id); err != nil {
		return nil, fmt.Errorf("toggle user %d: %w", id, err)
	}
	s.log.Info(ctx, "user status toggled", "id", id)
	users, err := s.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReloadFailed, err)
	}
	return users, nil
}

func (s *adminService) ToggleFeatured(ctx context.Context, id int64) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := s.client.ToggleFeatured(ctx, id); err != nil {
		return fmt.Errorf("toggle featured %d: %w", id, err)
	}
	s.log.Info(ctx, "featured toggled", "id", id)
	if err := s.catalog.Refresh(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrReloadFailed, err)
	}
	return nil
}

func (s *adminService) Tickets(ctx context.Context) ([]models.Ticket, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	tickets, err := s.client.ListTickets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

func (s *adminService) RespondTicket(ctx context.Context, id int64, req client.RespondRequest) ([]models.Ticket, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	req.Response = strings.TrimSpace(req.Response)
	if req.Response == "" {
		return nil, invalid("Please enter a response")
	}
	if err := check(req); err != nil {
		return nil, err
	}
	if err := s.client.RespondTicket(ctx, id, req); err != nil {
		return nil, fmt.Errorf("respond to ticket %d: %w", id, err)
	}
	s.log.Info(ctx, "ticket answered", "id", id, "status", req.Status)
	tickets, err := s.Tickets(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReloadFailed, err)
	}
	return tickets, nil
}

func (s *adminService) Analytics(ctx context.Context) (*models.Analytics, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	a, err := s.client.Analytics(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics: %w", err)
	}
	return a, nil
}
