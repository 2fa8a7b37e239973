package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/edulibrary/internal/client/client"
	"github.com/dmitrijs2005/edulibrary/internal/client/models"
	"github.com/dmitrijs2005/edulibrary/internal/logging"
)

type SupportService interface {
	Tickets(ctx context.Context) ([]models.Ticket, error)
	// Submit creates a ticket and returns the reloaded list.
	Submit(ctx context.Context, req client.TicketRequest) ([]models.Ticket, error)
}

type supportService struct {
	client  client.Client
	session SessionGate
	log     logging.Logger
}

func NewSupportService(c client.Client, session SessionGate, log logging.Logger) SupportService {
	return &supportService{client: c, session: session, log: log}
}

func (s *supportService) Tickets(ctx context.Context) ([]models.Ticket, error) {
	if s.session.Current() == nil {
		return nil, ErrNotSignedIn
	}
	tickets, err := s.client.ListTickets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

func (s *supportService) Submit(ctx context.Context, req client.TicketRequest) ([]models.Ticket, error) {
	if s.session.Current() == nil {
		return nil, ErrNotSignedIn
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if err := check(req); err != nil {
		return nil, err
	}

	if err := s.client.CreateTicket(ctx, req); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	s.log.Info(ctx, "ticket submitted", "priority", req.Priority)
	return s.Tickets(ctx)
}
