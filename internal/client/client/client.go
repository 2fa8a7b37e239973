package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/edulibrary/internal/client/models"
)

// Client is the EduLibrary API as seen by the terminal client.
type Client interface {
	BaseURL() string

	// SessionInfo probes the current session. It returns (nil, nil) when
	// the server reports no authenticated user.
	SessionInfo(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, req LoginRequest) (*models.User, error)
	Register(ctx context.Context, req RegisterRequest) error
	Logout(ctx context.Context) error

	ListFiles(ctx context.Context) (*models.Listing, error)
	Upload(ctx context.Context, req UploadRequest) error
	Delete(ctx context.Context, id int64) error
	// Download streams the file body into w and returns the server filename.
	Download(ctx context.Context, id int64, w io.Writer) (string, error)
	PreviewURL(id int64) string

	SendInvite(ctx context.Context, req InviteRequest) (*InviteResult, error)

	ListTickets(ctx context.Context) ([]models.Ticket, error)
	CreateTicket(ctx context.Context, req TicketRequest) error
	RespondTicket(ctx context.Context, id int64, req RespondRequest) error

	ListUsers(ctx context.Context) ([]models.User, error)
	ToggleUserStatus(ctx context.Context, id int64) error
	ToggleFeatured(ctx context.Context, id int64) error
	Analytics(ctx context.Context) (*models.Analytics, error)
}

// Observer receives the outcome of every API call. code is 0 when the
// request never got an answer.
type Observer interface {
	ObserveRequest(endpoint string, code int, seconds float64)
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username   string `json:"username" validate:"required,min=3,max=80"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	InviteCode string `json:"invite_code"`
}

// UploadRequest is one file of an upload batch.
type UploadRequest struct {
	Name        string
	Content     io.Reader
	Category    string
	Description string
	Tags        string
}

type InviteRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message"`
}

type InviteResult struct {
	Message    string `json:"message"`
	InviteLink string `json:"invite_link"`
}

type TicketRequest struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"required"`
	Priority    models.Priority `json:"priority" validate:"required,oneof=low medium high"`
}

type RespondRequest struct {
	Response string              `json:"response" validate:"required"`
	Status   models.TicketStatus `json:"status" validate:"required,oneof=in-progress resolved"`
}
