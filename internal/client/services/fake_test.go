package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/edulibrary/internal/client/catalog"
	"github.com/dmitrijs2005/edulibrary/internal/client/client"
	"github.com/dmitrijs2005/edulibrary/internal/client/models"
	"github.com/dmitrijs2005/edulibrary/internal/logging"
)

var errNetwork = fmt.Errorf("dial: %w", client.ErrUnavailable)

// fakeClient implements client.Client for service tests.
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	user    *models.User
	infoErr error

	loginUser *models.User
	loginErr  error
	lastLogin client.LoginRequest

	registerErr  error
	lastRegister client.RegisterRequest

	logoutErr error

	listing  *models.Listing
	listErr  error
	listRuns int

	// uploadErrs is consumed per upload call; missing entries mean success.
	uploadErrs []error
	uploads    []client.UploadRequest
	uploadBody []string

	deleteErr   error
	downloadErr error
	downloadFn  func(id int64, w io.Writer) (string, error)

	inviteRes  *client.InviteResult
	inviteErr  error
	lastInvite client.InviteRequest

	tickets     []models.Ticket
	ticketsErr  error
	createErr   error
	lastTicket  client.TicketRequest
	respondErr  error
	lastRespond client.RespondRequest

	users     []models.User
	usersErr  error
	toggleErr error

	analytics *models.Analytics
}

func (f *fakeClient) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeClient) BaseURL() string { return "http://lib.test" }

func (f *fakeClient) SessionInfo(context.Context) (*models.User, error) {
	f.record("user-info")
	return f.user, f.infoErr
}

func (f *fakeClient) Login(_ context.Context, req client.LoginRequest) (*models.User, error) {
	f.record("login")
	f.lastLogin = req
	return f.loginUser, f.loginErr
}

func (f *fakeClient) Register(_ context.Context, req client.RegisterRequest) error {
	f.record("register")
	f.lastRegister = req
	return f.registerErr
}

func (f *fakeClient) Logout(context.Context) error {
	f.record("logout")
	return f.logoutErr
}

func (f *fakeClient) ListFiles(context.Context) (*models.Listing, error) {
	f.record("files")
	f.listRuns++
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.listing == nil {
		return &models.Listing{}, nil
	}
	return f.listing, nil
}

func (f *fakeClient) Upload(_ context.Context, req client.UploadRequest) error {
	f.record("upload")
	body, _ := io.ReadAll(req.Content)
	f.uploads = append(f.uploads, req)
	f.uploadBody = append(f.uploadBody, string(body))
	i := len(f.uploads) - 1
	if i < len(f.uploadErrs) {
		return f.uploadErrs[i]
	}
	return nil
}

func (f *fakeClient) Delete(_ context.Context, id int64) error {
	f.record(fmt.Sprintf("delete %d", id))
	return f.deleteErr
}

func (f *fakeClient) Download(_ context.Context, id int64, w io.Writer) (string, error) {
	f.record(fmt.Sprintf("download %d", id))
	if f.downloadErr != nil {
		return "", f.downloadErr
	}
	if f.downloadFn != nil {
		return f.downloadFn(id, w)
	}
	_, _ = io.WriteString(w, "%PDF")
	return fmt.Sprintf("file-%d.pdf", id), nil
}

func (f *fakeClient) PreviewURL(id int64) string {
	return fmt.Sprintf("http://lib.test/preview/%d", id)
}

func (f *fakeClient) SendInvite(_ context.Context, req client.InviteRequest) (*client.InviteResult, error) {
	f.record("send-invite")
	f.lastInvite = req
	return f.inviteRes, f.inviteErr
}

func (f *fakeClient) ListTickets(context.Context) ([]models.Ticket, error) {
	f.record("tickets")
	return f.tickets, f.ticketsErr
}

func (f *fakeClient) CreateTicket(_ context.Context, req client.TicketRequest) error {
	f.record("create-ticket")
	f.lastTicket = req
	return f.createErr
}

func (f *fakeClient) RespondTicket(_ context.Context, id int64, req client.RespondRequest) error {
	f.record(fmt.Sprintf("respond %d", id))
	f.lastRespond = req
	return f.respondErr
}

func (f *fakeClient) ListUsers(context.Context) ([]models.User, error) {
	f.record("users")
	return f.users, f.usersErr
}

func (f *fakeClient) ToggleUserStatus(_ context.Context, id int64) error {
	f.record(fmt.Sprintf("toggle-user %d", id))
	return f.toggleErr
}

func (f *fakeClient) ToggleFeatured(_ context.Context, id int64) error {
	f.record(fmt.Sprintf("toggle-featured %d", id))
	return f.toggleErr
}

func (f *fakeClient) Analytics(context.Context) (*models.Analytics, error) {
	f.record("analytics")
	if f.analytics == nil {
		return nil, errors.New("no analytics")
	}
	return f.analytics, nil
}

// signedIn returns a gate already holding a session for u.
func signedIn(t *testing.T, fc *fakeClient, u models.User) SessionGate {
	t.Helper()
	fc.user = &u
	g := NewSessionGate(fc, logging.Discard())
	_, err := g.Probe(context.Background())
	require.NoError(t, err)
	fc.calls = nil
	return g
}

func newCatalog(fc *fakeClient) *catalog.Store {
	return catalog.NewStore(fc, logging.Discard())
}

type fakeRepo struct {
	data    map[string]string
	setErr  error
	listErr error
	many    int
}

func newFakeRepo() *fakeRepo { return &fakeRepo{data: map[string]string{}} }

func (r *fakeRepo) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := r.data[key]
	return v, ok, nil
}

func (r *fakeRepo) Set(_ context.Context, key, value string) error {
	if r.setErr != nil {
		return r.setErr
	}
	r.data[key] = value
	return nil
}

func (r *fakeRepo) SetMany(_ context.Context, values map[string]string) error {
	if r.setErr != nil {
		return r.setErr
	}
	r.many++
	for k, v := range values {
		r.data[k] = v
	}
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, key string) error {
	delete(r.data, key)
	return nil
}

func (r *fakeRepo) List(context.Context) (map[string]string, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make(map[string]string, len(r.data))
	for k, v := range r.data {
		out[k] = v
	}
	return out, nil
}
