package cli

import (
	"bufio"
	"context"
	"io"

	"github.com/dmitrijs2005/edulibrary/internal/client/client"
	"github.com/dmitrijs2005/edulibrary/internal/client/models"
	"github.com/dmitrijs2005/edulibrary/internal/client/services"
	"github.com/dmitrijs2005/edulibrary/internal/client/view"
	"github.com/dmitrijs2005/edulibrary/internal/logging"
)

// Controller is the action surface the terminal drives. controller.Controller
// satisfies it.
type Controller interface {
	Start(ctx context.Context, inviteURL string) error
	Login(ctx context.Context, identifier, password string) error
	Register(ctx context.Context, req client.RegisterRequest) error
	SwitchAuthTab(tab view.AuthTab)
	Logout(ctx context.Context) error
	Navigate(ctx context.Context, name string) error
	Refresh(ctx context.Context) error

	SelectCategory(name string)
	Search(query string)
	Upload(ctx context.Context, batch services.UploadBatch, progress services.ProgressFunc) (services.UploadReport, error)
	Delete(ctx context.Context, id int64, confirm services.ConfirmFunc) error
	Download(ctx context.Context, id int64) (string, error)
	Preview(id int64) (string, error)

	ToggleFeatured(ctx context.Context, id int64) error
	ToggleUserStatus(ctx context.Context, id int64) error
	SwitchAdminTab(ctx context.Context, name string) error
	RespondTicket(ctx context.Context, id int64, response string, status models.TicketStatus) error

	SubmitTicket(ctx context.Context, req client.TicketRequest) error
	SendInvite(ctx context.Context, req client.InviteRequest) (*client.InviteResult, error)
	CopyInviteLink() error

	ExportData(ctx context.Context) (string, error)
	SetTheme(ctx context.Context, theme string) error
	SetGridSize(ctx context.Context, size string) error

	Screen() view.Screen
}

// StatsDumper writes the client's request metrics. metrics.Recorder
// satisfies it.
type StatsDumper interface {
	Dump(w io.Writer) error
}

type App struct {
	ctrl  Controller
	in    *bufio.Reader
	out   io.Writer
	pres  *Presenter
	stats StatsDumper
	log   logging.Logger
}

type Option func(*App)

func WithStats(s StatsDumper) Option {
	return func(a *App) { a.stats = s }
}

// WithWidth sets the terminal width used to lay out the card grid.
func WithWidth(cols int) Option {
	return func(a *App) { a.pres = NewPresenter(cols) }
}

func WithLogger(l logging.Logger) Option {
	return func(a *App) { a.log = l }
}

func NewApp(ctrl Controller, in io.Reader, out io.Writer, opts ...Option) *App {
	a := &App{
		ctrl: ctrl,
		in:   bufio.NewReader(in),
		out:  out,
		pres: NewPresenter(0),
		log:  logging.Discard(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Run starts the controller, draws the first screen and serves commands
// until the user quits or input ends.
func (a *App) Run(ctx context.Context, inviteURL string) error {
	if err := a.ctrl.Start(ctx, inviteURL); err != nil {
		return err
	}
	a.render()
	runREPL(ctx, a, a.prompt, a.in)
	return nil
}

func (a *App) render() {
	io.WriteString(a.out, a.pres.Render(a.ctrl.Screen()))
}

func (a *App) prompt() string {
	sc := a.ctrl.Screen()
	if sc.Header == nil {
		return "edulib> "
	}
	return "edulib (" + sc.Header.Username + ")> "
}

func (a *App) loggedIn() bool {
	return a.ctrl.Screen().Header != nil
}
