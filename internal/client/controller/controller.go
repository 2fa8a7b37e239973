// Package controller owns the client's application state. It is the only
// writer of view state: user actions come in as method calls, are dispatched
// to the services, and their outcomes are reflected in the state that
// Screen renders.
package controller

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/edulibrary/internal/client/catalog"
	"github.com/dmitrijs2005/edulibrary/internal/client/client"
	"github.com/dmitrijs2005/edulibrary/internal/client/models"
	"github.com/dmitrijs2005/edulibrary/internal/client/repositories/settings"
	"github.com/dmitrijs2005/edulibrary/internal/client/services"
	"github.com/dmitrijs2005/edulibrary/internal/client/view"
	"github.com/dmitrijs2005/edulibrary/internal/logging"
)

// Deps are the collaborators of a Controller.
type Deps struct {
	Client   client.Client
	Catalog  *catalog.Store
	Session  services.SessionGate
	Settings services.SettingsStore
	Uploads  services.UploadService
	Files    services.FileService
	Admin    services.AdminService
	Support  services.SupportService
	Invites  services.InviteService
	Board    *view.Board
	Log      logging.Logger
}

// Wire builds the default service graph around c and repo.
func Wire(c client.Client, repo settings.Repository, board *view.Board, observer services.UploadObserver, downloadDir string, log logging.Logger) Deps {
	cat := catalog.NewStore(c, log.With("component", "catalog"))
	gate := services.NewSessionGate(c, log.With("component", "session"))
	return Deps{
		Client:   c,
		Catalog:  cat,
		Session:  gate,
		Settings: services.NewSettingsStore(repo, log.With("component", "settings")),
		Uploads:  services.NewUploadService(c, cat, gate, observer, log.With("component", "upload")),
		Files:    services.NewFileService(c, cat, gate, downloadDir, log.With("component", "files")),
		Admin:    services.NewAdminService(c, cat, gate, log.With("component", "admin")),
		Support:  services.NewSupportService(c, gate, log.With("component", "support")),
		Invites:  services.NewInviteService(c, gate),
		Board:    board,
		Log:      log,
	}
}

type Controller struct {
	d      Deps
	router *view.Router

	mu    sync.Mutex
	state *view.State
}

func New(d Deps) *Controller {
	c := &Controller{d: d, state: view.NewState()}
	c.router = view.NewRouter(d.Session, d.Log)
	c.router.OnChange(func(sec view.Section) {
		c.mu.Lock()
		c.state.Section = sec
		c.mu.Unlock()
	})

	c.router.Handle(view.SectionBrowse, c.enterBrowse)
	c.router.Handle(view.SectionUpload, c.ensureCatalog)
	c.router.Handle(view.SectionSearch, c.ensureCatalog)
	c.router.Handle(view.SectionInvite, c.enterInvite)
	c.router.Handle(view.SectionSupport, c.enterSupport)
	c.router.Handle(view.SectionAdmin, c.enterAdmin)
	return c
}

// Start restores settings, pre-fills an invitation if inviteURL carries one,
// and probes the session. An authenticated session enters browse; anything
// else, including a failed probe, shows the auth screen.
func (c *Controller) Start(ctx context.Context, inviteURL string) error {
	st, err := c.d.Settings.Load(ctx)
	if err != nil {
		c.d.Log.Warn(ctx, "settings not restored", logging.Err(err))
	}
	c.update(func(s *view.State) { s.Settings = st })

	if code, email, ok := services.ParseInvite(inviteURL); ok {
		c.update(func(s *view.State) {
			s.Invite = &view.Invitation{Code: code, Email: email}
			s.AuthTab = view.AuthRegister
		})
		c.d.Board.Success(view.PanelAuth, "Please complete your registration using the invitation.")
	}

	sess, err := c.d.Session.Probe(ctx)
	if err != nil || sess == nil {
		c.router.ShowAuth()
		return nil
	}
	return c.enterMain(ctx)
}

func (c *Controller) Login(ctx context.Context, identifier, password string) error {
	if _, err := c.d.Session.Login(ctx, identifier, password); err != nil {
		c.d.Board.Error(view.PanelAuth, services.UserMessage(err, "Login failed. Please try again."))
		return err
	}
	c.d.Board.Success(view.PanelAuth, "Login successful!")
	return c.enterMain(ctx)
}

// Register creates an account. The pending invitation code is used when the
// request carries none.
func (c *Controller) Register(ctx context.Context, req client.RegisterRequest) error {
	c.mu.Lock()
	if req.InviteCode == "" && c.state.Invite != nil {
		req.InviteCode = c.state.Invite.Code
	}
	c.mu.Unlock()

	if err := c.d.Session.Register(ctx, req); err != nil {
		c.d.Board.Error(view.PanelAuth, services.UserMessage(err, "Registration failed. Please try again."))
		return err
	}
	c.update(func(s *view.State) {
		s.AuthTab = view.AuthLogin
		s.Invite = nil
	})
	c.d.Board.Success(view.PanelAuth, "Registration successful! Please login.")
	return nil
}

func (c *Controller) SwitchAuthTab(tab view.AuthTab) {
	c.update(func(s *view.State) { s.AuthTab = tab })
}

// Logout ends the session and hides every section but auth.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.d.Session.Logout(ctx); err != nil {
		c.d.Log.Error(ctx, "logout failed", logging.Err(err))
		return err
	}
	c.update(func(s *view.State) { s.Reset() })
	c.d.Board.Clear()
	c.router.ShowAuth()
	return nil
}

// Navigate moves to a section by name.
func (c *Controller) Navigate(ctx context.Context, name string) error {
	sec, err := view.ParseSection(name)
	if err != nil {
		return err
	}
	err = c.router.Navigate(ctx, sec)
	switch {
	case errors.Is(err, view.ErrAdminSection):
		c.d.Board.Error(c.panel(), "Admin access required.")
	case errors.Is(err, view.ErrNotAuthenticated):
		c.update(func(s *view.State) { s.Reset() })
	}
	return err
}

func (c *Controller) Section() view.Section {
	return c.router.Current()
}

// Screen renders the current state.
func (c *Controller) Screen() view.Screen {
	snap := c.d.Catalog.Snapshot()
	sess := c.d.Session.Current()
	status := c.d.Board.Snapshot()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Catalog = snap
	c.state.Session = sess
	c.state.Status = status
	return view.Render(c.state)
}

func (c *Controller) enterMain(ctx context.Context) error {
	if link, err := c.d.Invites.Link(); err == nil {
		c.update(func(s *view.State) { s.InviteLink = link })
	}
	return c.router.Navigate(ctx, view.SectionBrowse)
}

func (c *Controller) enterBrowse(ctx context.Context) error {
	if err := c.d.Catalog.Refresh(ctx); err != nil {
		c.d.Board.Error(view.PanelBrowse, "Failed to load files.")
		return err
	}
	return nil
}

func (c *Controller) ensureCatalog(ctx context.Context) error {
	if c.d.Catalog.Loaded() {
		return nil
	}
	return c.d.Catalog.Refresh(ctx)
}

func (c *Controller) enterInvite(context.Context) error {
	link, err := c.d.Invites.Link()
	if err != nil {
		return err
	}
	c.update(func(s *view.State) { s.InviteLink = link })
	return nil
}

func (c *Controller) enterSupport(ctx context.Context) error {
	tickets, err := c.d.Support.Tickets(ctx)
	if err != nil {
		c.d.Board.Error(view.PanelSupport, services.UserMessage(err, "Failed to load tickets."))
		return err
	}
	c.update(func(s *view.State) { s.Tickets = tickets })
	return nil
}

func (c *Controller) enterAdmin(ctx context.Context) error {
	c.mu.Lock()
	tab := c.state.AdminTab
	c.mu.Unlock()
	return c.loadAdminTab(ctx, tab)
}

func (c *Controller) update(fn func(s *view.State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.state)
}

// panel maps the current section to the status panel of its actions.
func (c *Controller) panel() view.Panel {
	switch c.router.Current() {
	case view.SectionAuth:
		return view.PanelAuth
	case view.SectionUpload:
		return view.PanelUpload
	case view.SectionInvite:
		return view.PanelInvite
	case view.SectionSupport:
		return view.PanelSupport
	case view.SectionAdmin:
		return view.PanelAdmin
	}
	return view.PanelBrowse
}

func (c *Controller) session() *models.Session {
	return c.d.Session.Current()
}
