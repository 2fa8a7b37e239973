package view

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/edulibrary/internal/client/models"
	"github.com/dmitrijs2005/edulibrary/internal/logging"
)

type Section string

const (
	SectionAuth    Section = "auth"
	SectionBrowse  Section = "browse"
	SectionUpload  Section = "upload"
	SectionSearch  Section = "search"
	SectionInvite  Section = "invite"
	SectionSupport Section = "support"
	SectionAdmin   Section = "admin"
)

// Sections lists the navigable sections in menu order.
var Sections = []Section{SectionBrowse, SectionUpload, SectionSearch, SectionInvite, SectionSupport, SectionAdmin}

var (
	ErrUnknownSection   = errors.New("unknown section")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrAdminSection     = errors.New("admin section requires an admin session")
)

func ParseSection(s string) (Section, error) {
	for _, sec := range Sections {
		if string(sec) == s {
			return sec, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSection, s)
}

// EntryFunc refreshes the data a section shows.
type EntryFunc func(ctx context.Context) error

// SessionSource exposes the current session; services.SessionGate satisfies it.
type SessionSource interface {
	Current() *models.Session
}

// Router maps a section to what is visible and runs that section's entry
// handler. Transitions happen only through Navigate, Enter and ShowAuth.
type Router struct {
	session SessionSource
	log     logging.Logger

	mu       sync.Mutex
	current  Section
	handlers map[Section]EntryFunc
	onChange func(Section)
}

func NewRouter(session SessionSource, log logging.Logger) *Router {
	return &Router{
		session:  session,
		log:      log,
		current:  SectionAuth,
		handlers: make(map[Section]EntryFunc),
	}
}

// Handle registers the entry handler of sec, replacing any previous one.
func (r *Router) Handle(sec Section, fn EntryFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[sec] = fn
}

// OnChange registers a callback invoked with the new section after every transition.
func (r *Router) OnChange(fn func(Section)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

func (r *Router) Current() Section {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Navigate moves to sec on explicit user request. Without a session the
// router stays in the auth state; the admin section requires an admin
// session. The entry handler's error is returned, but the section is
// entered regardless.
func (r *Router) Navigate(ctx context.Context, sec Section) error {
	if _, err := ParseSection(string(sec)); err != nil {
		return err
	}
	sess := r.session.Current()
	if sess == nil {
		r.ShowAuth()
		return ErrNotAuthenticated
	}
	if sec == SectionAdmin && !sess.IsAdmin() {
		return ErrAdminSection
	}
	return r.enter(ctx, sec)
}

// Refresh reruns the entry handler of the current section.
func (r *Router) Refresh(ctx context.Context) error {
	sec := r.Current()
	if sec == SectionAuth {
		return nil
	}
	return r.enter(ctx, sec)
}

// ShowAuth enters the auth state, hiding every other section.
func (r *Router) ShowAuth() {
	r.mu.Lock()
	r.current = SectionAuth
	fn := r.onChange
	r.mu.Unlock()
	if fn != nil {
		fn(SectionAuth)
	}
}

func (r *Router) enter(ctx context.Context, sec Section) error {
	r.mu.Lock()
	r.current = sec
	handler := r.handlers[sec]
	fn := r.onChange
	r.mu.Unlock()

	if fn != nil {
		fn(sec)
	}
	if handler == nil {
		return nil
	}
	if err := handler(ctx); err != nil {
		r.log.Warn(ctx, "section refresh failed", "section", string(sec), logging.Err(err))
		return fmt.Errorf("enter %s: %w", sec, err)
	}
	return nil
}
