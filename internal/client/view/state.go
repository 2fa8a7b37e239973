package view

import (
	"github.com/dmitrijs2005/edulibrary/internal/client/catalog"
	"github.com/dmitrijs2005/edulibrary/internal/client/models"
)

// Mode selects how the visible file subset is derived.
type Mode int

const (
	ModeCategory Mode = iota
	ModeSearch
)

type AdminTab string

const (
	TabUsers     AdminTab = "users"
	TabFiles     AdminTab = "files"
	TabSupport   AdminTab = "support"
	TabAnalytics AdminTab = "analytics"
)

var AdminTabs = []AdminTab{TabUsers, TabFiles, TabSupport, TabAnalytics}

func ParseAdminTab(s string) (AdminTab, bool) {
	for _, t := range AdminTabs {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

type AuthTab string

const (
	AuthLogin    AuthTab = "login"
	AuthRegister AuthTab = "register"
)

// Invitation pre-fills the registration form.
type Invitation struct {
	Code  string
	Email string
}

// Progress of the running upload batch. Zero Total means none.
type Progress struct {
	Done  int
	Total int
}

func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Done) / float64(p.Total)
}

// State is everything the render function needs. It is owned and mutated by
// a single controller.
type State struct {
	Section  Section
	AuthTab  AuthTab
	Invite   *Invitation
	Session  *models.Session
	Settings models.Settings

	Catalog  catalog.Catalog
	Mode     Mode
	Category string
	Query    string

	Tickets      []models.Ticket
	AdminTab     AdminTab
	Users        []models.User
	AdminTickets []models.Ticket
	Analytics    *models.Analytics

	InviteLink string
	Upload     Progress
	Status     []Status
}

func NewState() *State {
	return &State{
		Section:  SectionAuth,
		AuthTab:  AuthLogin,
		Settings: models.DefaultSettings(),
		Category: models.AllCategories,
		AdminTab: TabUsers,
	}
}

// SelectCategory switches to category mode and drops any search query.
func (s *State) SelectCategory(name string) {
	if name == "" {
		name = models.AllCategories
	}
	s.Mode = ModeCategory
	s.Category = name
	s.Query = ""
}

// SetQuery switches to search mode and drops the category selection.
func (s *State) SetQuery(q string) {
	s.Mode = ModeSearch
	s.Query = q
	s.Category = models.AllCategories
}

// Reset clears everything tied to a session. Settings survive.
func (s *State) Reset() {
	settings := s.Settings
	*s = *NewState()
	s.Settings = settings
}

// Visible derives the file subset shown by the current mode.
func (s *State) Visible() catalog.Result {
	if s.Mode == ModeSearch {
		return catalog.Search(s.Catalog, s.Query)
	}
	return catalog.Result{Files: catalog.FilterByCategory(s.Catalog, s.Category)}
}
