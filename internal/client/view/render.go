package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/edulibrary/internal/client/catalog"
	"github.com/dmitrijs2005/edulibrary/internal/client/models"
)

var sectionLabels = map[Section]string{
	SectionBrowse:  "Browse",
	SectionUpload:  "Upload",
	SectionSearch:  "Search",
	SectionInvite:  "Invite",
	SectionSupport: "Support",
	SectionAdmin:   "Admin",
}

var adminTabLabels = map[AdminTab]string{
	TabUsers:     "Users",
	TabFiles:     "Files",
	TabSupport:   "Support",
	TabAnalytics: "Analytics",
}

// Render maps s to a Screen. It has no side effects; the same state always
// yields the same screen.
func Render(s *State) Screen {
	cols, err := models.GridColumns(s.Settings.GridSize)
	if err != nil {
		cols = 0
	}
	sc := Screen{
		Section: s.Section,
		Theme:   s.Settings.Theme,
		Columns: cols,
		Status:  append([]Status(nil), s.Status...),
	}

	if s.Section == SectionAuth || s.Session == nil {
		sc.Section = SectionAuth
		sc.Auth = renderAuth(s)
		return sc
	}

	sc.Header = &Header{
		Username:  s.Session.Username,
		Uploads:   s.Session.UploadCount,
		Downloads: s.Session.DownloadCount,
		Admin:     s.Session.IsAdmin(),
	}
	for _, sec := range Sections {
		if sec == SectionAdmin && !s.Session.IsAdmin() {
			continue
		}
		sc.Nav = append(sc.Nav, NavItem{Key: string(sec), Label: sectionLabels[sec], Active: sec == s.Section})
	}

	switch s.Section {
	case SectionBrowse:
		sc.Browse = renderBrowse(s)
	case SectionSearch:
		sc.Search = renderSearch(s)
	case SectionUpload:
		up := &UploadView{Categories: cleanAll(s.Catalog.Categories)}
		if s.Upload.Total > 0 {
			p := s.Upload
			up.Progress = &p
		}
		sc.Upload = up
	case SectionInvite:
		sc.Invite = &InviteView{Link: s.InviteLink}
	case SectionSupport:
		sc.Support = renderSupport(s.Tickets)
	case SectionAdmin:
		if s.Session.IsAdmin() {
			sc.Admin = renderAdmin(s)
		}
	}
	return sc
}

func renderAuth(s *State) *AuthView {
	v := &AuthView{Tab: s.AuthTab}
	if s.Invite != nil {
		v.InviteCode = s.Invite.Code
		v.InviteEmail = s.Invite.Email
	}
	return v
}

func renderBrowse(s *State) *GridView {
	active := s.Category
	if s.Mode == ModeSearch || active == "" {
		active = models.AllCategories
	}

	g := &GridView{}
	g.Chips = append(g.Chips, NavItem{Key: models.AllCategories, Label: "All", Active: active == models.AllCategories})
	for _, c := range s.Catalog.Categories {
		g.Chips = append(g.Chips, NavItem{Key: c, Label: clean(c), Active: active == c})
	}

	files := catalog.FilterByCategory(s.Catalog, active)
	g.Cards = cards(files, s.Session)
	if len(g.Cards) == 0 {
		g.Empty = &Empty{Title: "No files found", Hint: "Upload some PDFs to get started!"}
	}
	return g
}

func renderSearch(s *State) *GridView {
	g := &GridView{Query: s.Query}
	if s.Mode != ModeSearch {
		g.Prompt = searchPrompt()
		return g
	}
	res := catalog.Search(s.Catalog, s.Query)
	if res.Prompt {
		g.Prompt = searchPrompt()
		return g
	}
	g.Cards = cards(res.Files, s.Session)
	if len(g.Cards) == 0 {
		g.Empty = &Empty{Title: "No files found", Hint: "Try a different search term"}
	}
	return g
}

func searchPrompt() *Empty {
	return &Empty{Title: "Search PDFs", Hint: "Enter keywords to search through the library"}
}

func cards(files []models.File, sess *models.Session) []Card {
	out := make([]Card, 0, len(files))
	for _, f := range files {
		out = append(out, Card{
			ID:          f.ID,
			Title:       clean(f.OriginalName),
			Filename:    clean(f.Filename),
			Category:    clean(f.Category),
			Description: clean(f.Description),
			Tags:        cleanAll(f.Tags),
			Size:        FormatSize(f.SizeMB),
			Uploaded:    models.FormatDate(f.UploadDate),
			UploadedBy:  clean(f.UploadedBy),
			Downloads:   f.DownloadCount,
			Featured:    f.IsFeatured,
			CanDelete:   sess.CanDelete(f),
		})
	}
	return out
}

func renderSupport(tickets []models.Ticket) *SupportView {
	v := &SupportView{Tickets: ticketViews(tickets, false)}
	if len(v.Tickets) == 0 {
		v.Empty = "No support tickets yet."
	}
	return v
}

func ticketViews(tickets []models.Ticket, admin bool) []TicketView {
	out := make([]TicketView, 0, len(tickets))
	for _, t := range tickets {
		tv := TicketView{
			ID:          t.ID,
			Title:       clean(t.Title),
			Description: clean(t.Description),
			Status:      string(t.Status),
			Priority:    string(t.Priority),
			User:        clean(t.User),
			Created:     models.FormatDate(t.CreatedDate),
			Respondable: admin && !t.Resolved(),
		}
		if t.ResolvedDate != nil {
			tv.Resolved = models.FormatDate(*t.ResolvedDate)
		}
		if t.AdminResponse != nil {
			tv.Response = clean(*t.AdminResponse)
		}
		out = append(out, tv)
	}
	return out
}

func renderAdmin(s *State) *AdminView {
	tab := s.AdminTab
	if _, ok := adminTabLabels[tab]; !ok {
		tab = TabUsers
	}
	v := &AdminView{Tab: tab}
	for _, t := range AdminTabs {
		v.Tabs = append(v.Tabs, NavItem{Key: string(t), Label: adminTabLabels[t], Active: t == tab})
	}

	switch tab {
	case TabUsers:
		for _, u := range s.Users {
			row := UserRow{
				ID:        u.ID,
				Username:  clean(u.Username),
				Email:     clean(u.Email),
				Joined:    models.FormatDate(u.JoinDate),
				Uploads:   u.UploadsCount,
				Downloads: u.DownloadsCount,
				Admin:     u.IsAdmin,
				Active:    u.IsActive,
			}
			if !u.IsAdmin {
				row.Action = "Activate"
				if u.IsActive {
					row.Action = "Deactivate"
				}
			}
			v.Users = append(v.Users, row)
		}
	case TabFiles:
		for _, f := range s.Catalog.Files {
			row := AdminFileRow{
				ID:         f.ID,
				Title:      clean(f.OriginalName),
				Category:   clean(f.Category),
				Size:       FormatSize(f.SizeMB),
				Downloads:  f.DownloadCount,
				UploadedBy: clean(f.UploadedBy),
				Featured:   f.IsFeatured,
				Action:     "Feature",
			}
			if f.IsFeatured {
				row.Action = "Unfeature"
			}
			v.Files = append(v.Files, row)
		}
	case TabSupport:
		v.Tickets = ticketViews(s.AdminTickets, true)
	case TabAnalytics:
		v.Analytics = renderAnalytics(s.Analytics)
	}
	return v
}

func renderAnalytics(a *models.Analytics) *AnalyticsView {
	if a == nil {
		return nil
	}
	v := &AnalyticsView{
		Stats: []Stat{
			{Label: "Total Users", Value: a.Stats.TotalUsers},
			{Label: "Active Users", Value: a.Stats.ActiveUsers},
			{Label: "Total Files", Value: a.Stats.TotalFiles},
			{Label: "Total Downloads", Value: a.Stats.TotalDownloads},
		},
	}
	for _, c := range a.Categories {
		v.Categories = append(v.Categories, fmt.Sprintf("%s: %d files", clean(c.Category), c.Count))
	}
	for _, f := range a.RecentUploads {
		v.Recent = append(v.Recent, fmt.Sprintf("%s by %s (%s)", clean(f.OriginalName), clean(f.UploadedBy), models.FormatDate(f.UploadDate)))
	}
	return v
}

// FormatSize renders a size in megabytes the way the server reports it.
func FormatSize(mb float64) string {
	return strconv.FormatFloat(mb, 'f', -1, 64) + "MB"
}

func cleanAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if c := clean(s); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Title returns the human label of a section.
func Title(sec Section) string {
	if l, ok := sectionLabels[sec]; ok {
		return l
	}
	if sec == "" {
		return ""
	}
	return strings.ToUpper(string(sec[:1])) + string(sec[1:])
}
