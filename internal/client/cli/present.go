package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/dmitrijs2005/edulibrary/internal/client/view"
)

const (
	cardWidth   = 34
	defaultCols = 80
)

type palette struct {
	accent   lipgloss.Color
	muted    lipgloss.Color
	success  lipgloss.Color
	failure  lipgloss.Color
	featured lipgloss.Color
	border   lipgloss.Color
}

var palettes = map[string]palette{
	"light": {
		accent:   lipgloss.Color("#4f46e5"),
		muted:    lipgloss.Color("#6b7280"),
		success:  lipgloss.Color("#15803d"),
		failure:  lipgloss.Color("#b91c1c"),
		featured: lipgloss.Color("#b45309"),
		border:   lipgloss.Color("#d1d5db"),
	},
	"dark": {
		accent:   lipgloss.Color("#a5b4fc"),
		muted:    lipgloss.Color("#9ca3af"),
		success:  lipgloss.Color("#4ade80"),
		failure:  lipgloss.Color("#f87171"),
		featured: lipgloss.Color("#fbbf24"),
		border:   lipgloss.Color("#4b5563"),
	},
}

// Presenter draws a view.Screen for the terminal.
type Presenter struct {
	width int
}

// NewPresenter creates a presenter for a terminal width columns wide.
// A non-positive width means 80.
func NewPresenter(width int) *Presenter {
	if width <= 0 {
		width = defaultCols
	}
	return &Presenter{width: width}
}

// columns resolves the grid density: the user's choice, or as many cards as
// fit the terminal.
func (p *Presenter) columns(want int) int {
	if want > 0 {
		return want
	}
	n := p.width / (cardWidth + 2)
	if n < 1 {
		n = 1
	}
	return n
}

type painter struct {
	pal palette
}

func (s painter) accent(str string) string {
	return lipgloss.NewStyle().Foreground(s.pal.accent).Bold(true).Render(str)
}

func (s painter) muted(str string) string {
	return lipgloss.NewStyle().Foreground(s.pal.muted).Render(str)
}

func (p *Presenter) Render(sc view.Screen) string {
	pal, ok := palettes[sc.Theme]
	if !ok {
		pal = palettes["light"]
	}
	s := painter{pal: pal}

	var b strings.Builder
	b.WriteString(s.accent("EduLibrary"))
	if sc.Header != nil {
		role := "member"
		if sc.Header.Admin {
			role = "admin"
		}
		b.WriteString(s.muted(fmt.Sprintf("  %s (%s) · %d uploads · %d downloads",
			sc.Header.Username, role, sc.Header.Uploads, sc.Header.Downloads)))
	}
	b.WriteString("\n")

	if len(sc.Nav) > 0 {
		b.WriteString(renderTabs(s, sc.Nav))
		b.WriteString("\n")
	}
	for _, st := range sc.Status {
		b.WriteString(renderStatus(s, st))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case sc.Auth != nil:
		b.WriteString(renderAuth(s, sc.Auth))
	case sc.Browse != nil:
		b.WriteString(p.renderGrid(s, sc.Browse, sc.Columns))
	case sc.Search != nil:
		b.WriteString(p.renderGrid(s, sc.Search, sc.Columns))
	case sc.Upload != nil:
		b.WriteString(renderUpload(s, sc.Upload))
	case sc.Invite != nil:
		b.WriteString(renderInvite(s, sc.Invite))
	case sc.Support != nil:
		b.WriteString(renderSupport(s, sc.Support))
	case sc.Admin != nil:
		b.WriteString(renderAdmin(s, sc.Admin))
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// renderTabs marks the active item with brackets.
func renderTabs(s painter, items []view.NavItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		if it.Active {
			parts = append(parts, s.accent("["+it.Label+"]"))
		} else {
			parts = append(parts, s.muted(it.Label))
		}
	}
	return strings.Join(parts, " ")
}

func renderStatus(s painter, st view.Status) string {
	switch st.Kind {
	case view.KindSuccess:
		return lipgloss.NewStyle().Foreground(s.pal.success).Render("✓ " + st.Text)
	case view.KindError:
		return lipgloss.NewStyle().Foreground(s.pal.failure).Render("✗ " + st.Text)
	}
	return s.muted("• " + st.Text)
}

func renderAuth(s painter, v *view.AuthView) string {
	tabs := []view.NavItem{
		{Key: string(view.AuthLogin), Label: "Login", Active: v.Tab == view.AuthLogin},
		{Key: string(view.AuthRegister), Label: "Register", Active: v.Tab == view.AuthRegister},
	}
	var b strings.Builder
	b.WriteString(renderTabs(s, tabs) + "\n")
	if v.InviteEmail != "" {
		b.WriteString(fmt.Sprintf("Invitation for %s\n", v.InviteEmail))
	}
	b.WriteString(s.muted("Type 'login' or 'register' to continue, 'help' for all commands."))
	return b.String()
}

func renderEmpty(s painter, e *view.Empty) string {
	return s.accent(e.Title) + "\n" + s.muted(e.Hint)
}

func (p *Presenter) renderGrid(s painter, g *view.GridView, cols int) string {
	var b strings.Builder
	if len(g.Chips) > 0 {
		b.WriteString("Categories: " + renderTabs(s, g.Chips) + "\n\n")
	}
	if g.Query != "" {
		b.WriteString(s.muted("Search: "+g.Query) + "\n\n")
	}
	switch {
	case g.Prompt != nil:
		b.WriteString(renderEmpty(s, g.Prompt))
		return b.String()
	case g.Empty != nil:
		b.WriteString(renderEmpty(s, g.Empty))
		return b.String()
	}

	n := p.columns(cols)
	for i := 0; i < len(g.Cards); i += n {
		end := i + n
		if end > len(g.Cards) {
			end = len(g.Cards)
		}
		row := make([]string, 0, end-i)
		for _, c := range g.Cards[i:end] {
			row = append(row, renderCard(s, c))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
		b.WriteString("\n")
	}
	return b.String()
}

func renderCard(s painter, c view.Card) string {
	lines := []string{s.accent(c.Title)}
	if c.Featured {
		lines = append(lines, lipgloss.NewStyle().Foreground(s.pal.featured).Render("★ Featured"))
	}
	lines = append(lines, c.Category)
	if c.Description != "" {
		lines = append(lines, c.Description)
	}
	if len(c.Tags) > 0 {
		tags := make([]string, len(c.Tags))
		for i, t := range c.Tags {
			tags[i] = "#" + t
		}
		lines = append(lines, s.muted(strings.Join(tags, " ")))
	}
	lines = append(lines,
		s.muted(fmt.Sprintf("id %d · %s · %s", c.ID, c.Size, c.Uploaded)),
		s.muted(fmt.Sprintf("by %s · %d downloads", c.UploadedBy, c.Downloads)),
	)
	if c.CanDelete {
		lines = append(lines, s.muted("delete "+fmt.Sprint(c.ID)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.pal.border).
		Padding(0, 1).
		Width(cardWidth).
		Render(strings.Join(lines, "\n"))
}

func renderUpload(s painter, v *view.UploadView) string {
	var b strings.Builder
	b.WriteString(s.accent("Upload PDFs") + "\n")
	b.WriteString("Categories: " + strings.Join(v.Categories, ", ") + "\n")
	if v.Progress != nil {
		b.WriteString(progressLine(v.Progress.Done, v.Progress.Total) + "\n")
	}
	b.WriteString(s.muted("Type 'upload' to choose files."))
	return b.String()
}

// progressLine draws a static bar for done/total.
func progressLine(done, total int) string {
	bar := progress.New(progress.WithWidth(30), progress.WithoutPercentage(), progress.WithSolidFill("#4f46e5"))
	frac := view.Progress{Done: done, Total: total}.Fraction()
	return fmt.Sprintf("%s %d/%d", bar.ViewAs(frac), done, total)
}

func renderInvite(s painter, v *view.InviteView) string {
	return s.accent("Invite friends") + "\n" +
		"Your invite link: " + v.Link + "\n" +
		s.muted("Type 'copy-link' to copy it or 'send-invite' to email an invitation.")
}

func renderTickets(s painter, tickets []view.TicketView, withUser bool) string {
	var b strings.Builder
	for _, t := range tickets {
		head := fmt.Sprintf("#%d %s [%s, %s]", t.ID, t.Title, t.Status, t.Priority)
		b.WriteString(s.accent(head) + "\n")
		meta := "Created " + t.Created
		if withUser {
			meta = "By " + t.User + " · " + meta
		}
		if t.Resolved != "" {
			meta += " · Resolved " + t.Resolved
		}
		b.WriteString(s.muted(meta) + "\n")
		b.WriteString(t.Description + "\n")
		if t.Response != "" {
			b.WriteString("Admin response: " + t.Response + "\n")
		}
		if t.Respondable {
			b.WriteString(s.muted(fmt.Sprintf("respond %d", t.ID)) + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderSupport(s painter, v *view.SupportView) string {
	var b strings.Builder
	b.WriteString(s.accent("Support") + "\n")
	b.WriteString(s.muted("Type 'ticket' to open a new support ticket.") + "\n\n")
	if v.Empty != "" {
		b.WriteString(v.Empty)
		return b.String()
	}
	b.WriteString(renderTickets(s, v.Tickets, false))
	return b.String()
}

func renderAdmin(s painter, v *view.AdminView) string {
	var b strings.Builder
	b.WriteString(renderTabs(s, v.Tabs) + "\n\n")

	switch v.Tab {
	case view.TabUsers:
		for _, u := range v.Users {
			state := "inactive"
			if u.Active {
				state = "active"
			}
			line := fmt.Sprintf("%-4d %-16s %-28s %-8s up %d · down %d · joined %s", u.ID, u.Username, u.Email, state, u.Uploads, u.Downloads, u.Joined)
			if u.Admin {
				line += " " + s.accent("admin")
			} else {
				line += " " + s.muted(fmt.Sprintf("[%s: toggle-user %d]", u.Action, u.ID))
			}
			b.WriteString(line + "\n")
		}
	case view.TabFiles:
		for _, f := range v.Files {
			star := " "
			if f.Featured {
				star = "★"
			}
			b.WriteString(fmt.Sprintf("%s %-4d %-30s %-12s %-8s %3d downloads by %s %s\n",
				star, f.ID, f.Title, f.Category, f.Size, f.Downloads, f.UploadedBy,
				s.muted(fmt.Sprintf("[%s: feature %d]", f.Action, f.ID))))
		}
	case view.TabSupport:
		b.WriteString(renderTickets(s, v.Tickets, true))
	case view.TabAnalytics:
		if v.Analytics == nil {
			break
		}
		for _, st := range v.Analytics.Stats {
			b.WriteString(fmt.Sprintf("%-16s %d\n", st.Label, st.Value))
		}
		b.WriteString("\n" + s.accent("Categories") + "\n")
		for _, c := range v.Analytics.Categories {
			b.WriteString("  " + c + "\n")
		}
		b.WriteString("\n" + s.accent("Recent uploads") + "\n")
		for _, r := range v.Analytics.Recent {
			b.WriteString("  " + r + "\n")
		}
	}
	return b.String()
}
