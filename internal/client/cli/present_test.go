package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/edulibrary/internal/client/view"
)

func TestPresenter_Columns(t *testing.T) {
	p := NewPresenter(0)
	assert.Equal(t, 2, p.columns(0))
	assert.Equal(t, 4, p.columns(4))
	assert.Equal(t, 1, NewPresenter(20).columns(0))
	assert.Equal(t, 4, NewPresenter(150).columns(0))
}

func TestPresenter_RenderBrowse(t *testing.T) {
	sc := view.Screen{
		Section: view.SectionBrowse,
		Theme:   "dark",
		Header:  &view.Header{Username: "alice", Uploads: 2, Downloads: 5},
		Nav: []view.NavItem{
			{Key: "browse", Label: "Browse", Active: true},
			{Key: "upload", Label: "Upload"},
		},
		Status: []view.Status{{Panel: view.PanelBrowse, Kind: view.KindSuccess, Text: "File deleted."}},
		Browse: &view.GridView{
			Chips: []view.NavItem{{Label: "All", Active: true}, {Label: "Mathematics"}},
			Cards: []view.Card{
				{ID: 1, Title: "Calculus", Category: "Mathematics", Tags: []string{"calc"}, Size: "1.5 MB", Featured: true, CanDelete: true},
				{ID: 2, Title: "Graphs", Category: "Computer Science", Size: "0.2 MB"},
			},
		},
	}

	out := NewPresenter(100).Render(sc)
	for _, want := range []string{"EduLibrary", "alice (member)", "[Browse]", "File deleted.", "[All]", "Calculus", "★ Featured", "#calc", "Graphs", "delete 1"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "delete 2")
}

func TestPresenter_RenderEmptyStates(t *testing.T) {
	p := NewPresenter(80)

	out := p.Render(view.Screen{Search: &view.GridView{Prompt: &view.Empty{Title: "Search the library", Hint: "Type to search"}}})
	assert.Contains(t, out, "Search the library")

	out = p.Render(view.Screen{Browse: &view.GridView{Empty: &view.Empty{Title: "No files found", Hint: "Be the first"}}})
	assert.Contains(t, out, "No files found")
	assert.Contains(t, out, "Be the first")
}

func TestPresenter_RenderAdminUsers(t *testing.T) {
	sc := view.Screen{Admin: &view.AdminView{
		Tab:  view.TabUsers,
		Tabs: []view.NavItem{{Label: "Users", Active: true}, {Label: "Files"}},
		Users: []view.UserRow{
			{ID: 1, Username: "admin", Admin: true, Active: true},
			{ID: 2, Username: "bob", Active: true, Action: "Deactivate"},
		},
	}}

	out := NewPresenter(120).Render(sc)
	assert.Contains(t, out, "[Users]")
	assert.Contains(t, out, "[Deactivate: toggle-user 2]")
	assert.NotContains(t, out, "toggle-user 1")
}

func TestPresenter_RenderSupport(t *testing.T) {
	out := NewPresenter(80).Render(view.Screen{Support: &view.SupportView{Empty: "No support tickets yet."}})
	assert.Contains(t, out, "No support tickets yet.")

	out = NewPresenter(80).Render(view.Screen{Support: &view.SupportView{Tickets: []view.TicketView{
		{ID: 4, Title: "Broken", Status: "resolved", Priority: "high", Description: "404", Response: "Fixed", Resolved: "2024-01-02"},
	}}})
	assert.Contains(t, out, "#4 Broken [resolved, high]")
	assert.Contains(t, out, "Admin response: Fixed")
}

func TestProgressLine(t *testing.T) {
	line := progressLine(1, 4)
	assert.True(t, strings.HasSuffix(line, " 1/4"), line)
	assert.True(t, strings.HasSuffix(progressLine(0, 0), " 0/0"))
}
