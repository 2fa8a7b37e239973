package view

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/edulibrary/internal/client/catalog"
	"github.com/dmitrijs2005/edulibrary/internal/client/models"
)

func browseState() *State {
	s := NewState()
	s.Session = &models.Session{Username: "bob", Role: models.RoleMember, UploadCount: 1, DownloadCount: 2}
	s.Section = SectionBrowse
	s.Catalog = catalog.Catalog{
		Files: []models.File{
			{ID: 3, OriginalName: "Optics.pdf", Category: "Science", UploadedBy: "ali", SizeMB: 1.5, UploadDate: "2024-05-01T10:20:30", IsFeatured: true},
			{ID: 2, OriginalName: "Mine.pdf", Category: "History", UploadedBy: "bob", SizeMB: 2, Tags: []string{"war"}},
			{ID: 1, OriginalName: "<b>Bold</b>.pdf", Category: "Science", UploadedBy: "ali", Description: "<script>alert(1)</script>x &amp; y"},
		},
		Categories: []string{"Science", "History"},
	}
	return s
}

func ids(cards []Card) []int64 {
	out := make([]int64, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out
}

func TestRender_AuthHidesEverything(t *testing.T) {
	s := browseState()
	s.Section = SectionAuth
	s.Invite = &Invitation{Code: "abc", Email: "a@b.io"}

	sc := Render(s)
	assert.Equal(t, SectionAuth, sc.Section)
	require.NotNil(t, sc.Auth)
	assert.Equal(t, "a@b.io", sc.Auth.InviteEmail)
	assert.Nil(t, sc.Header)
	assert.Nil(t, sc.Nav)
	assert.Nil(t, sc.Browse)

	s.Section = SectionBrowse
	s.Session = nil
	assert.Equal(t, SectionAuth, Render(s).Section, "no session always renders auth")
}

func TestRender_BrowseInServerOrder(t *testing.T) {
	sc := Render(browseState())

	require.NotNil(t, sc.Browse)
	assert.Equal(t, []int64{3, 2, 1}, ids(sc.Browse.Cards))
	assert.Equal(t, &Header{Username: "bob", Uploads: 1, Downloads: 2}, sc.Header)

	want := []NavItem{
		{Key: "browse", Label: "Browse", Active: true},
		{Key: "upload", Label: "Upload"},
		{Key: "search", Label: "Search"},
		{Key: "invite", Label: "Invite"},
		{Key: "support", Label: "Support"},
	}
	if diff := cmp.Diff(want, sc.Nav); diff != "" {
		t.Fatalf("nav mismatch (-want +got):\n%s", diff)
	}

	first := sc.Browse.Cards[0]
	assert.Equal(t, "1.5MB", first.Size)
	assert.Equal(t, "2024-05-01 10:20", first.Uploaded)
	assert.True(t, first.Featured)
	assert.False(t, first.CanDelete)
	assert.True(t, sc.Browse.Cards[1].CanDelete, "owner may delete")
	assert.Equal(t, "Unknown", sc.Browse.Cards[1].Uploaded)
}

func TestRender_SanitizesServerText(t *testing.T) {
	sc := Render(browseState())
	c := sc.Browse.Cards[2]
	assert.Equal(t, "Bold.pdf", c.Title)
	assert.Equal(t, "x & y", c.Description)
}

func TestRender_CategoryFilter(t *testing.T) {
	s := browseState()
	s.SelectCategory("Science")

	sc := Render(s)
	assert.Equal(t, []int64{3, 1}, ids(sc.Browse.Cards))
	require.Len(t, sc.Browse.Chips, 3)
	assert.Equal(t, NavItem{Key: "Science", Label: "Science", Active: true}, sc.Browse.Chips[1])

	s.SelectCategory("Religious")
	sc = Render(s)
	assert.Empty(t, sc.Browse.Cards)
	assert.Equal(t, &Empty{Title: "No files found", Hint: "Upload some PDFs to get started!"}, sc.Browse.Empty)
}

func TestRender_SearchModes(t *testing.T) {
	s := browseState()
	s.Section = SectionSearch

	sc := Render(s)
	require.NotNil(t, sc.Search)
	assert.NotNil(t, sc.Search.Prompt, "search section before any query prompts")

	s.SelectCategory("History")
	s.SetQuery("   ")
	sc = Render(s)
	assert.NotNil(t, sc.Search.Prompt)
	assert.Empty(t, sc.Search.Cards)
	assert.Equal(t, models.AllCategories, s.Category, "search drops the category selection")

	s.SetQuery("ALI")
	sc = Render(s)
	assert.Nil(t, sc.Search.Prompt)
	assert.Equal(t, []int64{3, 1}, ids(sc.Search.Cards))

	s.SetQuery("nothing-here")
	sc = Render(s)
	assert.Equal(t, "Try a different search term", sc.Search.Empty.Hint)

	s.SelectCategory("Science")
	assert.Empty(t, s.Query, "category drops the query")
	assert.Equal(t, ModeCategory, s.Mode)
}

func TestRender_GridColumnsAndTheme(t *testing.T) {
	s := browseState()
	s.Settings = models.Settings{Theme: "dark", GridSize: "3"}
	sc := Render(s)
	assert.Equal(t, 3, sc.Columns)
	assert.Equal(t, "dark", sc.Theme)

	s.Settings.GridSize = "auto"
	assert.Equal(t, 0, Render(s).Columns)
}

func TestRender_UploadProgress(t *testing.T) {
	s := browseState()
	s.Section = SectionUpload

	sc := Render(s)
	assert.Equal(t, []string{"Science", "History"}, sc.Upload.Categories)
	assert.Nil(t, sc.Upload.Progress)

	s.Upload = Progress{Done: 1, Total: 4}
	sc = Render(s)
	require.NotNil(t, sc.Upload.Progress)
	assert.InDelta(t, 0.25, sc.Upload.Progress.Fraction(), 1e-9)
}

func TestRender_Support(t *testing.T) {
	s := browseState()
	s.Section = SectionSupport
	assert.Equal(t, "No support tickets yet.", Render(s).Support.Empty)

	resolved := "2024-06-01T08:00:00"
	answer := "Fixed <i>now</i>"
	s.Tickets = []models.Ticket{{ID: 1, Title: "t", Status: models.TicketResolved, Priority: models.PriorityHigh, ResolvedDate: &resolved, AdminResponse: &answer}}
	sc := Render(s)
	require.Len(t, sc.Support.Tickets, 1)
	tv := sc.Support.Tickets[0]
	assert.Equal(t, "2024-06-01 08:00", tv.Resolved)
	assert.Equal(t, "Fixed now", tv.Response)
	assert.False(t, tv.Respondable)
}

func TestRender_AdminTabs(t *testing.T) {
	s := browseState()
	s.Section = SectionAdmin
	assert.Nil(t, Render(s).Admin, "members never see the admin view")

	s.Session.Role = models.RoleAdmin
	s.Users = []models.User{
		{ID: 1, Username: "root", IsAdmin: true, IsActive: true},
		{ID: 2, Username: "bob", IsActive: true},
		{ID: 3, Username: "eve"},
	}
	sc := Render(s)
	require.NotNil(t, sc.Admin)
	assert.Equal(t, TabUsers, sc.Admin.Tab)
	assert.Equal(t, "", sc.Admin.Users[0].Action)
	assert.Equal(t, "Deactivate", sc.Admin.Users[1].Action)
	assert.Equal(t, "Activate", sc.Admin.Users[2].Action)
	assert.Len(t, sc.Nav, 6)

	s.AdminTab = TabFiles
	sc = Render(s)
	require.Len(t, sc.Admin.Files, 3)
	assert.Equal(t, "Unfeature", sc.Admin.Files[0].Action)
	assert.Equal(t, "Feature", sc.Admin.Files[1].Action)

	s.AdminTab = TabSupport
	s.AdminTickets = []models.Ticket{{ID: 9, Status: models.TicketOpen}, {ID: 8, Status: models.TicketResolved}}
	sc = Render(s)
	assert.True(t, sc.Admin.Tickets[0].Respondable)
	assert.False(t, sc.Admin.Tickets[1].Respondable)

	s.AdminTab = TabAnalytics
	s.Analytics = &models.Analytics{
		Stats:         models.Stats{TotalUsers: 3, ActiveUsers: 2, TotalFiles: 3, TotalDownloads: 7},
		Categories:    []models.CategoryCount{{Category: "Science", Count: 2}},
		RecentUploads: []models.File{{OriginalName: "Optics.pdf", UploadedBy: "ali", UploadDate: "2024-05-01T10:20:30"}},
	}
	sc = Render(s)
	require.NotNil(t, sc.Admin.Analytics)
	assert.Equal(t, Stat{Label: "Total Downloads", Value: 7}, sc.Admin.Analytics.Stats[3])
	assert.Equal(t, []string{"Science: 2 files"}, sc.Admin.Analytics.Categories)
	assert.Equal(t, []string{"Optics.pdf by ali (2024-05-01 10:20)"}, sc.Admin.Analytics.Recent)
}

func TestRender_IsPure(t *testing.T) {
	s := browseState()
	a, b := Render(s), Render(s)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("render not deterministic:\n%s", diff)
	}
}

func TestState_Reset(t *testing.T) {
	s := browseState()
	s.Settings.Theme = "dark"
	s.Reset()
	assert.Nil(t, s.Session)
	assert.Equal(t, SectionAuth, s.Section)
	assert.Equal(t, "dark", s.Settings.Theme)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Browse", Title(SectionBrowse))
	assert.Equal(t, "Auth", Title(SectionAuth))
	assert.Equal(t, "", Title(""))
}
