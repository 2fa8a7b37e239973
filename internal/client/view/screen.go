package view

// Screen is the structured description of what to show. Presenters draw it;
// they never look at State.
type Screen struct {
	Section Section
	Theme   string
	// Columns is the grid density; 0 lets the presenter decide.
	Columns int

	Header *Header
	Nav    []NavItem
	Status []Status

	Auth    *AuthView
	Browse  *GridView
	Search  *GridView
	Upload  *UploadView
	Invite  *InviteView
	Support *SupportView
	Admin   *AdminView
}

type Header struct {
	Username  string
	Uploads   int
	Downloads int
	Admin     bool
}

type NavItem struct {
	Key    string
	Label  string
	Active bool
}

type AuthView struct {
	Tab         AuthTab
	InviteEmail string
	InviteCode  string
}

// GridView is a file grid. Chips is set for the browse section only.
type GridView struct {
	Chips  []NavItem
	Query  string
	Prompt *Empty
	Cards  []Card
	Empty  *Empty
}

type Empty struct {
	Title string
	Hint  string
}

type Card struct {
	ID          int64
	Title       string
	Filename    string
	Category    string
	Description string
	Tags        []string
	Size        string
	Uploaded    string
	UploadedBy  string
	Downloads   int
	Featured    bool
	CanDelete   bool
}

type UploadView struct {
	Categories []string
	// Progress is nil when no batch is running.
	Progress *Progress
}

type InviteView struct {
	Link string
}

type SupportView struct {
	Tickets []TicketView
	Empty   string
}

type TicketView struct {
	ID          int64
	Title       string
	Description string
	Status      string
	Priority    string
	User        string
	Created     string
	Resolved    string
	Response    string
	// Respondable is set for unresolved tickets in the admin view.
	Respondable bool
}

type AdminView struct {
	Tab       AdminTab
	Tabs      []NavItem
	Users     []UserRow
	Files     []AdminFileRow
	Tickets   []TicketView
	Analytics *AnalyticsView
}

type UserRow struct {
	ID        int64
	Username  string
	Email     string
	Joined    string
	Uploads   int
	Downloads int
	Admin     bool
	Active    bool
	// Action is "Activate" or "Deactivate"; empty for admin users.
	Action string
}

type AdminFileRow struct {
	ID         int64
	Title      string
	Category   string
	Size       string
	Downloads  int
	UploadedBy string
	Featured   bool
	Action     string
}

type AnalyticsView struct {
	Stats      []Stat
	Categories []string
	Recent     []string
}

type Stat struct {
	Label string
	Value int
}
