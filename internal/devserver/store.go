package devserver

import (
	"math"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/edulibrary/internal/client/models"
)

// Categories is the fixed category list. Uploads naming anything else are
// filed under "Other".
var Categories = []string{
	"Educational", "Religious", "Medical", "Literature",
	"Science", "Technology", "History", "Philosophy", "Other",
}

const (
	// MaxUploadBytes bounds a single upload request.
	MaxUploadBytes = 20 << 20

	// recentUploads is the length of the analytics activity list.
	recentUploads = 10

	isoLayout = "2006-01-02T15:04:05.000000"
)

type user struct {
	id        int64
	username  string
	email     string
	hash      []byte
	joined    time.Time
	admin     bool
	active    bool
	uploads   int
	downloads int
}

type file struct {
	id          int64
	filename    string
	name        string
	category    string
	description string
	tags        []string
	content     []byte
	uploaded    time.Time
	owner       int64
	downloads   int
	featured    bool
}

type ticket struct {
	id          int64
	title       string
	description string
	priority    models.Priority
	status      models.TicketStatus
	created     time.Time
	resolved    *time.Time
	owner       int64
	response    *string
}

type invitation struct {
	email     string
	code      string
	invitedBy string
	message   string
	created   time.Time
	used      bool
}

// Store holds every entity of the library behind one mutex.
type Store struct {
	mu      sync.Mutex
	now     func() time.Time
	cost    int
	nextID  int64
	users   map[int64]*user
	files   map[int64]*file
	tickets map[int64]*ticket
	invites map[string]*invitation
}

type StoreOption func(*Store)

// WithClock replaces the time source used for timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithHashCost sets the bcrypt cost of stored passwords.
func WithHashCost(cost int) StoreOption {
	return func(s *Store) { s.cost = cost }
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		now:     time.Now,
		cost:    bcrypt.DefaultCost,
		users:   make(map[int64]*user),
		files:   make(map[int64]*file),
		tickets: make(map[int64]*ticket),
		invites: make(map[string]*invitation),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) stamp() time.Time {
	return s.now().UTC()
}

// AddUser creates an account. Username and email must be unique.
func (s *Store) AddUser(username, email, password string, admin bool) (models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return models.User{}, fail(http.StatusBadRequest, "All fields are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.username == username {
			return models.User{}, fail(http.StatusBadRequest, "Username already exists")
		}
		if u.email == email {
			return models.User{}, fail(http.StatusBadRequest, "Email already exists")
		}
	}

	u := &user{
		id:       s.id(),
		username: username,
		email:    email,
		hash:     hash,
		joined:   s.stamp(),
		admin:    admin,
		active:   true,
	}
	s.users[u.id] = u
	return u.view(), nil
}

// Register creates a member account. A matching unused invitation is marked
// used; an unknown or mismatched code is ignored.
func (s *Store) Register(username, email, password, inviteCode string) error {
	if _, err := s.AddUser(username, email, password, false); err != nil {
		return err
	}
	if inviteCode == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if inv, ok := s.invites[inviteCode]; ok && !inv.used && inv.email == strings.TrimSpace(email) {
		inv.used = true
	}
	return nil
}

// Authenticate finds an active account by username or email.
func (s *Store) Authenticate(identifier, password string) (models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return models.User{}, fail(http.StatusBadRequest, "Username and password are required")
	}

	s.mu.Lock()
	var found *user
	for _, u := range s.users {
		if u.username == identifier || u.email == identifier {
			found = u
			break
		}
	}
	var (
		hash   []byte
		active bool
	)
	if found != nil {
		hash, active = found.hash, found.active
	}
	s.mu.Unlock()

	invalid := fail(http.StatusUnauthorized, "Invalid credentials")
	if found == nil || !active {
		return models.User{}, invalid
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		return models.User{}, invalid
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return found.view(), nil
}

// User returns the account with the given id.
func (s *Store) User(id int64) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, false
	}
	return u.view(), true
}

// FileFilter narrows a listing. Zero values select everything.
type FileFilter struct {
	Category string
	Search   string
	Featured bool
}

func (f FileFilter) match(rec *file) bool {
	if f.Category != "" && f.Category != models.AllCategories && rec.category != f.Category {
		return false
	}
	if f.Featured && !rec.featured {
		return false
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		return strings.Contains(rec.name, q) ||
			strings.Contains(rec.description, q) ||
			strings.Contains(strings.Join(rec.tags, ","), q)
	}
	return true
}

// Files lists the matching files, newest first.
func (s *Store) Files(filter FileFilter) []models.File {
	s.mu.Lock()
	defer s.mu.Unlock()

	var recs []*file
	for _, f := range s.files {
		if filter.match(f) {
			recs = append(recs, f)
		}
	}
	sortNewest(recs, func(f *file) (time.Time, int64) { return f.uploaded, f.id })

	out := make([]models.File, 0, len(recs))
	for _, f := range recs {
		out = append(out, s.fileView(f))
	}
	return out
}

// AddFile stores an uploaded PDF on behalf of userID.
func (s *Store) AddFile(userID int64, name string, content []byte, category, description, tags string) (models.File, error) {
	name = safeName(name)
	if name == "" {
		return models.File{}, fail(http.StatusBadRequest, "No file provided")
	}
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		return models.File{}, fail(http.StatusBadRequest, "Only PDF files are allowed")
	}
	if !knownCategory(category) {
		category = "Other"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	owner, ok := s.users[userID]
	if !ok {
		return models.File{}, errAuthRequired
	}

	now := s.stamp()
	f := &file{
		id:          s.id(),
		filename:    now.Format("20060102_150405") + "_" + name,
		name:        name,
		category:    category,
		description: strings.TrimSpace(description),
		tags:        splitTags(tags),
		content:     content,
		uploaded:    now,
		owner:       userID,
	}
	s.files[f.id] = f
	owner.uploads++
	return s.fileView(f), nil
}

// DeleteFile removes a file. Only its owner or an admin may do so; the
// owner's upload counter is decremented, floored at zero.
func (s *Store) DeleteFile(userID, fileID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[fileID]
	if !ok {
		return errFileNotFound
	}
	u, ok := s.users[userID]
	if !ok {
		return errAuthRequired
	}
	if f.owner != userID && !u.admin {
		return fail(http.StatusForbidden, "You can only delete your own files")
	}

	if f.owner == userID && u.uploads > 0 {
		u.uploads--
	}
	delete(s.files, fileID)
	return nil
}

// Download returns a file's name and content and bumps the download
// counters of the file and of userID.
func (s *Store) Download(userID, fileID int64) (string, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[fileID]
	if !ok {
		return "", nil, errFileNotFound
	}
	f.downloads++
	if u, ok := s.users[userID]; ok {
		u.downloads++
	}
	return f.name, f.content, nil
}

// Preview returns a file's name and content without counting a download.
func (s *Store) Preview(fileID int64) (string, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[fileID]
	if !ok {
		return "", nil, errFileNotFound
	}
	return f.name, f.content, nil
}

// ToggleFeatured flips the featured flag and returns the new value.
func (s *Store) ToggleFeatured(fileID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[fileID]
	if !ok {
		return false, errFileNotFound
	}
	f.featured = !f.featured
	return f.featured, nil
}

// CreateInvitation records an invitation and returns its code.
func (s *Store) CreateInvitation(userID int64, email, message string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fail(http.StatusBadRequest, "Email is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return "", errAuthRequired
	}

	code := strings.ReplaceAll(uuid.NewString(), "-", "")
	s.invites[code] = &invitation{
		email:     email,
		code:      code,
		invitedBy: u.username,
		message:   strings.TrimSpace(message),
		created:   s.stamp(),
	}
	return code, nil
}

// Invitation reports whether code exists and has been used.
func (s *Store) Invitation(code string) (used, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invites[code]
	if !ok {
		return false, false
	}
	return inv.used, true
}

// CreateTicket opens a support ticket for userID. An empty priority means
// medium.
func (s *Store) CreateTicket(userID int64, title, description string, priority models.Priority) error {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return fail(http.StatusBadRequest, "Title and description are required")
	}
	if priority == "" {
		priority = models.PriorityMedium
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return errAuthRequired
	}
	t := &ticket{
		id:          s.id(),
		title:       title,
		description: description,
		priority:    priority,
		status:      models.TicketOpen,
		created:     s.stamp(),
		owner:       userID,
	}
	s.tickets[t.id] = t
	return nil
}

// Tickets lists the tickets visible to userID, newest first: admins see
// every ticket, members their own.
func (s *Store) Tickets(userID int64) []models.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.users[userID]
	var recs []*ticket
	for _, t := range s.tickets {
		if (u != nil && u.admin) || t.owner == userID {
			recs = append(recs, t)
		}
	}
	sortNewest(recs, func(t *ticket) (time.Time, int64) { return t.created, t.id })

	out := make([]models.Ticket, 0, len(recs))
	for _, t := range recs {
		out = append(out, s.ticketView(t))
	}
	return out
}

// RespondTicket stores an admin response. A resolved status stamps the
// resolution date; an empty status means open.
func (s *Store) RespondTicket(ticketID int64, response string, status models.TicketStatus) error {
	response = strings.TrimSpace(response)
	if response == "" {
		return fail(http.StatusBadRequest, "Response is required")
	}
	if status == "" {
		status = models.TicketOpen
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[ticketID]
	if !ok {
		return errTicketMissing
	}
	t.response = &response
	t.status = status
	if status == models.TicketResolved {
		now := s.stamp()
		t.resolved = &now
	}
	return nil
}

// Users lists every account, most recently joined first.
func (s *Store) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := make([]*user, 0, len(s.users))
	for _, u := range s.users {
		recs = append(recs, u)
	}
	sortNewest(recs, func(u *user) (time.Time, int64) { return u.joined, u.id })

	out := make([]models.User, 0, len(recs))
	for _, u := range recs {
		out = append(out, u.view())
	}
	return out
}

// ToggleUser flips an account's active flag. Admin accounts are immutable.
func (s *Store) ToggleUser(userID int64) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return models.User{}, errUserNotFound
	}
	if u.admin {
		return models.User{}, fail(http.StatusBadRequest, "Cannot modify admin user")
	}
	u.active = !u.active
	return u.view(), nil
}

// Analytics aggregates library totals, the category distribution sorted by
// name, and the most recent uploads.
func (s *Store) Analytics() models.Analytics {
	var a models.Analytics

	s.mu.Lock()
	a.Stats.TotalUsers = len(s.users)
	for _, u := range s.users {
		if u.active {
			a.Stats.ActiveUsers++
		}
	}
	counts := make(map[string]int)
	for _, f := range s.files {
		a.Stats.TotalDownloads += f.downloads
		counts[f.category]++
	}
	a.Stats.TotalFiles = len(s.files)
	s.mu.Unlock()

	a.Categories = make([]models.CategoryCount, 0, len(counts))
	for c, n := range counts {
		a.Categories = append(a.Categories, models.CategoryCount{Category: c, Count: n})
	}
	sort.Slice(a.Categories, func(i, j int) bool { return a.Categories[i].Category < a.Categories[j].Category })

	a.RecentUploads = s.Files(FileFilter{})
	if len(a.RecentUploads) > recentUploads {
		a.RecentUploads = a.RecentUploads[:recentUploads]
	}
	return a
}

func (u *user) view() models.User {
	return models.User{
		ID:             u.id,
		Username:       u.username,
		Email:          u.email,
		JoinDate:       u.joined.Format(isoLayout),
		IsAdmin:        u.admin,
		IsActive:       u.active,
		UploadsCount:   u.uploads,
		DownloadsCount: u.downloads,
	}
}

// fileView must be called with s.mu held.
func (s *Store) fileView(f *file) models.File {
	var uploader string
	if u, ok := s.users[f.owner]; ok {
		uploader = u.username
	}
	return models.File{
		ID:            f.id,
		Filename:      f.filename,
		OriginalName:  f.name,
		Category:      f.category,
		Description:   f.description,
		Tags:          append([]string{}, f.tags...),
		SizeMB:        math.Round(float64(len(f.content))/(1024*1024)*100) / 100,
		UploadDate:    f.uploaded.Format(isoLayout),
		UploadedBy:    uploader,
		UploaderID:    f.owner,
		DownloadCount: f.downloads,
		IsFeatured:    f.featured,
	}
}

// ticketView must be called with s.mu held.
func (s *Store) ticketView(t *ticket) models.Ticket {
	out := models.Ticket{
		ID:            t.id,
		Title:         t.title,
		Description:   t.description,
		Priority:      t.priority,
		Status:        t.status,
		CreatedDate:   t.created.Format(isoLayout),
		AdminResponse: t.response,
	}
	if t.resolved != nil {
		d := t.resolved.Format(isoLayout)
		out.ResolvedDate = &d
	}
	if u, ok := s.users[t.owner]; ok {
		out.User = u.username
	}
	return out
}

// sortNewest orders recs by timestamp descending, then id descending.
func sortNewest[T any](recs []T, key func(T) (time.Time, int64)) {
	sort.Slice(recs, func(i, j int) bool {
		ti, idi := key(recs[i])
		tj, idj := key(recs[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi > idj
	})
}

func knownCategory(c string) bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

func splitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// safeName reduces a client-supplied filename to its base with spaces
// replaced.
func safeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	return strings.ReplaceAll(name, " ", "_")
}
