package models

// Role is the authorization level of a session.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// User is the account payload returned by /login, /user-info and /admin/users.
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	JoinDate       string `json:"join_date"`
	IsAdmin        bool   `json:"is_admin"`
	IsActive       bool   `json:"is_active"`
	UploadsCount   int    `json:"uploads_count"`
	DownloadsCount int    `json:"downloads_count"`
}

// Session is the authenticated identity held by the client for the lifetime
// of the process. Counters may be bumped optimistically and are corrected by
// the next session probe.
type Session struct {
	UserID        int64  `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Role          Role   `json:"role"`
	UploadCount   int    `json:"upload_count"`
	DownloadCount int    `json:"download_count"`
}

// NewSession derives a Session from the server's user payload.
func NewSession(u User) *Session {
	role := RoleMember
	if u.IsAdmin {
		role = RoleAdmin
	}
	return &Session{
		UserID:        u.ID,
		Username:      u.Username,
		Email:         u.Email,
		Role:          role,
		UploadCount:   u.UploadsCount,
		DownloadCount: u.DownloadsCount,
	}
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// AddUploads bumps the upload counter by n.
func (s *Session) AddUploads(n int) {
	if n > 0 {
		s.UploadCount += n
	}
}

// ReleaseUpload decrements the upload counter, floored at zero.
func (s *Session) ReleaseUpload() {
	if s.UploadCount > 0 {
		s.UploadCount--
	}
}

func (s *Session) AddDownload() {
	s.DownloadCount++
}

// Owns reports whether the file was uploaded by the session user.
func (s *Session) Owns(f File) bool {
	return s != nil && f.UploadedBy == s.Username
}

// CanDelete mirrors the server rule: owners and admins may delete.
func (s *Session) CanDelete(f File) bool {
	return s.Owns(f) || s.IsAdmin()
}
