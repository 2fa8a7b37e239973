package devserver

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
)

// SessionCookie names the cookie carrying the session token.
const SessionCookie = "edulibrary_session"

// Sessions maps opaque cookie tokens to user ids.
type Sessions struct {
	mu     sync.RWMutex
	tokens map[string]int64
}

func NewSessions() *Sessions {
	return &Sessions{tokens: make(map[string]int64)}
}

// Start creates a session for userID and sets its cookie on w.
func (s *Sessions) Start(w http.ResponseWriter, userID int64) {
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = userID
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Lookup returns the user id of the request's session.
func (s *Sessions) Lookup(r *http.Request) (int64, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return 0, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.tokens[c.Value]
	return id, ok
}

// End forgets the request's session and expires its cookie.
func (s *Sessions) End(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		s.mu.Lock()
		delete(s.tokens, c.Value)
		s.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
}
