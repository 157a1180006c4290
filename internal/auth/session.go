package auth

import (
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/aanand-mishra/student-portal/internal/types"
)

// CookieName is the session cookie set at login.
const CookieName = "smm_session"

// Session is what the dev server remembers about a logged-in user.
type Session struct {
	UserID string
	Role   types.Role
}

// Sessions maps opaque tokens to sessions. Tokens live until the process
// exits or End is called.
type Sessions struct {
	mu    sync.RWMutex
	table map[string]Session
}

// NewSessions returns an empty session table.
func NewSessions() *Sessions {
	return &Sessions{table: make(map[string]Session)}
}

// Start stores s under a fresh token and returns the token.
func (ss *Sessions) Start(s Session) string {
	token := uuid.NewString()
	ss.mu.Lock()
	ss.table[token] = s
	ss.mu.Unlock()
	return token
}

// Get looks a token up.
func (ss *Sessions) Get(token string) (Session, bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	s, ok := ss.table[token]
	return s, ok
}

// End forgets a token.
func (ss *Sessions) End(token string) {
	ss.mu.Lock()
	delete(ss.table, token)
	ss.mu.Unlock()
}

// FromRequest resolves the request's session cookie.
func (ss *Sessions) FromRequest(r *http.Request) (Session, bool) {
	ck, err := r.Cookie(CookieName)
	if err != nil {
		return Session{}, false
	}
	return ss.Get(ck.Value)
}

// SetCookie writes the session cookie for token.
func SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
