package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-portal/internal/types"
)

func TestPassword(t *testing.T) {
	BcryptCost = 4
	hash, err := HashPassword("pw")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "pw"))
	assert.False(t, CheckPassword(hash, "Pw"))
	assert.False(t, CheckPassword("not a hash", "pw"))
}

func TestSessions(t *testing.T) {
	ss := NewSessions()
	token := ss.Start(Session{UserID: "u1", Role: types.RoleAdmin})

	rec := httptest.NewRecorder()
	SetCookie(rec, token)
	req := httptest.NewRequest(http.MethodGet, "/students", nil)
	for _, ck := range rec.Result().Cookies() {
		req.AddCookie(ck)
	}

	s, ok := ss.FromRequest(req)
	require.True(t, ok)
	assert.Equal(t, Session{UserID: "u1", Role: types.RoleAdmin}, s)

	ss.End(token)
	_, ok = ss.FromRequest(req)
	assert.False(t, ok)

	_, ok = ss.FromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}
