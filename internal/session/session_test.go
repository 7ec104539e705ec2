package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager("test-secret", time.Hour)
	require.NoError(t, err)
	return m
}

func roundTrip(t *testing.T, m *Manager, s Session) Session {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, m.Save(rec, s))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return m.Load(req)
}

func TestNewManager_Validation(t *testing.T) {
	_, err := NewManager("", time.Hour)
	assert.Error(t, err)
	_, err = NewManager("x", 0)
	assert.Error(t, err)
}

func TestManager_SaveLoad(t *testing.T) {
	m := newManager(t)
	in := Session{UserID: 7, Username: "alice", LoggedIn: true}
	in.AddFlash(FlashSuccess, "logged in successfully")

	out := roundTrip(t, m, in)

	assert.Equal(t, in, out)
	assert.True(t, out.Authenticated())
}

func TestManager_CookieAttributes(t *testing.T) {
	m := newManager(t)
	rec := httptest.NewRecorder()
	require.NoError(t, m.Save(rec, Session{UserID: 1, LoggedIn: true}))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, "/", cookies[0].Path)
	assert.Equal(t, 3600, cookies[0].MaxAge)
}

func TestManager_LoadRejectsBadCookies(t *testing.T) {
	m := newManager(t)
	other, err := NewManager("other-secret", time.Hour)
	require.NoError(t, err)

	foreign, err := other.Encode(Session{UserID: 1, LoggedIn: true})
	require.NoError(t, err)

	for name, value := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: CookieName, Value: value})
			s := m.Load(req)
			assert.False(t, s.Authenticated())
			assert.Equal(t, Session{}, s)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, Session{}, m.Load(req))
}

func TestManager_ExpiredSession(t *testing.T) {
	m := newManager(t)
	issued := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return issued }
	token, err := m.Encode(Session{UserID: 1, LoggedIn: true})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Decode(token)
	assert.Error(t, err)
}

func TestSession_PopFlashes(t *testing.T) {
	var s Session
	s.AddFlash(FlashInfo, "one")
	s.AddFlash(FlashError, "two")

	flashes := s.PopFlashes()
	assert.Len(t, flashes, 2)
	assert.Empty(t, s.Flashes)
	assert.Empty(t, s.PopFlashes())
}

func TestSession_AuthenticatedNeedsUser(t *testing.T) {
	assert.False(t, Session{LoggedIn: true}.Authenticated())
	assert.False(t, Session{UserID: 3}.Authenticated())
}
