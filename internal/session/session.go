// Package session keeps per-browser login state in a signed cookie.
//
// The cookie carries an HS256 JWT whose claims hold the session fields, so
// the server keeps no session table. A missing, tampered or expired cookie
// yields an anonymous session.
package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the name of the session cookie.
const CookieName = "todo_session"

// Flash categories.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashError   = "error"
)

// Flash is a one-time notice shown on the next rendered page.
type Flash struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

// Session is the state remembered for one browser.
type Session struct {
	UserID   int64
	Username string
	LoggedIn bool
	Flashes  []Flash
}

// Authenticated reports whether the session belongs to a logged-in user.
func (s Session) Authenticated() bool {
	return s.LoggedIn && s.UserID > 0
}

// AddFlash queues a notice for the next page.
func (s *Session) AddFlash(category, message string) {
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
}

// PopFlashes returns queued notices and clears them.
func (s *Session) PopFlashes() []Flash {
	f := s.Flashes
	s.Flashes = nil
	return f
}

type claims struct {
	jwt.RegisteredClaims
	UserID   int64   `json:"uid,omitempty"`
	Username string  `json:"usr,omitempty"`
	LoggedIn bool    `json:"in,omitempty"`
	Flashes  []Flash `json:"fl,omitempty"`
}

// Manager reads and writes session cookies.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager returns a Manager signing cookies with secret that expire after ttl.
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("session secret must not be empty")
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Load decodes the session from r. Any problem with the cookie gives an empty session.
func (m *Manager) Load(r *http.Request) Session {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return Session{}
	}
	s, err := m.Decode(cookie.Value)
	if err != nil {
		return Session{}
	}
	return s
}

// Decode verifies a signed token and returns the session it carries.
func (m *Manager) Decode(token string) (Session, error) {
	c := &claims{}
	parsed, err := jwt.ParseWithClaims(token, c, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		return Session{}, err
	}
	if !parsed.Valid {
		return Session{}, errors.New("invalid session token")
	}
	return Session{
		UserID:   c.UserID,
		Username: c.Username,
		LoggedIn: c.LoggedIn,
		Flashes:  c.Flashes,
	}, nil
}

// Encode signs s into a token valid for the manager's ttl.
func (m *Manager) Encode(s Session) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID:   s.UserID,
		Username: s.Username,
		LoggedIn: s.LoggedIn,
		Flashes:  s.Flashes,
	})
	return token.SignedString(m.secret)
}

// Save writes s as the session cookie on w.
func (m *Manager) Save(w http.ResponseWriter, s Session) error {
	value, err := m.Encode(s)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
