package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// CookieName carries the opaque session token.
const CookieName = "session_token"

// Session is the server-side state behind one token.
type Session struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Store is the pluggable session backend. Get returns (nil, nil) for tokens
// that are unknown or expired.
type Store interface {
	Get(ctx context.Context, token string) (*Session, error)
	Save(ctx context.Context, token string, s *Session, ttl time.Duration) error
	Refresh(ctx context.Context, token string, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}

// Manager issues opaque tokens and enforces the sliding inactivity expiry.
type Manager struct {
	store Store
	ttl   time.Duration
}

func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl}
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Begin creates a session and returns its token.
func (m *Manager) Begin(ctx context.Context, s *Session) (string, error) {
	token := uuid.NewString()
	if err := m.store.Save(ctx, token, s, m.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Current resolves a token and pushes its expiry out by the full TTL, so any
// authenticated request keeps the session alive.
func (m *Manager) Current(ctx context.Context, token string) (*Session, error) {
	s, err := m.store.Get(ctx, token)
	if err != nil || s == nil {
		return nil, err
	}
	if err := m.store.Refresh(ctx, token, m.ttl); err != nil {
		return nil, err
	}
	return s, nil
}

// End destroys the session. Unknown tokens are a no-op.
func (m *Manager) End(ctx context.Context, token string) error {
	return m.store.Delete(ctx, token)
}

// Cookie stamps the token cookie with a fresh expiry.
func Cookie(token string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie clears the token cookie on the client.
func ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
