package shared

import (
	"context"
	"errors"
	"time"
)

// Session is the server-side record behind a browser's session cookie.
type Session struct {
	ID           string    `json:"id"`
	Provider     string    `json:"provider"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProviderSession rebuilds the provider-facing token set.
func (s *Session) ProviderSession() *ProviderSession {
	return &ProviderSession{
		User:         ProviderUser{ID: s.UserID, Email: s.Email},
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.ExpiresAt,
	}
}

// ErrSessionNotFound is returned by stores for unknown or expired ids.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists sessions between requests.
type SessionStore interface {
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
