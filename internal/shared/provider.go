package shared

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ProviderUser is the user as the external auth provider reports it.
type ProviderUser struct {
	ID            string
	Email         string
	EmailVerified bool
}

// ProviderSession is the token set returned by a successful sign-in.
// Its lifecycle belongs to the provider; we only carry it around.
type ProviderSession struct {
	User         ProviderUser
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// AuthProvider is the boundary to the managed authentication backend.
type AuthProvider interface {
	Name() string
	// SignUp creates an account. The returned session is nil when the provider
	// requires the email address to be confirmed first.
	SignUp(ctx context.Context, email, password string) (*ProviderSession, error)
	SignInWithPassword(ctx context.Context, email, password string) (*ProviderSession, error)
	SignOut(ctx context.Context, session *ProviderSession) error
	GetUser(ctx context.Context, accessToken string) (*ProviderUser, error)
	Refresh(ctx context.Context, refreshToken string) (*ProviderSession, error)
}

// ErrRefreshUnsupported is returned by providers that cannot exchange refresh tokens.
var ErrRefreshUnsupported = errors.New("provider does not support session refresh")

// ProviderError carries the provider's own message, which is shown to users as-is.
type ProviderError struct {
	Provider string
	Op       string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Provider, e.Op, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ProviderMessage returns the text to show the user for err.
func ProviderMessage(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) && pe.Message != "" {
		return pe.Message
	}
	return err.Error()
}
