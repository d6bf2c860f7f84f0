package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"docsign_web/internal/config"
	"docsign_web/internal/shared"

	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	"go.uber.org/zap"
)

// Name is the provider identifier stored on sessions and audit events.
const Name = "supabase"

// Provider implements shared.AuthProvider on top of Supabase GoTrue.
type Provider struct {
	client gotrue.Client
	logger *zap.Logger
	now    func() time.Time
}

// DefaultTimeout bounds a single GoTrue round trip when
// AUTH_PROVIDER_TIMEOUT_SECONDS is unset.
const DefaultTimeout = 10 * time.Second

// NewProvider builds a GoTrue client from config. SUPABASE_URL wins over
// SUPABASE_PROJECT_REF so self-hosted and local stacks work too.
func NewProvider(cfg *config.Config, logger *zap.Logger) (*Provider, error) {
	if cfg.SupabaseAnonKey == "" {
		return nil, errors.New("supabase anon key is required")
	}
	timeout := cfg.AuthProviderTimeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	// GoTrue calls take no context, so the HTTP client timeout is the only
	// bound on a hung provider.
	client := gotrue.New(cfg.SupabaseProjectRef, cfg.SupabaseAnonKey).
		WithClient(http.Client{Timeout: timeout})
	if cfg.SupabaseURL != "" {
		client = client.WithCustomGoTrueURL(GoTrueURL(cfg.SupabaseURL))
	}
	logger.Info("Supabase auth provider configured.",
		zap.String("projectRef", cfg.SupabaseProjectRef),
		zap.String("url", cfg.SupabaseURL),
		zap.Duration("timeout", timeout),
	)
	return NewProviderWithClient(client, logger), nil
}

// NewProviderWithClient wraps an existing GoTrue client.
func NewProviderWithClient(client gotrue.Client, logger *zap.Logger) *Provider {
	return &Provider{client: client, logger: logger, now: time.Now}
}

// GoTrueURL returns the auth endpoint of a Supabase project URL.
func GoTrueURL(projectURL string) string {
	u := strings.TrimRight(projectURL, "/")
	if strings.HasSuffix(u, "/auth/v1") {
		return u
	}
	return u + "/auth/v1"
}

func (p *Provider) Name() string { return Name }

func (p *Provider) SignUp(ctx context.Context, email, password string) (*shared.ProviderSession, error) {
	resp, err := p.client.Signup(types.SignupRequest{Email: email, Password: password})
	if err != nil {
		return nil, p.wrap("sign_up", err)
	}

	// With autoconfirm off GoTrue answers with a bare user; with it on, with a session.
	if resp.Session.AccessToken == "" {
		p.logger.Debug("Sign-up pending email confirmation", zap.String("email", email))
		return nil, nil
	}
	user := resp.User
	if user.Email == "" {
		user = resp.Session.User
	}
	return p.toSession(resp.Session, user), nil
}

func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (*shared.ProviderSession, error) {
	resp, err := p.client.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, p.wrap("sign_in", err)
	}
	return p.toSession(resp.Session, resp.Session.User), nil
}

func (p *Provider) SignOut(ctx context.Context, session *shared.ProviderSession) error {
	if session == nil || session.AccessToken == "" {
		return nil
	}
	if err := p.client.WithToken(session.AccessToken).Logout(); err != nil {
		return p.wrap("sign_out", err)
	}
	return nil
}

func (p *Provider) GetUser(ctx context.Context, accessToken string) (*shared.ProviderUser, error) {
	resp, err := p.client.WithToken(accessToken).GetUser()
	if err != nil {
		return nil, p.wrap("get_user", err)
	}
	u := toUser(resp.User)
	return &u, nil
}

func (p *Provider) Refresh(ctx context.Context, refreshToken string) (*shared.ProviderSession, error) {
	resp, err := p.client.RefreshToken(refreshToken)
	if err != nil {
		return nil, p.wrap("refresh", err)
	}
	return p.toSession(resp.Session, resp.Session.User), nil
}

func (p *Provider) toSession(s types.Session, user types.User) *shared.ProviderSession {
	return &shared.ProviderSession{
		User:         toUser(user),
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    p.now().Add(time.Duration(s.ExpiresIn) * time.Second),
	}
}

func toUser(u types.User) shared.ProviderUser {
	return shared.ProviderUser{
		ID:    u.ID.String(),
		Email: u.Email,
	}
}

func (p *Provider) wrap(op string, err error) error {
	msg := ExtractMessage(err)
	p.logger.Debug("GoTrue call failed", zap.String("op", op), zap.String("message", msg), zap.Error(err))
	return &shared.ProviderError{
		Provider: Name,
		Op:       op,
		Message:  msg,
		Err:      fmt.Errorf("gotrue %s: %w", op, err),
	}
}
