package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"docsign_web/internal/auth"
	"docsign_web/internal/config"
	"docsign_web/internal/jobs"
	"docsign_web/internal/session"
	"docsign_web/internal/shared"
	"docsign_web/internal/web"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubProvider struct{}

func (stubProvider) Name() string { return "stub" }

func (stubProvider) SignUp(ctx context.Context, email, password string) (*shared.ProviderSession, error) {
	return nil, nil
}

func (stubProvider) SignInWithPassword(ctx context.Context, email, password string) (*shared.ProviderSession, error) {
	return nil, &shared.ProviderError{Provider: "stub", Op: "sign in", Message: "Invalid login credentials"}
}

func (stubProvider) SignOut(ctx context.Context, s *shared.ProviderSession) error { return nil }

func (stubProvider) GetUser(ctx context.Context, accessToken string) (*shared.ProviderUser, error) {
	return nil, shared.ErrSessionNotFound
}

func (stubProvider) Refresh(ctx context.Context, refreshToken string) (*shared.ProviderSession, error) {
	return nil, shared.ErrRefreshUnsupported
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		GinMode:            "test",
		ServerHost:         "127.0.0.1",
		ServerPort:         "0",
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		SessionCookieName:  "docsign_session",
		SessionTTL:         time.Hour,
	}
	logger := zap.NewNop()
	store := session.NewMemoryStore(session.MemoryStoreConfig{DefaultExpiration: time.Hour, CleanupInterval: time.Hour})
	authService := auth.NewService(stubProvider{}, store, nil, cfg, logger)
	webHandler, err := web.NewHandler(authService, nil, cfg, logger)
	require.NoError(t, err)

	srv, err := NewServer(cfg, logger,
		auth.NewHandler(authService, cfg, logger),
		webHandler,
		jobs.NewAuditRetentionJob(nil, logger, cfg),
	)
	require.NoError(t, err)
	return srv
}

func TestServer_Routes(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		method, path string
		want         int
		contains     string
	}{
		{http.MethodGet, "/health", http.StatusOK, "UP"},
		{http.MethodGet, "/", http.StatusOK, "DocSign - Test Auth"},
		{http.MethodGet, "/login", http.StatusOK, "Sign In"},
		{http.MethodGet, "/signup", http.StatusOK, "Sign Up"},
		{http.MethodGet, "/dashboard", http.StatusSeeOther, ""},
		{http.MethodGet, "/api/v1/auth/session", http.StatusUnauthorized, "UNAUTHORIZED"},
		{http.MethodGet, "/api/v1/nope", http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.want, w.Code, tc.path)
		if tc.contains != "" {
			assert.Contains(t, w.Body.String(), tc.contains, tc.path)
		}
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"), tc.path)
	}
}

func TestServer_APISignInForwardsProviderMessage(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signin",
		strings.NewReader(`{"email":"ada@example.com","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error: Invalid login credentials")
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
