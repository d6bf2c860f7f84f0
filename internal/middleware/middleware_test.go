package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"docsign_web/internal/common"
	"docsign_web/internal/config"
	"docsign_web/internal/platform/requestctx"
	"docsign_web/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		GinMode:           "test",
		SessionCookieName: "docsign_session",
		SessionTTL:        time.Hour,
	}
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestZapLogger_RequestID(t *testing.T) {
	r := newEngine()
	r.Use(ZapLogger(zap.NewNop(), testConfig()))
	var fromCtx, fromGin string
	r.GET("/", func(c *gin.Context) {
		fromCtx = requestctx.RequestIDFromContext(c.Request.Context())
		fromGin = common.GetRequestIDFromContext(c)
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, fromCtx)
	assert.Equal(t, generated, fromGin)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "upstream-id", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "upstream-id", fromCtx)
}

func TestErrorHandler(t *testing.T) {
	r := newEngine()
	r.Use(ErrorHandler(zap.NewNop()))
	r.GET("/api/v1/boom", func(c *gin.Context) { _ = c.Error(errors.New("kaput")) })
	r.GET("/api/v1/down", func(c *gin.Context) { _ = c.Error(common.ErrServiceUnavailable) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/down", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "SERVICE_UNAVAILABLE")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

type fakeResolver struct {
	sessions map[string]*shared.Session
	err      error
}

func (f *fakeResolver) CurrentSession(ctx context.Context, id string) (*shared.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	if s, ok := f.sessions[id]; ok {
		return s, nil
	}
	return nil, shared.ErrSessionNotFound
}

func TestLoadSessionAndRequireSession(t *testing.T) {
	cfg := testConfig()
	resolver := &fakeResolver{sessions: map[string]*shared.Session{
		"good": {ID: "good", Email: "ada@example.com"},
	}}
	r := newEngine()
	r.Use(LoadSession(resolver, cfg, zap.NewNop()))
	r.GET("/dashboard", RequireSession("/login"), func(c *gin.Context) {
		c.String(http.StatusOK, common.GetSessionFromContext(c).Email)
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "docsign_session", Value: "good"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ada@example.com", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "docsign_session", Value: "stale"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestLoadSession_StoreOutageKeepsCookie(t *testing.T) {
	cfg := testConfig()
	r := newEngine()
	r.Use(LoadSession(&fakeResolver{err: errors.New("redis down")}, cfg, zap.NewNop()))
	r.GET("/", func(c *gin.Context) {
		assert.Nil(t, common.GetSessionFromContext(c))
		assert.Equal(t, "abc", common.GetSessionIDFromContext(c))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "docsign_session", Value: "abc"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestCSRF(t *testing.T) {
	r := newEngine()
	r.Use(CSRF(testConfig(), zap.NewNop()))
	var issued string
	r.GET("/form", func(c *gin.Context) {
		issued = common.GetCSRFTokenFromContext(c)
		c.Status(http.StatusOK)
	})
	r.POST("/form", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, issued)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CSRFCookieName, cookies[0].Name)
	assert.Equal(t, issued, cookies[0].Value)

	post := func(token string, withCookie bool) int {
		form := url.Values{CSRFFormField: {token}}
		req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if withCookie {
			req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: issued})
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, post(issued, true))
	assert.Equal(t, http.StatusForbidden, post("forged", true))
	assert.Equal(t, http.StatusForbidden, post(issued, false))
	assert.Equal(t, http.StatusForbidden, post("", true))
}
