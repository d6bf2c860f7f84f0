// File: internal/middleware/session.go
package middleware

import (
	"context"
	"errors"
	"net/http"

	"docsign_web/internal/common"
	"docsign_web/internal/config"
	"docsign_web/internal/session"
	"docsign_web/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionResolver turns a session id into a live session.
type SessionResolver interface {
	CurrentSession(ctx context.Context, sessionID string) (*shared.Session, error)
}

// LoadSession resolves the session cookie, when present, and stores the
// session in the gin context. Anonymous requests pass through untouched.
func LoadSession(resolver SessionResolver, cfg *config.Config, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := session.CookieValue(c, cfg)
		if id == "" {
			c.Next()
			return
		}
		c.Set(common.SessionIDKey, id)

		sess, err := resolver.CurrentSession(c.Request.Context(), id)
		switch {
		case err == nil:
			c.Set(common.SessionKey, sess)
		case errors.Is(err, shared.ErrSessionNotFound):
			logger.Debug("Stale session cookie cleared")
			session.ClearCookie(c, cfg)
		default:
			// Store outage: treat the visitor as anonymous but keep the cookie.
			logger.Error("Failed to load session", zap.Error(err))
		}
		c.Next()
	}
}

// RequireSession redirects anonymous visitors to loginPath.
func RequireSession(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if common.GetSessionFromContext(c) == nil {
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
