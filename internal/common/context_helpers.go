// File: internal/common/context_helpers.go
package common

import (
	"docsign_web/internal/shared"

	"github.com/gin-gonic/gin"
)

// GetSessionFromContext returns the signed-in session, or nil for anonymous visitors.
func GetSessionFromContext(c *gin.Context) *shared.Session {
	val, exists := c.Get(SessionKey)
	if !exists {
		return nil
	}
	sess, ok := val.(*shared.Session)
	if !ok {
		return nil
	}
	return sess
}

// GetSessionIDFromContext returns the session id the browser presented.
func GetSessionIDFromContext(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

// GetCSRFTokenFromContext returns the CSRF token to embed in forms.
func GetCSRFTokenFromContext(c *gin.Context) string {
	return c.GetString(CSRFTokenKey)
}

// GetRequestIDFromContext returns the request id assigned by the logging middleware.
func GetRequestIDFromContext(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
