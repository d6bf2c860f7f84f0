// File: internal/middleware/csrf.go
package middleware

import (
	"net/http"

	"docsign_web/internal/common"
	"docsign_web/internal/config"
	"docsign_web/internal/platform/crypto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	CSRFCookieName = "docsign_csrf"
	CSRFFormField  = "csrf_token"
	CSRFHeader     = "X-CSRF-Token"
)

// CSRF implements the double-submit cookie check for form posts. Safe
// methods get a token issued; unsafe ones must echo the cookie value in
// the form field or header.
func CSRF(cfg *config.Config, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookieToken, _ := c.Cookie(CSRFCookieName)

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			if cookieToken == "" {
				token, err := crypto.NewToken()
				if err != nil {
					_ = c.Error(err)
					c.AbortWithStatus(http.StatusInternalServerError)
					return
				}
				setCSRFCookie(c, cfg, token)
				cookieToken = token
			}
			c.Set(common.CSRFTokenKey, cookieToken)
			c.Next()
			return
		}

		submitted := c.PostForm(CSRFFormField)
		if submitted == "" {
			submitted = c.GetHeader(CSRFHeader)
		}
		if !crypto.Equal(cookieToken, submitted) {
			logger.Warn("CSRF check failed",
				zap.String("path", c.Request.URL.Path),
				zap.Bool("cookie_present", cookieToken != ""),
				zap.String("request_id", common.GetRequestIDFromContext(c)),
			)
			c.String(http.StatusForbidden, "Invalid or missing CSRF token. Reload the page and try again.")
			c.Abort()
			return
		}
		c.Set(common.CSRFTokenKey, cookieToken)
		c.Next()
	}
}

func setCSRFCookie(c *gin.Context, cfg *config.Config, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		Domain:   cfg.SessionCookieDomain,
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		Secure:   cfg.SessionCookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
