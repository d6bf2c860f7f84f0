package session

import (
	"net/http"

	"docsign_web/internal/config"

	"github.com/gin-gonic/gin"
)

// SetCookie writes the session id cookie.
func SetCookie(c *gin.Context, cfg *config.Config, id string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cfg.SessionCookieName,
		Value:    id,
		Path:     "/",
		Domain:   cfg.SessionCookieDomain,
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		Secure:   cfg.SessionCookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session id cookie.
func ClearCookie(c *gin.Context, cfg *config.Config) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cfg.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   cfg.SessionCookieDomain,
		MaxAge:   -1,
		Secure:   cfg.SessionCookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// CookieValue returns the session id presented by the browser, or "".
func CookieValue(c *gin.Context, cfg *config.Config) string {
	v, err := c.Cookie(cfg.SessionCookieName)
	if err != nil {
		return ""
	}
	return v
}
