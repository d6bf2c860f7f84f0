package web

import (
	"net/http"
	"net/url"

	"docsign_web/internal/config"

	"github.com/gin-gonic/gin"
)

const flashCookieName = "docsign_flash"

// setFlash keeps a message for the page the browser is redirected to.
func setFlash(c *gin.Context, cfg *config.Config, msg string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		Domain:   cfg.SessionCookieDomain,
		MaxAge:   60,
		Secure:   cfg.SessionCookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash returns the pending message, if any, and clears it.
func popFlash(c *gin.Context, cfg *config.Config) string {
	raw, err := c.Cookie(flashCookieName)
	if err != nil || raw == "" {
		return ""
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		Domain:   cfg.SessionCookieDomain,
		MaxAge:   -1,
		Secure:   cfg.SessionCookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	// gin has already unescaped the value.
	return raw
}
