// File: internal/common/context_keys.go
package common

const (
	// SessionKey is the gin context key holding the resolved *shared.Session.
	SessionKey = "session"
	// SessionIDKey holds the raw session id from the cookie, even when it no longer resolves.
	SessionIDKey = "sessionID"
	// CSRFTokenKey holds the CSRF token issued for the current request.
	CSRFTokenKey = "csrfToken"
	// RequestIDKey is the key for storing request ID in gin context.
	RequestIDKey = "requestID"
)
