package auth

import (
	"time"

	"docsign_web/internal/shared"
)

// Credentials is what the sign-up and sign-in forms collect.
type Credentials struct {
	Email    string
	Password string
	// FormKey identifies one form instance (its CSRF token). Submissions
	// sharing a key while one is in flight share its result.
	FormKey string
}

// Result is the outcome shown to the user.
type Result struct {
	Success bool
	Message string
	// Session is set when the action left the user signed in.
	Session *shared.Session
	Err     error
}

// CredentialsRequest is the JSON body of the sign-up and sign-in endpoints.
type CredentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SessionResponse is the JSON view of a session. Tokens are never exposed.
type SessionResponse struct {
	Provider  string    `json:"provider"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ToSessionResponse converts a session for the API.
func ToSessionResponse(s *shared.Session) SessionResponse {
	return SessionResponse{
		Provider:  s.Provider,
		UserID:    s.UserID,
		Email:     s.Email,
		ExpiresAt: s.ExpiresAt,
	}
}

// UserResponse is the JSON view of the provider's user record.
type UserResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}
