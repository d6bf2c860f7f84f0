package shared

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProviderMessage(t *testing.T) {
	pe := &ProviderError{Provider: "supabase", Op: "sign_in", Message: "Invalid login credentials", Err: errors.New("status 400")}

	assert.Equal(t, "Invalid login credentials", ProviderMessage(pe))
	assert.Equal(t, "Invalid login credentials", ProviderMessage(fmt.Errorf("wrapped: %w", pe)))
	assert.Equal(t, "dial tcp: refused", ProviderMessage(errors.New("dial tcp: refused")))
	assert.ErrorIs(t, pe, pe.Err)
}

func TestSession_ProviderSession(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	s := &Session{ID: "sid", UserID: "u1", Email: "a@b.c", AccessToken: "at", RefreshToken: "rt", ExpiresAt: exp}

	ps := s.ProviderSession()
	assert.Equal(t, "u1", ps.User.ID)
	assert.Equal(t, "a@b.c", ps.User.Email)
	assert.Equal(t, "at", ps.AccessToken)
	assert.Equal(t, "rt", ps.RefreshToken)
	assert.Equal(t, exp, ps.ExpiresAt)
}
