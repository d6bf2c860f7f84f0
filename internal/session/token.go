package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expirySkew refreshes a little early so a token never expires mid-request.
const expirySkew = 30 * time.Second

// AccessTokenExpiry reads the exp claim without verifying the signature.
// Verification is the provider's job; we only want to know when to refresh.
func AccessTokenExpiry(accessToken string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether the session's access token is at or past its expiry.
// The token's own exp claim wins over the expiry recorded at sign-in.
func Expired(accessToken string, recorded time.Time, now time.Time) bool {
	exp := recorded
	if fromToken, ok := AccessTokenExpiry(accessToken); ok {
		exp = fromToken
	}
	if exp.IsZero() {
		return false
	}
	return !now.Add(expirySkew).Before(exp)
}
