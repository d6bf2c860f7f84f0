package common

import "strings"

// User-facing strings of the auth flows.
const (
	MsgSignUpSuccess = "Success! Check your email for confirmation."
	MsgSignInSuccess = "Signed in successfully!"
	MsgErrorPrefix   = "Error: "
)

// ErrorMessage formats a provider message the way the forms display failures.
func ErrorMessage(providerMessage string) string {
	return MsgErrorPrefix + providerMessage
}

// IsErrorMessage reports whether a form message should render as an error.
func IsErrorMessage(msg string) bool {
	return strings.Contains(msg, "Error")
}
