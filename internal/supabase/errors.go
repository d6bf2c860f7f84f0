package supabase

import (
	"strings"

	"github.com/tidwall/gjson"
)

// GoTrue has used several error shapes over time; the first non-empty field wins.
var messageFields = []string{"msg", "error_description", "message", "error"}

// ExtractMessage pulls the human-readable message out of a GoTrue error.
// The client reports failures as "response status code N: <body>".
func ExtractMessage(err error) string {
	if err == nil {
		return ""
	}
	raw := err.Error()
	start := strings.Index(raw, "{")
	if start < 0 {
		return raw
	}
	body := raw[start:]
	if !gjson.Valid(body) {
		return raw
	}
	for _, field := range messageFields {
		if v := gjson.Get(body, field); v.Exists() && v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return raw
}
