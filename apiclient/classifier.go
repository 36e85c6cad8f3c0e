package apiclient

import (
	"encoding/json"
	"net/http"
	"strings"
)

// authVocabulary are the substrings that mark a 401/403 message as a credential problem.
var authVocabulary = []string{"token", "jwt", "unauthorized", "unauthenticated", "expired"}

// Result is what the classifier needs to know about a failed call.
type Result struct {
	StatusCode int
	Body       []byte
	SkipAuth   bool
}

type Classification struct {
	IsAuthFailure bool
	Message       string
}

// Classify decides whether a failed response means the access token is expired or invalid.
//
// Only 401 and 403 qualify. With no message in the body a 401 is an auth failure and a 403
// is not; with a message, either status is an auth failure only when the message mentions
// one of authVocabulary. Calls flagged SkipAuth are never auth failures.
func Classify(res Result) Classification {
	msg := extractMessage(res.Body)
	c := Classification{Message: msg}

	if res.SkipAuth {
		return c
	}
	if res.StatusCode != http.StatusUnauthorized && res.StatusCode != http.StatusForbidden {
		return c
	}

	if msg == "" {
		c.IsAuthFailure = res.StatusCode == http.StatusUnauthorized
		return c
	}

	lower := strings.ToLower(msg)
	for _, word := range authVocabulary {
		if strings.Contains(lower, word) {
			c.IsAuthFailure = true
			break
		}
	}
	return c
}

// extractMessage pulls a human-readable message out of a JSON error body, trying
// "message", then "error_description", then "error". Non-JSON bodies yield "".
func extractMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}

	for _, key := range []string{"message", "error_description", "error"} {
		if s, ok := fields[key].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}
