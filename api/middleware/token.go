package middleware

import (
	"net/http"
	"strings"
)

const (
	// SessionCookie carries the access token for screen navigation.
	SessionCookie = "dg_token"
	// TokenHeader echoes a freshly minted access token.
	TokenHeader = "X-DG-Token"
)

// TokenFromRequest prefers an Authorization bearer token and falls back to
// the session cookie.
func TokenFromRequest(r *http.Request) string {
	if raw := strings.TrimSpace(r.Header.Get("Authorization")); raw != "" {
		if len(raw) >= 7 && strings.EqualFold(raw[:7], "bearer ") {
			return strings.TrimSpace(raw[7:])
		}
		return raw
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}
