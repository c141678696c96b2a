// Package gate decides whether a protected screen renders, waits for the
// session to resolve, or sends the visitor to sign in.
package gate

import (
	"net/url"
	"strings"
)

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/login"

// DefaultReturnPath is where a fresh sign-in lands without a usable "from".
const DefaultReturnPath = "/profile"

// Outcome is the gate's verdict.
type Outcome int

const (
	OutcomeLoading Outcome = iota
	OutcomeRedirect
	OutcomeRender
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLoading:
		return "loading"
	case OutcomeRedirect:
		return "redirect"
	case OutcomeRender:
		return "render"
	default:
		return "unknown"
	}
}

// User is the signed-in identity seen by the gate.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// State is the current session view. User is nil when signed out.
type State struct {
	Loading bool  `json:"loading"`
	User    *User `json:"user"`
}

// Decision is the outcome plus, for redirects, where to go.
type Decision struct {
	Outcome    Outcome
	RedirectTo string
}

// Decide applies the gate to a request for the requested path.
func Decide(state State, requested string) Decision {
	switch {
	case state.Loading:
		return Decision{Outcome: OutcomeLoading}
	case state.User == nil:
		return Decision{Outcome: OutcomeRedirect, RedirectTo: LoginRedirect(requested)}
	default:
		return Decision{Outcome: OutcomeRender}
	}
}

// LoginRedirect builds the login URL that remembers requested.
func LoginRedirect(requested string) string {
	return LoginPath + "?" + url.Values{"from": {SafeReturnPath(requested)}}.Encode()
}

// SafeReturnPath returns from when it is a same-origin relative path and
// DefaultReturnPath otherwise.
func SafeReturnPath(from string) string {
	from = strings.TrimSpace(from)
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") || strings.ContainsAny(from, "\\\r\n") {
		return DefaultReturnPath
	}
	u, err := url.Parse(from)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return DefaultReturnPath
	}
	if u.Path == LoginPath {
		return DefaultReturnPath
	}
	return from
}
