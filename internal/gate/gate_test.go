package gate

import "testing"

func TestDecide(t *testing.T) {
	user := &User{ID: "u1", Email: "a@example.com"}
	cases := []struct {
		name     string
		state    State
		path     string
		want     Outcome
		redirect string
	}{
		{name: "loading wins", state: State{Loading: true, User: user}, path: "/quiz", want: OutcomeLoading},
		{name: "loading without user", state: State{Loading: true}, path: "/quiz", want: OutcomeLoading},
		{name: "signed out", state: State{}, path: "/quiz", want: OutcomeRedirect, redirect: "/login?from=%2Fquiz"},
		{name: "signed in", state: State{User: user}, path: "/map", want: OutcomeRender},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Decide(tc.state, tc.path)
			if got.Outcome != tc.want {
				t.Fatalf("expected %s got %s", tc.want, got.Outcome)
			}
			if got.RedirectTo != tc.redirect {
				t.Fatalf("expected redirect %q got %q", tc.redirect, got.RedirectTo)
			}
		})
	}
}

func TestSafeReturnPath(t *testing.T) {
	cases := map[string]string{
		"":                      DefaultReturnPath,
		"/scanner":              "/scanner",
		"/map?category=dumping": "/map?category=dumping",
		"//evil.example.com":    DefaultReturnPath,
		"https://evil.example":  DefaultReturnPath,
		"profile":               DefaultReturnPath,
		"/\\evil.example":       DefaultReturnPath,
		"/login":                DefaultReturnPath,
	}
	for in, want := range cases {
		if got := SafeReturnPath(in); got != want {
			t.Fatalf("SafeReturnPath(%q) expected %q got %q", in, want, got)
		}
	}
}
