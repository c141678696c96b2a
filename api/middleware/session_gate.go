package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/me0hharryy/dermaGo/api/responses"
	"github.com/me0hharryy/dermaGo/internal/gate"
	pkgAuth "github.com/me0hharryy/dermaGo/pkg/auth"
	"github.com/me0hharryy/dermaGo/pkg/auth/session"
	"github.com/me0hharryy/dermaGo/pkg/config"
	"github.com/me0hharryy/dermaGo/pkg/logger"
)

// SessionProvider resolves the caller's session for the screen gate.
type SessionProvider interface {
	Resolve(r *http.Request) (gate.State, *pkgAuth.AccessTokenClaims)
}

// TokenSessionProvider reads the access token from the request and checks
// that its refresh session is still live.
type TokenSessionProvider struct {
	cfg      config.JWTConfig
	verifier session.AccessSessionChecker
	logg     *logger.Logger
}

func NewTokenSessionProvider(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) *TokenSessionProvider {
	return &TokenSessionProvider{cfg: cfg, verifier: verifier, logg: logg}
}

// Resolve never fails. A session store it cannot reach means the session is
// still loading; anything unverifiable means signed out.
func (p *TokenSessionProvider) Resolve(r *http.Request) (gate.State, *pkgAuth.AccessTokenClaims) {
	token := TokenFromRequest(r)
	if token == "" {
		return gate.State{}, nil
	}
	claims, err := pkgAuth.ParseAccessToken(p.cfg, token)
	if err != nil || claims.ID == "" {
		return gate.State{}, nil
	}
	if p.verifier != nil {
		ok, err := p.verifier.HasSession(r.Context(), claims.ID)
		if err != nil {
			if p.logg != nil {
				p.logg.Error(r.Context(), "gate.session_lookup_failed", err)
			}
			return gate.State{Loading: true}, nil
		}
		if !ok {
			return gate.State{}, nil
		}
	}
	return gate.State{User: &gate.User{ID: claims.UserID.String(), Email: claims.Email}}, claims
}

// LoadingView is the body served while the session is unresolved.
type LoadingView struct {
	Screen  string `json:"screen"`
	Loading bool   `json:"loading"`
}

const loadingRetryAfter = time.Second

// Gate protects a screen. Loading answers 503 with Retry-After, signed-out
// visitors are sent to the login screen with the requested path remembered,
// and signed-in callers pass through with their claims in context.
func Gate(provider SessionProvider, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state, claims := provider.Resolve(r)
			decision := gate.Decide(state, r.URL.RequestURI())

			switch decision.Outcome {
			case gate.OutcomeLoading:
				w.Header().Set("Retry-After", retryAfterSeconds(loadingRetryAfter))
				responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, LoadingView{Screen: "loading", Loading: true})
			case gate.OutcomeRedirect:
				if logg != nil {
					logg.Debug(logg.WithField(r.Context(), "redirect_to", decision.RedirectTo), "gate.redirect")
				}
				http.Redirect(w, r, decision.RedirectTo, http.StatusSeeOther)
			default:
				ctx := WithClaims(r.Context(), claims)
				if claims == nil && state.User != nil {
					ctx = WithUserID(ctx, state.User.ID)
				}
				if logg != nil {
					ctx = logg.WithUserID(ctx, UserIDFromContext(ctx))
				}
				next.ServeHTTP(w, r.WithContext(ctx))
			}
		})
	}
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(d / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
