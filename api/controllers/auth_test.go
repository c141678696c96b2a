package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/me0hharryy/dermaGo/api/middleware"
	"github.com/me0hharryy/dermaGo/internal/auth"
	"github.com/me0hharryy/dermaGo/internal/users"
	pkgerrors "github.com/me0hharryy/dermaGo/pkg/errors"
)

func TestAuthLoginSetsTokenHeaderAndCookie(t *testing.T) {
	cfg := testJWTConfig()
	svc := &stubAuthService{session: &auth.SessionResponse{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		User:         &users.UserDTO{ID: uuid.New(), Email: "tester@example.com"},
		RedirectTo:   "/quiz",
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"tester@example.com","password":"secret","from":"/quiz"}`))
	resp := httptest.NewRecorder()
	AuthLogin(svc, cfg, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get(middleware.TokenHeader); got != "access-token" {
		t.Fatalf("expected token header got %q", got)
	}
	if svc.lastLogin.From != "/quiz" {
		t.Fatalf("expected from to reach the service got %q", svc.lastLogin.From)
	}

	var cookie *http.Cookie
	for _, c := range resp.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value != "access-token" || !cookie.HttpOnly {
		t.Fatalf("expected http-only session cookie got %+v", cookie)
	}

	var envelope struct {
		Data auth.SessionResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.RedirectTo != "/quiz" {
		t.Fatalf("expected redirect_to /quiz got %q", envelope.Data.RedirectTo)
	}
}

func TestAuthLoginFailureUsesFriendlyMessage(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, auth.LoginFailedMessage)}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"tester@example.com","password":"wrong"}`))
	resp := httptest.NewRecorder()
	AuthLogin(svc, testJWTConfig(), nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), auth.LoginFailedMessage) {
		t.Fatalf("expected friendly message got %s", resp.Body.String())
	}
}

func TestAuthSignUpValidatesPasswordLength(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(`{"email":"new@example.com","password":"12345"}`))
	resp := httptest.NewRecorder()
	AuthSignUp(svc, testJWTConfig(), nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthSignUpCreated(t *testing.T) {
	svc := &stubAuthService{session: &auth.SessionResponse{AccessToken: "a", RefreshToken: "r", RedirectTo: "/profile"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(`{"email":"new@example.com","password":"123456"}`))
	resp := httptest.NewRecorder()
	AuthSignUp(svc, testJWTConfig(), nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAuthLogoutAcceptsExpiredTokenAndClearsCookie(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()
	token := mintToken(t, cfg, userID, time.Now().Add(-3*time.Hour))
	svc := &stubAuthService{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	resp := httptest.NewRecorder()
	AuthLogout(svc, cfg, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.loggedOut == nil || svc.loggedOut.UserID != userID {
		t.Fatalf("expected logout for %s got %+v", userID, svc.loggedOut)
	}
	cleared := false
	for _, c := range resp.Result().Cookies() {
		if c.Name == middleware.SessionCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected session cookie to be cleared")
	}
}

func TestAuthLogoutRequiresToken(t *testing.T) {
	resp := httptest.NewRecorder()
	AuthLogout(&stubAuthService{}, testJWTConfig(), nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRefreshRotates(t *testing.T) {
	cfg := testJWTConfig()
	token := mintToken(t, cfg, uuid.New(), time.Now())
	svc := &stubAuthService{refresh: &auth.RefreshResponse{AccessToken: "new-access", RefreshToken: "new-refresh"}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(`{"refresh_token":"old-refresh"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	AuthRefresh(svc, cfg, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.refreshedBy != "old-refresh" {
		t.Fatalf("expected presented refresh token got %q", svc.refreshedBy)
	}
	if got := resp.Header().Get(middleware.TokenHeader); got != "new-access" {
		t.Fatalf("expected rotated token header got %q", got)
	}
}

func TestAuthSessionReportsResolvedUser(t *testing.T) {
	userID := uuid.New()
	req := withClaims(httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil), userID)
	resp := httptest.NewRecorder()
	AuthSession(nil).ServeHTTP(resp, req)

	var envelope struct {
		Data struct {
			Loading bool `json:"loading"`
			User    struct {
				ID    string `json:"id"`
				Email string `json:"email"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Loading || envelope.Data.User.ID != userID.String() {
		t.Fatalf("unexpected session %+v", envelope.Data)
	}
}
