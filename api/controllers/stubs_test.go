package controllers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/me0hharryy/dermaGo/api/middleware"
	"github.com/me0hharryy/dermaGo/internal/auth"
	"github.com/me0hharryy/dermaGo/internal/quiz"
	"github.com/me0hharryy/dermaGo/internal/routines"
	"github.com/me0hharryy/dermaGo/internal/scans"
	pkgAuth "github.com/me0hharryy/dermaGo/pkg/auth"
	"github.com/me0hharryy/dermaGo/pkg/config"
	"github.com/me0hharryy/dermaGo/pkg/enums"
	"github.com/me0hharryy/dermaGo/pkg/pagination"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "dermago", ExpirationMinutes: 60, RefreshTokenTTLMinutes: 120}
}

// withClaims authenticates r the way the Auth middleware would.
func withClaims(r *http.Request, userID uuid.UUID) *http.Request {
	claims := &pkgAuth.AccessTokenClaims{UserID: userID, Email: "tester@example.com", Provider: enums.AuthProviderPassword}
	claims.ID = "access-1"
	return r.WithContext(middleware.WithClaims(r.Context(), claims))
}

func mintToken(t *testing.T, cfg config.JWTConfig, userID uuid.UUID, now time.Time) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg, now, pkgAuth.AccessTokenPayload{
		UserID:   userID,
		Email:    "tester@example.com",
		Provider: enums.AuthProviderPassword,
		JTI:      "access-1",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

type stubAuthService struct {
	session     *auth.SessionResponse
	refresh     *auth.RefreshResponse
	err         error
	lastLogin   auth.LoginRequest
	loggedOut   *pkgAuth.AccessTokenClaims
	refreshedBy string
}

func (s *stubAuthService) SignUp(ctx context.Context, req auth.SignUpRequest) (*auth.SessionResponse, error) {
	return s.session, s.err
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.SessionResponse, error) {
	s.lastLogin = req
	return s.session, s.err
}

func (s *stubAuthService) Google(ctx context.Context, req auth.GoogleRequest) (*auth.SessionResponse, error) {
	return s.session, s.err
}

func (s *stubAuthService) Logout(ctx context.Context, claims *pkgAuth.AccessTokenClaims) error {
	s.loggedOut = claims
	return s.err
}

func (s *stubAuthService) Refresh(ctx context.Context, claims *pkgAuth.AccessTokenClaims, refreshToken string) (*auth.RefreshResponse, error) {
	s.refreshedBy = refreshToken
	return s.refresh, s.err
}

type stubRoutineService struct {
	generated routines.Generated
	page      pagination.Page[routines.SavedRoutineDTO]
	err       error
	owner     routines.Owner
	answers   quiz.Answers
	params    pagination.Params
}

func (s *stubRoutineService) Generate(ctx context.Context, owner routines.Owner, answers quiz.Answers) (routines.Generated, error) {
	s.owner = owner
	s.answers = answers
	return s.generated, s.err
}

func (s *stubRoutineService) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (pagination.Page[routines.SavedRoutineDTO], error) {
	s.params = params
	return s.page, s.err
}

type stubScanService struct {
	analysis scans.Analysis
	page     pagination.Page[scans.SavedProductDTO]
	err      error
	label    scans.LabelInput
	barcode  string
}

func (s *stubScanService) ScanLabel(ctx context.Context, userID uuid.UUID, in scans.LabelInput) (scans.Analysis, error) {
	s.label = in
	return s.analysis, s.err
}

func (s *stubScanService) ScanBarcode(ctx context.Context, userID uuid.UUID, barcode string) (scans.Analysis, error) {
	s.barcode = barcode
	return s.analysis, s.err
}

func (s *stubScanService) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (pagination.Page[scans.SavedProductDTO], error) {
	return s.page, s.err
}
