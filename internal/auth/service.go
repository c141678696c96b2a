package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/me0hharryy/dermaGo/internal/gate"
	"github.com/me0hharryy/dermaGo/internal/users"
	pkgAuth "github.com/me0hharryy/dermaGo/pkg/auth"
	"github.com/me0hharryy/dermaGo/pkg/auth/session"
	"github.com/me0hharryy/dermaGo/pkg/config"
	"github.com/me0hharryy/dermaGo/pkg/db/models"
	"github.com/me0hharryy/dermaGo/pkg/enums"
	pkgerrors "github.com/me0hharryy/dermaGo/pkg/errors"
	"github.com/me0hharryy/dermaGo/pkg/logger"
	"github.com/me0hharryy/dermaGo/pkg/security"
	"gorm.io/gorm"
)

// User-facing messages shown by the sign-in screens.
const (
	LoginFailedMessage  = "Failed to login. Please check your email and password."
	SignUpFailedMessage = "Failed to create account. This email might already be in use."
	GoogleFailedMessage = "Failed to sign in with Google. Please try again."
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	SignUp(ctx context.Context, req SignUpRequest) (*SessionResponse, error)
	Login(ctx context.Context, req LoginRequest) (*SessionResponse, error)
	Google(ctx context.Context, req GoogleRequest) (*SessionResponse, error)
	Logout(ctx context.Context, claims *pkgAuth.AccessTokenClaims) error
	Refresh(ctx context.Context, claims *pkgAuth.AccessTokenClaims, refreshToken string) (*RefreshResponse, error)
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByGoogleSubject(ctx context.Context, subject string) (*models.User, error)
	LinkGoogleSubject(ctx context.Context, id uuid.UUID, subject string) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string, userID uuid.UUID) (string, error)
	Rotate(ctx context.Context, oldAccessID string, userID uuid.UUID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventPublisher interface {
	Publish(ev session.Event)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	Tx             txRunner
	SessionManager sessionManager
	Hasher         *security.Hasher
	Google         GoogleVerifier
	Observer       eventPublisher
	JWTConfig      config.JWTConfig
	Logger         *logger.Logger
}

type service struct {
	users    userRepository
	tx       txRunner
	session  sessionManager
	hasher   *security.Hasher
	google   GoogleVerifier
	observer eventPublisher
	jwtCfg   config.JWTConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs the identity service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	if params.Google == nil {
		return nil, fmt.Errorf("google verifier is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		users:    params.UserRepo,
		tx:       params.Tx,
		session:  params.SessionManager,
		hasher:   params.Hasher,
		google:   params.Google,
		observer: params.Observer,
		jwtCfg:   params.JWTConfig,
		logg:     logg,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*SessionResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, LoginFailedMessage)
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, LoginFailedMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if user.PasswordHash == nil || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, LoginFailedMessage)
	}

	valid, err := s.hasher.Verify(req.Password, *user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, LoginFailedMessage)
	}
	return s.openSession(ctx, user, enums.AuthProviderPassword, req.From)
}

func (s *service) Logout(ctx context.Context, claims *pkgAuth.AccessTokenClaims) error {
	if claims == nil || claims.ID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}
	if err := s.session.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	s.publish(session.Event{UserID: claims.UserID, SessionID: claims.ID, State: session.StateSignedOut})
	return nil
}

func (s *service) Refresh(ctx context.Context, claims *pkgAuth.AccessTokenClaims, refreshToken string) (*RefreshResponse, error) {
	if claims == nil || claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}
	newAccessID, newRefresh, err := s.session.Rotate(ctx, claims.ID, claims.UserID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		UserID:   claims.UserID,
		Email:    claims.Email,
		Provider: claims.Provider,
		JTI:      newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	s.publish(session.Event{UserID: claims.UserID, SessionID: newAccessID, ReplacesSessionID: claims.ID, State: session.StateSignedIn})
	return &RefreshResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		ExpiresIn:    int(s.jwtCfg.AccessTokenTTL().Seconds()),
	}, nil
}

// openSession records the login, mints the access token, stores the refresh
// session and announces the sign-in.
func (s *service) openSession(ctx context.Context, user *models.User, provider enums.AuthProvider, from string) (*SessionResponse, error) {
	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logg.Error(s.logg.WithUserID(ctx, user.ID.String()), "update last login", err)
	} else {
		user.LastLoginAt = &now
	}

	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID:   user.ID,
		Email:    user.Email,
		Provider: provider,
		JTI:      accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}

	s.publish(session.Event{UserID: user.ID, SessionID: accessID, State: session.StateSignedIn})
	return &SessionResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtCfg.AccessTokenTTL().Seconds()),
		User:         users.FromModel(user),
		RedirectTo:   gate.SafeReturnPath(from),
	}, nil
}

func (s *service) publish(ev session.Event) {
	if s.observer == nil {
		return
	}
	ev.At = s.now()
	s.observer.Publish(ev)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
