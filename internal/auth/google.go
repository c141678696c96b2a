package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/me0hharryy/dermaGo/internal/users"
	"github.com/me0hharryy/dermaGo/pkg/db/models"
	"github.com/me0hharryy/dermaGo/pkg/enums"
	pkgerrors "github.com/me0hharryy/dermaGo/pkg/errors"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

// GoogleIdentity is the verified subset of a Google ID token.
type GoogleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

// GoogleVerifier checks a Google ID token and returns who it names.
type GoogleVerifier interface {
	Verify(ctx context.Context, rawToken string) (GoogleIdentity, error)
}

// IDTokenVerifier validates tokens issued for one OAuth client.
type IDTokenVerifier struct {
	audience string
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

// NewIDTokenVerifier builds a verifier for the OAuth client ID audience.
func NewIDTokenVerifier(audience string) (*IDTokenVerifier, error) {
	if strings.TrimSpace(audience) == "" {
		return nil, fmt.Errorf("google oauth client id is required")
	}
	return &IDTokenVerifier{audience: audience, validate: idtoken.Validate}, nil
}

func (v *IDTokenVerifier) Verify(ctx context.Context, rawToken string) (GoogleIdentity, error) {
	payload, err := v.validate(ctx, rawToken, v.audience)
	if err != nil {
		return GoogleIdentity{}, err
	}
	return identityFromPayload(payload), nil
}

func identityFromPayload(p *idtoken.Payload) GoogleIdentity {
	id := GoogleIdentity{Subject: p.Subject}
	if email, ok := p.Claims["email"].(string); ok {
		id.Email = email
	}
	switch v := p.Claims["email_verified"].(type) {
	case bool:
		id.EmailVerified = v
	case string:
		id.EmailVerified = strings.EqualFold(v, "true")
	}
	if name, ok := p.Claims["name"].(string); ok {
		id.Name = name
	}
	return id
}

// Google signs in with a Google ID token. A known subject signs straight in.
// Otherwise a verified email is linked to the matching account, or a new
// account is created.
func (s *service) Google(ctx context.Context, req GoogleRequest) (*SessionResponse, error) {
	identity, err := s.google.Verify(ctx, req.IDToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, GoogleFailedMessage)
	}
	if identity.Subject == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, GoogleFailedMessage)
	}

	user, err := s.users.FindByGoogleSubject(ctx, identity.Subject)
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		user, err = s.linkOrCreate(ctx, identity)
		if err != nil {
			return nil, err
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup google subject")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, GoogleFailedMessage)
	}
	return s.openSession(ctx, user, enums.AuthProviderGoogle, req.From)
}

func (s *service) linkOrCreate(ctx context.Context, identity GoogleIdentity) (*models.User, error) {
	email := normalizeEmail(identity.Email)
	if email == "" || !identity.EmailVerified {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, GoogleFailedMessage)
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		if err := s.users.LinkGoogleSubject(ctx, existing.ID, identity.Subject); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "link google account")
		}
		existing.GoogleSubject = &identity.Subject
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	subject := identity.Subject
	return s.createAccount(ctx, users.CreateUserDTO{
		Email:         email,
		DisplayName:   strings.TrimSpace(identity.Name),
		GoogleSubject: &subject,
	})
}
