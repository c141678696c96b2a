package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/me0hharryy/dermaGo/internal/profiles"
	"github.com/me0hharryy/dermaGo/internal/users"
	"github.com/me0hharryy/dermaGo/pkg/db/models"
	"github.com/me0hharryy/dermaGo/pkg/enums"
	pkgerrors "github.com/me0hharryy/dermaGo/pkg/errors"
	"github.com/me0hharryy/dermaGo/pkg/security"
	"gorm.io/gorm"
)

// SignUp creates a password account with an empty profile and signs it in.
func (s *service) SignUp(ctx context.Context, req SignUpRequest) (*SessionResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if err := security.CheckPolicy(req.Password); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "password does not meet policy").
			WithDetails(map[string]string{"password": "must be at least 6 characters"})
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.createAccount(ctx, users.CreateUserDTO{
		Email:        email,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		PasswordHash: &hash,
	})
	if err != nil {
		return nil, err
	}
	return s.openSession(ctx, user, enums.AuthProviderPassword, req.From)
}

// createAccount writes the user and its profile in one transaction. A taken
// email surfaces as a conflict with the sign-up message.
func (s *service) createAccount(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	var created *models.User
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		profileRepo := profiles.NewRepository(tx)

		if _, err := userRepo.FindByEmail(ctx, dto.Email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, SignUpFailedMessage)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		user, err := userRepo.Create(ctx, dto)
		if err != nil {
			if pkgerrors.IsUniqueViolation(err) {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, SignUpFailedMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}
		if err := profileRepo.Create(ctx, user.ID, user.Email, user.DisplayName); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create profile")
		}
		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
