package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/me0hharryy/dermaGo/pkg/db/models"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	HasPassword bool       `json:"has_password"`
	GoogleLink  bool       `json:"google_linked"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
// Exactly one of PasswordHash or GoogleSubject is normally set.
type CreateUserDTO struct {
	Email         string
	DisplayName   string
	PasswordHash  *string
	GoogleSubject *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		HasPassword: u.PasswordHash != nil,
		GoogleLink:  u.GoogleSubject != nil,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Email:         c.Email,
		DisplayName:   c.DisplayName,
		PasswordHash:  c.PasswordHash,
		GoogleSubject: c.GoogleSubject,
		IsActive:      true,
	}
}
