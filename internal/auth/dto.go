package auth

import (
	"github.com/me0hharryy/dermaGo/internal/users"
)

// SignUpRequest is the email/password account creation payload.
type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"display_name,omitempty" validate:"omitempty,max=80"`
	From        string `json:"from,omitempty"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	From     string `json:"from,omitempty"`
}

// GoogleRequest carries a Google ID token from the client's sign-in popup.
type GoogleRequest struct {
	IDToken string `json:"id_token" validate:"required"`
	From    string `json:"from,omitempty"`
}

// RefreshRequest presents the refresh token for rotation.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// SessionResponse contains the tokens and user produced by any sign-in.
type SessionResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	ExpiresIn    int            `json:"expires_in"`
	User         *users.UserDTO `json:"user"`
	RedirectTo   string         `json:"redirect_to,omitempty"`
}

// RefreshResponse is the rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}
