package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/me0hharryy/dermaGo/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	Email    string
	Provider enums.AuthProvider
	// JTI doubles as the refresh-session key. Blank means generate one.
	JTI string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID   uuid.UUID          `json:"user_id"`
	Email    string             `json:"email"`
	Provider enums.AuthProvider `json:"provider"`
	jwt.RegisteredClaims
}
