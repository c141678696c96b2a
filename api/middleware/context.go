package middleware

import (
	"context"

	pkgAuth "github.com/me0hharryy/dermaGo/pkg/auth"
)

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxClaims contextKey = "access_claims"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

// ClaimsFromContext returns the verified access token claims, or nil on
// routes that are not behind Auth.
func ClaimsFromContext(ctx context.Context) *pkgAuth.AccessTokenClaims {
	if ctx == nil {
		return nil
	}
	claims, _ := ctx.Value(ctxClaims).(*pkgAuth.AccessTokenClaims)
	return claims
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithClaims stores claims and their subject for downstream handlers.
func WithClaims(ctx context.Context, claims *pkgAuth.AccessTokenClaims) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if claims == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, ctxClaims, claims)
	return WithUserID(ctx, claims.UserID.String())
}
