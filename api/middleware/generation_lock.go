package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/me0hharryy/dermaGo/api/responses"
	pkgerrors "github.com/me0hharryy/dermaGo/pkg/errors"
	"github.com/me0hharryy/dermaGo/pkg/logger"
)

type generationLocker interface {
	AcquireLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, owner string) error
	GenerationLockKey(userID string) string
}

// GenerationLock lets one AI generation per user run at a time. A second
// submission while the first is in flight is rejected with 409. It must sit
// behind Auth.
func GenerationLock(locker generationLocker, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if locker == nil || ttl <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := UserIDFromContext(ctx)
			if userID == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context"))
				return
			}

			key := locker.GenerationLockKey(userID)
			owner := uuid.NewString()
			acquired, err := locker.AcquireLock(ctx, key, owner, ttl)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire generation lock"))
				return
			}
			if !acquired {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeGenerationBusy, "Please wait for the current request to finish."))
				return
			}
			defer func() {
				if err := locker.ReleaseLock(context.WithoutCancel(ctx), key, owner); err != nil && logg != nil {
					logg.Error(ctx, "generation_lock.release_failed", err)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
