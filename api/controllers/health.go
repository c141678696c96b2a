package controllers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/me0hharryy/dermaGo/api/responses"
	"github.com/me0hharryy/dermaGo/pkg/config"
	pkgerrors "github.com/me0hharryy/dermaGo/pkg/errors"
	"github.com/me0hharryy/dermaGo/pkg/logger"
)

const readyTimeout = 2 * time.Second

// Pinger is anything the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-DermaGo-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every dependency in parallel. Any failure reports 503
// with the names of the dependencies that failed.
func HealthReady(cfg *config.Config, deps map[string]Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-DermaGo-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		results := make(map[string]string, len(deps))
		var combined error
		type outcome struct {
			name string
			err  error
		}
		out := make(chan outcome, len(deps))

		var g errgroup.Group
		for name, dep := range deps {
			g.Go(func() error {
				out <- outcome{name: name, err: dep.Ping(ctx)}
				return nil
			})
		}
		_ = g.Wait()
		close(out)

		for o := range out {
			if o.err != nil {
				results[o.name] = "down"
				combined = multierr.Append(combined, o.err)
				continue
			}
			results[o.name] = "up"
		}

		if combined != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "dependencies unavailable").WithDetails(results))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "dependencies": results})
	}
}
