package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/me0hharryy/dermaGo/api/controllers"
	"github.com/me0hharryy/dermaGo/api/middleware"
	"github.com/me0hharryy/dermaGo/internal/auth"
	"github.com/me0hharryy/dermaGo/internal/places"
	"github.com/me0hharryy/dermaGo/internal/routines"
	"github.com/me0hharryy/dermaGo/internal/scans"
	"github.com/me0hharryy/dermaGo/pkg/auth/session"
	"github.com/me0hharryy/dermaGo/pkg/config"
	"github.com/me0hharryy/dermaGo/pkg/db/models"
	"github.com/me0hharryy/dermaGo/pkg/logger"
)

// RedisStore is the slice of the Redis client the HTTP layer uses for rate
// limits, generation locks and readiness.
type RedisStore interface {
	Ping(ctx context.Context) error
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	AcquireLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, owner string) error
	GenerationLockKey(userID string) string
}

// ProfileReader loads the profile document for the profile screen.
type ProfileReader interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

// SessionEvents is the per-user session subscription.
type SessionEvents interface {
	Subscribe(ctx context.Context, userID uuid.UUID) (<-chan session.Event, func())
}

// Deps is everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    RedisStore
	Sessions session.AccessSessionChecker
	Events   SessionEvents
	Gatherer prometheus.Gatherer

	Auth     auth.Service
	Profiles ProfileReader
	Routines routines.Service
	Scans    scans.Service
	Places   *places.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	provider := middleware.NewTokenSessionProvider(cfg.JWT, d.Sessions, logg)
	loginLimit := middleware.AuthRateLimit(middleware.LoginPolicy(cfg.AuthRateLimit), d.Redis, logg)
	signupLimit := middleware.AuthRateLimit(middleware.SignupPolicy(cfg.AuthRateLimit), d.Redis, logg)
	requireAuth := middleware.Auth(cfg.JWT, d.Sessions, logg)
	oneGeneration := middleware.GenerationLock(d.Redis, cfg.Generation.LockTTL, logg)
	maxUpload := cfg.Scans.MaxUploadBytes()

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, map[string]controllers.Pinger{"db": d.DB, "redis": d.Redis}, logg))
	})

	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/", controllers.HomeScreen(provider))
	r.Get("/login", controllers.LoginScreen())
	r.Get("/signup", controllers.SignUpScreen())
	r.Group(func(r chi.Router) {
		r.Use(middleware.Gate(provider, logg))
		r.Get("/profile", controllers.ProfileScreen(d.Profiles, d.Routines, d.Scans, logg))
		r.Get("/quiz", controllers.QuizScreen(logg))
		r.Get("/scanner", controllers.ScannerScreen(maxUpload))
		r.Get("/map", controllers.MapScreen(d.Places))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(signupLimit).Post("/signup", controllers.AuthSignUp(d.Auth, cfg.JWT, logg))
			r.With(loginLimit).Post("/login", controllers.AuthLogin(d.Auth, cfg.JWT, logg))
			r.With(loginLimit).Post("/google", controllers.AuthGoogle(d.Auth, cfg.JWT, logg))
			r.Post("/logout", controllers.AuthLogout(d.Auth, cfg.JWT, logg))
			r.Post("/refresh", controllers.AuthRefresh(d.Auth, cfg.JWT, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/session", controllers.AuthSession(logg))
				r.Get("/session/events", controllers.AuthSessionEvents(d.Events, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Route("/routines", func(r chi.Router) {
				r.With(oneGeneration).Post("/", controllers.RoutinesGenerate(d.Routines, logg))
				r.Get("/", controllers.RoutinesList(d.Routines, logg))
			})
			r.Route("/scans", func(r chi.Router) {
				r.With(oneGeneration).Post("/label", controllers.ScansLabel(d.Scans, maxUpload, logg))
				r.With(oneGeneration).Post("/barcode", controllers.ScansBarcode(d.Scans, logg))
				r.Get("/", controllers.ScansList(d.Scans, logg))
			})
			r.Get("/places", controllers.PlacesNearby(d.Places, logg))
		})
	})

	return r
}
