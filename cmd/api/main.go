package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/me0hharryy/dermaGo/api/routes"
	"github.com/me0hharryy/dermaGo/internal/advisor"
	"github.com/me0hharryy/dermaGo/internal/auth"
	"github.com/me0hharryy/dermaGo/internal/places"
	"github.com/me0hharryy/dermaGo/internal/profiles"
	"github.com/me0hharryy/dermaGo/internal/routines"
	"github.com/me0hharryy/dermaGo/internal/scans"
	"github.com/me0hharryy/dermaGo/internal/users"
	"github.com/me0hharryy/dermaGo/pkg/auth/session"
	"github.com/me0hharryy/dermaGo/pkg/config"
	"github.com/me0hharryy/dermaGo/pkg/db"
	"github.com/me0hharryy/dermaGo/pkg/gemini"
	"github.com/me0hharryy/dermaGo/pkg/instance"
	"github.com/me0hharryy/dermaGo/pkg/logger"
	"github.com/me0hharryy/dermaGo/pkg/maps"
	"github.com/me0hharryy/dermaGo/pkg/metrics"
	"github.com/me0hharryy/dermaGo/pkg/migrate"
	"github.com/me0hharryy/dermaGo/pkg/redis"
	"github.com/me0hharryy/dermaGo/pkg/security"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api exited with error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}
	observer := session.NewObserver()
	defer observer.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	geminiClient, err := gemini.New(ctx, cfg.Gemini)
	if err != nil {
		return err
	}
	adv, err := advisor.New(advisor.Params{
		Generator: geminiClient,
		Metrics:   metrics.NewGenerationMetrics(registry),
		Logger:    logg,
	})
	if err != nil {
		return err
	}

	mapsClient, err := maps.NewClient(cfg.GoogleMaps.APIKey)
	if err != nil {
		return err
	}
	googleVerifier, err := auth.NewIDTokenVerifier(cfg.GoogleOAuth.ClientID)
	if err != nil {
		return err
	}

	profileRepo := profiles.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		Tx:             dbClient,
		SessionManager: sessionManager,
		Hasher:         security.NewHasher(cfg.Password),
		Google:         googleVerifier,
		Observer:       observer,
		JWTConfig:      cfg.JWT,
		Logger:         logg,
	})
	if err != nil {
		return err
	}

	routineService, err := routines.NewService(routines.ServiceParams{
		Generator: adv,
		Profiles:  profileRepo,
		Store:     routines.RepositoryStore{Repo: routines.NewRepository(dbClient.DB())},
		Logger:    logg,
	})
	if err != nil {
		return err
	}

	scanService, err := scans.NewService(scans.ServiceParams{
		Analyzer:       adv,
		Store:          scans.RepositoryStore{Repo: scans.NewRepository(dbClient.DB())},
		Logger:         logg,
		MaxUploadBytes: cfg.Scans.MaxUploadBytes(),
	})
	if err != nil {
		return err
	}

	placesService, err := places.NewService(places.ServiceParams{
		Provider: mapsClient,
		Cache:    redisClient,
		Config:   cfg.Places,
		Metrics:  metrics.NewPlacesMetrics(registry),
		Logger:   logg,
	})
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
		"model":    geminiClient.Model(),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Redis:    redisClient,
			Sessions: sessionManager,
			Events:   observer,
			Gatherer: registry,
			Auth:     authService,
			Profiles: profileRepo,
			Routines: routineService,
			Scans:    scanService,
			Places:   placesService,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(logCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	// Open SSE streams only end once the observer closes.
	observer.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return multierr.Append(server.Shutdown(shutdownCtx), <-serveErr)
}
