package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/me0hharryy/dermaGo/pkg/config"
	"github.com/me0hharryy/dermaGo/pkg/db"
	"github.com/me0hharryy/dermaGo/pkg/logger"
	"github.com/me0hharryy/dermaGo/pkg/migrate"
)

func main() {
	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|create|validate")
	dir := flag.String("dir", migrate.DefaultDir, "migrations directory (create and validate only)")
	name := flag.String("name", "", "migration name (for create)")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "dermago-migrate"})
	ctx := logg.WithField(context.Background(), "cmd", *cmd)

	switch *cmd {
	case "create":
		if *name == "" {
			exit(ctx, logg, "missing -name for create", nil)
		}
		path, err := migrate.CreateSQLMigration(*dir, *name)
		if err != nil {
			exit(ctx, logg, "create migration", err)
		}
		fmt.Println("created migration:", path)
		return
	case "validate":
		if err := migrate.ValidateDir(*dir); err != nil {
			exit(ctx, logg, "migration validation failed", err)
		}
		fmt.Println("migration validation passed")
		return
	}

	cfg, err := config.LoadDB()
	if err != nil {
		exit(ctx, logg, "load config", err)
	}
	logg = logger.New(logger.Options{
		ServiceName: "dermago-migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "cmd": *cmd})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		exit(ctx, logg, "connect database", err)
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		exit(ctx, logg, "sql handle", err)
	}

	switch *cmd {
	case "up", "down", "status":
		err = migrate.Run(ctx, sqlDB, *cmd)
	case "version":
		if *version == "" {
			exit(ctx, logg, "missing -version for version command", nil)
		}
		err = migrate.MigrateToVersion(ctx, sqlDB, *version)
	default:
		exit(ctx, logg, "unknown -cmd value: "+*cmd, nil)
	}
	if err != nil {
		exit(ctx, logg, "migration failed", err)
	}
	logg.Info(ctx, "migration finished")
}

func exit(ctx context.Context, logg *logger.Logger, msg string, err error) {
	logg.Error(ctx, msg, err)
	os.Exit(1)
}
