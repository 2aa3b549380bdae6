// Command api runs the civic report HTTP server.
//
// @title           Civic Report API
// @version         1.0
// @description     Citizen issue reporting and feedback with role-based triage.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/civicgrid/civic-report-api/internal/api"
	"github.com/civicgrid/civic-report-api/internal/infrastructure/config"
	mongodb "github.com/civicgrid/civic-report-api/internal/infrastructure/db/mongo"
	redisdb "github.com/civicgrid/civic-report-api/internal/infrastructure/db/redis"
	"github.com/civicgrid/civic-report-api/internal/infrastructure/storage"
	"github.com/civicgrid/civic-report-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	if err := ensureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	files, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("upload store init failed")
	}

	app := api.NewApp(api.Deps{
		DB:     db,
		Redis:  rdb,
		Files:  files,
		Config: cfg,
		Logger: log,
	})

	// Bootstrap failures are logged, never fatal: the API still serves
	// citizens even when the superadmin account cannot be ensured.
	if err := app.Bootstrap(ctx); err != nil {
		log.Error().Err(err).Msg("superadmin bootstrap failed")
	}

	e := app.Router()

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("civic report api listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// ensureIndexes creates the collection indexes the repositories rely on
// (unique directory email, issue owner/date, feedback owner).
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := mongodb.NewDirectoryRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongodb.NewIssueRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return mongodb.NewFeedbackRepository(db).EnsureIndexes(ctx)
}
