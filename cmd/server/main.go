// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/codr1/themegallery/internal/config"
	"github.com/codr1/themegallery/internal/db"
	"github.com/codr1/themegallery/internal/gallery"
	"github.com/codr1/themegallery/internal/models"
	"github.com/codr1/themegallery/internal/ratelimit"
	"github.com/codr1/themegallery/internal/scheduler"
)

// app holds everything the HTTP server needs once startup succeeds.
type app struct {
	config     *config.Config
	database   *db.DB
	controller *gallery.Controller
	limiter    *ratelimit.Limiter
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func setupLogger(development bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if development {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	// log.Ctx falls back to the global logger for contexts without one.
	zerolog.DefaultContextLogger = &log.Logger
}

func newApp(cfg *config.Config) (*app, error) {
	database, err := db.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	source, err := gallery.NewSourceFromConfig(cfg.Gallery)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("configure gallery source: %w", err)
	}

	store := models.NewAppliedThemeStore(database.Queries, cfg.Gallery.StorageKey)
	controller := gallery.NewController(source, store, nil)

	limiter := ratelimit.New(&ratelimit.Config{
		ReloadCooldown:   cfg.RateLimit.ReloadCooldown,
		ReloadMaxPerHour: cfg.RateLimit.ReloadMaxPerHour,
	})

	return &app{
		config:     cfg,
		database:   database,
		controller: controller,
		limiter:    limiter,
	}, nil
}

func (a *app) Close() {
	a.limiter.Close()
	if err := a.database.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close database")
	}
}

func main() {
	cfg, err := config.Load(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.IsDevelopment())
	shutdownTimeout := time.Duration(getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 30)) * time.Second

	application, err := newApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	if err := scheduler.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize scheduler")
	}
	if err := scheduler.RegisterCatalogRefreshJob(application.controller, cfg.Gallery.RefreshCron, cfg.Gallery.RequestTimeout); err != nil {
		log.Fatal().Err(err).Msg("Failed to register catalog refresh job")
	}
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	// Create server instance
	server := newServer(application)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Run server
	g.Go(func() error {
		log.Info().
			Int("port", cfg.App.Port).
			Str("source", cfg.Gallery.SourceURL).
			Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Wait for interrupt signal
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("Failed to stop scheduler")
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		application.Close()
		os.Exit(1)
	}
}
