package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SAP-F-2025/phonics-service/internal/auth"
	"github.com/SAP-F-2025/phonics-service/internal/cache"
	"github.com/SAP-F-2025/phonics-service/internal/config"
	"github.com/SAP-F-2025/phonics-service/internal/events"
	"github.com/SAP-F-2025/phonics-service/internal/handlers"
	"github.com/SAP-F-2025/phonics-service/internal/playback"
	"github.com/SAP-F-2025/phonics-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/phonics-service/internal/services"
	"github.com/SAP-F-2025/phonics-service/internal/storage"
	"github.com/SAP-F-2025/phonics-service/internal/utils"
	"github.com/SAP-F-2025/phonics-service/internal/validator"
	"github.com/SAP-F-2025/phonics-service/pkg"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 15 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd)
	},
}

func init() {
	serveCmd.Flags().String("port", "", "Port to listen on (overrides PORT)")
}

func runServer(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}

	logger := utils.NewLogger(cfg.IsProduction())
	slogger := logger.Slog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// =========================================================================
	// Storage

	db, err := openDatabase(cfg, logger)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	repo := postgres.NewRepository(db)

	cacheService := newCache(cfg, slogger)

	store, err := storage.New(ctx, cfg.Storage, slogger)
	if err != nil {
		return fmt.Errorf("failed to create image store: %w", err)
	}

	// =========================================================================
	// Events

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		return fmt.Errorf("failed to create event publisher: %w", err)
	}
	defer publisher.Close()

	if ch, ok := publisher.(*events.ChannelEventPublisher); ok {
		msgs, err := ch.Subscribe(ctx)
		if err != nil {
			return fmt.Errorf("failed to subscribe to events: %w", err)
		}
		go events.Consume(ctx, msgs, events.LogActivity(slogger), slogger)
	}

	// =========================================================================
	// Auth

	verifier, err := auth.NewVerifier(cfg.Auth, slogger)
	if err != nil {
		return fmt.Errorf("failed to create token verifier: %w", err)
	}
	resolver := auth.NewRoleResolver(verifier, repo.Profile())

	// =========================================================================
	// Services

	registry := playback.NewRegistry(cfg.SessionTTL, nil)
	go registry.RunSweeper(ctx, sweepInterval, func(removed int) {
		logger.Info("Expired play sessions removed", "count", removed)
	})

	serviceManager := services.NewServiceManager(services.Dependencies{
		Repo:      repo,
		Cache:     cacheService,
		Publisher: publisher,
		Store:     store,
		Registry:  registry,
		Validator: validator.New(),
		Logger:    slogger,
		CacheTTL:  cfg.CacheTTL,
	})

	routerCfg := handlers.RouterConfig{
		Resolver:    resolver,
		CORSOrigins: cfg.CORSOrigins,
		Production:  cfg.IsProduction(),
		HealthCheck: repo.Ping,
	}
	if fsStore, ok := store.(*storage.FSStore); ok {
		routerCfg.UploadsDir = fsStore.Dir()
	}
	router := handlers.NewRouter(handlers.NewHandlerManager(serviceManager, logger), routerCfg, logger)

	// =========================================================================
	// Start API Service

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		serverErrors <- server.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case <-ctx.Done():
		logger.Info("Start shutdown")

		// give outstanding requests a deadline for completion
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Could not stop server gracefully", "error", err)
			if err := server.Close(); err != nil {
				return fmt.Errorf("could not force stop server: %w", err)
			}
		}
	}

	return nil
}

// newCache falls back to a no-op cache so the API keeps working without Redis
func newCache(cfg *config.Config, logger *slog.Logger) cache.CacheService {
	client, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, caching disabled", "error", err)
		return cache.NewNoopCache()
	}
	return cache.NewRedisCache(client, logger)
}
