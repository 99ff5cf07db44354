package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"amiasbakery_server/api"
	"amiasbakery_server/config"
	"amiasbakery_server/database"
	"amiasbakery_server/services"
	"amiasbakery_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 15 * time.Second

var logger *gecho.Logger
var cfg *structs.Config

// init function to load environment variables and initialize logger and database
func init() {
	envErr := godotenv.Load()

	cfg = config.GetConfig()
	logger = config.InitializeLogger()

	if envErr != nil {
		logger.Warn("No .env file found or error loading .env file, proceeding with system environment variables")
	}

	if err := database.Initialize(); err != nil {
		logger.Fatal("Failed to initialize database", gecho.Field("error", err))
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := database.GetHandles()
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db.Writer, logger); err != nil {
			logger.Fatal("Failed to migrate database", gecho.Field("error", err))
		}
	}

	cacheService := services.NewCacheService(logger, cfg)
	sm := services.NewServiceManager(logger, cfg, db, cacheService)

	go sm.SweeperService.Run(ctx)

	srv := &http.Server{
		Addr:           cfg.Server.Port,
		Handler:        api.App(cfg, sm),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Info(fmt.Sprintf("Starting server (%s) on %s", cfg.Server.AppName, cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start server", gecho.Field("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Received shutdown signal, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", gecho.Field("error", err))
	}
	shutdown(sm)
}

// shutdown releases the outbound clients once no request can use them anymore
func shutdown(sm *services.ServiceManager) {
	if err := sm.EventsService.Close(); err != nil {
		logger.Error("Failed to close event publisher", gecho.Field("error", err))
	}
	if err := sm.CacheService.Close(); err != nil {
		logger.Error("Failed to close cache", gecho.Field("error", err))
	}
	if err := database.CloseInstance(); err != nil {
		logger.Error("Failed to close database", gecho.Field("error", err))
	}
	logger.Info("Shutdown complete")
}
