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

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/rms/internal/app"
	"github.com/stwalsh4118/rms/internal/config"
	"github.com/stwalsh4118/rms/internal/handlers"
	"github.com/stwalsh4118/rms/internal/logger"
)

const (
	shutdownTimeout = 30 * time.Second
	startupTimeout  = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.Env)
	log.Info("Starting rent management API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), startupTimeout)
	application, err := app.New(startCtx, cfg, log)
	if err != nil {
		cancelStart()
		log.Fatal("Failed to initialize application", err, map[string]interface{}{
			"db_host": cfg.Database.Host,
			"db_name": cfg.Database.Name,
		})
	}
	defer application.Close()

	// Schema statements are idempotent, so every start applies them.
	if err := application.Migrate(startCtx); err != nil {
		cancelStart()
		log.Fatal("Failed to apply database schema", err, nil)
	}
	cancelStart()

	scheduler, err := application.Scheduler()
	if err != nil {
		log.Fatal("Failed to start reminder schedule", err, map[string]interface{}{
			"cron": cfg.Reminders.Cron,
		})
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           application.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	if scheduler != nil {
		if err := scheduler.Stop(); err != nil {
			log.Error("Failed to stop scheduler", err, nil)
		}
	}

	log.Info("Server exited", nil)
}
