// Package app wires configuration into repositories, services and the
// optional integrations shared by the API server and rmsctl.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stwalsh4118/rms/internal/cache"
	"github.com/stwalsh4118/rms/internal/config"
	"github.com/stwalsh4118/rms/internal/database"
	"github.com/stwalsh4118/rms/internal/handlers"
	"github.com/stwalsh4118/rms/internal/jobs"
	"github.com/stwalsh4118/rms/internal/logger"
	"github.com/stwalsh4118/rms/internal/models"
	"github.com/stwalsh4118/rms/internal/notify"
	"github.com/stwalsh4118/rms/internal/repository"
	"github.com/stwalsh4118/rms/internal/services"
	"github.com/stwalsh4118/rms/internal/storage"
)

// ReminderJobName is the scheduler name of the due-rent sweep.
const ReminderJobName = "due-rent-reminders"

// App holds the wired dependencies.
type App struct {
	Config *config.Config
	Log    *logger.Logger
	DB     *database.Database

	redis  *redis.Client
	images storage.ImageStore

	Properties services.PropertyService
	Occupancy  services.OccupancyService
	Ledger     services.PaymentLedger
	Accrual    services.RentAccrual
	Reporting  services.ReportingService
	Reminders  services.ReminderService
}

// New connects to PostgreSQL and, when configured, Redis and object
// storage, then builds every service. Close releases the connections.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	log.Info("Database connection established", logger.Fields{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	a := &App{Config: cfg, Log: log, DB: db}

	reports := cache.NewNoop()
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to configure report cache: %w", err)
		}
		if err := client.Ping(ctx).Err(); err != nil {
			// Reports fall back to the ledger while Redis is down.
			log.Warn("Report cache unreachable at startup", logger.Fields{"addr": cfg.Redis.Addr, "error": err.Error()})
		}
		a.redis = client
		reports = cache.NewRedisReportCache(client, cfg.Redis.TTL)
		log.Info("Report cache enabled", logger.Fields{"addr": cfg.Redis.Addr, "ttl": cfg.Redis.TTL.String()})
	}

	if cfg.Storage.Enabled() {
		store, err := storage.NewMinioStore(storage.Options{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			a.Close()
			return nil, err
		}
		a.images = store
		log.Info("Image storage enabled", logger.Fields{"endpoint": cfg.Storage.Endpoint, "bucket": cfg.Storage.Bucket})
	}

	mailer := notify.NewSMTPMailer(notify.SMTPConfig{
		Host:    cfg.Mail.Host,
		Port:    cfg.Mail.Port,
		User:    cfg.Mail.User,
		Pass:    cfg.Mail.Password,
		From:    cfg.Mail.From,
		DevMode: cfg.Mail.DevMode,
	}, log)

	propertyRepo := repository.NewPropertyRepository(db.Pool)
	roomRepo := repository.NewRoomRepository(db.Pool)
	tenantRepo := repository.NewTenantRepository(db.Pool)
	paymentRepo := repository.NewPaymentRepository(db.Pool)

	a.Ledger = services.NewPaymentLedger(propertyRepo, roomRepo, tenantRepo, paymentRepo, reports, log)
	a.Accrual = services.NewRentAccrual(roomRepo, a.Ledger)
	a.Occupancy = services.NewOccupancyService(tenantRepo, roomRepo, reports, log)
	a.Reporting = services.NewReportingService(propertyRepo, a.Accrual, a.Ledger, a.Occupancy, reports, log)
	a.Reminders = services.NewReminderService(tenantRepo, mailer, log)

	a.Properties = services.NewPropertyService(propertyRepo, roomRepo, a.images, reports, log)

	return a, nil
}

// Migrate applies the embedded schema.
func (a *App) Migrate(ctx context.Context) error {
	if err := database.Migrate(ctx, a.DB.Pool); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	a.Log.Info("Database schema is up to date", nil)
	return nil
}

// Router builds the HTTP API.
func (a *App) Router() *gin.Engine {
	var cachePinger handlers.Pinger
	if a.redis != nil {
		cachePinger = handlers.PingFunc(func(ctx context.Context) error {
			return a.redis.Ping(ctx).Err()
		})
	}

	health := handlers.NewHealthHandler(a.DB, cachePinger, a.Config.Server.Env, handlers.Features{
		ReportCache:    a.redis != nil,
		ImageStorage:   a.images != nil,
		ReminderEmails: a.Config.Mail.Host != "" && !a.Config.Mail.DevMode,
		ReminderCron:   a.Config.Reminders.Cron != "",
	})

	return handlers.NewRouter(handlers.RouterConfig{
		Log:            a.Log,
		JWTSecret:      a.Config.Auth.JWTSecret,
		AllowedOrigins: a.Config.CORS.Origins,
		Health:         health,
		Properties:     a.Properties,
		Occupancy:      a.Occupancy,
		Ledger:         a.Ledger,
		Reporting:      a.Reporting,
		Reminders:      a.Reminders,
	})
}

// Scheduler returns a started scheduler running the reminder sweep on the
// configured cron, or nil when no schedule is configured.
func (a *App) Scheduler() (*jobs.Scheduler, error) {
	if a.Config.Reminders.Cron == "" {
		return nil, nil
	}
	s, err := jobs.NewScheduler(a.Log)
	if err != nil {
		return nil, err
	}
	sweep := jobs.DueRentSweep(a.Reminders, a.Log, today)
	if err := s.AddCronJob(ReminderJobName, a.Config.Reminders.Cron, sweep); err != nil {
		_ = s.Stop()
		return nil, err
	}
	s.Start()
	return s, nil
}

func today() time.Time {
	return models.DateOf(time.Now())
}

// Close releases the database pool and Redis client.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Log.Warn("Failed to close report cache client", logger.Fields{"error": err.Error()})
		}
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
