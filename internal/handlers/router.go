package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/rms/internal/logger"
	"github.com/stwalsh4118/rms/internal/middleware"
	"github.com/stwalsh4118/rms/internal/services"
)

// RouterConfig carries everything the HTTP API is built from.
type RouterConfig struct {
	Log            *logger.Logger
	JWTSecret      string
	AllowedOrigins []string

	Health     *HealthHandler
	Properties services.PropertyService
	Occupancy  services.OccupancyService
	Ledger     services.PaymentLedger
	Reporting  services.ReportingService
	Reminders  services.ReminderService
}

// NewRouter registers middleware and every route on a fresh gin engine.
// Middleware order: RequestID -> Logger -> Recovery -> CORS, then Auth on /api/v1.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(cfg.Log))
	router.Use(middleware.Recovery(cfg.Log))
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	router.GET("/health", cfg.Health.Health)
	router.GET("/health/ready", cfg.Health.Ready)
	router.GET("/api/v1/info", cfg.Health.Info)

	properties := NewPropertyHandler(cfg.Properties)
	tenants := NewTenantHandler(cfg.Occupancy, cfg.Ledger)
	payments := NewPaymentHandler(cfg.Ledger)
	reports := NewReportHandler(cfg.Reporting, cfg.Occupancy)
	reminders := NewReminderHandler(cfg.Reminders)

	v1 := router.Group("/api/v1", middleware.Auth(cfg.JWTSecret))
	{
		props := v1.Group("/properties")
		{
			props.POST("", properties.Create)
			props.GET("", properties.List)
			props.GET("/:id", properties.Get)
			props.PUT("/:id/image", properties.UploadImage)
			props.POST("/:id/rooms", properties.CreateRoom)
			props.GET("/:id/rooms", properties.ListRooms)
		}

		v1.POST("/tenants", tenants.Assign)
		v1.GET("/tenants/:id/payment-history", tenants.PaymentHistory)

		v1.POST("/payments", payments.Record)
		v1.GET("/payments", payments.List)

		v1.GET("/tenant-payment-status", reports.TenantPaymentStatus)
		v1.GET("/room-status", reports.RoomStatus)
		v1.GET("/housewise-overview", reports.Housewise)
		v1.GET("/monthly-insights", reports.MonthlyInsights)

		admin := v1.Group("/admin", middleware.RequireAdmin())
		admin.POST("/send-due-rent", reminders.SendDueRent)
	}

	return router
}
