package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/barberella/barberella-api/internal/audit"
	"github.com/barberella/barberella-api/internal/config"
	"github.com/barberella/barberella-api/internal/handlers"
	"github.com/barberella/barberella-api/internal/infra/repository"
	"github.com/barberella/barberella-api/internal/middleware"
	ucAppointment "github.com/barberella/barberella-api/internal/usecase/appointment"
)

// SetupRoutes wires repositories, use cases and handlers onto the
// engine. Everything under /api except auth requires a valid token.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cache *redis.Client, cfg *config.Config) {
	dispatcher := audit.NewDispatcher(audit.New(db))

	repo := repository.NewAppointmentGormRepository(db)

	createUC := ucAppointment.NewCreateAppointment(repo, dispatcher)
	updateUC := ucAppointment.NewUpdateAppointment(repo, dispatcher)
	deleteUC := ucAppointment.NewDeleteAppointment(repo, dispatcher)
	setStatusUC := ucAppointment.NewSetAppointmentStatus(repo, dispatcher)
	freeSlotsUC := ucAppointment.NewListFreeSlots(repo)

	authHandler := handlers.NewAuthHandler(db, cfg)
	appointmentHandler := handlers.NewAppointmentHandler(
		db, createUC, updateUC, deleteUC, setStatusUC, freeSlotsUC,
	)
	barberHandler := handlers.NewBarberHandler(db, dispatcher)
	customerHandler := handlers.NewCustomerHandler(db)
	serviceHandler := handlers.NewServiceHandler(db, dispatcher)
	settingsHandler := handlers.NewSettingsHandler(db)
	analyticsHandler := handlers.NewAnalyticsHandler(db, cache, cfg.AnalyticsCacheTTL)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})

	if cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	secured := api.Group("")
	secured.Use(middleware.AuthMiddleware(cfg))
	{
		appointments := secured.Group("/appointments")
		{
			appointments.GET("", appointmentHandler.List)
			appointments.POST("", appointmentHandler.Create)
			appointments.PUT("", appointmentHandler.Update)
			appointments.DELETE("", appointmentHandler.Delete)
			appointments.PUT("/:id/status", appointmentHandler.SetStatus)
			appointments.GET("/availability", appointmentHandler.Availability)
		}

		barbers := secured.Group("/barbers")
		{
			barbers.GET("", barberHandler.List)
			barbers.POST("", barberHandler.Create)
			barbers.PUT("/:id", barberHandler.Update)
			barbers.DELETE("", barberHandler.Deactivate)
		}

		customers := secured.Group("/customers")
		{
			customers.GET("", customerHandler.List)
			customers.POST("", customerHandler.Upsert)
			customers.PUT("", customerHandler.Update)
		}

		services := secured.Group("/services")
		{
			services.GET("", serviceHandler.List)
			services.POST("", serviceHandler.Create)
			services.PUT("", serviceHandler.Update)
			services.DELETE("", serviceHandler.Delete)
		}

		secured.GET("/settings", settingsHandler.Get)
		secured.PUT("/settings", settingsHandler.Update)

		secured.GET("/analytics", analyticsHandler.Get)

		secured.GET("/audit-logs", auditLogsHandler.List)
	}
}
