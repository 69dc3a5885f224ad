package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/lofohq/lofo-server/internal/app"
	iauth "github.com/lofohq/lofo-server/internal/auth"
	"github.com/lofohq/lofo-server/internal/handlers"
	"github.com/lofohq/lofo-server/internal/middleware"
	"github.com/lofohq/lofo-server/internal/notify"
	"github.com/lofohq/lofo-server/internal/realtime"
	"github.com/lofohq/lofo-server/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, cfg *app.Config) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	hub := realtime.NewHub()

	var notifier notify.Notifier = notify.Noop{}
	if cfg.Alerts.PushEnabled {
		notifier = notify.NewHubNotifier(hub)
	}
	if err := notifier.RequestPermission(); err != nil {
		// Degrade silently; alert lists still work without push delivery.
		notifier = notify.Noop{}
	}

	userSvc, err := services.NewUserService(db)
	if err != nil {
		return nil, err
	}
	catalogSvc, err := services.NewCatalogService(db)
	if err != nil {
		return nil, err
	}
	matchSvc, err := services.NewMatchService(db, cfg.Matching.MinScore)
	if err != nil {
		return nil, err
	}
	stateSvc, err := services.NewAlertStateService(db)
	if err != nil {
		return nil, err
	}

	var alertSvc *services.AlertService
	if cfg.Alerts.Enabled {
		if alertSvc, err = services.NewAlertService(db, hub); err != nil {
			return nil, err
		}
	}
	itemSvc, err := services.NewItemService(db, alertSvc, matchSvc, catalogSvc, hub, cfg.Matching.QuickSuggestion)
	if err != nil {
		return nil, err
	}
	abuseSvc, err := services.NewAbuseReportService(db)
	if err != nil {
		return nil, err
	}
	if alertSvc == nil {
		// Alert routes still need a read path even when emission is disabled.
		if alertSvc, err = services.NewAlertService(db, hub); err != nil {
			return nil, err
		}
	}

	trackers := services.NewTrackerRegistry(cfg.Alerts.NotificationsTitle, notifier)

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	// Health endpoint (public)
	if cfg.Monitoring.Health.Enabled {
		r.GET("/health", handlers.Health())
	}

	authHandler := handlers.NewAuthHandler(userSvc, jwt)
	profileHandler := handlers.NewProfileHandler(userSvc)
	reportHandler := handlers.NewReportHandler(itemSvc, userSvc)
	alertHandler := handlers.NewAlertHandler(alertSvc, stateSvc, userSvc, trackers)
	matchHandler := handlers.NewMatchHandler(matchSvc)
	catalogHandler := handlers.NewCatalogHandler(catalogSvc)
	abuseHandler := handlers.NewAbuseReportHandler(abuseSvc)
	userAdminHandler := handlers.NewUserAdminHandler(userSvc)
	realtimeHandler := handlers.NewRealtimeHandler(hub)

	// Public auth routes
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	requireAuth := middleware.Auth(jwt)

	api := r.Group("/api")
	api.Use(requireAuth)

	// Profile
	api.GET("/profile", profileHandler.Get)
	api.PATCH("/profile", profileHandler.Update)
	api.POST("/profile/password", profileHandler.ChangePassword)

	// Reports
	reports := api.Group("/reports")
	{
		reports.POST("", reportHandler.Create)
		reports.GET("", reportHandler.List)
		reports.GET("/mine", reportHandler.Mine)
		reports.GET("/:id", reportHandler.Get)
		reports.PATCH("/:id", reportHandler.Update)
		reports.PATCH("/:id/status", reportHandler.UpdateStatus)
		reports.DELETE("/:id", reportHandler.Delete)
		reports.GET("/:id/match", matchHandler.BestMatch)
	}
	api.GET("/matches", matchHandler.Cases)

	// Alerts
	alerts := api.Group("/alerts")
	{
		alerts.GET("", alertHandler.List)
		alerts.POST("/:id/read", alertHandler.MarkRead)
		alerts.DELETE("/:id", alertHandler.Dismiss)
	}

	// Catalog
	api.GET("/catalog", catalogHandler.List)

	// Abuse reports
	api.POST("/abuse-reports", abuseHandler.File)

	// Realtime stream
	api.GET("/ws", realtimeHandler.Serve)

	// Admin surface
	admin := api.Group("/admin")
	admin.Use(middleware.AdminOnly())
	{
		admin.GET("/users", userAdminHandler.List)
		admin.POST("/users/:id/block", userAdminHandler.SetBlocked)
		admin.PUT("/catalog", catalogHandler.Upsert)
		admin.DELETE("/catalog/:name", catalogHandler.Delete)
		admin.GET("/abuse-reports", abuseHandler.List)
		admin.POST("/abuse-reports/:id/resolve", abuseHandler.Resolve)
	}

	// Metrics endpoint
	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
