package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/infra/config"
	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/transport/http/handlers"
	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/transport/http/middleware"
	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth         *usecase.AuthService
	Registration *usecase.RegistrationService
	Profiles     *usecase.ProfileService
	Intake       *usecase.IntakeService
	Dashboard    *usecase.DashboardService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.HTTPMetrics
	Services    ServiceSet
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	requireSession := middleware.RequireSession(deps.Services.Auth)

	checks := make(map[string]handlers.Check)
	if deps.Database != nil {
		checks["postgres"] = deps.Database.Ping
	}
	if deps.Cache != nil {
		checks["redis"] = deps.Cache.HealthCheck
	}

	healthHandler := handlers.NewHealthHandler(checks)
	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var loginLimiter, registerLimiter, intakeLimiter gin.HandlerFunc
	if deps.RateLimiter != nil {
		rl := deps.Config.RateLimit
		loginLimiter = deps.RateLimiter.Limit(middleware.RateLimitRule{
			Name:   "login",
			Limit:  rl.LoginMaxAttempts,
			Window: rl.WindowDuration,
		})
		registerLimiter = deps.RateLimiter.Limit(middleware.RateLimitRule{
			Name:   "register",
			Limit:  rl.RegisterMaxAttempts,
			Window: rl.WindowDuration,
		})
		intakeLimiter = deps.RateLimiter.Limit(middleware.RateLimitRule{
			Name:   "intake",
			Limit:  rl.IntakeMaxSubmits,
			Window: rl.WindowDuration,
		})
	}

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		authHandler := handlers.NewAuthHandler(deps.Services.Auth, deps.Services.Registration)
		authHandler.RegisterRoutes(authGroup, requireSession, loginLimiter, registerLimiter)

		profileHandler := handlers.NewProfileHandler(deps.Services.Profiles, deps.Config.Uploads, deps.Logger)
		profileHandler.RegisterRoutes(api, requireSession)

		intakeHandler := handlers.NewIntakeHandler(deps.Services.Intake)
		intakeHandler.RegisterRoutes(api, intakeLimiter)

		adminHandler := handlers.NewAdminHandler(deps.Services.Dashboard)
		adminHandler.RegisterRoutes(api, requireSession)
	}

	return r
}
