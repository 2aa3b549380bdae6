package api

import (
	"context"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/civicgrid/civic-report-api/docs"
	"github.com/civicgrid/civic-report-api/internal/api/handler"
	"github.com/civicgrid/civic-report-api/internal/api/middleware"
	"github.com/civicgrid/civic-report-api/internal/core/domain"
	"github.com/civicgrid/civic-report-api/internal/core/ports"
	"github.com/civicgrid/civic-report-api/internal/core/service"
	"github.com/civicgrid/civic-report-api/internal/infrastructure/config"
	mongodb "github.com/civicgrid/civic-report-api/internal/infrastructure/db/mongo"
	redisdb "github.com/civicgrid/civic-report-api/internal/infrastructure/db/redis"
)

// Deps carries the externally constructed collaborators the application
// wires together.
type Deps struct {
	DB     *mongo.Database
	Redis  *redis.Client
	Files  ports.FileStore
	Config *config.Config
	Logger zerolog.Logger
}

// App is the service context: every repository and service built exactly once
// at startup and passed to the handlers. No ambient singletons beyond the
// logger.
type App struct {
	deps  Deps
	admin ports.AdminService

	authHandler       *handler.AuthHandler
	issueHandler      *handler.IssueHandler
	feedbackHandler   *handler.FeedbackHandler
	superadminHandler *handler.SuperadminHandler
}

// NewApp builds all repositories, services, and handlers.
func NewApp(d Deps) *App {
	directory := mongodb.NewDirectoryRepository(d.DB)
	accounts := mongodb.NewAccountRepository(d.DB)
	issues := mongodb.NewIssueRepository(d.DB)
	feedback := mongodb.NewFeedbackRepository(d.DB)
	counts := redisdb.NewCountsCache(d.Redis)

	authService := service.NewAuthService(directory, accounts, d.Config.JWTSecret, time.Hour, d.Logger)
	issueService := service.NewIssueService(issues, d.Logger)
	feedbackService := service.NewFeedbackService(feedback, d.Logger)
	adminService := service.NewAdminService(directory, accounts, counts, service.SuperadminBootstrap{
		Name:     d.Config.Superadmin.Name,
		Email:    d.Config.Superadmin.Email,
		Password: d.Config.Superadmin.Password,
	}, d.Logger)

	return &App{
		deps:              d,
		admin:             adminService,
		authHandler:       handler.NewAuthHandler(authService),
		issueHandler:      handler.NewIssueHandler(issueService, d.Files),
		feedbackHandler:   handler.NewFeedbackHandler(feedbackService),
		superadminHandler: handler.NewSuperadminHandler(adminService),
	}
}

// Bootstrap runs the idempotent superadmin ensure. Failures are logged by the
// caller and must not abort startup.
func (a *App) Bootstrap(ctx context.Context) error {
	return a.admin.EnsureSuperadmin(ctx)
}

// Router builds and returns the Echo instance with all routes registered.
func (a *App) Router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(a.deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("civic"))

	auth := middleware.Auth(a.deps.Config.JWTSecret)

	// --- Public routes ---
	e.POST("/register", a.authHandler.Register)
	e.POST("/login", a.authHandler.Login)
	e.Static("/uploads", a.deps.Config.UploadDir)

	// --- Authenticated routes ---
	e.GET("/dashboard", a.authHandler.Dashboard, auth)

	e.POST("/issues", a.issueHandler.Create, auth)
	e.GET("/issues", a.issueHandler.ListAll, auth, middleware.RequireRole(domain.RoleAdmin))
	e.GET("/my-issues", a.issueHandler.ListMine, auth)
	e.PATCH("/issues/:id/status", a.issueHandler.SetStatus, auth)

	e.POST("/feedback", a.feedbackHandler.Create, auth)
	e.GET("/my-feedback", a.feedbackHandler.ListMine, auth)
	e.GET("/feedback", a.feedbackHandler.ListAll, auth, middleware.RequireRole(domain.RoleAdmin, domain.RoleSuperadmin))

	sa := e.Group("/superadmin", auth, middleware.RequireRole(domain.RoleSuperadmin))
	sa.POST("/create-admin", a.superadminHandler.CreateAdmin)
	sa.GET("/users", a.superadminHandler.ListAccounts)
	sa.GET("/dashboard", a.superadminHandler.Dashboard)

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(a.deps.DB, a.deps.Redis).Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
