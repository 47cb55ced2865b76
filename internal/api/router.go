package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	_ "github.com/webblog/publishing-api/docs"
	"github.com/webblog/publishing-api/internal/api/handler"
	"github.com/webblog/publishing-api/internal/api/middleware"
	"github.com/webblog/publishing-api/internal/core/domain"
	"github.com/webblog/publishing-api/internal/core/ports"
)

// Dependencies collects everything the router needs. The caller picks
// the storage backend and builds the services; the router only wires
// routes.
type Dependencies struct {
	AuthService ports.AuthService
	PostService ports.PostService

	// LoginThrottle is optional; nil disables login rate limiting.
	LoginThrottle handler.LoginThrottle

	JWTSecret string
	Logger    zerolog.Logger

	// ReadyChecks are the dependency pings behind /health/ready.
	ReadyChecks map[string]handler.CheckFunc
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("webblog"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService, deps.LoginThrottle)
	postHandler := handler.NewPostHandler(deps.PostService)
	imageHandler := handler.NewImageHandler(deps.PostService)

	authMiddleware := middleware.Auth(deps.JWTSecret)
	authorOnly := middleware.RBAC(domain.RoleAuthor)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh-token", authHandler.Refresh)

	// --- Post routes ---
	posts := e.Group("/api/posts", authMiddleware)
	posts.GET("", postHandler.List)
	posts.GET("/mine", postHandler.ListMine, authorOnly)
	posts.POST("", postHandler.Create, authorOnly)
	posts.GET("/:postId", postHandler.Get)
	posts.PUT("/:postId", postHandler.Edit, authorOnly)
	posts.PATCH("/:postId/status", postHandler.Publish, authorOnly)
	posts.POST("/:postId/images", imageHandler.Attach, authorOnly)
	posts.DELETE("/:postId/images/:imageId", imageHandler.Detach, authorOnly)

	// --- Image downloads (auth required, ownership checked per request) ---
	e.GET("/api/images/:fileName", imageHandler.Serve, authMiddleware)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.ReadyChecks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
