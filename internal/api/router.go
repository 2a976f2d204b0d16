package api

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/welldanyogia/webrana-posts-backend/internal/api/handlers"
	"github.com/welldanyogia/webrana-posts-backend/internal/api/middleware"
	"github.com/welldanyogia/webrana-posts-backend/internal/api/response"
	"github.com/welldanyogia/webrana-posts-backend/internal/auth"
	"github.com/welldanyogia/webrana-posts-backend/internal/logger"
	"github.com/welldanyogia/webrana-posts-backend/internal/repository"
	"github.com/welldanyogia/webrana-posts-backend/internal/validator"
	"github.com/welldanyogia/webrana-posts-backend/internal/websocket"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// RouterConfig holds dependencies for the router
type RouterConfig struct {
	DB     *gorm.DB
	Logger *slog.Logger
	Tokens *auth.TokenManager

	// Hub receives post events and serves /api/posts/feed; nil disables the feed
	Hub *websocket.Hub

	// Hasher defaults to bcrypt at the default cost
	Hasher auth.PasswordHasher

	// Security configuration
	AllowedOrigins []string
	Production     bool
	RateLimit      float64 // Requests per second per IP (0 = no limit)
	RateBurst      int
	// RateLimiter overrides RateLimit/RateBurst so the caller can run its cleanup
	RateLimiter *middleware.IPRateLimiter

	DefaultPerPage int
}

// NewRouter creates and configures the Echo router with all routes
func NewRouter(cfg *RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	v := validator.New()
	e.Validator = v
	e.HTTPErrorHandler = response.NewHTTPErrorHandler(cfg.Logger)

	// /api/posts/ and /api/posts route identically
	e.Pre(echomw.RemoveTrailingSlash())

	sec := logger.NewSecurityLogger(cfg.Logger)

	// Middleware order matters: recover first, then observe, then guard.
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Metrics())
	if cfg.Logger != nil {
		e.Use(middleware.RequestLogger(cfg.Logger))
	}
	e.Use(middleware.SecureHeaders())
	e.Use(middleware.SecureCORS(cfg.AllowedOrigins, cfg.Production))

	limiter := cfg.RateLimiter
	if limiter == nil && cfg.RateLimit > 0 {
		limiter = middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}
	if limiter != nil {
		e.Use(middleware.RateLimiter(limiter, sec))
	}

	// Initialize repositories
	postRepo := repository.NewPostRepository(cfg.DB)
	userRepo := repository.NewUserRepository(cfg.DB)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB)
	authHandler := handlers.NewAuthHandler(userRepo, cfg.Tokens, cfg.Hasher, v, sec)
	postHandler := handlers.NewPostHandler(postRepo, v, cfg.DefaultPerPage).WithLogger(cfg.Logger)
	if cfg.Hub != nil {
		postHandler.WithEvents(cfg.Hub)
	}

	// Operational routes (no auth required)
	e.GET("/health", healthHandler.Health)
	e.GET("/ready", healthHandler.Ready)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	api.POST("/auth/token", authHandler.Token)

	// Every post route, including unknown sub-paths, requires a bearer token
	posts := api.Group("/posts", middleware.BearerAuth(cfg.Tokens, userRepo, sec))
	posts.GET("", postHandler.List)
	posts.POST("", postHandler.Create)
	if cfg.Hub != nil {
		feedHandler := handlers.NewFeedHandler(cfg.Hub, websocket.NewSecureUpgrader(cfg.AllowedOrigins, sec), cfg.Logger)
		posts.GET("/feed", feedHandler.Subscribe)
	}
	posts.GET("/:id", postHandler.Show)
	posts.PUT("/:id", postHandler.Update)
	posts.DELETE("/:id", postHandler.Destroy)

	return e
}
