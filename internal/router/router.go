package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pmmpclub/prep-backend/internal/config"
	"github.com/pmmpclub/prep-backend/internal/handler"
	"github.com/pmmpclub/prep-backend/internal/middleware"
	"github.com/pmmpclub/prep-backend/internal/response"
	"github.com/pmmpclub/prep-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Subject *handler.SubjectHandler
	Session *handler.SessionHandler
	Report  *handler.ReportHandler
	WS      *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireLearnerJWT(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireLearnerJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Learner Group (JWT + Single Login) ─────────────────────────
	learnerAPI := router.Group("/api/v1")
	learnerAPI.Use(
		middleware.RequireLearnerJWT(authService),
		middleware.CheckActiveLogin(authService),
	)
	{
		learnerAPI.GET("/subjects", handlers.Subject.List)
		learnerAPI.GET("/subjects/:subject_id/levels", handlers.Subject.Levels)
		learnerAPI.POST("/subjects/:subject_id/session/start", handlers.Session.Start)

		learnerAPI.GET("/session", handlers.Session.Snapshot)
		learnerAPI.POST("/session/answer", handlers.Session.Answer)
		learnerAPI.POST("/session/advance", handlers.Session.Advance)
		learnerAPI.POST("/session/stop", handlers.Session.Stop)
		learnerAPI.DELETE("/session", handlers.Session.Teardown)

		learnerAPI.GET("/reports/latest", handlers.Report.Latest)
		learnerAPI.DELETE("/reports/latest", handlers.Report.Clear)
	}

	// ─── 3. WebSocket Group (Learner WS Auth) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireLearnerWSAuth(authService))
	{
		ws.GET("/session/stream", handlers.WS.SessionStream)
	}

	return router
}
