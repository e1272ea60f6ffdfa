package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/TushantKaura1/ai-micro-motivation/internal/clock"
	"github.com/TushantKaura1/ai-micro-motivation/internal/handler"
	"github.com/TushantKaura1/ai-micro-motivation/pkg/otel"
)

const healthMessage = "AI Micro-Motivation Assistant is running!"

type Options struct {
	JWTSecret string
	// SingleUser binds unauthenticated requests to DefaultUserID
	SingleUser    bool
	DefaultUserID string
	// Ready reports whether the store is reachable
	Ready func(ctx context.Context) error
	// Generator reports the text generator status shown by /readyz
	Generator func() string
	// Clock validates token expiry; nil means the wall clock
	Clock clock.Clock
}

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	authHandler *handler.AuthHandler,
	taskHandler *handler.TaskHandler,
	coachHandler *handler.CoachHandler,
	opts Options,
	logger *zap.Logger,
) *Router {
	r := gin.New()
	r.Use(gin.Recovery(), TraceMiddleware(), otel.GinMiddleware(), RequestLogger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/readyz", func(c *gin.Context) {
		// an open breaker degrades narratives to fallbacks but does not fail readiness
		generator := "unknown"
		if opts.Generator != nil {
			generator = opts.Generator()
		}
		if opts.Ready != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
			defer cancel()
			if err := opts.Ready(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_not_ready", "error": err.Error(), "generator": generator})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "generator": generator})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "message": healthMessage})
	})
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)

	if opts.Clock == nil {
		opts.Clock = clock.System
	}
	protected := api.Group("")
	if opts.SingleUser {
		protected.Use(SingleUserMiddleware(opts.JWTSecret, opts.DefaultUserID, opts.Clock))
	} else {
		protected.Use(AuthMiddleware(opts.JWTSecret, opts.Clock))
	}
	{
		protected.GET("/tasks", taskHandler.ListTasks)
		protected.POST("/tasks", taskHandler.CreateTask)
		protected.POST("/tasks/:id/complete", taskHandler.CompleteTask)
		protected.POST("/nudge", coachHandler.Nudge)
		protected.GET("/daily-digest", coachHandler.DailyDigest)
		protected.GET("/user/stats", coachHandler.Stats)
		protected.POST("/mood/analyze", coachHandler.AnalyzeMood)
	}

	return &Router{Engine: r}
}

// Server wraps the engine in an http.Server with sane timeouts
func (r *Router) Server(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           r.Engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
