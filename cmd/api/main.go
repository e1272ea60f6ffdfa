package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/TushantKaura1/ai-micro-motivation/internal/cache"
	"github.com/TushantKaura1/ai-micro-motivation/internal/clock"
	"github.com/TushantKaura1/ai-micro-motivation/internal/config"
	"github.com/TushantKaura1/ai-micro-motivation/internal/events"
	"github.com/TushantKaura1/ai-micro-motivation/internal/handler"
	"github.com/TushantKaura1/ai-micro-motivation/internal/httpserver"
	"github.com/TushantKaura1/ai-micro-motivation/internal/llm"
	"github.com/TushantKaura1/ai-micro-motivation/internal/narrative"
	"github.com/TushantKaura1/ai-micro-motivation/internal/prompt"
	"github.com/TushantKaura1/ai-micro-motivation/internal/repository"
	"github.com/TushantKaura1/ai-micro-motivation/internal/repository/postgres"
	"github.com/TushantKaura1/ai-micro-motivation/internal/repository/sqlite"
	"github.com/TushantKaura1/ai-micro-motivation/internal/service/auth"
	"github.com/TushantKaura1/ai-micro-motivation/internal/service/coach"
	"github.com/TushantKaura1/ai-micro-motivation/internal/service/streak"
	"github.com/TushantKaura1/ai-micro-motivation/internal/service/task"
	"github.com/TushantKaura1/ai-micro-motivation/pkg/db"
	"github.com/TushantKaura1/ai-micro-motivation/pkg/logger"
	"github.com/TushantKaura1/ai-micro-motivation/pkg/mq"
	"github.com/TushantKaura1/ai-micro-motivation/pkg/otel"
	"github.com/TushantKaura1/ai-micro-motivation/pkg/ratelimit"
	redisclient "github.com/TushantKaura1/ai-micro-motivation/pkg/redis"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Server.Mode)
	defer log.Sync()
	gin.SetMode(ginMode(cfg.Server.Mode))

	log.Info("Starting ai-micro-motivation...",
		zap.String("version", version),
		zap.String("store", cfg.Store.Driver),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.Bool("single_user", cfg.Auth.SingleUser),
	)

	ctx := context.Background()

	shutdownTracing, err := otel.Init(otel.Config{
		ServiceName:    cfg.Otel.ServiceName,
		ServiceVersion: version,
		Endpoint:       cfg.Otel.Endpoint,
		Enabled:        cfg.Otel.Enabled,
	}, log)
	if err != nil {
		log.Fatal("Failed to init tracing", zap.Error(err))
	}
	defer shutdownTracing()

	// Store
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to init store", zap.Error(err))
	}
	defer store.Close()

	// Redis (optional)
	rdb, err := redisclient.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, caching and rate limiting disabled", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// RabbitMQ (optional)
	var publisher events.Publisher
	if cfg.MQ.URL != "" {
		p, err := mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			log.Warn("RabbitMQ unavailable, events disabled", zap.Error(err))
		} else {
			defer p.Close()
			publisher = p
		}
	}
	emitter := events.NewEmitter(publisher, log)

	// Text generator
	provider, err := llm.ValidateProvider(cfg.LLM.Provider)
	if err != nil {
		log.Fatal("Invalid LLM provider", zap.Error(err))
	}
	chatModel, err := llm.NewChatModel(ctx, llm.Config{
		Provider:  provider,
		Model:     cfg.LLM.Model,
		APIKey:    cfg.LLM.APIKey,
		BaseURL:   cfg.LLM.BaseURL,
		MaxTokens: cfg.LLM.MaxTokens,
	})
	if err != nil {
		log.Warn("Text generator unavailable, narratives will use fallbacks", zap.Error(err))
		chatModel = nil
	}
	gwCfg := narrative.DefaultConfig()
	if cfg.LLM.TimeoutSeconds > 0 {
		gwCfg.Timeout = cfg.LLM.Timeout()
	}
	gateway := narrative.NewGateway(chatModel, gwCfg, log)

	builder := prompt.NewBuilder()
	builder.Clock = clock.System
	if cfg.LLM.MaxTokens > 0 {
		builder.NudgeMaxTokens = cfg.LLM.MaxTokens
	}
	if cfg.LLM.Temperature > 0 {
		builder.NudgeTemperature = cfg.LLM.Temperature
	}

	// Services
	engine := streak.NewEngine(store.Tasks, store.Stats, clock.System, log)
	coachSvc := coach.NewService(coach.Deps{
		Tasks:      store.Tasks,
		Stats:      store.Stats,
		Activities: store.Activities,
		Builder:    builder,
		Gateway:    gateway,
		Limiter:    ratelimit.NewWindow(rdb, "narrative", cfg.Limits.NarrativePerMinute, time.Minute, log),
		Cache:      cache.NewDigestCache(rdb, time.Duration(cfg.Limits.DigestCacheMinutes)*time.Minute, log),
		Events:     emitter,
		Clock:      clock.System,
		Logger:     log,
	})
	taskSvc := task.NewService(store.Tasks, store.Activities, engine, coachSvc, emitter, clock.System, log)
	authSvc := auth.NewService(store.Users, store.Stats, cfg.JWT.Secret, cfg.TokenTTL(), clock.System, log)

	router := httpserver.NewRouter(
		handler.NewAuthHandler(authSvc, log),
		handler.NewTaskHandler(taskSvc, log),
		handler.NewCoachHandler(coachSvc, engine, log),
		httpserver.Options{
			JWTSecret:     cfg.JWT.Secret,
			SingleUser:    cfg.Auth.SingleUser,
			DefaultUserID: cfg.Auth.DefaultUserID,
			Ready:         store.Ping,
			Generator:     gateway.Status,
			Clock:         clock.System,
		},
		log,
	)

	srv := router.Server(cfg.Server.Port)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*repository.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		pool, err := db.NewConnection(ctx, cfg.DB, log)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return postgres.NewStore(pool, clock.System, log), nil
	default:
		conn, err := db.OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := sqlite.Migrate(ctx, conn); err != nil {
			conn.Close()
			return nil, err
		}
		log.Info("Using SQLite store", zap.String("path", cfg.Store.SQLitePath))
		return sqlite.NewStore(conn, clock.System, log), nil
	}
}

func ginMode(mode string) string {
	switch mode {
	case gin.DebugMode, gin.TestMode:
		return mode
	case "development":
		return gin.DebugMode
	default:
		return gin.ReleaseMode
	}
}
