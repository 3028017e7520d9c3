package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"github.com/serenova-spa/recommend-platform/cmd/mainconfig"
	"github.com/serenova-spa/recommend-platform/internal/api/router"
	"github.com/serenova-spa/recommend-platform/internal/catalog"
	appconfig "github.com/serenova-spa/recommend-platform/internal/config"
	"github.com/serenova-spa/recommend-platform/internal/events"
	"github.com/serenova-spa/recommend-platform/internal/llm"
	"github.com/serenova-spa/recommend-platform/internal/observability/metrics"
	"github.com/serenova-spa/recommend-platform/internal/questionnaire"
	"github.com/serenova-spa/recommend-platform/internal/recommend"
	"github.com/serenova-spa/recommend-platform/internal/webchat"
	"github.com/serenova-spa/recommend-platform/pkg/logging"
)

func main() {
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel, cfg.Env)
	logger.Info("starting recommend-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	entries, err := catalog.Load()
	if err != nil {
		logger.Error("failed to load service catalog", "error", err)
		os.Exit(1)
	}
	logger.Info("service catalog loaded", "services", len(entries))

	reg := prometheus.NewRegistry()
	recommendMetrics := metrics.NewRecommendMetrics(reg)

	// Previous-recommendation slot: redis when configured, else process
	// memory. Losing the slot on restart only costs returning users their
	// shortcut, so memory is an acceptable dev fallback.
	var store recommend.Store
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		store = recommend.NewRedisStore(redis.NewClient(opts), otel.Tracer("recommend-platform"))
		logger.Info("using redis recommendation store", "addr", cfg.RedisAddr)
	} else {
		store = recommend.NewMemoryStore()
		logger.Warn("REDIS_ADDR not set, previous recommendations kept in memory only")
	}

	ctx := context.Background()

	gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		logger.Error("failed to create Gemini client", "error", err)
		os.Exit(1)
	}
	defer func() { _ = gemini.Close() }()

	var client llm.Client = gemini
	if cfg.BedrockModelID != "" {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		bedrock := llm.NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg))
		client = llm.NewFallbackClient(gemini, bedrock, cfg.BedrockModelID, logger.Logger)
		logger.Info("bedrock fallback enabled", "model", cfg.BedrockModelID)
	}

	chain := llm.NewModelChain(client, cfg.RecommendModelIDs, logger.Logger, recommendMetrics)

	bus := events.NewBus()
	bus.Subscribe(func(n events.Notification) {
		logger.Info("user notification", "level", n.Level, "message", n.Message)
	})

	orchestrator := recommend.NewOrchestrator(recommend.OrchestratorConfig{
		Generator:   chain,
		Catalog:     entries,
		Store:       store,
		Bus:         bus,
		Metrics:     recommendMetrics,
		Logger:      logger,
		MaxTokens:   int32(cfg.RecommendMaxTokens),
		Temperature: float32(cfg.RecommendTemperature),
	})

	sessionRepo := questionnaire.NewRepository()
	questionnaireHandler := questionnaire.NewHandler(sessionRepo, orchestrator, store, entries, logger)
	chatHandler := webchat.NewHandler(chain, entries, logger)

	r := router.New(&router.Config{
		Logger:               logger,
		Catalog:              entries,
		QuestionnaireHandler: questionnaireHandler,
		ChatHandler:          chatHandler,
		MetricsHandler:       promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:   cfg.CORSAllowedOrigins,
		SubmitRateLimit:      5,
		SubmitBurst:          10,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // model fallback chain can be slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
