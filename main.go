package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/homewiz/query-engine/pkg/config"
	"github.com/homewiz/query-engine/pkg/executor"
	"github.com/homewiz/query-engine/pkg/handlers"
	"github.com/homewiz/query-engine/pkg/llm"
	"github.com/homewiz/query-engine/pkg/logging"
	"github.com/homewiz/query-engine/pkg/middleware"
	"github.com/homewiz/query-engine/pkg/schema"
	"github.com/homewiz/query-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model),
		zap.String("database", cfg.Database.Database),
	)

	registry := schema.MustLoad()

	factory := llm.NewClientFactory(cfg.LLM.Provider, &llm.Config{
		Endpoint:           cfg.LLM.Endpoint,
		Model:              cfg.LLM.Model,
		APIKey:             cfg.LLM.APIKey,
		MaxTokens:          cfg.LLM.MaxTokens,
		MinRequestInterval: cfg.LLM.MinRequestInterval(),
	}, logger)
	client, err := factory.Create()
	if err != nil {
		logger.Fatal("failed to create LLM client", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exec, err := executor.NewPostgresExecutor(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer exec.Close()

	processor := services.NewProcessor(client, exec, registry, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(logger))

	handlers.NewHealthHandler(cfg).RegisterRoutes(r)
	handlers.NewQueryHandler(processor, logger).RegisterRoutes(r)
	handlers.NewSchemaHandler(registry, logger).RegisterRoutes(r)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting query-engine",
			zap.String("addr", srv.Addr),
			zap.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
