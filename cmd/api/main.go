package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fefe-learning/curriculum-ai/internal/api"
	"github.com/fefe-learning/curriculum-ai/internal/document"
	"github.com/fefe-learning/curriculum-ai/internal/ingestion"
	"github.com/fefe-learning/curriculum-ai/internal/metrics"
	"github.com/fefe-learning/curriculum-ai/internal/middleware/ratelimit"
	"github.com/fefe-learning/curriculum-ai/internal/normalizer"
	"github.com/fefe-learning/curriculum-ai/internal/provider"
	"github.com/fefe-learning/curriculum-ai/internal/router"
	"github.com/fefe-learning/curriculum-ai/internal/session"
	"github.com/fefe-learning/curriculum-ai/internal/storage/sqlite"
	"github.com/fefe-learning/curriculum-ai/pkg/config"
	appLogger "github.com/fefe-learning/curriculum-ai/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Curriculum AI Learning Service")

	metrics.Init()

	if err := os.MkdirAll(filepath.Dir(cfg.SQLite.Path), 0o755); err != nil {
		appLogger.Fatal("Failed to create data directory", zap.Error(err))
	}
	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	err = sqliteClient.InitSchema()
	if err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	docs := document.NewStore()
	sessions := session.NewStore(cfg.Session.MaxTurns)
	processor := ingestion.NewProcessor(docs, cfg.Chunker.MaxChunkSize)
	norm := normalizer.New(time.Now().UnixNano())

	providers := []provider.Provider{
		provider.NewLocalQA(cfg.Providers.LocalQA.Enabled, cfg.Providers.LocalQA.ScoreFloor, cfg.Providers.LocalQA.MaxChunkChars),
		provider.NewEducational(cfg.Providers.Educational),
		provider.NewCreative(cfg.Providers.Creative),
		provider.NewFallback(),
	}

	questionRouter := router.New(providers, docs, sessions, norm,
		time.Duration(cfg.Providers.TimeoutSec)*time.Second)

	for id, available := range questionRouter.Available() {
		appLogger.Info("Provider probed",
			zap.String("provider", string(id)),
			zap.Bool("available", available))
	}

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: 60,
		Logger:               appLogger.GetLogger(),
	})
	defer limiter.Stop()

	app := api.NewApp(cfg, api.Deps{
		Router:    questionRouter,
		Docs:      docs,
		Sessions:  sessions,
		Processor: processor,
		Store:     sqliteClient,
		Limiter:   limiter,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
