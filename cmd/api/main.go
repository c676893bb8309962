package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-prioritizer/internal/api/http"
	"github.com/spec-kit/ticket-prioritizer/internal/api/http/handlers"
	"github.com/spec-kit/ticket-prioritizer/internal/config"
	"github.com/spec-kit/ticket-prioritizer/internal/events"
	"github.com/spec-kit/ticket-prioritizer/internal/observability"
	"github.com/spec-kit/ticket-prioritizer/internal/oracle"
	"github.com/spec-kit/ticket-prioritizer/internal/service"
	"github.com/spec-kit/ticket-prioritizer/internal/source"
	"github.com/spec-kit/ticket-prioritizer/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()

	dispatcher := events.NewInMemoryDispatcher()
	observer := service.NewObserverService(dispatcher, logger, metrics)
	observer.RegisterHandlers()

	oracleClient := oracle.NewClient(cfg.Oracle.APIKey, cfg.Oracle.BaseURL, cfg.Oracle.Timeout())
	analyzer := oracle.NewLLMAnalyzer(oracleClient, cfg.Oracle, logger, metrics)
	fetcher := source.NewFetcher(cfg.Source, logger)

	pool := worker.NewPool(cfg.Pipeline.EnrichmentWorkers)
	defer pool.Shutdown()

	sentiment := service.NewSentimentAggregator(analyzer, cfg.Pipeline.SentimentWordBudget, dispatcher, logger)
	pipeline := service.NewPipelineService(service.PipelineDependencies{
		Fetcher:    fetcher,
		Analyzer:   analyzer,
		Pool:       pool,
		Sentiment:  sentiment,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Oracle)
	prioritizeHandler := handlers.NewPrioritizeHandler(pipeline)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     healthHandler,
		Prioritize: prioritizeHandler,
		Metrics:    metrics.Handler(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
