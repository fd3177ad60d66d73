package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/techchoose/backend/config"
	httpDelivery "github.com/techchoose/backend/internal/delivery/http"
	"github.com/techchoose/backend/internal/infrastructure/cache"
	"github.com/techchoose/backend/internal/infrastructure/logging"
	"github.com/techchoose/backend/internal/infrastructure/metrics"
	"github.com/techchoose/backend/internal/infrastructure/sheets"
	"github.com/techchoose/backend/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("starting TechChoose backend",
		zap.String("version", httpDelivery.Version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.Duration("cache_ttl", cfg.Catalog.CacheTTL))

	// Initialize infrastructure dependencies
	recorder := metrics.NewRecorder()
	memoryCache := cache.NewMemoryCache(0)
	defer memoryCache.Close()

	sheetClient := sheets.NewClient(sheets.ClientConfig{
		SourceURL:         cfg.Catalog.SourceURL,
		Timeout:           cfg.Catalog.Timeout,
		RequestsPerMinute: cfg.Catalog.RequestsPerMinute,
	}, logger)

	presets := usecase.DefaultPresets()
	if cfg.Scoring.PersonasFile != "" {
		loaded, err := usecase.LoadPresets(cfg.Scoring.PersonasFile)
		if err != nil {
			return fmt.Errorf("load presets: %w", err)
		}
		presets = loaded
	}
	logger.Info("presets ready",
		zap.String("file", cfg.Scoring.PersonasFile),
		zap.Strings("personas", presets.PersonaNames()),
		zap.Strings("judges", presets.JudgeNames()))

	// Initialize usecase layer
	catalogService := usecase.NewCatalogService(
		memoryCache,
		sheetClient,
		usecase.CatalogServiceConfig{
			CacheTTL:     cfg.Catalog.CacheTTL,
			AffiliateTag: cfg.Catalog.AffiliateTag,
			// one fetch may take every retry attempt of the sheet client
			LoadTimeout: 3 * cfg.Catalog.Timeout,
		},
		recorder,
		logger,
	)

	recommendationService := usecase.NewRecommendationService(
		catalogService,
		presets,
		usecase.RecommendationServiceConfig{Alternatives: cfg.Scoring.Alternatives},
		recorder,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Warm the cache; a failure here is served as 503 until the sheet recovers
	warmCtx, cancel := context.WithTimeout(ctx, cfg.Catalog.Timeout)
	if _, err := catalogService.Catalog(warmCtx); err != nil {
		logger.Warn("initial catalog load failed", zap.Error(err))
	}
	cancel()

	handler := httpDelivery.NewHandler(recommendationService, catalogService, logger)
	router := httpDelivery.SetupRouter(cfg, handler, recorder, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	return srv.Shutdown(shutdownCtx)
}
