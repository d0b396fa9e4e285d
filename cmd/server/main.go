package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	_ "ocrbench/docs"
	"ocrbench/internal/config"
	"ocrbench/internal/handler"
	"ocrbench/internal/logging"
	"ocrbench/internal/port"
	"ocrbench/internal/provider"
	_ "ocrbench/internal/provider/claude"
	_ "ocrbench/internal/provider/gemini"
	_ "ocrbench/internal/provider/openai"
	"ocrbench/internal/repository"
	"ocrbench/internal/router"
	"ocrbench/internal/service"
	s3storage "ocrbench/internal/storage/s3"
)

// @title OCR Bench API
// @version 1.0
// @description Runs images through vision-language models and scores the extracted text against ground truth.
// @BasePath /api/v1
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.Init(cfg.Log.Level, cfg.Log.Format)
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() { _ = store.Close() }()

	// Initialize providers
	providers, catalog, err := provider.FromConfig(&cfg.Providers)
	if err != nil {
		return fmt.Errorf("failed to initialize providers: %w", err)
	}
	configured := provider.ConfiguredNames(providers)
	if len(configured) == 0 {
		slog.Warn("server: no OCR provider has an API key, runs will return placeholders")
	}

	// Initialize storage
	var images port.ObjectStorage
	if cfg.S3.Enabled() {
		images, err = s3storage.NewImageStore(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	} else {
		slog.Info("server: S3 bucket not set, image uploads disabled")
	}

	// Initialize services
	ocrSvc := service.NewOCRService(providers, catalog, service.OCRConfig{
		MaxBatchSize: cfg.Batch.MaxSize,
		Delay:        cfg.Batch.Delay,
	})
	testAreaSvc := service.NewTestAreaService(store.TestAreas, ocrSvc, cfg.Scoring.Normalize)
	reportSvc := service.NewReportService(store.TestAreas)
	imageSvc := service.NewImageService(images, &cfg.S3)

	// Setup router
	r := router.Setup(router.Handlers{
		Health:   handler.NewHealthHandler(store.Pinger),
		OCR:      handler.NewOCRHandler(ocrSvc, catalog, configured),
		Score:    handler.NewScoreHandler(cfg.Scoring.Normalize),
		TestArea: handler.NewTestAreaHandler(testAreaSvc),
		Report:   handler.NewReportHandler(reportSvc, cfg.Scoring.Normalize),
		Image:    handler.NewImageHandler(imageSvc),
	}, logger, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server: starting", "addr", cfg.Server.Port, "store", cfg.Store.Driver, "providers", configured)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
