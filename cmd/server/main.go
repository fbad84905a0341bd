package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"valuecraft/server/config"
	"valuecraft/server/internal/analysis"
	"valuecraft/server/internal/api"
	"valuecraft/server/internal/database"
	"valuecraft/server/internal/metrics"
	"valuecraft/server/internal/processor"
	"valuecraft/server/internal/providers"
	"valuecraft/server/internal/queue"
	"valuecraft/server/internal/scheduler"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.WithError(err).Warn("Failed to load .env file")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.Server.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.WithField("log_level", cfg.Server.LogLevel).Warn("Unknown log level, keeping info")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Server.DBPath), 0755); err != nil {
		logger.WithError(err).Fatal("Failed to create database directory")
	}
	logger.Infof("Using database at: %s", cfg.Server.DBPath)

	db, err := database.NewDatabase(cfg.Server.DBPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.MigrateSchema(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	m := metrics.New()

	recordQueue := queue.NewRecordQueue(cfg.BatchProcessing.QueueSize, logger)
	batchProcessor := processor.NewBatchProcessor(db.DB(), recordQueue, cfg, m, logger)
	batchProcessor.Start()
	recordQueue.Start()

	var cache *providers.ResponseCache
	if cfg.Providers.CacheEnabled {
		cache, err = providers.NewResponseCache(cfg.Providers.CacheDir, cfg.Providers.CacheTTL, logger)
		if err != nil {
			logger.WithError(err).Warn("Provider cache disabled")
		}
	}
	set := providers.NewHTTPSet(providers.Endpoints{
		Comps:         cfg.Providers.CompsURL,
		VerifiedSales: cfg.Providers.VerifiedSalesURL,
		PublicRecords: cfg.Providers.PublicRecordsURL,
		Trend:         cfg.Providers.TrendURL,
		Enrichment:    cfg.Providers.EnrichmentURL,
		Condition:     cfg.Providers.ConditionURL,
	}, cfg.Providers.Timeout, cache, logger)

	runner := analysis.NewRunner(set, cfg.Valuation, logger,
		analysis.WithRecorder(recordQueue),
		analysis.WithMetrics(m),
		analysis.WithProviderTimeout(cfg.Providers.Timeout),
	)

	var jobs []scheduler.Job
	if cache != nil {
		jobs = append(jobs, scheduler.Job{Name: "prune-provider-cache", Run: func() error {
			if removed := cache.Prune(); removed > 0 {
				logger.WithField("removed", removed).Info("Pruned provider cache")
			}
			return nil
		}})
	}
	if retention := cfg.Maintenance.AnalysisRetention; retention > 0 {
		jobs = append(jobs, scheduler.Job{Name: "expire-analyses", Run: func() error {
			deleted, err := db.DeleteAnalysesBefore(time.Now().Add(-retention))
			if err != nil {
				return err
			}
			if deleted > 0 {
				logger.WithField("deleted", deleted).Info("Expired old analyses")
			}
			return nil
		}})
	}
	maintenance := scheduler.NewScheduler(logger, cfg.Maintenance.Interval, jobs...)
	maintenance.Start()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	handler := api.NewHandler(db, runner, cfg.Valuation, cfg.Providers.CompRadiusMiles, logger)
	api.SetupRoutes(router, handler, m, cfg.Server.CORSOrigins)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	runner.Cancel()
	maintenance.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	// Flush queued records before the database closes
	recordQueue.Close()
	batchProcessor.Stop()
	logger.Info("Server exited")
}
