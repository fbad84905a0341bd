package processor

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"valuecraft/server/config"
	"valuecraft/server/internal/database"
	"valuecraft/server/internal/metrics"
	"valuecraft/server/internal/models"
	"valuecraft/server/internal/queue"
)

// Transactor runs a function inside a database transaction. *gorm.DB
// satisfies it.
type Transactor interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// BatchProcessor persists analysis record batches taken from the queue.
type BatchProcessor struct {
	db        Transactor
	logger    *logrus.Logger
	config    *config.Config
	queue     *queue.RecordQueue
	metrics   *metrics.Metrics
	jobs      chan []*models.AnalysisRecord
	waitGroup sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewBatchProcessor creates a new batch processor instance
func NewBatchProcessor(db Transactor, queue *queue.RecordQueue, config *config.Config, m *metrics.Metrics, logger *logrus.Logger) *BatchProcessor {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &BatchProcessor{
		db:      db,
		queue:   queue,
		config:  config,
		metrics: m,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start subscribes to the queue and starts the configured number of workers.
func (p *BatchProcessor) Start() {
	workers := p.config.BatchProcessing.ProcessorCount
	if workers < 1 {
		workers = 1
	}
	p.jobs = make(chan []*models.AnalysisRecord, workers)
	for i := 0; i < workers; i++ {
		p.waitGroup.Add(1)
		go p.processLoop()
	}
	p.queue.Subscribe(p.dispatch)
}

// Stop shuts the workers down and persists any batch already dispatched.
// Close the queue first so nothing new arrives.
func (p *BatchProcessor) Stop() {
	p.cancel()
	p.waitGroup.Wait()

	for {
		select {
		case batch := <-p.jobs:
			if err := p.processBatch(batch); err != nil {
				p.logger.WithError(err).Error("Dropping batch during shutdown")
			}
		default:
			return
		}
	}
}

func (p *BatchProcessor) dispatch(batch []*models.AnalysisRecord) error {
	if p.ctx.Err() != nil {
		return fmt.Errorf("processor stopped, dropping batch of %d records", len(batch))
	}
	select {
	case p.jobs <- batch:
		return nil
	case <-p.ctx.Done():
		return fmt.Errorf("processor stopped, dropping batch of %d records", len(batch))
	}
}

func (p *BatchProcessor) processLoop() {
	defer p.waitGroup.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case batch := <-p.jobs:
			if err := p.processBatch(batch); err != nil {
				p.logger.WithError(err).Error("Batch persistence failed")
			}
		}
	}
}

// processBatch handles a single batch of records with transaction and retry logic
func (p *BatchProcessor) processBatch(batch []*models.AnalysisRecord) error {
	attempts := p.config.BatchProcessing.MaxRetries + 1
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			p.logger.Infof("Retrying batch processing, attempt %d of %d", attempt, attempts)
			time.Sleep(time.Duration(p.config.BatchProcessing.RetryDelay) * time.Second)
		}

		err = p.db.Transaction(func(tx *gorm.DB) error {
			if err := database.UpsertAnalyses(tx, batch); err != nil {
				return fmt.Errorf("failed to upsert analyses batch: %w", err)
			}
			return nil
		})

		if err == nil {
			p.logger.Infof("Successfully processed batch of %d analyses", len(batch))
			p.metrics.RecordsPersisted(metrics.StatusOK, len(batch))
			return nil
		}

		p.logger.Errorf("Batch processing failed: %v", err)
	}

	p.metrics.RecordsPersisted(metrics.StatusError, len(batch))
	return fmt.Errorf("failed to process batch after %d attempts: %w", attempts, err)
}
