package queue

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"valuecraft/server/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// RecordQueue is an in-memory queue of analysis record batches awaiting
// persistence.
type RecordQueue struct {
	items    chan []*models.AnalysisRecord
	done     chan struct{}
	maxSize  int
	closed   bool
	mu       sync.RWMutex
	running  sync.WaitGroup
	logger   *logrus.Logger
	handlers []func([]*models.AnalysisRecord) error
}

// NewRecordQueue creates a new record queue with the specified buffer size
func NewRecordQueue(bufferSize int, logger *logrus.Logger) *RecordQueue {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &RecordQueue{
		items:    make(chan []*models.AnalysisRecord, bufferSize),
		done:     make(chan struct{}),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]func([]*models.AnalysisRecord) error, 0),
	}
}

// Push adds a batch of records to the queue
func (q *RecordQueue) Push(records []*models.AnalysisRecord) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	// Non-blocking send to prevent deadlocks
	select {
	case q.items <- records:
		q.logger.WithField("batch_size", len(records)).Debug("Pushed batch to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// Record digests a committed analysis result and queues it for persistence.
func (q *RecordQueue) Record(result models.AnalysisResult) error {
	record, err := models.NewAnalysisRecord(result)
	if err != nil {
		return err
	}
	return q.Push([]*models.AnalysisRecord{record})
}

// Subscribe adds a handler function that will be called for each batch
func (q *RecordQueue) Subscribe(handler func([]*models.AnalysisRecord) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start begins processing items in the queue
func (q *RecordQueue) Start() {
	q.running.Add(1)
	go q.process()
}

func (q *RecordQueue) process() {
	defer q.running.Done()
	for {
		select {
		case <-q.done:
			return
		case batch, ok := <-q.items:
			if !ok {
				return
			}
			q.processBatch(batch)
		}
	}
}

// processBatch sends the batch to all subscribed handlers
func (q *RecordQueue) processBatch(batch []*models.AnalysisRecord) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(batch); err != nil {
			q.logger.WithError(err).Error("Handler failed to process batch")
		}
	}
}

// Close stops the queue and prevents new items from being added. It waits
// for the batch in flight, then hands still-buffered batches to the
// subscribers before returning.
func (q *RecordQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.done)
	close(q.items)
	q.mu.Unlock()

	q.running.Wait()
	for batch := range q.items {
		q.processBatch(batch)
	}
	return nil
}

// Len returns the current number of batches in the queue
func (q *RecordQueue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed
func (q *RecordQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
