package scheduler

import (
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Job is a named maintenance task.
type Job struct {
	Name string
	Run  func() error
}

// Scheduler runs maintenance jobs once at startup and then on every tick.
type Scheduler struct {
	logger   *logrus.Logger
	interval time.Duration
	jobs     []Job
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	jobMutex sync.Mutex // Ensures sequential job execution
}

// NewScheduler creates a new scheduler. A non-positive interval only runs
// the startup pass.
func NewScheduler(logger *logrus.Logger, interval time.Duration, jobs ...Job) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
		logger.SetLevel(logrus.InfoLevel)
	}

	return &Scheduler{
		logger:   logger,
		interval: interval,
		jobs:     jobs,
		stopChan: make(chan struct{}),
	}
}

// Start begins the scheduled tasks
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.runScheduler()
}

func (s *Scheduler) runScheduler() {
	defer s.wg.Done()

	s.logger.WithField("jobs", len(s.jobs)).Info("Running startup maintenance jobs")
	s.RunAll()

	if s.interval <= 0 {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.RunAll()
		}
	}
}

// RunAll runs every job sequentially. A failing job is logged and does not
// stop the others.
func (s *Scheduler) RunAll() {
	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	for _, job := range s.jobs {
		select {
		case <-s.stopChan:
			return
		default:
		}

		start := time.Now()
		if err := job.Run(); err != nil {
			s.logger.WithError(err).WithField("job", job.Name).Error("Maintenance job failed")
			continue
		}
		s.logger.WithFields(logrus.Fields{
			"job":         job.Name,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Debug("Maintenance job completed")
	}
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
}
