package analysis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"valuecraft/server/internal/metrics"
	"valuecraft/server/internal/models"
	"valuecraft/server/internal/providers"
	"valuecraft/server/internal/valuation"
)

var (
	ErrRunCancelled  = errors.New("analysis run was cancelled")
	ErrRunSuperseded = errors.New("analysis run was superseded by a newer run")
)

// Recorder receives every committed result.
type Recorder interface {
	Record(result models.AnalysisResult) error
}

type run struct {
	id    string
	token *CancellationToken
}

// Runner orchestrates analysis runs. Only the most recently started run can
// commit; starting a run cancels the one in flight.
type Runner struct {
	providers       providers.Set
	heuristics      valuation.Heuristics
	recorder        Recorder
	metrics         *metrics.Metrics
	logger          *logrus.Logger
	providerTimeout time.Duration
	now             func() time.Time

	mu      sync.Mutex
	current *run
	latest  *models.AnalysisResult
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRecorder hands committed results to rec.
func WithRecorder(rec Recorder) RunnerOption {
	return func(r *Runner) { r.recorder = rec }
}

// WithMetrics records run and provider metrics.
func WithMetrics(m *metrics.Metrics) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

// WithProviderTimeout bounds each gathering phase.
func WithProviderTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) { r.providerTimeout = d }
}

// WithClock overrides the clock used for run timestamps.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) { r.now = now }
}

// NewRunner creates a runner over the given providers.
func NewRunner(set providers.Set, h valuation.Heuristics, logger *logrus.Logger, opts ...RunnerOption) *Runner {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	r := &Runner{
		providers:  set,
		heuristics: h,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start begins a new run, cancelling any run in flight, and blocks until it
// commits or is discarded.
func (r *Runner) Start(ctx context.Context, in Input) (models.AnalysisResult, error) {
	started := time.Now()
	token := NewCancellationToken(ctx)
	defer token.Cancel()

	id := uuid.New().String()
	r.mu.Lock()
	if r.current != nil {
		r.current.token.Cancel()
	}
	r.current = &run{id: id, token: token}
	r.mu.Unlock()

	log := r.logger.WithFields(logrus.Fields{"run_id": id, "address": in.Location.Address})
	log.Info("Starting analysis run")

	result, err := r.execute(token, in)
	if err != nil {
		status := metrics.StatusFailed
		if token.Cancelled() {
			status, err = r.discardReason(id)
		}
		r.metrics.ObserveRun(status, time.Since(started))
		log.WithError(err).Warn("Analysis run did not complete")
		return models.AnalysisResult{}, err
	}
	result.RunID = id

	if err := r.commit(id, token, result); err != nil {
		status := metrics.StatusCancelled
		if errors.Is(err, ErrRunSuperseded) {
			status = metrics.StatusSuperseded
		}
		r.metrics.ObserveRun(status, time.Since(started))
		log.WithError(err).Info("Discarding stale analysis result")
		return models.AnalysisResult{}, err
	}

	r.metrics.ObserveRun(metrics.StatusCommitted, time.Since(started))
	log.WithFields(logrus.Fields{
		"estimated_value": result.Valuation.EstimatedValue,
		"confidence":      result.Valuation.Confidence,
		"method":          result.Valuation.Method,
	}).Info("Analysis run committed")

	if r.recorder != nil {
		if err := r.recorder.Record(result); err != nil {
			log.WithError(err).Error("Failed to record analysis result")
		}
	}
	return result, nil
}

// Cancel cancels the run in flight, if any.
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil {
		r.current.token.Cancel()
	}
}

// Latest returns the most recently committed result.
func (r *Runner) Latest() (models.AnalysisResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.latest == nil {
		return models.AnalysisResult{}, false
	}
	return *r.latest, true
}

func (r *Runner) execute(token *CancellationToken, in Input) (models.AnalysisResult, error) {
	src := r.gather(token.Context(), in)
	if token.Cancelled() {
		return models.AnalysisResult{}, ErrRunCancelled
	}

	now := r.now()
	draft, err := Evaluate(in, src, r.heuristics, now)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	if r.providers.Trend != nil {
		src.Trend = r.fetchTrend(token.Context(), in, draft)
		if token.Cancelled() {
			return models.AnalysisResult{}, ErrRunCancelled
		}
		if src.Trend != nil {
			return Evaluate(in, src, r.heuristics, now)
		}
	} else {
		r.metrics.ProviderRequest("market_trend", metrics.StatusSkipped)
	}
	return draft, nil
}

// commit publishes the result if the run is still current and not cancelled.
func (r *Runner) commit(id string, token *CancellationToken, result models.AnalysisResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil || r.current.id != id {
		return ErrRunSuperseded
	}
	if token.Cancelled() {
		return ErrRunCancelled
	}
	r.latest = &result
	r.current = nil
	return nil
}

func (r *Runner) discardReason(id string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil || r.current.id != id {
		return metrics.StatusSuperseded, ErrRunSuperseded
	}
	return metrics.StatusCancelled, ErrRunCancelled
}

// gather fetches every independent source concurrently. A failing provider
// leaves its source empty; it never fails the run.
func (r *Runner) gather(ctx context.Context, in Input) Sources {
	if r.providerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.providerTimeout)
		defer cancel()
	}

	var src Sources
	var g errgroup.Group
	compsReq := providers.CompsRequest{Location: in.Location, Property: in.Property, RadiusMiles: in.CompRadiusMiles}

	if p := r.providers.Comps; r.available("comps", p != nil) {
		g.Go(func() error {
			res, err := p.FetchComps(ctx, compsReq)
			if r.observe(ctx, "comps", err) {
				src.AIComps, src.Summary = res.Comps, res.Summary
			}
			return nil
		})
	}
	if p := r.providers.VerifiedSales; r.available("verified_sales", p != nil && in.RequestVerified) {
		g.Go(func() error {
			res, err := p.FetchVerifiedSales(ctx, compsReq)
			if r.observe(ctx, "verified_sales", err) {
				src.VerifiedComps = res
			}
			return nil
		})
	}
	if p := r.providers.PublicRecords; r.available("public_records", p != nil) {
		g.Go(func() error {
			res, err := p.FetchPublicRecord(ctx, in.Location)
			if r.observe(ctx, "public_records", err) {
				src.PublicRecord = res
			}
			return nil
		})
	}
	if p := r.providers.Enrichment; r.available("enrichment", p != nil) {
		g.Go(func() error {
			res, err := p.FetchEnrichment(ctx, providers.EnrichmentRequest{
				Location:     in.Location,
				PropertyType: in.Property.PropertyType,
				Financials: providers.Financials{
					PurchasePrice:   in.Deal.PurchasePrice,
					GrossRentAnnual: in.Deal.GrossRentAnnual,
					SquareFootage:   in.Property.SquareFootage,
					UnitCount:       in.Property.UnitCount,
				},
			})
			if r.observe(ctx, "enrichment", err) {
				src.Enrichment = res
			}
			return nil
		})
	}
	if p := r.providers.Condition; r.available("condition", p != nil) {
		g.Go(func() error {
			res, err := p.Assess(ctx, providers.ConditionRequest{Location: in.Location, Property: in.Property, ImageURLs: in.ImageURLs})
			if r.observe(ctx, "condition", err) {
				src.Condition = res
			}
			return nil
		})
	}

	_ = g.Wait()
	return src
}

func (r *Runner) fetchTrend(ctx context.Context, in Input, draft models.AnalysisResult) *models.MarketTrendSignal {
	if r.providerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.providerTimeout)
		defer cancel()
	}
	signal, err := r.providers.Trend.FetchTrend(ctx, providers.TrendRequest{
		Location:              in.Location,
		PropertyType:          draft.Property.PropertyType,
		Comps:                 draft.Valuation.Comparables,
		CurrentEstimatedValue: draft.Valuation.EstimatedValue,
	})
	if !r.observe(ctx, "market_trend", err) {
		return nil
	}
	return signal
}

func (r *Runner) available(provider string, ok bool) bool {
	if !ok {
		r.metrics.ProviderRequest(provider, metrics.StatusSkipped)
	}
	return ok
}

// observe records a provider outcome and reports whether its payload is usable.
func (r *Runner) observe(ctx context.Context, provider string, err error) bool {
	if err != nil {
		r.metrics.ProviderRequest(provider, metrics.StatusError)
		if ctx.Err() == nil {
			r.logger.WithError(err).WithField("provider", provider).Warn("Provider failed, treating source as absent")
		}
		return false
	}
	r.metrics.ProviderRequest(provider, metrics.StatusOK)
	return true
}
