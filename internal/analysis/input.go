package analysis

import (
	"context"

	"valuecraft/server/internal/models"
)

// Input is the complete, immutable description of one analysis request.
type Input struct {
	Location models.Location         `json:"location"`
	Property models.PropertySnapshot `json:"property"`
	// Deal holds the loan and income terms. A zero purchase price is
	// seeded from the estimated value.
	Deal     models.UnderwritingInput      `json:"deal"`
	Units    []models.RentRollUnit         `json:"units,omitempty"`
	Expenses []models.OperatingExpenseLine `json:"expenses,omitempty"`
	// RequestVerified opts in to the quota-consuming verified-sales provider.
	RequestVerified bool     `json:"request_verified"`
	CompRadiusMiles float64  `json:"comp_radius_miles,omitempty"`
	ImageURLs       []string `json:"image_urls,omitempty"`
}

// Sources are the provider payloads gathered for a run. Nil or empty means
// the source was unavailable.
type Sources struct {
	AIComps       []models.ComparableSale     `json:"ai_comps,omitempty"`
	Summary       *models.MarketSummary       `json:"summary,omitempty"`
	VerifiedComps []models.ComparableSale     `json:"verified_comps,omitempty"`
	PublicRecord  *models.PublicRecord        `json:"public_record,omitempty"`
	Trend         *models.MarketTrendSignal   `json:"trend,omitempty"`
	Enrichment    *models.EnrichmentFigures   `json:"enrichment,omitempty"`
	Condition     *models.ConditionAssessment `json:"condition,omitempty"`
}

// CancellationToken scopes one run. The orchestrator checks it before
// committing; the engine never sees it.
type CancellationToken struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewCancellationToken derives a token from parent.
func NewCancellationToken(parent context.Context) *CancellationToken {
	ctx, cancel := context.WithCancel(parent)
	return &CancellationToken{ctx: ctx, cancel: cancel}
}

// Context is cancelled together with the token.
func (t *CancellationToken) Context() context.Context {
	return t.ctx
}

// Cancel cancels the token. It is safe to call more than once.
func (t *CancellationToken) Cancel() {
	t.cancel()
}

// Cancelled reports whether the token or its parent has been cancelled.
func (t *CancellationToken) Cancelled() bool {
	return t.ctx.Err() != nil
}
