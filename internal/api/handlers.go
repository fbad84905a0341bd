package api

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"valuecraft/server/config"
	"valuecraft/server/internal/analysis"
	"valuecraft/server/internal/comps"
	"valuecraft/server/internal/database"
	"valuecraft/server/internal/finance"
	"valuecraft/server/internal/geometry"
	"valuecraft/server/internal/models"
	"valuecraft/server/internal/rentroll"
	"valuecraft/server/internal/valuation"
)

// Store is the read side of the analysis database.
type Store interface {
	GetRecentAnalyses(limit int, propertyType string) ([]models.AnalysisRecord, error)
	GetAnalysis(runID string) (*models.AnalysisRecord, error)
	GetValuationStats(propertyType string) (models.ValuationStats, error)
}

type Handler struct {
	db                 Store
	runner             *analysis.Runner
	heuristics         valuation.Heuristics
	engine             *finance.Engine
	defaultRadiusMiles float64
	logger             *logrus.Logger
	now                func() time.Time
}

func NewHandler(db Store, runner *analysis.Runner, h valuation.Heuristics, defaultRadiusMiles float64, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		db:                 db,
		runner:             runner,
		heuristics:         h,
		engine:             finance.NewEngine(h.ClosingCostPct),
		defaultRadiusMiles: defaultRadiusMiles,
		logger:             logger,
		now:                time.Now,
	}
}

type ValuationRequest struct {
	Property      models.PropertySnapshot   `json:"property"`
	Comps         []models.ComparableSale   `json:"comps"`
	VerifiedComps []models.ComparableSale   `json:"verified_comps"`
	Summary       *models.MarketSummary     `json:"summary"`
	SaleHistory   []models.SaleRecord       `json:"sale_history"`
	Trend         *models.MarketTrendSignal `json:"trend"`
	NOI           *float64                  `json:"noi"`
	AreaCapRate   *float64                  `json:"area_cap_rate"`
}

type RentRollRequest struct {
	Units []models.RentRollUnit `json:"units"`
}

type ExpensesRequest struct {
	Lines         []models.OperatingExpenseLine `json:"lines"`
	Enrichment    *models.EnrichmentFigures     `json:"enrichment"`
	SquareFootage float64                       `json:"square_footage"`
}

type CompsMergeRequest struct {
	AIComps       []models.ComparableSale `json:"ai_comps"`
	VerifiedComps []models.ComparableSale `json:"verified_comps"`
	Latitude      *float64                `json:"latitude"`
	Longitude     *float64                `json:"longitude"`
	RadiusMiles   float64                 `json:"radius_miles"`
}

func (h *Handler) PostValuation(c *gin.Context) {
	var req ValuationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	now := h.now()
	sqft := req.Property.SquareFootage
	if sqft <= 0 {
		h.respondError(c, &valuation.InvalidPropertyDataError{Field: "square_footage", Reason: "must be positive"}, "")
		return
	}

	ai, _ := comps.WithFallback(req.Comps, sqft, h.heuristics.FallbackPricePerSqft, now)
	merged, err := comps.Merge(ai, req.VerifiedComps)
	if err != nil {
		h.respondError(c, err, "Failed to merge comparable sales")
		return
	}

	result, err := valuation.NewBlender(h.heuristics).Value(valuation.Input{
		Property:    req.Property,
		Comps:       comps.AnnotateRecency(merged, now),
		SaleHistory: req.SaleHistory,
		Summary:     req.Summary,
		Trend:       req.Trend,
		NOI:         req.NOI,
		AreaCapRate: req.AreaCapRate,
		Now:         now,
	})
	if err != nil {
		h.respondError(c, err, "Failed to value property")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) PostUnderwriting(c *gin.Context) {
	var in models.UnderwritingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.engine.Underwrite(in))
}

func (h *Handler) PostScenarios(c *gin.Context) {
	var in models.UnderwritingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.engine.Scenarios(in))
}

func (h *Handler) PostRentRollSummary(c *gin.Context) {
	var req RentRollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	roll := rentroll.New()
	for _, unit := range req.Units {
		if err := roll.Add(unit); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, roll.Summary())
}

func (h *Handler) PostExpensesSummary(c *gin.Context) {
	var req ExpensesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	ledger := rentroll.NewLedger()
	ledger.Load(req.Lines)
	if ledger.Len() == 0 {
		ledger.SeedFromEnrichment(req.Enrichment, req.SquareFootage)
	}

	c.JSON(http.StatusOK, gin.H{
		"lines":  ledger.Lines(),
		"totals": ledger.Totals(),
	})
}

func (h *Handler) PostCompsMerge(c *gin.Context) {
	var req CompsMergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	merged, err := comps.Merge(req.AIComps, req.VerifiedComps)
	if err != nil {
		h.respondError(c, err, "Failed to merge comparable sales")
		return
	}

	var subject *geometry.Point
	if p, ok := geometry.NewPoint(req.Latitude, req.Longitude); ok {
		subject = &p
		merged = comps.FillDistances(p, merged)
		merged = comps.WithinRadius(p, merged, req.RadiusMiles)
	}
	merged = comps.AnnotateRecency(merged, h.now())

	if c.Query("format") == "geojson" {
		c.JSON(http.StatusOK, geometry.CompsFeatureCollection(subject, merged))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comps":          merged,
		"verified_count": len(comps.Verified(merged)),
	})
}

func (h *Handler) PostAnalysis(c *gin.Context) {
	if h.runner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Analysis runner is not configured"})
		return
	}

	var in analysis.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if in.CompRadiusMiles == 0 {
		in.CompRadiusMiles = h.defaultRadiusMiles
	}

	result, err := h.runner.Start(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err, "Failed to run analysis")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) CancelAnalysis(c *gin.Context) {
	if h.runner != nil {
		h.runner.Cancel()
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetLatestAnalysis(c *gin.Context) {
	if h.runner == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No analysis has completed"})
		return
	}
	result, ok := h.runner.Latest()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No analysis has completed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetRecentAnalyses(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "10")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 10
	}

	records, err := h.db.GetRecentAnalyses(limit, c.Query("property_type"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to get recent analyses")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get recent analyses"})
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *Handler) GetAnalysis(c *gin.Context) {
	runID := c.Param("run_id")
	record, err := h.db.GetAnalysis(runID)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("run_id", runID).Error("Failed to get analysis")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get analysis"})
		return
	}

	result, err := record.Result()
	if err != nil {
		h.logger.WithError(err).WithField("run_id", runID).Error("Stored analysis payload is unreadable")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get analysis"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetValuationStats(c *gin.Context) {
	stats, err := h.db.GetValuationStats(c.Query("property_type"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to get valuation stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get valuation stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetPropertyTypes(c *gin.Context) {
	c.JSON(http.StatusOK, config.SupportedPropertyTypes(h.heuristics))
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError maps engine errors to 422, run conflicts to 409 and anything
// else to 500 with a generic message.
func (h *Handler) respondError(c *gin.Context, err error, message string) {
	var invalid *valuation.InvalidPropertyDataError
	var empty *comps.EmptyInputError

	switch {
	case errors.As(err, &invalid), errors.As(err, &empty):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, analysis.ErrRunSuperseded), errors.Is(err, analysis.ErrRunCancelled):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.WithError(err).Error(message)
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}
