package rentroll

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"valuecraft/server/internal/models"
)

// Expense categories seeded from enrichment benchmarks.
const (
	CategoryPropertyTax = "Property Tax"
	CategoryInsurance   = "Insurance"
	CategoryMaintenance = "Maintenance"
	CategoryReserves    = "Reserves"
)

// Ledger holds operating-expense lines. Editing one of annual or monthly
// recomputes the other. It is not safe for concurrent use.
type Ledger struct {
	lines map[string]*models.OperatingExpenseLine
	order []string
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{lines: make(map[string]*models.OperatingExpenseLine)}
}

// Add creates a line from an annual amount and returns it.
func (l *Ledger) Add(category string, annual float64) models.OperatingExpenseLine {
	line := &models.OperatingExpenseLine{
		ID:       uuid.New().String(),
		Category: category,
	}
	setAnnual(line, annual)
	l.lines[line.ID] = line
	l.order = append(l.order, line.ID)
	return *line
}

// Load adds existing lines, keeping their IDs and normalising the monthly
// figure from the annual one. Lines without an ID get a new one.
func (l *Ledger) Load(lines []models.OperatingExpenseLine) {
	for _, in := range lines {
		line := in
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		if line.Annual == 0 && line.Monthly != 0 {
			setMonthly(&line, line.Monthly)
		} else {
			setAnnual(&line, line.Annual)
		}
		if _, exists := l.lines[line.ID]; !exists {
			l.order = append(l.order, line.ID)
		}
		l.lines[line.ID] = &line
	}
}

// SetAnnual edits the annual amount; monthly becomes round(annual/12).
func (l *Ledger) SetAnnual(id string, annual float64) error {
	line, err := l.get(id)
	if err != nil {
		return err
	}
	setAnnual(line, annual)
	return nil
}

// SetMonthly edits the monthly amount; annual becomes monthly*12.
func (l *Ledger) SetMonthly(id string, monthly float64) error {
	line, err := l.get(id)
	if err != nil {
		return err
	}
	setMonthly(line, monthly)
	return nil
}

// SetCategory renames a line.
func (l *Ledger) SetCategory(id, category string) error {
	line, err := l.get(id)
	if err != nil {
		return err
	}
	line.Category = category
	return nil
}

// Remove deletes a line. Removing an unknown line is a no-op.
func (l *Ledger) Remove(id string) {
	if _, ok := l.lines[id]; !ok {
		return
	}
	delete(l.lines, id)
	for i, v := range l.order {
		if v == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// Lines returns the lines in insertion order.
func (l *Ledger) Lines() []models.OperatingExpenseLine {
	out := make([]models.OperatingExpenseLine, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.lines[id])
	}
	return out
}

// Len returns the number of lines.
func (l *Ledger) Len() int {
	return len(l.order)
}

// Totals sums the current lines.
func (l *Ledger) Totals() models.ExpenseTotals {
	t := models.ExpenseTotals{Lines: len(l.order)}
	for _, id := range l.order {
		t.Annual += l.lines[id].Annual
		t.Monthly += l.lines[id].Monthly
	}
	return t
}

// SeedFromEnrichment adds tax, insurance, maintenance and reserve lines from
// area benchmarks. Categories already present are left alone. sqft is used
// when only a per-square-foot maintenance figure is available.
func (l *Ledger) SeedFromEnrichment(e *models.EnrichmentFigures, sqft float64) {
	if e == nil {
		return
	}
	present := make(map[string]bool, len(l.order))
	for _, id := range l.order {
		present[l.lines[id].Category] = true
	}
	seed := func(category string, annual float64) {
		if annual > 0 && !present[category] {
			l.Add(category, annual)
		}
	}

	if e.PropertyTaxEstimate != nil {
		seed(CategoryPropertyTax, *e.PropertyTaxEstimate)
	}
	if e.InsuranceEstimate != nil {
		seed(CategoryInsurance, *e.InsuranceEstimate)
	}
	switch {
	case e.MaintenanceAnnual != nil:
		seed(CategoryMaintenance, *e.MaintenanceAnnual)
	case e.MaintenancePerSqft != nil && sqft > 0:
		seed(CategoryMaintenance, math.Round(*e.MaintenancePerSqft*sqft))
	}
	if e.ReservesAnnual != nil {
		seed(CategoryReserves, *e.ReservesAnnual)
	}
}

func (l *Ledger) get(id string) (*models.OperatingExpenseLine, error) {
	line, ok := l.lines[id]
	if !ok {
		return nil, fmt.Errorf("expense line %s not found", id)
	}
	return line, nil
}

func setAnnual(line *models.OperatingExpenseLine, annual float64) {
	line.Annual = annual
	line.Monthly = math.Round(annual / 12)
}

func setMonthly(line *models.OperatingExpenseLine, monthly float64) {
	line.Monthly = monthly
	line.Annual = monthly * 12
}
