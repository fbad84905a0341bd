package rentroll

import (
	"fmt"

	"valuecraft/server/internal/models"
)

// Summarize aggregates a set of units. Rent and loss-to-lease count occupied
// units only; market rent counts every unit.
func Summarize(units []models.RentRollUnit) models.RentRollSummary {
	var s models.RentRollSummary
	s.TotalUnits = len(units)
	for _, u := range units {
		s.TotalSqft += u.SquareFeet
		s.TotalMarketRent += u.MarketRent
		switch u.Status {
		case models.UnitOccupied:
			s.OccupiedUnits++
			s.TotalMonthlyRent += u.MonthlyRent
			s.LossToLease += u.MarketRent - u.MonthlyRent
		case models.UnitVacant:
			s.VacantUnits++
		case models.UnitNotice:
			s.NoticeUnits++
		}
	}
	if s.TotalUnits > 0 {
		s.OccupancyRate = float64(s.OccupiedUnits) / float64(s.TotalUnits) * 100
	}
	return s
}

// RentRoll is an editable collection of units kept in insertion order. It is
// not safe for concurrent use.
type RentRoll struct {
	units []models.RentRollUnit
}

// New creates a rent roll seeded with the given units.
func New(units ...models.RentRollUnit) *RentRoll {
	return &RentRoll{units: append([]models.RentRollUnit(nil), units...)}
}

// Add appends a unit. Unit IDs must be unique.
func (r *RentRoll) Add(unit models.RentRollUnit) error {
	if unit.ID == "" {
		return fmt.Errorf("unit id is required")
	}
	if r.index(unit.ID) >= 0 {
		return fmt.Errorf("unit %s already exists", unit.ID)
	}
	r.units = append(r.units, unit)
	return nil
}

// Update replaces the unit with the same ID.
func (r *RentRoll) Update(unit models.RentRollUnit) error {
	i := r.index(unit.ID)
	if i < 0 {
		return fmt.Errorf("unit %s not found", unit.ID)
	}
	r.units[i] = unit
	return nil
}

// Remove deletes a unit by ID. Removing an unknown unit is a no-op.
func (r *RentRoll) Remove(id string) {
	if i := r.index(id); i >= 0 {
		r.units = append(r.units[:i], r.units[i+1:]...)
	}
}

// Units returns a copy of the current units.
func (r *RentRoll) Units() []models.RentRollUnit {
	out := make([]models.RentRollUnit, len(r.units))
	copy(out, r.units)
	return out
}

// Summary aggregates the current units.
func (r *RentRoll) Summary() models.RentRollSummary {
	return Summarize(r.units)
}

func (r *RentRoll) index(id string) int {
	for i, u := range r.units {
		if u.ID == id {
			return i
		}
	}
	return -1
}
