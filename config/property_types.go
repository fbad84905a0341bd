package config

import (
	"valuecraft/server/internal/models"
	"valuecraft/server/internal/valuation"
)

// PropertyTypeOption describes a supported property type for clients.
type PropertyTypeOption struct {
	Value            models.PropertyType `json:"value"`
	Label            string              `json:"label"`
	CostClass        models.CostClass    `json:"cost_class"`
	BuildCostPerSqft float64             `json:"build_cost_per_sqft"`
}

// SupportedPropertyTypes lists every property type with the build cost the
// given heuristics assign to it.
func SupportedPropertyTypes(h valuation.Heuristics) []PropertyTypeOption {
	options := make([]PropertyTypeOption, len(models.PropertyTypes))
	for i, t := range models.PropertyTypes {
		options[i] = PropertyTypeOption{
			Value:            t,
			Label:            t.Label(),
			CostClass:        t.CostClass(),
			BuildCostPerSqft: h.BuildCost(t),
		}
	}
	return options
}

// GetPropertyTypeByName returns the option for name, or nil if unsupported
func GetPropertyTypeByName(h valuation.Heuristics, name string) *PropertyTypeOption {
	for _, option := range SupportedPropertyTypes(h) {
		if string(option.Value) == name {
			return &option
		}
	}
	return nil
}
