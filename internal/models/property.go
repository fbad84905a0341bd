package models

import "time"

// PropertyType identifies the asset class of the subject property.
type PropertyType string

const (
	PropertyTypeSingleFamily PropertyType = "single-family"
	PropertyTypeMultifamily  PropertyType = "multifamily"
	PropertyTypeCommercial   PropertyType = "commercial"
	PropertyTypeIndustrial   PropertyType = "industrial"
	PropertyTypeRetail       PropertyType = "retail"
	PropertyTypeOffice       PropertyType = "office"
	PropertyTypeMixedUse     PropertyType = "mixed-use"
	PropertyTypeLand         PropertyType = "land"
	PropertyTypeHospitality  PropertyType = "hospitality"
	PropertyTypeSelfStorage  PropertyType = "self-storage"
)

// PropertyTypes is the set of recognised property types.
var PropertyTypes = []PropertyType{
	PropertyTypeSingleFamily,
	PropertyTypeMultifamily,
	PropertyTypeCommercial,
	PropertyTypeIndustrial,
	PropertyTypeRetail,
	PropertyTypeOffice,
	PropertyTypeMixedUse,
	PropertyTypeLand,
	PropertyTypeHospitality,
	PropertyTypeSelfStorage,
}

// IsValid checks if a property type is recognised.
func (t PropertyType) IsValid() bool {
	for _, v := range PropertyTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Label returns a human-readable label for the property type.
func (t PropertyType) Label() string {
	switch t {
	case PropertyTypeSingleFamily:
		return "Single Family"
	case PropertyTypeMultifamily:
		return "Multifamily"
	case PropertyTypeCommercial:
		return "Commercial"
	case PropertyTypeIndustrial:
		return "Industrial"
	case PropertyTypeRetail:
		return "Retail"
	case PropertyTypeOffice:
		return "Office"
	case PropertyTypeMixedUse:
		return "Mixed Use"
	case PropertyTypeLand:
		return "Land"
	case PropertyTypeHospitality:
		return "Hospitality"
	case PropertyTypeSelfStorage:
		return "Self Storage"
	default:
		return string(t)
	}
}

// CostClass groups property types by construction cost profile.
type CostClass string

const (
	CostClassResidential CostClass = "residential"
	CostClassCommercial  CostClass = "commercial"
	CostClassIndustrial  CostClass = "industrial"
)

// CostClass returns the construction cost profile used by the cost approach.
// Unknown types are costed as residential.
func (t PropertyType) CostClass() CostClass {
	switch t {
	case PropertyTypeCommercial, PropertyTypeRetail, PropertyTypeOffice,
		PropertyTypeMixedUse, PropertyTypeHospitality:
		return CostClassCommercial
	case PropertyTypeIndustrial, PropertyTypeSelfStorage:
		return CostClassIndustrial
	default:
		return CostClassResidential
	}
}

// PropertySnapshot is the immutable description of the subject property for
// a single analysis run.
type PropertySnapshot struct {
	PropertyType  PropertyType `json:"property_type"`
	SquareFootage float64      `json:"square_footage"`
	LotSizeAcres  *float64     `json:"lot_size_acres,omitempty"`
	YearBuilt     *int         `json:"year_built,omitempty"`
	UnitCount     int          `json:"unit_count"`
	Bedrooms      *int         `json:"bedrooms,omitempty"`
	Bathrooms     *float64     `json:"bathrooms,omitempty"`
	Latitude      *float64     `json:"latitude,omitempty"`
	Longitude     *float64     `json:"longitude,omitempty"`
}

// AgeYears returns the age of the building at the given time, or 0 when the
// year built is unknown or in the future.
func (p PropertySnapshot) AgeYears(now time.Time) int {
	if p.YearBuilt == nil || *p.YearBuilt <= 0 {
		return 0
	}
	age := now.Year() - *p.YearBuilt
	if age < 0 {
		return 0
	}
	return age
}

// Location identifies the subject property for provider lookups.
type Location struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
}

// SaleRecord is a historical sale of the subject property itself.
type SaleRecord struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
	Type  string    `json:"type,omitempty"`
}

// MostRecentSale returns the latest sale with a positive price.
func MostRecentSale(history []SaleRecord) (SaleRecord, bool) {
	var latest SaleRecord
	found := false
	for _, s := range history {
		if s.Price <= 0 {
			continue
		}
		if !found || s.Date.After(latest.Date) {
			latest = s
			found = true
		}
	}
	return latest, found
}
