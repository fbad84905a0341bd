package finance

import "valuecraft/server/internal/models"

// Perturbation shifts the income and expense side of a deal. Loan terms are
// never perturbed so debt service is identical across scenarios.
type Perturbation struct {
	RentMultiplier float64 `json:"rent_multiplier"`
	VacancyDelta   float64 `json:"vacancy_delta"`
	VacancyFloor   float64 `json:"vacancy_floor"`
	OpexMultiplier float64 `json:"opex_multiplier"`
}

// Scenario is a labelled perturbation.
type Scenario struct {
	Label models.ScenarioLabel
	Perturbation
}

// DefaultScenarios are the conservative, base and optimistic parameter sets.
var DefaultScenarios = []Scenario{
	{Label: models.ScenarioConservative, Perturbation: Perturbation{RentMultiplier: 0.95, VacancyDelta: 3, OpexMultiplier: 1.10}},
	{Label: models.ScenarioBase, Perturbation: Perturbation{RentMultiplier: 1, OpexMultiplier: 1}},
	{Label: models.ScenarioOptimistic, Perturbation: Perturbation{RentMultiplier: 1.05, VacancyDelta: -2, VacancyFloor: 1, OpexMultiplier: 0.95}},
}

func (p Perturbation) apply(t dealTerms) dealTerms {
	out := t
	out.grossRent = t.grossRent * p.RentMultiplier
	vacancy := clamp(t.vacancyPct+p.VacancyDelta, 0, 100)
	if vacancy < p.VacancyFloor {
		vacancy = p.VacancyFloor
	}
	out.vacancyPct = vacancy
	if t.expenseTotal != nil {
		total := *t.expenseTotal * p.OpexMultiplier
		out.expenseTotal = &total
	} else {
		out.opexRatio = t.opexRatio * p.OpexMultiplier
	}
	return out
}

// Scenarios underwrites the deal once per default scenario. Each result is
// derived from the same resolved terms; none feeds into another.
func (e *Engine) Scenarios(in models.UnderwritingInput) []models.ScenarioResult {
	return e.RunScenarios(in, DefaultScenarios)
}

// RunScenarios underwrites the deal under each of the given scenarios.
func (e *Engine) RunScenarios(in models.UnderwritingInput, scenarios []Scenario) []models.ScenarioResult {
	base := e.resolve(in)
	results := make([]models.ScenarioResult, 0, len(scenarios))
	for _, s := range scenarios {
		results = append(results, models.ScenarioResult{
			Label:  s.Label,
			Result: e.compute(s.apply(base)),
		})
	}
	return results
}
