package finance

import "math"

// MonthlyPayment returns the level monthly payment for a fully amortizing
// loan, rounded to cents. annualRate is a percentage (6 means 6%).
func MonthlyPayment(principal, annualRate float64, years int) float64 {
	n := years * 12
	if n <= 0 || principal <= 0 {
		return 0
	}
	r := annualRate / 100 / 12
	if r <= 0 {
		return roundCents(principal / float64(n))
	}
	growth := math.Pow(1+r, float64(n))
	return roundCents(principal * r * growth / (growth - 1))
}

// AnnualDebtService is twelve monthly payments.
func AnnualDebtService(monthlyPayment float64) float64 {
	return roundCents(monthlyPayment * 12)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// ratio divides num by den, degrading to 0 when den is not positive.
func ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}
