package game

// Approximate EUR conversion rates for price filtering. Known-stale constants
// carried from upstream; good enough for same-ballpark budget checks, nothing
// else.
var currencyRates = map[string]float64{
	"USD": 0.92,
	"GBP": 1.17,
	"CAD": 0.68,
	"AUD": 0.61,
	"JPY": 0.0062,
}

// ConvertToEUR converts an amount to EUR using the approximate rate table.
// Unknown currencies pass through unconverted.
func ConvertToEUR(amount float64, currency string) float64 {
	if rate, ok := currencyRates[currency]; ok {
		return amount * rate
	}
	return amount
}

// WithinBudget reports whether a price fits under maxPrice (EUR).
func (p *Price) WithinBudget(maxPrice float64) bool {
	amount := p.Amount
	if p.Currency != "" && p.Currency != "EUR" {
		amount = ConvertToEUR(p.Amount, p.Currency)
	}
	return amount <= maxPrice
}
