package domain

import (
	"github.com/shopspring/decimal"
)

// Instrument is one fund inside a model portfolio.
type Instrument struct {
	Name       string          `yaml:"name" json:"name"`
	Allocation decimal.Decimal `yaml:"allocation" json:"allocation"` // fraction of the portfolio
	FactSheet  string          `yaml:"fact_sheet,omitempty" json:"fact_sheet,omitempty"`
}

// ModelPortfolio is a selectable investment model with an expected annual return.
type ModelPortfolio struct {
	ID             string          `yaml:"id" json:"id" validate:"required"`
	Name           string          `yaml:"name" json:"name" validate:"required"`
	Risk           string          `yaml:"risk" json:"risk"`
	ExpectedReturn decimal.Decimal `yaml:"expected_return" json:"expected_return"`
	Fee            decimal.Decimal `yaml:"fee,omitempty" json:"fee,omitempty"`
	Description    string          `yaml:"description,omitempty" json:"description,omitempty"`
	Instruments    []Instrument    `yaml:"instruments,omitempty" json:"instruments,omitempty"`
	SuitableFor    []RiskProfile   `yaml:"suitable_for,omitempty" json:"suitable_for,omitempty"`
}

// Suits reports whether the portfolio is offered to a profile. A portfolio
// with no SuitableFor list is offered to everyone.
func (p ModelPortfolio) Suits(profile RiskProfile) bool {
	if len(p.SuitableFor) == 0 {
		return true
	}
	for _, s := range p.SuitableFor {
		if s == profile {
			return true
		}
	}
	return false
}

// TotalAllocation sums the instrument allocations.
func (p ModelPortfolio) TotalAllocation() decimal.Decimal {
	total := decimal.Zero
	for _, i := range p.Instruments {
		total = total.Add(i.Allocation)
	}
	return total
}

// Catalogue is an ordered set of model portfolios.
type Catalogue []ModelPortfolio

// Find returns the portfolio with the given id.
func (c Catalogue) Find(id string) (ModelPortfolio, bool) {
	for _, p := range c {
		if p.ID == id {
			return p, true
		}
	}
	return ModelPortfolio{}, false
}

func pct(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// DefaultCatalogue is the built-in set of four model portfolios.
func DefaultCatalogue() Catalogue {
	return Catalogue{
		{
			ID:             "conservative",
			Name:           "Conservative Income",
			Risk:           "Very Low",
			ExpectedReturn: pct(0.03),
			Fee:            pct(0.004),
			Description:    "Focused on capital preservation with steady income generation.",
			Instruments: []Instrument{
				{Name: "SGD Bond Fund", Allocation: pct(0.40)},
				{Name: "Asia Short Duration Bond Fund", Allocation: pct(0.35)},
				{Name: "Money Market Fund", Allocation: pct(0.25)},
			},
			SuitableFor: []RiskProfile{ProfileConservative, ProfileBalanced, ProfileGrowth},
		},
		{
			ID:             "income",
			Name:           "Stable Income",
			Risk:           "Low to Moderate",
			ExpectedReturn: pct(0.045),
			Fee:            pct(0.005),
			Description:    "Income-focused holdings with a touch of growth.",
			Instruments: []Instrument{
				{Name: "Dividend Equity Fund", Allocation: pct(0.30)},
				{Name: "Global Bond Fund", Allocation: pct(0.40)},
				{Name: "SGD Cash Fund", Allocation: pct(0.30)},
			},
			SuitableFor: []RiskProfile{ProfileConservative, ProfileBalanced, ProfileGrowth},
		},
		{
			ID:             "balanced",
			Name:           "Balanced Growth",
			Risk:           "Moderate",
			ExpectedReturn: pct(0.06),
			Fee:            pct(0.006),
			Description:    "Evenly diversified mix for long-term wealth creation.",
			Instruments: []Instrument{
				{Name: "Global Equity Fund", Allocation: pct(0.45)},
				{Name: "Asia Bond Fund", Allocation: pct(0.35)},
				{Name: "REIT Select Fund", Allocation: pct(0.20)},
			},
			SuitableFor: []RiskProfile{ProfileBalanced, ProfileGrowth},
		},
		{
			ID:             "growth",
			Name:           "Dynamic Growth",
			Risk:           "High",
			ExpectedReturn: pct(0.08),
			Fee:            pct(0.0075),
			Description:    "Aggressive allocation seeking higher long-term returns.",
			Instruments: []Instrument{
				{Name: "Technology Leaders Fund", Allocation: pct(0.50)},
				{Name: "Emerging Markets Equity Fund", Allocation: pct(0.30)},
				{Name: "Global Bond Hedged Fund", Allocation: pct(0.20)},
			},
			SuitableFor: []RiskProfile{ProfileGrowth},
		},
	}
}
