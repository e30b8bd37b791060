package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// ProjectionParameters is the input to a single compound-growth projection.
// Amounts are in the plan's display currency; AnnualReturnRate is a decimal
// fraction (0.06 for 6%).
type ProjectionParameters struct {
	InitialAmount        decimal.Decimal `yaml:"initial_amount" json:"initial_amount"`
	PeriodicContribution decimal.Decimal `yaml:"periodic_contribution" json:"periodic_contribution"`
	PeriodsPerYear       Frequency       `yaml:"frequency" json:"frequency"`
	Years                decimal.Decimal `yaml:"years" json:"years"`
	AnnualReturnRate     decimal.Decimal `yaml:"annual_return_rate" json:"annual_return_rate"`
}

// NewProjectionParameters converts float inputs, rejecting NaN and infinities
// before they reach decimal conversion.
func NewProjectionParameters(initial, contribution float64, periodsPerYear int, years, annualRate float64) (ProjectionParameters, error) {
	fields := []struct {
		name  string
		value float64
	}{
		{"initial_amount", initial},
		{"periodic_contribution", contribution},
		{"years", years},
		{"annual_return_rate", annualRate},
	}
	for _, f := range fields {
		if err := CheckFinite(f.name, f.value); err != nil {
			return ProjectionParameters{}, err
		}
	}
	p := ProjectionParameters{
		InitialAmount:        decimal.NewFromFloat(initial),
		PeriodicContribution: decimal.NewFromFloat(contribution),
		PeriodsPerYear:       Frequency(periodsPerYear),
		Years:                decimal.NewFromFloat(years),
		AnnualReturnRate:     decimal.NewFromFloat(annualRate),
	}
	if err := p.Validate(); err != nil {
		return ProjectionParameters{}, err
	}
	return p, nil
}

// CheckFinite rejects NaN and ±Inf.
func CheckFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid(field, "must be finite, got %v", v)
	}
	return nil
}

// Validate checks the invariants the projector relies on.
func (p ProjectionParameters) Validate() error {
	if p.InitialAmount.IsNegative() {
		return invalid("initial_amount", "cannot be negative (%s)", p.InitialAmount)
	}
	if p.PeriodicContribution.IsNegative() {
		return invalid("periodic_contribution", "cannot be negative (%s)", p.PeriodicContribution)
	}
	if int(p.PeriodsPerYear) <= 0 {
		return invalid("frequency", "periods per year must be positive, got %d", int(p.PeriodsPerYear))
	}
	if !p.PeriodsPerYear.Valid() {
		return invalid("frequency", "periods per year must be 12, 4 or 2, got %d", int(p.PeriodsPerYear))
	}
	if p.Years.IsNegative() {
		return invalid("years", "cannot be negative (%s)", p.Years)
	}
	if p.AnnualReturnRate.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return invalid("annual_return_rate", "must be greater than -100%% (%s)", p.AnnualReturnRate)
	}
	return nil
}

// TotalPeriods is round(years × periodsPerYear).
func (p ProjectionParameters) TotalPeriods() int {
	return int(p.Years.Mul(decimal.NewFromInt(int64(p.PeriodsPerYear))).Round(0).IntPart())
}

// WithContribution returns a copy with a different periodic contribution.
func (p ProjectionParameters) WithContribution(c decimal.Decimal) ProjectionParameters {
	p.PeriodicContribution = c
	return p
}

// WithYears returns a copy with a different tenor.
func (p ProjectionParameters) WithYears(y decimal.Decimal) ProjectionParameters {
	p.Years = y
	return p
}

// ProjectionPoint is the balance at the end of one period (or one year for
// year-granular projections). Index 0 is the starting capital.
type ProjectionPoint struct {
	Index   int             `json:"index"`
	Balance decimal.Decimal `json:"balance"`
}

// ProjectionResult is the full, ordered trajectory of a projection.
type ProjectionResult struct {
	Points           []ProjectionPoint `json:"points"`
	Granularity      Granularity       `json:"granularity"`
	Convention       RateConvention    `json:"rate_convention"`
	PeriodRate       decimal.Decimal   `json:"period_rate"`
	TotalPeriods     int               `json:"total_periods"`
	TotalContributed decimal.Decimal   `json:"total_contributed"`
}

// EndingValue returns the balance of the last point.
func (r ProjectionResult) EndingValue() decimal.Decimal {
	if len(r.Points) == 0 {
		return decimal.Zero
	}
	return r.Points[len(r.Points)-1].Balance
}

// StartingValue returns the balance of point 0.
func (r ProjectionResult) StartingValue() decimal.Decimal {
	if len(r.Points) == 0 {
		return decimal.Zero
	}
	return r.Points[0].Balance
}

// Growth is the investment return: ending value less everything paid in.
func (r ProjectionResult) Growth() decimal.Decimal {
	return r.EndingValue().Sub(r.StartingValue()).Sub(r.TotalContributed)
}

// Balances returns the balances alone, in order; convenient for charting.
func (r ProjectionResult) Balances() []decimal.Decimal {
	out := make([]decimal.Decimal, len(r.Points))
	for i, p := range r.Points {
		out[i] = p.Balance
	}
	return out
}

// MeetsTarget reports whether the ending value reaches target.
func (r ProjectionResult) MeetsTarget(target decimal.Decimal) bool {
	return r.EndingValue().GreaterThanOrEqual(target)
}
