package calculation

import (
	"github.com/rpgo/goal-planner/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// balanceScale is the number of decimal places carried between periods.
	balanceScale = 10
	// rateScale is the number of decimal places kept for a per-period rate.
	rateScale = 16
)

var (
	decimalOne  = decimal.NewFromInt(1)
	decimalZero = decimal.Zero
)

// Projector computes compound-growth trajectories with periodic contributions.
// It holds only configuration and is safe for concurrent use.
type Projector struct {
	Convention  domain.RateConvention
	Granularity domain.Granularity
	Logger      Logger
}

// NewProjector returns a per-period projector using the given rate convention.
func NewProjector(convention domain.RateConvention) *Projector {
	return &Projector{
		Convention:  convention,
		Granularity: domain.PerPeriod,
		Logger:      NopLogger{},
	}
}

// SetLogger sets the logger. If nil is provided, a no-op logger is used.
func (p *Projector) SetLogger(l Logger) {
	if l == nil {
		p.Logger = NopLogger{}
		return
	}
	p.Logger = l
}

func (p *Projector) logger() Logger {
	if p.Logger == nil {
		return NopLogger{}
	}
	return p.Logger
}

// PeriodRate converts an annual return into the per-period rate for the
// projector's convention.
//
//	nominal:   r / p
//	geometric: (1 + r)^(1/p) - 1
func (p *Projector) PeriodRate(annual decimal.Decimal, periodsPerYear int) decimal.Decimal {
	if annual.IsZero() {
		return decimalZero
	}
	switch p.Convention {
	case domain.Geometric:
		exponent := decimalOne.DivRound(decimal.NewFromInt(int64(periodsPerYear)), rateScale+4)
		growth, err := decimalOne.Add(annual).PowWithPrecision(exponent, rateScale+4)
		if err != nil {
			// Only a base of zero or below fails, which Validate rules out (rate > -1).
			return decimal.NewFromInt(-1)
		}
		return growth.Sub(decimalOne).Round(rateScale)
	default:
		return annual.DivRound(decimal.NewFromInt(int64(periodsPerYear)), rateScale)
	}
}

// Project returns the balance trajectory for params. Point 0 is always the
// initial amount; with zero total periods it is the only point.
func (p *Projector) Project(params domain.ProjectionParameters) (domain.ProjectionResult, error) {
	if err := params.Validate(); err != nil {
		return domain.ProjectionResult{}, err
	}

	ppy := params.PeriodsPerYear.PeriodsPerYear()
	rate := p.PeriodRate(params.AnnualReturnRate, ppy)
	n := params.TotalPeriods()

	result := domain.ProjectionResult{
		Granularity:      p.Granularity,
		Convention:       p.Convention,
		PeriodRate:       rate,
		TotalPeriods:     n,
		TotalContributed: params.PeriodicContribution.Mul(decimal.NewFromInt(int64(n))),
	}

	if p.Granularity == domain.PerYear {
		result.Points = yearlyPoints(params.InitialAmount, params.PeriodicContribution, rate, ppy, n)
	} else {
		result.Points = periodPoints(params.InitialAmount, params.PeriodicContribution, rate, n)
	}

	p.logger().Debugf("projection: %d periods at %s per period (%s), ending %s",
		n, rate.String(), p.Convention, result.EndingValue().StringFixed(2))
	return result, nil
}

// EndingValue projects params and returns only the final balance. It steps
// the same way Project does for the projector's granularity, so the two
// always agree to the last digit.
func (p *Projector) EndingValue(params domain.ProjectionParameters) (decimal.Decimal, error) {
	if err := params.Validate(); err != nil {
		return decimal.Zero, err
	}
	ppy := params.PeriodsPerYear.PeriodsPerYear()
	rate := p.PeriodRate(params.AnnualReturnRate, ppy)
	if p.Granularity == domain.PerYear {
		return yearlyEnding(params.InitialAmount, params.PeriodicContribution, rate, ppy, params.TotalPeriods()), nil
	}
	return endingBalance(params.InitialAmount, params.PeriodicContribution, rate, params.TotalPeriods()), nil
}

// periodPoints applies balance[k] = balance[k-1]·(1+rate) + contribution.
func periodPoints(initial, contribution, rate decimal.Decimal, n int) []domain.ProjectionPoint {
	points := make([]domain.ProjectionPoint, 0, n+1)
	points = append(points, domain.ProjectionPoint{Index: 0, Balance: initial})
	growth := decimalOne.Add(rate)
	balance := initial
	for k := 1; k <= n; k++ {
		balance = balance.Mul(growth).Add(contribution).Round(balanceScale)
		points = append(points, domain.ProjectionPoint{Index: k, Balance: balance})
	}
	return points
}

// endingBalance runs the same recurrence as periodPoints without keeping the trajectory.
func endingBalance(initial, contribution, rate decimal.Decimal, n int) decimal.Decimal {
	growth := decimalOne.Add(rate)
	balance := initial
	for k := 1; k <= n; k++ {
		balance = balance.Mul(growth).Add(contribution).Round(balanceScale)
	}
	return balance
}

// yearlyPoints steps one year at a time with the closed-form annuity. A
// trailing partial year uses the remaining periods.
func yearlyPoints(initial, contribution, rate decimal.Decimal, periodsPerYear, n int) []domain.ProjectionPoint {
	points := []domain.ProjectionPoint{{Index: 0, Balance: initial}}
	stepYears(initial, contribution, rate, periodsPerYear, n, func(year int, balance decimal.Decimal) {
		points = append(points, domain.ProjectionPoint{Index: year, Balance: balance})
	})
	return points
}

// yearlyEnding runs the same stepping as yearlyPoints without keeping the trajectory.
func yearlyEnding(initial, contribution, rate decimal.Decimal, periodsPerYear, n int) decimal.Decimal {
	ending := initial
	stepYears(initial, contribution, rate, periodsPerYear, n, func(_ int, balance decimal.Decimal) {
		ending = balance
	})
	return ending
}

func stepYears(initial, contribution, rate decimal.Decimal, periodsPerYear, n int, emit func(year int, balance decimal.Decimal)) {
	balance := initial
	remaining := n
	for year := 1; remaining > 0; year++ {
		periods := periodsPerYear
		if remaining < periods {
			periods = remaining
		}
		growthFactor := compoundFactor(rate, periods)
		balance = balance.Mul(growthFactor).Add(annuityGrowth(contribution, rate, growthFactor, periods)).Round(balanceScale)
		emit(year, balance)
		remaining -= periods
	}
}

// compoundFactor is (1+rate)^periods.
func compoundFactor(rate decimal.Decimal, periods int) decimal.Decimal {
	f, err := decimalOne.Add(rate).PowInt32(int32(periods))
	if err != nil {
		// PowInt32 only fails for a zero base with a negative exponent.
		return decimalOne
	}
	return f.Round(balanceScale + rateScale)
}

// annuityGrowth is the value after `periods` end-of-period contributions:
// contribution·((1+rate)^periods − 1)/rate, or contribution·periods at zero rate.
func annuityGrowth(contribution, rate, growthFactor decimal.Decimal, periods int) decimal.Decimal {
	if rate.IsZero() {
		return contribution.Mul(decimal.NewFromInt(int64(periods)))
	}
	return contribution.Mul(growthFactor.Sub(decimalOne)).Div(rate)
}
