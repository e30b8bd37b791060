package calculation

import (
	"github.com/rpgo/goal-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultMaxTenorYears bounds RequiredTenor when the caller passes zero.
const DefaultMaxTenorYears = 50

// RequiredContribution solves the end-of-period annuity for the contribution
// that reaches target at the current tenor:
//
//	(target − initial·(1+i)^N) / (((1+i)^N − 1) / i)
//
// or (target − initial)/N at a zero rate. The result is rounded up to cents.
// When the initial amount alone reaches the target the current contribution
// is returned unchanged.
func (p *Projector) RequiredContribution(params domain.ProjectionParameters, target decimal.Decimal) (decimal.Decimal, error) {
	if err := params.Validate(); err != nil {
		return decimal.Zero, err
	}
	if !target.IsPositive() {
		return decimal.Zero, domain.InvalidParameter("target_amount", "must be greater than zero (%s)", target)
	}

	rate := p.PeriodRate(params.AnnualReturnRate, params.PeriodsPerYear.PeriodsPerYear())
	n := params.TotalPeriods()
	growth := compoundFactor(rate, n)
	gap := target.Sub(params.InitialAmount.Mul(growth))
	if !gap.IsPositive() {
		return params.PeriodicContribution, nil
	}
	if n == 0 {
		return decimal.Zero, domain.InvalidParameter("years", "must be positive to solve for a contribution")
	}
	if rate.IsZero() {
		return gap.Div(decimal.NewFromInt(int64(n))).RoundCeil(2), nil
	}
	annuity := growth.Sub(decimalOne).Div(rate)
	return gap.Div(annuity).RoundCeil(2), nil
}

// RequiredTenor finds the smallest whole number of years, starting from the
// current tenor rounded up, whose projection reaches target. It scans up to
// maxYears (DefaultMaxTenorYears when zero) and reports ok=false, with
// maxYears, when the target is not reached.
func (p *Projector) RequiredTenor(params domain.ProjectionParameters, target decimal.Decimal, maxYears int) (years decimal.Decimal, ok bool, err error) {
	if err := params.Validate(); err != nil {
		return decimal.Zero, false, err
	}
	if !target.IsPositive() {
		return decimal.Zero, false, domain.InvalidParameter("target_amount", "must be greater than zero (%s)", target)
	}
	if maxYears <= 0 {
		maxYears = DefaultMaxTenorYears
	}

	start := int(params.Years.Ceil().IntPart())
	for y := start; y <= maxYears; y++ {
		candidate := decimal.NewFromInt(int64(y))
		v, err := p.EndingValue(params.WithYears(candidate))
		if err != nil {
			return decimal.Zero, false, err
		}
		if v.GreaterThanOrEqual(target) {
			return candidate, true, nil
		}
	}
	return decimal.NewFromInt(int64(maxYears)), false, nil
}
