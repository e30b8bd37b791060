package output

import (
	"fmt"
	"sort"

	"github.com/rpgo/goal-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// Recommendation is the plain-language reading of a plan report.
type Recommendation struct {
	Headline    string
	Actions     []string
	Shortfall   decimal.Decimal
	Alternative *domain.PortfolioProjection
}

// AnalyzePlan summarizes whether the goal is met and what would close the gap.
// Extracted from the console formatters for testability.
func AnalyzePlan(r *domain.PlanReport) Recommendation {
	cur := r.Currency
	ending := r.Projection.EndingValue()
	rec := Recommendation{Shortfall: r.Shortfall()}

	switch {
	case !r.Goal.HasTarget():
		rec.Headline = fmt.Sprintf("Projected value after %s years: %s", FormatYears(r.Goal.TenorYears), FormatCurrency(ending, cur))
		return rec
	case r.OnTrack():
		rec.Headline = fmt.Sprintf("On track: projected %s against a target of %s", FormatCurrency(ending, cur), FormatCurrency(r.Goal.TargetAmount, cur))
	default:
		rec.Headline = fmt.Sprintf("Short by %s: projected %s against a target of %s",
			FormatCurrency(rec.Shortfall, cur), FormatCurrency(ending, cur), FormatCurrency(r.Goal.TargetAmount, cur))
	}

	if r.Outcome != nil && r.Outcome.NeedsAdjustment() {
		rec.Actions = append(rec.Actions, describeOutcome(*r.Outcome, r.Goal.Frequency, cur))
	} else if r.Outcome != nil && r.Outcome.Kind == domain.Infeasible {
		rec.Actions = append(rec.Actions, r.Outcome.Describe(r.Goal.Frequency))
	}
	if !r.OnTrack() {
		if r.RequiredContribution != nil {
			rec.Actions = append(rec.Actions, fmt.Sprintf("Exact contribution needed at the current tenor: %s per %s",
				FormatCurrency(*r.RequiredContribution, cur), r.Goal.Frequency.PeriodLabel()))
		}
		if r.RequiredTenor != nil {
			rec.Actions = append(rec.Actions, fmt.Sprintf("At the current contribution the target is reached after %s years",
				FormatYears(*r.RequiredTenor)))
		}
		rec.Alternative = cheapestAlternative(r.Comparison, r.Portfolio.ID)
		if rec.Alternative != nil {
			rec.Actions = append(rec.Actions, fmt.Sprintf("The %s portfolio (%s) reaches the target unchanged",
				rec.Alternative.Name, FormatRate(rec.Alternative.AnnualReturn)))
		}
	}
	return rec
}

// describeOutcome renders a search outcome with currency formatting.
func describeOutcome(o domain.OptimizationOutcome, freq domain.Frequency, cur string) string {
	switch o.Kind {
	case domain.IncreaseContribution:
		return fmt.Sprintf("Increase your contribution to %s per %s (projected %s)",
			FormatCurrency(*o.Contribution, cur), freq.PeriodLabel(), FormatCurrency(o.ProjectedEnding, cur))
	case domain.ExtendTenor:
		return fmt.Sprintf("Extend your tenor to %s years (projected %s)",
			FormatYears(*o.Years), FormatCurrency(o.ProjectedEnding, cur))
	case domain.IncreaseContributionAndExtendTenor:
		return fmt.Sprintf("Increase your contribution to %s per %s and extend your tenor to %s years (projected %s)",
			FormatCurrency(*o.Contribution, cur), freq.PeriodLabel(), FormatYears(*o.Years), FormatCurrency(o.ProjectedEnding, cur))
	}
	return o.Describe(freq)
}

// cheapestAlternative picks the suitable portfolio with the lowest return that
// still meets the target, skipping the one already chosen.
func cheapestAlternative(rows []domain.PortfolioProjection, chosen string) *domain.PortfolioProjection {
	candidates := make([]domain.PortfolioProjection, 0, len(rows))
	for _, row := range rows {
		if row.PortfolioID != chosen && row.Suitable && row.MeetsTarget {
			candidates = append(candidates, row)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].AnnualReturn.LessThan(candidates[j].AnnualReturn)
	})
	best := candidates[0]
	return &best
}

// YearBalance is the balance at the end of a (possibly partial) year.
type YearBalance struct {
	Year    decimal.Decimal
	Balance decimal.Decimal
}

// YearlyBalances condenses a trajectory to one row per year plus the final
// point when the tenor ends mid-year.
func YearlyBalances(r domain.ProjectionResult, freq domain.Frequency, tenor decimal.Decimal) []YearBalance {
	if len(r.Points) == 0 {
		return nil
	}
	out := make([]YearBalance, 0, len(r.Points))
	if r.Granularity == domain.PerYear {
		for _, p := range r.Points {
			out = append(out, YearBalance{Year: decimal.Min(decimal.NewFromInt(int64(p.Index)), tenor), Balance: p.Balance})
		}
		return out
	}

	ppy := freq.PeriodsPerYear()
	if ppy <= 0 {
		ppy = 1
	}
	for _, p := range r.Points {
		if p.Index%ppy == 0 {
			out = append(out, YearBalance{Year: decimal.NewFromInt(int64(p.Index / ppy)), Balance: p.Balance})
		}
	}
	last := r.Points[len(r.Points)-1]
	if last.Index%ppy != 0 {
		out = append(out, YearBalance{Year: tenor, Balance: last.Balance})
	}
	return out
}
