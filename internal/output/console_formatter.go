package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/goal-planner/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(r *domain.PlanReport) ([]byte, error) {
	var buf bytes.Buffer
	cur := r.Currency
	fmt.Fprintln(&buf, "GOAL PLAN SUMMARY")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "%s: %s over %s years in %s (%s)\n",
		goalName(r), FormatCurrency(r.Goal.RecurringContribution, cur)+" per "+r.Goal.Frequency.PeriodLabel(),
		FormatYears(r.Goal.TenorYears), r.Portfolio.Name, FormatRate(r.Parameters.AnnualReturnRate))
	if r.Risk != nil {
		fmt.Fprintf(&buf, "Risk profile: %s (score %d)\n", r.Risk.Profile, r.Risk.Score)
	}
	fmt.Fprintf(&buf, "Ending=%s Contributed=%s Growth=%s\n",
		FormatCurrency(r.Projection.EndingValue(), cur),
		FormatCurrency(r.Projection.StartingValue().Add(r.Projection.TotalContributed), cur),
		FormatCurrency(r.Projection.Growth(), cur))

	rec := AnalyzePlan(r)
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, rec.Headline)
	for _, a := range rec.Actions {
		fmt.Fprintf(&buf, "  - %s\n", a)
	}
	return buf.Bytes(), nil
}

func goalName(r *domain.PlanReport) string {
	if r.GoalName == "" {
		return "Goal"
	}
	return r.GoalName
}
