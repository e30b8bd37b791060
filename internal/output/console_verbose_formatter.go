package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rpgo/goal-planner/internal/domain"
)

// ConsoleVerboseFormatter renders the detailed console report via the pluggable interface.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(r *domain.PlanReport) ([]byte, error) {
	var buf bytes.Buffer
	cur := r.Currency
	freq := r.Goal.Frequency

	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	fmt.Fprintf(&buf, "GOAL PLAN: %s\n", strings.ToUpper(goalName(r)))
	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	if r.ID != "" {
		fmt.Fprintf(&buf, "Plan ID: %s\n", r.ID)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "GOAL")
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	if r.Goal.HasTarget() {
		fmt.Fprintf(&buf, "  Target Amount:         %s\n", FormatCurrency(r.Goal.TargetAmount, cur))
	}
	fmt.Fprintf(&buf, "  Tenor:                 %s years\n", FormatYears(r.Goal.TenorYears))
	fmt.Fprintf(&buf, "  Initial Investment:    %s\n", FormatCurrency(r.Goal.InitialInvestment, cur))
	fmt.Fprintf(&buf, "  Contribution:          %s per %s (%s per year)\n",
		FormatCurrency(r.Goal.RecurringContribution, cur), freq.PeriodLabel(),
		FormatCurrency(r.Goal.RecurringContribution.Mul(decimalFromInt(freq.PeriodsPerYear())), cur))
	fmt.Fprintln(&buf)

	if r.Risk != nil {
		fmt.Fprintln(&buf, "RISK PROFILE")
		fmt.Fprintln(&buf, strings.Repeat("-", 40))
		fmt.Fprintf(&buf, "  Score:                 %d\n", r.Risk.Score)
		fmt.Fprintf(&buf, "  Profile:               %s\n", r.Risk.Profile)
		if !r.Portfolio.Suits(r.Risk.Profile) {
			fmt.Fprintf(&buf, "  Note: %s is not normally offered to a %s investor\n", r.Portfolio.Name, r.Risk.Profile)
		}
		fmt.Fprintln(&buf)
	}

	fmt.Fprintf(&buf, "PORTFOLIO: %s\n", r.Portfolio.Name)
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	if r.Portfolio.Risk != "" {
		fmt.Fprintf(&buf, "  Risk Level:            %s\n", r.Portfolio.Risk)
	}
	fmt.Fprintf(&buf, "  Expected Return:       %s\n", FormatRate(r.Portfolio.ExpectedReturn))
	fmt.Fprintf(&buf, "  Annual Fee:            %s\n", FormatRate(r.Portfolio.Fee))
	for _, in := range r.Portfolio.Instruments {
		fmt.Fprintf(&buf, "    • %-32s %s\n", in.Name, FormatRate(in.Allocation))
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "PROJECTION")
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	fmt.Fprintf(&buf, "  Rate per %-13s %s (%s)\n", freq.PeriodLabel()+":", r.Projection.PeriodRate.Mul(decimalHundred).StringFixed(4)+"%", r.Projection.Convention)
	for _, yb := range YearlyBalances(r.Projection, freq, r.Goal.TenorYears) {
		fmt.Fprintf(&buf, "  Year %-5s %20s\n", FormatYears(yb.Year), FormatCurrency(yb.Balance, cur))
	}
	fmt.Fprintf(&buf, "  Total Contributed:     %s\n", FormatCurrency(r.Projection.TotalContributed, cur))
	fmt.Fprintf(&buf, "  Investment Growth:     %s\n", FormatCurrency(r.Projection.Growth(), cur))
	fmt.Fprintf(&buf, "  Ending Value:          %s\n", FormatCurrency(r.Projection.EndingValue(), cur))
	fmt.Fprintln(&buf)

	rec := AnalyzePlan(r)
	fmt.Fprintln(&buf, "SUMMARY & RECOMMENDATIONS")
	fmt.Fprintln(&buf, "=========================")
	fmt.Fprintln(&buf, rec.Headline)
	for _, a := range rec.Actions {
		fmt.Fprintf(&buf, "  • %s\n", a)
	}
	if r.Outcome != nil {
		fmt.Fprintf(&buf, "  (%d projections evaluated)\n", r.Outcome.Evaluations)
	}
	fmt.Fprintln(&buf)

	if len(r.Comparison) > 0 {
		writeComparison(&buf, r)
	}

	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range GenerateAssumptions(r) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	return buf.Bytes(), nil
}

// writeComparison prints the cross-portfolio table.
func writeComparison(buf *bytes.Buffer, r *domain.PlanReport) {
	fmt.Fprintln(buf, "PORTFOLIO COMPARISON")
	fmt.Fprintln(buf, strings.Repeat("-", 72))
	fmt.Fprintf(buf, "%-24s %8s %20s %8s %9s\n", "Portfolio", "Return", "Ending Value", "Target", "Suitable")
	for _, row := range r.Comparison {
		meets := "-"
		if r.Goal.HasTarget() {
			meets = yesNo(row.MeetsTarget)
		}
		marker := " "
		if row.PortfolioID == r.Portfolio.ID {
			marker = "*"
		}
		fmt.Fprintf(buf, "%-24s %8s %20s %8s %9s\n", marker+row.Name, FormatRate(row.AnnualReturn),
			FormatCurrency(row.EndingValue, r.Currency), meets, yesNo(row.Suitable))
	}
	fmt.Fprintln(buf)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
