package output

import (
	"fmt"

	"github.com/rpgo/goal-planner/internal/domain"
)

// GenerateAssumptions lists the modeling assumptions behind a report: the
// plan-level options plus the portfolio figures actually used.
func GenerateAssumptions(r *domain.PlanReport) []string {
	out := make([]string, 0, len(r.Assumptions)+2)
	out = append(out, fmt.Sprintf("Expected annual return (%s): %s", r.Portfolio.Name, FormatRate(r.Portfolio.ExpectedReturn)))
	if !r.Parameters.AnnualReturnRate.Equal(r.Portfolio.ExpectedReturn) {
		out = append(out, fmt.Sprintf("Return used after the %s fee: %s", FormatRate(r.Portfolio.Fee), FormatRate(r.Parameters.AnnualReturnRate)))
	}
	out = append(out, r.Assumptions...)
	return out
}
