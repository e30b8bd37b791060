package main

import (
	"fmt"
	"os"

	calc "github.com/rpgo/goal-planner/internal/calculation"
	"github.com/rpgo/goal-planner/internal/config"
	"github.com/rpgo/goal-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// Sweeps the target amount of a plan and prints, per target, what the greedy
// search suggests next to the closed-form estimates, as CSV.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: debug_search <plan-file> [steps]")
		return
	}
	steps := 10
	if len(os.Args) > 2 {
		if _, err := fmt.Sscanf(os.Args[2], "%d", &steps); err != nil || steps <= 0 {
			fmt.Println("steps must be a positive integer")
			return
		}
	}

	p := config.NewInputParser()
	plan, err := p.LoadFromFile(os.Args[1])
	if err != nil {
		panic(err)
	}
	portfolio, ok := plan.Catalogue().Find(plan.Portfolio)
	if !ok {
		panic("portfolio not found: " + plan.Portfolio)
	}

	engine := calc.NewPlanningEngine()
	params := plan.Goal.Parameters(plan.Assumptions.ReturnFor(portfolio))
	projector := engine.ProjectorFor(plan.Assumptions)
	optimizer := engine.OptimizerFor(plan.Assumptions, plan.Policy())

	baseline, err := projector.EndingValue(params)
	if err != nil {
		panic(err)
	}

	// Targets from the baseline ending value up to four times it
	fmt.Println("Target,Kind,Contribution,Years,Evaluations,ClosedFormContribution,ClosedFormYears")
	for i := 0; i <= steps; i++ {
		factor := decimal.NewFromInt(1).Add(decimal.NewFromInt(int64(3 * i)).Div(decimal.NewFromInt(int64(steps))))
		target := baseline.Mul(factor).Round(0)
		if !target.IsPositive() {
			continue
		}

		outcome, err := optimizer.Optimize(domain.OptimizationRequest{ProjectionParameters: params, TargetAmount: target})
		if err != nil {
			panic(err)
		}
		exact, err := projector.RequiredContribution(params, target)
		if err != nil {
			panic(err)
		}
		years, reached, err := projector.RequiredTenor(params, target, engine.MaxTenorYears)
		if err != nil {
			panic(err)
		}

		contribution, tenor := "", ""
		if outcome.Contribution != nil {
			contribution = outcome.Contribution.StringFixed(2)
		}
		if outcome.Years != nil {
			tenor = outcome.Years.String()
		}
		closedYears := years.String()
		if !reached {
			closedYears = ">" + closedYears
		}
		fmt.Printf("%s,%s,%s,%s,%d,%s,%s\n", target.StringFixed(0), outcome.Kind, contribution, tenor,
			outcome.Evaluations, exact.StringFixed(2), closedYears)
	}
}
