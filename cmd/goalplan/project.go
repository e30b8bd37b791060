package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rpgo/goal-planner/internal/domain"
	"github.com/rpgo/goal-planner/internal/output"
)

// projectionFlags are shared by project and optimize.
type projectionFlags struct {
	initial      float64
	contribution float64
	frequency    string
	years        float64
	rate         float64
	convention   string
	granularity  string
	currency     string
}

func (f *projectionFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&f.initial, "initial", 0, "initial investment")
	fs.Float64Var(&f.contribution, "contribution", 0, "recurring contribution per period")
	fs.StringVar(&f.frequency, "frequency", "monthly", "contribution frequency: monthly, quarterly or semiannual")
	fs.Float64Var(&f.years, "years", 0, "tenor in years")
	fs.Float64Var(&f.rate, "rate", 0, "expected annual return as a fraction (0.06 for 6%)")
	fs.StringVar(&f.convention, "convention", "nominal", "per-period rate convention: nominal or geometric")
	fs.StringVar(&f.granularity, "granularity", "year", "trajectory points: period or year")
	fs.StringVar(&f.currency, "currency", domain.DefaultCurrency, "display currency (ISO 4217)")
	_ = cmd.MarkFlagRequired("years")
}

func (f *projectionFlags) parse() (domain.ProjectionParameters, domain.Assumptions, error) {
	freq, err := domain.ParseFrequency(f.frequency)
	if err != nil {
		return domain.ProjectionParameters{}, domain.Assumptions{}, err
	}
	convention, err := domain.ParseRateConvention(f.convention)
	if err != nil {
		return domain.ProjectionParameters{}, domain.Assumptions{}, err
	}
	granularity, err := domain.ParseGranularity(f.granularity)
	if err != nil {
		return domain.ProjectionParameters{}, domain.Assumptions{}, err
	}
	params, err := domain.NewProjectionParameters(f.initial, f.contribution, freq.PeriodsPerYear(), f.years, f.rate)
	if err != nil {
		return domain.ProjectionParameters{}, domain.Assumptions{}, err
	}
	return params, domain.Assumptions{
		RateConvention: convention,
		Granularity:    granularity,
		Currency:       f.currency,
	}, nil
}

func newProjectCmd(a *app) *cobra.Command {
	var flags projectionFlags
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project the growth of an investment",
		Example: `  goalplan project --initial 5000 --contribution 500 --years 10 --rate 0.06
  goalplan project --contribution 1500 --frequency quarterly --years 5 --rate 0.045 --granularity period`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, assumptions, err := flags.parse()
			if err != nil {
				return err
			}
			result, err := a.engine.ProjectorFor(assumptions).Project(params)
			if err != nil {
				return fmt.Errorf("projection failed: %w", err)
			}
			return printProjection(cmd, params, assumptions, result)
		},
	}
	flags.register(cmd)
	return cmd
}

func printProjection(cmd *cobra.Command, params domain.ProjectionParameters, a domain.Assumptions, result domain.ProjectionResult) error {
	cur := a.CurrencyCode()
	out := cmd.OutOrStdout()

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Year\tBalance\t")
	for _, yb := range output.YearlyBalances(result, params.PeriodsPerYear, params.Years) {
		fmt.Fprintf(tw, "%s\t%s\t\n", output.FormatYears(yb.Year), output.FormatCurrency(yb.Balance, cur))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Per-period rate:     %s\n", output.FormatRate(result.PeriodRate))
	fmt.Fprintf(out, "Total contributed:   %s\n", output.FormatCurrency(result.StartingValue().Add(result.TotalContributed), cur))
	fmt.Fprintf(out, "Investment growth:   %s\n", output.FormatCurrency(result.Growth(), cur))
	fmt.Fprintf(out, "Ending value:        %s\n", output.FormatCurrency(result.EndingValue(), cur))
	return nil
}

func newOptimizeCmd(a *app) *cobra.Command {
	var (
		flags  projectionFlags
		target float64
		policy = domain.DefaultSearchPolicy()

		stepPercent, minStep, ceiling, bump float64
	)
	cmd := &cobra.Command{
		Use:     "optimize",
		Short:   "Find an adjustment that reaches a target amount",
		Example: `  goalplan optimize --initial 5000 --contribution 500 --years 10 --rate 0.06 --target 200000`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, assumptions, err := flags.parse()
			if err != nil {
				return err
			}
			if err := domain.CheckFinite("target", target); err != nil {
				return err
			}
			fs := cmd.Flags()
			if fs.Changed("step-percent") {
				policy.StepPercent = decimal.NewFromFloat(stepPercent)
			}
			if fs.Changed("min-step") {
				policy.MinStep = decimal.NewFromFloat(minStep)
			}
			if fs.Changed("ceiling") {
				policy.CeilingMultiple = decimal.NewFromFloat(ceiling)
			}
			if fs.Changed("combined-bump") {
				policy.CombinedBump = decimal.NewFromFloat(bump)
			}

			req := domain.OptimizationRequest{ProjectionParameters: params, TargetAmount: decimal.NewFromFloat(target)}
			outcome, err := a.engine.OptimizerFor(assumptions, policy).Optimize(req)
			if err != nil {
				return fmt.Errorf("optimization failed: %w", err)
			}
			printOutcome(cmd, a, params, req.TargetAmount, assumptions, outcome)
			return nil
		},
	}
	flags.register(cmd)
	fs := cmd.Flags()
	fs.Float64Var(&target, "target", 0, "target amount")
	fs.Float64Var(&stepPercent, "step-percent", 0.05, "contribution step as a fraction of the starting contribution")
	fs.Float64Var(&minStep, "min-step", 10, "smallest contribution step")
	fs.Float64Var(&ceiling, "ceiling", 10, "contribution ceiling as a multiple of the starting contribution")
	fs.IntVar(&policy.MaxExtraYears, "max-extra-years", 10, "most whole years the tenor may be extended by")
	fs.Float64Var(&bump, "combined-bump", 0.25, "contribution increase used together with a longer tenor")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func printOutcome(cmd *cobra.Command, a *app, params domain.ProjectionParameters, target decimal.Decimal, assumptions domain.Assumptions, o domain.OptimizationOutcome) {
	cur := assumptions.CurrencyCode()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Target:              %s\n", output.FormatCurrency(target, cur))
	fmt.Fprintf(out, "Projected (current): %s\n", output.FormatCurrency(o.BaselineEnding, cur))
	if o.Kind != domain.AlreadyOnTrack && o.Feasible() {
		fmt.Fprintf(out, "Projected (adjusted): %s\n", output.FormatCurrency(o.ProjectedEnding, cur))
	}
	fmt.Fprintf(out, "Outcome:             %s\n", o.Kind)
	fmt.Fprintln(out, o.Describe(params.PeriodsPerYear))

	projector := a.engine.ProjectorFor(assumptions)
	if o.Kind != domain.AlreadyOnTrack {
		if c, err := projector.RequiredContribution(params, target); err == nil {
			fmt.Fprintf(out, "Exact contribution at the current tenor: %s per %s\n",
				output.FormatCurrency(c, cur), params.PeriodsPerYear.PeriodLabel())
		}
		if years, ok, err := projector.RequiredTenor(params, target, a.engine.MaxTenorYears); err == nil && ok {
			fmt.Fprintf(out, "At the current contribution the target is reached after %s years\n", years)
		}
	}
	fmt.Fprintf(out, "(%d projections evaluated)\n", o.Evaluations)
}
