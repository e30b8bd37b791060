package calculation

import (
	"github.com/rpgo/goal-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// Optimizer searches for the first contribution and/or tenor adjustment that
// lifts a projection to its target. It is a bounded greedy search, not a
// closed-form solve, so it works under either rate convention.
type Optimizer struct {
	Projector *Projector
	Policy    domain.SearchPolicy
	Logger    Logger
}

// NewOptimizer creates an optimizer over projector with the given policy.
func NewOptimizer(projector *Projector, policy domain.SearchPolicy) *Optimizer {
	return &Optimizer{
		Projector: projector,
		Policy:    policy,
		Logger:    NopLogger{},
	}
}

// SetLogger sets the logger. If nil is provided, a no-op logger is used.
func (o *Optimizer) SetLogger(l Logger) {
	if l == nil {
		o.Logger = NopLogger{}
		return
	}
	o.Logger = l
}

func (o *Optimizer) logger() Logger {
	if o.Logger == nil {
		return NopLogger{}
	}
	return o.Logger
}

// ContributionStep is max(MinStep, ceil(contribution × StepPercent)).
func (o *Optimizer) ContributionStep(contribution decimal.Decimal) decimal.Decimal {
	step := contribution.Mul(o.Policy.StepPercent).Ceil()
	if step.LessThan(o.Policy.MinStep) {
		return o.Policy.MinStep
	}
	return step
}

// search carries the request through the phases and counts projector calls.
type search struct {
	projector   *Projector
	params      domain.ProjectionParameters
	target      decimal.Decimal
	evaluations int
}

func (s *search) ending(p domain.ProjectionParameters) (decimal.Decimal, error) {
	s.evaluations++
	return s.projector.EndingValue(p)
}

// Optimize runs the plan search:
//
//  1. the unmodified plan already meets the target: AlreadyOnTrack;
//  2. raise the contribution step by step up to the ceiling: IncreaseContribution;
//  3. keep the contribution and add whole years: ExtendTenor;
//  4. bump the contribution once and add whole years: IncreaseContributionAndExtendTenor;
//  5. otherwise Infeasible.
func (o *Optimizer) Optimize(req domain.OptimizationRequest) (domain.OptimizationOutcome, error) {
	if err := req.Validate(); err != nil {
		return domain.OptimizationOutcome{}, err
	}
	if err := ValidateSearchPolicy(o.Policy); err != nil {
		return domain.OptimizationOutcome{}, err
	}

	s := &search{projector: o.Projector, params: req.ProjectionParameters, target: req.TargetAmount}
	baseline, err := s.ending(s.params)
	if err != nil {
		return domain.OptimizationOutcome{}, err
	}

	outcome := domain.OptimizationOutcome{
		Kind:            domain.AlreadyOnTrack,
		Target:          s.target,
		BaselineEnding:  baseline,
		ProjectedEnding: baseline,
	}
	if baseline.GreaterThanOrEqual(s.target) {
		outcome.Evaluations = s.evaluations
		return outcome, nil
	}

	phases := []func(*search) (*domain.OptimizationOutcome, error){
		o.searchContribution,
		o.searchTenor,
		o.searchCombined,
	}
	for _, phase := range phases {
		found, err := phase(s)
		if err != nil {
			return domain.OptimizationOutcome{}, err
		}
		if found != nil {
			found.Target = s.target
			found.BaselineEnding = baseline
			found.Evaluations = s.evaluations
			o.logger().Infof("plan search: %s after %d projections", found.Kind, s.evaluations)
			return *found, nil
		}
	}

	o.logger().Infof("plan search: infeasible after %d projections (baseline %s, target %s)",
		s.evaluations, baseline.StringFixed(2), s.target.StringFixed(2))
	outcome.Kind = domain.Infeasible
	outcome.Evaluations = s.evaluations
	return outcome, nil
}

func (o *Optimizer) searchContribution(s *search) (*domain.OptimizationOutcome, error) {
	start := s.params.PeriodicContribution
	step := o.ContributionStep(start)
	ceiling := start.Mul(o.Policy.CeilingMultiple)
	o.logger().Debugf("contribution search: start %s step %s ceiling %s", start, step, ceiling)

	for trial, n := start, 0; trial.LessThanOrEqual(ceiling) && n <= maxContributionTrials; n++ {
		trial = trial.Add(step)
		v, err := s.ending(s.params.WithContribution(trial))
		if err != nil {
			return nil, err
		}
		if v.GreaterThanOrEqual(s.target) {
			c := trial
			return &domain.OptimizationOutcome{
				Kind:            domain.IncreaseContribution,
				Contribution:    &c,
				ProjectedEnding: v,
			}, nil
		}
	}
	return nil, nil
}

func (o *Optimizer) searchTenor(s *search) (*domain.OptimizationOutcome, error) {
	return o.extendTenor(s, s.params.PeriodicContribution, func(years, ending decimal.Decimal) *domain.OptimizationOutcome {
		return &domain.OptimizationOutcome{
			Kind:            domain.ExtendTenor,
			Years:           &years,
			ProjectedEnding: ending,
		}
	})
}

func (o *Optimizer) searchCombined(s *search) (*domain.OptimizationOutcome, error) {
	bumped := s.params.PeriodicContribution.Mul(decimalOne.Add(o.Policy.CombinedBump))
	reported := bumped.Round(0)
	o.logger().Debugf("combined search: contribution %s (reported %s)", bumped, reported)
	return o.extendTenor(s, bumped, func(years, ending decimal.Decimal) *domain.OptimizationOutcome {
		return &domain.OptimizationOutcome{
			Kind:            domain.IncreaseContributionAndExtendTenor,
			Contribution:    &reported,
			Years:           &years,
			ProjectedEnding: ending,
		}
	})
}

// extendTenor tries years+1 … years+MaxExtraYears at a fixed contribution.
func (o *Optimizer) extendTenor(s *search, contribution decimal.Decimal, found func(years, ending decimal.Decimal) *domain.OptimizationOutcome) (*domain.OptimizationOutcome, error) {
	base := s.params.WithContribution(contribution)
	for extra := 1; extra <= o.Policy.MaxExtraYears; extra++ {
		years := s.params.Years.Add(decimal.NewFromInt(int64(extra)))
		v, err := s.ending(base.WithYears(years))
		if err != nil {
			return nil, err
		}
		if v.GreaterThanOrEqual(s.target) {
			return found(years, v), nil
		}
	}
	return nil, nil
}

var maxCeilingMultiple = decimal.NewFromInt(100)

// maxContributionTrials caps (CeilingMultiple−1)/StepPercent. The step is never
// below StepPercent·c0, so this bounds the contribution search whatever the
// starting contribution or MinStep. The default policy needs 180.
const maxContributionTrials = 200

// ValidateSearchPolicy checks a policy for use by the optimizer. On top of the
// domain checks it requires a positive step percentage, a bounded ceiling and
// a bounded number of contribution trials.
func ValidateSearchPolicy(sp domain.SearchPolicy) error {
	if err := sp.Validate(); err != nil {
		return err
	}
	if !sp.StepPercent.IsPositive() || sp.StepPercent.GreaterThan(decimalOne) {
		return domain.InvalidParameter("search_policy.step_percent", "must be in (0, 1], got %s", sp.StepPercent)
	}
	if sp.CeilingMultiple.GreaterThan(maxCeilingMultiple) {
		return domain.InvalidParameter("search_policy.ceiling_multiple", "must be at most %s, got %s", maxCeilingMultiple, sp.CeilingMultiple)
	}
	trials := sp.CeilingMultiple.Sub(decimalOne).Div(sp.StepPercent)
	if trials.GreaterThan(decimal.NewFromInt(maxContributionTrials)) {
		return domain.InvalidParameter("search_policy.step_percent",
			"allows %s contribution trials with ceiling_multiple %s; at most %d are allowed",
			trials.Ceil(), sp.CeilingMultiple, maxContributionTrials)
	}
	if sp.MaxExtraYears > 100 {
		return domain.InvalidParameter("search_policy.max_extra_years", "must be at most 100, got %d", sp.MaxExtraYears)
	}
	return nil
}
