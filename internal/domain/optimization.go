package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// OptimizationRequest asks whether a set of parameters reaches TargetAmount,
// and if not, which adjustment would.
type OptimizationRequest struct {
	ProjectionParameters `yaml:",inline"`
	TargetAmount         decimal.Decimal `yaml:"target_amount" json:"target_amount"`
}

// Validate checks the projection parameters and the target.
func (r OptimizationRequest) Validate() error {
	if err := r.ProjectionParameters.Validate(); err != nil {
		return err
	}
	if !r.TargetAmount.IsPositive() {
		return invalid("target_amount", "must be greater than zero (%s)", r.TargetAmount)
	}
	return nil
}

// OutcomeKind tags an OptimizationOutcome.
type OutcomeKind int

const (
	AlreadyOnTrack OutcomeKind = iota
	IncreaseContribution
	ExtendTenor
	IncreaseContributionAndExtendTenor
	Infeasible
)

var outcomeNames = map[OutcomeKind]string{
	AlreadyOnTrack:                     "already_on_track",
	IncreaseContribution:               "increase_contribution",
	ExtendTenor:                        "extend_tenor",
	IncreaseContributionAndExtendTenor: "increase_contribution_and_extend_tenor",
	Infeasible:                         "infeasible",
}

func (k OutcomeKind) String() string {
	if s, ok := outcomeNames[k]; ok {
		return s
	}
	return fmt.Sprintf("outcome(%d)", int(k))
}

func (k OutcomeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *OutcomeKind) UnmarshalText(b []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(b)))
	for kind, name := range outcomeNames {
		if name == s {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown outcome kind %q", s)
}

// OptimizationOutcome is the result of a plan search. Contribution is set for
// IncreaseContribution and IncreaseContributionAndExtendTenor; Years is set for
// ExtendTenor and IncreaseContributionAndExtendTenor.
type OptimizationOutcome struct {
	Kind            OutcomeKind      `json:"kind"`
	Contribution    *decimal.Decimal `json:"contribution,omitempty"`
	Years           *decimal.Decimal `json:"years,omitempty"`
	Target          decimal.Decimal  `json:"target"`
	BaselineEnding  decimal.Decimal  `json:"baseline_ending"`
	ProjectedEnding decimal.Decimal  `json:"projected_ending"`
	Evaluations     int              `json:"evaluations"`
}

// Feasible reports whether the outcome is a reachable plan (including no change).
func (o OptimizationOutcome) Feasible() bool { return o.Kind != Infeasible }

// NeedsAdjustment reports whether the outcome proposes a change.
func (o OptimizationOutcome) NeedsAdjustment() bool {
	return o.Kind != AlreadyOnTrack && o.Kind != Infeasible
}

// Apply returns params with the outcome's adjustment substituted.
func (o OptimizationOutcome) Apply(params ProjectionParameters) ProjectionParameters {
	if o.Contribution != nil {
		params = params.WithContribution(*o.Contribution)
	}
	if o.Years != nil {
		params = params.WithYears(*o.Years)
	}
	return params
}

// Describe renders a one-line suggestion for display.
func (o OptimizationOutcome) Describe(freq Frequency) string {
	switch o.Kind {
	case AlreadyOnTrack:
		return "You are on track to reach your target; no changes required."
	case IncreaseContribution:
		return fmt.Sprintf("Increase your contribution to %s per %s.", o.Contribution.StringFixed(2), freq.PeriodLabel())
	case ExtendTenor:
		return fmt.Sprintf("Extend your tenor to %s years.", o.Years.String())
	case IncreaseContributionAndExtendTenor:
		return fmt.Sprintf("Increase your contribution to %s per %s and extend your tenor to %s years.",
			o.Contribution.StringFixed(0), freq.PeriodLabel(), o.Years.String())
	case Infeasible:
		return "No adjustment within the search bounds reaches the target."
	}
	return o.Kind.String()
}

// SearchPolicy holds the step and bound constants for the plan search. The
// search is greedy: it reports the first adjustment found along each strategy.
type SearchPolicy struct {
	// StepPercent is the contribution step as a fraction of the starting contribution.
	StepPercent decimal.Decimal `yaml:"step_percent" json:"step_percent"`
	// MinStep is the smallest absolute contribution step.
	MinStep decimal.Decimal `yaml:"min_step" json:"min_step"`
	// CeilingMultiple bounds the contribution search at CeilingMultiple × starting contribution.
	CeilingMultiple decimal.Decimal `yaml:"ceiling_multiple" json:"ceiling_multiple"`
	// MaxExtraYears bounds the tenor search.
	MaxExtraYears int `yaml:"max_extra_years" json:"max_extra_years"`
	// CombinedBump is the fixed contribution increase used together with a longer tenor.
	CombinedBump decimal.Decimal `yaml:"combined_bump" json:"combined_bump"`
}

// DefaultSearchPolicy is 5% steps with a floor of 10, a 10× ceiling, up to
// 10 extra years and a 25% combined bump.
func DefaultSearchPolicy() SearchPolicy {
	return SearchPolicy{
		StepPercent:     decimal.NewFromFloat(0.05),
		MinStep:         decimal.NewFromInt(10),
		CeilingMultiple: decimal.NewFromInt(10),
		MaxExtraYears:   10,
		CombinedBump:    decimal.NewFromFloat(0.25),
	}
}

// Validate rejects policies that would not make progress.
func (sp SearchPolicy) Validate() error {
	if sp.StepPercent.IsNegative() {
		return invalid("search_policy.step_percent", "cannot be negative (%s)", sp.StepPercent)
	}
	if !sp.MinStep.IsPositive() {
		return invalid("search_policy.min_step", "must be greater than zero (%s)", sp.MinStep)
	}
	if sp.CeilingMultiple.IsNegative() {
		return invalid("search_policy.ceiling_multiple", "cannot be negative (%s)", sp.CeilingMultiple)
	}
	if sp.MaxExtraYears < 0 {
		return invalid("search_policy.max_extra_years", "cannot be negative (%d)", sp.MaxExtraYears)
	}
	if sp.CombinedBump.IsNegative() {
		return invalid("search_policy.combined_bump", "cannot be negative (%s)", sp.CombinedBump)
	}
	return nil
}

// IsZero reports whether no field was set, so callers can fall back to the default.
func (sp SearchPolicy) IsZero() bool {
	return sp.StepPercent.IsZero() && sp.MinStep.IsZero() && sp.CeilingMultiple.IsZero() &&
		sp.MaxExtraYears == 0 && sp.CombinedBump.IsZero()
}
