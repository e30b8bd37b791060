package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Goal is the savings goal captured by the wizard. A zero TargetAmount means
// the user only wants to see the projection.
type Goal struct {
	Name                  string          `yaml:"name" json:"name"`
	TargetAmount          decimal.Decimal `yaml:"target_amount,omitempty" json:"target_amount,omitempty"`
	TenorYears            decimal.Decimal `yaml:"tenor_years" json:"tenor_years"`
	InitialInvestment     decimal.Decimal `yaml:"initial_investment" json:"initial_investment"`
	RecurringContribution decimal.Decimal `yaml:"recurring_contribution" json:"recurring_contribution"`
	Frequency             Frequency       `yaml:"frequency" json:"frequency" validate:"required,oneof=12 4 2"`
}

// HasTarget reports whether a target amount was supplied.
func (g Goal) HasTarget() bool { return g.TargetAmount.IsPositive() }

// Parameters builds projection parameters for the given annual return.
func (g Goal) Parameters(annualReturn decimal.Decimal) ProjectionParameters {
	return ProjectionParameters{
		InitialAmount:        g.InitialInvestment,
		PeriodicContribution: g.RecurringContribution,
		PeriodsPerYear:       g.Frequency,
		Years:                g.TenorYears,
		AnnualReturnRate:     annualReturn,
	}
}

// Assumptions are the calculation options that apply to a whole plan.
type Assumptions struct {
	RateConvention RateConvention `yaml:"rate_convention" json:"rate_convention"`
	Granularity    Granularity    `yaml:"granularity" json:"granularity"`
	NetOfFees      bool           `yaml:"net_of_fees" json:"net_of_fees"`
	Currency       string         `yaml:"currency" json:"currency" validate:"omitempty,len=3,alpha"`
}

// DefaultCurrency is used when a plan does not name one.
const DefaultCurrency = "SGD"

// CurrencyCode returns the configured currency or DefaultCurrency.
func (a Assumptions) CurrencyCode() string {
	if a.Currency == "" {
		return DefaultCurrency
	}
	return a.Currency
}

// ReturnFor returns the annual rate used for a portfolio under these assumptions.
func (a Assumptions) ReturnFor(p ModelPortfolio) decimal.Decimal {
	if a.NetOfFees {
		return p.ExpectedReturn.Sub(p.Fee)
	}
	return p.ExpectedReturn
}

// Describe lists the assumptions in human-readable form.
func (a Assumptions) Describe() []string {
	out := []string{
		fmt.Sprintf("Per-period rate convention: %s", a.RateConvention),
		fmt.Sprintf("Projection points: one per %s", a.Granularity),
		fmt.Sprintf("Currency: %s", a.CurrencyCode()),
	}
	if a.NetOfFees {
		out = append(out, "Expected returns are reduced by the portfolio fee")
	} else {
		out = append(out, "Expected returns are gross of fees")
	}
	out = append(out, "Contributions are made at the end of each period")
	return out
}

// PlanConfiguration is everything the wizard collects, as loaded from a plan file.
type PlanConfiguration struct {
	Goal         Goal              `yaml:"goal" json:"goal"`
	Portfolio    string            `yaml:"portfolio" json:"portfolio" validate:"required"`
	RiskAnswers  map[string]string `yaml:"risk_answers,omitempty" json:"risk_answers,omitempty"`
	Assumptions  Assumptions       `yaml:"assumptions" json:"assumptions"`
	SearchPolicy *SearchPolicy     `yaml:"search_policy,omitempty" json:"search_policy,omitempty"`
	Portfolios   Catalogue         `yaml:"portfolios,omitempty" json:"portfolios,omitempty" validate:"omitempty,dive"`
	Compare      bool              `yaml:"compare_portfolios,omitempty" json:"compare_portfolios,omitempty"`
}

// Catalogue returns the plan's own portfolios, or the built-in catalogue.
func (pc *PlanConfiguration) Catalogue() Catalogue {
	if len(pc.Portfolios) > 0 {
		return pc.Portfolios
	}
	return DefaultCatalogue()
}

// Policy returns the plan's search policy, or the default.
func (pc *PlanConfiguration) Policy() SearchPolicy {
	if pc.SearchPolicy == nil || pc.SearchPolicy.IsZero() {
		return DefaultSearchPolicy()
	}
	return *pc.SearchPolicy
}

// PortfolioProjection is one row of a cross-portfolio comparison.
type PortfolioProjection struct {
	PortfolioID  string          `json:"portfolio_id"`
	Name         string          `json:"name"`
	AnnualReturn decimal.Decimal `json:"annual_return"`
	EndingValue  decimal.Decimal `json:"ending_value"`
	MeetsTarget  bool            `json:"meets_target"`
	Suitable     bool            `json:"suitable"`
}

// PlanReport is the assembled output of the planning engine.
type PlanReport struct {
	ID                   string                `json:"id"`
	GoalName             string                `json:"goal_name"`
	Currency             string                `json:"currency"`
	Goal                 Goal                  `json:"goal"`
	Portfolio            ModelPortfolio        `json:"portfolio"`
	Risk                 *RiskAssessment       `json:"risk,omitempty"`
	Parameters           ProjectionParameters  `json:"parameters"`
	Projection           ProjectionResult      `json:"projection"`
	Outcome              *OptimizationOutcome  `json:"outcome,omitempty"`
	AdjustedProjection   *ProjectionResult     `json:"adjusted_projection,omitempty"`
	RequiredContribution *decimal.Decimal      `json:"required_contribution,omitempty"`
	RequiredTenor        *decimal.Decimal      `json:"required_tenor,omitempty"`
	Comparison           []PortfolioProjection `json:"comparison,omitempty"`
	Assumptions          []string              `json:"assumptions"`
}

// OnTrack reports whether the unmodified plan reaches the goal's target.
// A goal without a target is always on track.
func (r *PlanReport) OnTrack() bool {
	if !r.Goal.HasTarget() {
		return true
	}
	return r.Projection.MeetsTarget(r.Goal.TargetAmount)
}

// Shortfall is the amount by which the projection misses the target (zero if met).
func (r *PlanReport) Shortfall() decimal.Decimal {
	if r.OnTrack() {
		return decimal.Zero
	}
	return r.Goal.TargetAmount.Sub(r.Projection.EndingValue())
}
