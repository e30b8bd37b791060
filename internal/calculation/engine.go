package calculation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rpgo/goal-planner/internal/domain"
)

// ErrUnknownPortfolio is returned when a plan names a portfolio that is not in its catalogue.
var ErrUnknownPortfolio = errors.New("unknown portfolio")

// maxConcurrentProjections limits goroutines in ComparePortfolios.
const maxConcurrentProjections = 8

// PlanningEngine assembles a full plan report: risk profile, projection,
// optimization and analytics. It holds no per-plan state, so one engine can
// serve concurrent requests.
type PlanningEngine struct {
	Questionnaire domain.Questionnaire
	MaxTenorYears int
	Debug         bool
	Logger        Logger

	newID func() string
}

// NewPlanningEngine creates an engine with the default questionnaire.
func NewPlanningEngine() *PlanningEngine {
	return &PlanningEngine{
		Questionnaire: domain.DefaultQuestionnaire(),
		MaxTenorYears: DefaultMaxTenorYears,
		Logger:        NopLogger{},
		newID:         uuid.NewString,
	}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (pe *PlanningEngine) SetLogger(l Logger) {
	if l == nil {
		pe.Logger = NopLogger{}
		return
	}
	pe.Logger = l
}

func (pe *PlanningEngine) logger() Logger {
	if pe.Logger == nil {
		return NopLogger{}
	}
	return pe.Logger
}

// ProjectorFor builds a projector configured by a plan's assumptions.
func (pe *PlanningEngine) ProjectorFor(a domain.Assumptions) *Projector {
	p := NewProjector(a.RateConvention)
	p.Granularity = a.Granularity
	if pe.Debug {
		p.SetLogger(pe.logger())
	}
	return p
}

// OptimizerFor builds an optimizer for a plan. It projects with the plan's
// granularity so its baseline matches the reported trajectory's ending value.
func (pe *PlanningEngine) OptimizerFor(a domain.Assumptions, policy domain.SearchPolicy) *Optimizer {
	p := NewProjector(a.RateConvention)
	p.Granularity = a.Granularity
	o := NewOptimizer(p, policy)
	o.SetLogger(pe.logger())
	return o
}

// AssessRisk scores answers against the engine's questionnaire.
func (pe *PlanningEngine) AssessRisk(answers map[string]string) (domain.RiskAssessment, error) {
	return ScoreAnswers(pe.Questionnaire, answers)
}

// BuildPlan runs every calculation for a plan. The context is checked between
// phases; each phase itself is short and runs to completion.
func (pe *PlanningEngine) BuildPlan(ctx context.Context, plan *domain.PlanConfiguration) (*domain.PlanReport, error) {
	if plan == nil {
		return nil, domain.InvalidParameter("plan", "is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	catalogue := plan.Catalogue()
	portfolio, ok := catalogue.Find(plan.Portfolio)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPortfolio, plan.Portfolio)
	}

	report := &domain.PlanReport{
		ID:          pe.id(),
		GoalName:    plan.Goal.Name,
		Currency:    plan.Assumptions.CurrencyCode(),
		Goal:        plan.Goal,
		Portfolio:   portfolio,
		Assumptions: plan.Assumptions.Describe(),
	}

	if len(plan.RiskAnswers) > 0 {
		assessment, err := pe.AssessRisk(plan.RiskAnswers)
		if err != nil {
			return nil, fmt.Errorf("risk assessment failed: %w", err)
		}
		report.Risk = &assessment
		if !portfolio.Suits(assessment.Profile) {
			pe.logger().Warnf("portfolio %q is not offered to the %s profile", portfolio.ID, assessment.Profile)
		}
	}

	projector := pe.ProjectorFor(plan.Assumptions)
	report.Parameters = plan.Goal.Parameters(plan.Assumptions.ReturnFor(portfolio))
	projection, err := projector.Project(report.Parameters)
	if err != nil {
		return nil, fmt.Errorf("projection failed: %w", err)
	}
	report.Projection = projection

	if plan.Goal.HasTarget() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := pe.optimizeInto(report, projector, plan); err != nil {
			return nil, err
		}
	}

	if plan.Compare {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var profile *domain.RiskProfile
		if report.Risk != nil {
			profile = &report.Risk.Profile
		}
		rows, err := pe.ComparePortfolios(plan.Goal, plan.Assumptions, catalogue, profile)
		if err != nil {
			return nil, fmt.Errorf("portfolio comparison failed: %w", err)
		}
		report.Comparison = rows
	}

	pe.logger().Infof("plan %s: %s over %s years ends at %s", report.ID, portfolio.ID,
		plan.Goal.TenorYears, projection.EndingValue().StringFixed(2))
	return report, nil
}

// optimizeInto adds the search outcome, the adjusted trajectory and the
// closed-form estimates to report.
func (pe *PlanningEngine) optimizeInto(report *domain.PlanReport, projector *Projector, plan *domain.PlanConfiguration) error {
	target := plan.Goal.TargetAmount
	optimizer := pe.OptimizerFor(plan.Assumptions, plan.Policy())
	outcome, err := optimizer.Optimize(domain.OptimizationRequest{
		ProjectionParameters: report.Parameters,
		TargetAmount:         target,
	})
	if err != nil {
		return fmt.Errorf("optimization failed: %w", err)
	}
	report.Outcome = &outcome

	if outcome.NeedsAdjustment() {
		adjusted, err := projector.Project(outcome.Apply(report.Parameters))
		if err != nil {
			return fmt.Errorf("adjusted projection failed: %w", err)
		}
		report.AdjustedProjection = &adjusted
	}

	if report.Parameters.TotalPeriods() > 0 {
		required, err := projector.RequiredContribution(report.Parameters, target)
		if err != nil {
			return fmt.Errorf("required contribution failed: %w", err)
		}
		report.RequiredContribution = &required
	}

	years, ok, err := projector.RequiredTenor(report.Parameters, target, pe.MaxTenorYears)
	if err != nil {
		return fmt.Errorf("required tenor failed: %w", err)
	}
	if ok {
		report.RequiredTenor = &years
	} else {
		pe.logger().Debugf("target not reached within %d years at the current contribution", pe.MaxTenorYears)
	}
	return nil
}

// ComparePortfolios projects goal under every portfolio in catalogue. Rows are
// returned in catalogue order. A nil profile marks every portfolio suitable.
func (pe *PlanningEngine) ComparePortfolios(goal domain.Goal, a domain.Assumptions, catalogue domain.Catalogue, profile *domain.RiskProfile) ([]domain.PortfolioProjection, error) {
	projector := NewProjector(a.RateConvention)
	projector.Granularity = a.Granularity
	rows := make([]domain.PortfolioProjection, len(catalogue))
	errs := make([]error, len(catalogue))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, maxConcurrentProjections)
	for i := range catalogue {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			p := catalogue[idx]
			rate := a.ReturnFor(p)
			ending, err := projector.EndingValue(goal.Parameters(rate))
			if err != nil {
				errs[idx] = fmt.Errorf("portfolio %s: %w", p.ID, err)
				return
			}
			rows[idx] = domain.PortfolioProjection{
				PortfolioID:  p.ID,
				Name:         p.Name,
				AnnualReturn: rate,
				EndingValue:  ending,
				MeetsTarget:  !goal.HasTarget() || ending.GreaterThanOrEqual(goal.TargetAmount),
				Suitable:     profile == nil || p.Suits(*profile),
			}
		}(i)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (pe *PlanningEngine) id() string {
	if pe.newID == nil {
		return uuid.NewString()
	}
	return pe.newID()
}
