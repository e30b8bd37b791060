package calculation

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rpgo/goal-planner/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
	infos []string
}

func (r *recordingLogger) Debugf(format string, args ...any) {}
func (r *recordingLogger) Errorf(format string, args ...any) {}
func (r *recordingLogger) Infof(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, fmt.Sprintf(format, args...))
}
func (r *recordingLogger) Warnf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warns = append(r.warns, fmt.Sprintf(format, args...))
}

func samplePlan() *domain.PlanConfiguration {
	return &domain.PlanConfiguration{
		Goal: domain.Goal{
			Name:                  "Home deposit",
			TargetAmount:          decimal.NewFromInt(200000),
			TenorYears:            decimal.NewFromInt(10),
			InitialInvestment:     decimal.NewFromInt(5000),
			RecurringContribution: decimal.NewFromInt(500),
			Frequency:             domain.Monthly,
		},
		Portfolio: "balanced",
	}
}

func newTestEngine() *PlanningEngine {
	engine := NewPlanningEngine()
	engine.SetIDFunc(func() string { return "plan-1" })
	return engine
}

func TestBuildPlan(t *testing.T) {
	report, err := newTestEngine().BuildPlan(context.Background(), samplePlan())
	require.NoError(t, err)

	assert.Equal(t, "plan-1", report.ID)
	assert.Equal(t, "Home deposit", report.GoalName)
	assert.Equal(t, domain.DefaultCurrency, report.Currency)
	assert.Equal(t, "balanced", report.Portfolio.ID)
	assert.Nil(t, report.Risk)
	assert.True(t, report.Parameters.AnnualReturnRate.Equal(decimal.NewFromFloat(0.06)))
	assert.Len(t, report.Projection.Points, 121)
	assert.False(t, report.OnTrack())
	assert.True(t, report.Shortfall().IsPositive())

	require.NotNil(t, report.Outcome)
	assert.Equal(t, domain.IncreaseContribution, report.Outcome.Kind)
	assert.True(t, report.Outcome.Contribution.Equal(decimal.NewFromInt(1175)))

	require.NotNil(t, report.AdjustedProjection)
	assert.True(t, report.AdjustedProjection.MeetsTarget(decimal.NewFromInt(200000)))
	assert.True(t, report.AdjustedProjection.EndingValue().Equal(report.Outcome.ProjectedEnding))

	require.NotNil(t, report.RequiredContribution)
	assert.True(t, report.RequiredContribution.LessThanOrEqual(*report.Outcome.Contribution))
	assert.True(t, report.RequiredContribution.GreaterThan(decimal.NewFromInt(1150)))

	require.NotNil(t, report.RequiredTenor)
	assert.True(t, report.RequiredTenor.GreaterThan(decimal.NewFromInt(10)))
	assert.NotEmpty(t, report.Assumptions)
	assert.Empty(t, report.Comparison)
}

func TestBuildPlanWithoutTarget(t *testing.T) {
	plan := samplePlan()
	plan.Goal.TargetAmount = decimal.Zero

	report, err := newTestEngine().BuildPlan(context.Background(), plan)
	require.NoError(t, err)
	assert.Nil(t, report.Outcome)
	assert.Nil(t, report.AdjustedProjection)
	assert.Nil(t, report.RequiredContribution)
	assert.True(t, report.OnTrack())
	assert.True(t, report.Shortfall().IsZero())
}

func TestBuildPlanOnTrack(t *testing.T) {
	plan := samplePlan()
	plan.Goal.TargetAmount = decimal.NewFromInt(50000)

	report, err := newTestEngine().BuildPlan(context.Background(), plan)
	require.NoError(t, err)
	require.NotNil(t, report.Outcome)
	assert.Equal(t, domain.AlreadyOnTrack, report.Outcome.Kind)
	assert.Nil(t, report.AdjustedProjection)
	require.NotNil(t, report.RequiredContribution)
	assert.True(t, report.RequiredContribution.LessThan(decimal.NewFromInt(500)))
	assert.True(t, report.RequiredTenor.Equal(decimal.NewFromInt(10)))
}

func TestBuildPlanNetOfFees(t *testing.T) {
	plan := samplePlan()
	plan.Assumptions.NetOfFees = true
	plan.Assumptions.Currency = "USD"

	report, err := newTestEngine().BuildPlan(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, "USD", report.Currency)
	assert.True(t, report.Parameters.AnnualReturnRate.Equal(decimal.NewFromFloat(0.054)))

	gross, err := newTestEngine().BuildPlan(context.Background(), samplePlan())
	require.NoError(t, err)
	assert.True(t, report.Projection.EndingValue().LessThan(gross.Projection.EndingValue()))
}

func TestBuildPlanYearGranularity(t *testing.T) {
	plan := samplePlan()
	plan.Assumptions.Granularity = domain.PerYear

	report, err := newTestEngine().BuildPlan(context.Background(), plan)
	require.NoError(t, err)
	assert.Len(t, report.Projection.Points, 11)
	require.NotNil(t, report.Outcome)
	assert.Equal(t, domain.IncreaseContribution, report.Outcome.Kind)
}

func TestBuildPlanYearGranularityTargetAtEndingValue(t *testing.T) {
	engine := newTestEngine()
	for _, c := range []int64{1, 333, 1996} {
		plan := samplePlan()
		plan.Goal.TenorYears = decimal.NewFromFloat(7.5)
		plan.Goal.RecurringContribution = decimal.NewFromInt(c)
		plan.Assumptions.Granularity = domain.PerYear
		plan.Assumptions.RateConvention = domain.Geometric

		first, err := engine.BuildPlan(context.Background(), plan)
		require.NoError(t, err)

		plan.Goal.TargetAmount = first.Projection.EndingValue()
		report, err := engine.BuildPlan(context.Background(), plan)
		require.NoError(t, err)
		require.NotNil(t, report.Outcome)

		assert.True(t, report.Outcome.BaselineEnding.Equal(report.Projection.EndingValue()),
			"contribution %d: baseline %s, trajectory %s", c, report.Outcome.BaselineEnding, report.Projection.EndingValue())
		assert.True(t, report.OnTrack(), "contribution %d", c)
		assert.Equal(t, domain.AlreadyOnTrack, report.Outcome.Kind, "contribution %d", c)
	}
}

func TestBuildPlanRiskAssessment(t *testing.T) {
	logger := &recordingLogger{}
	engine := newTestEngine()
	engine.SetLogger(logger)

	plan := samplePlan()
	plan.RiskAnswers = answers("short", "low", "beginner", "preserve", "sell")

	report, err := engine.BuildPlan(context.Background(), plan)
	require.NoError(t, err)
	require.NotNil(t, report.Risk)
	assert.Equal(t, domain.ProfileConservative, report.Risk.Profile)
	assert.Equal(t, 5, report.Risk.Score)

	require.Len(t, logger.warns, 1)
	assert.Contains(t, logger.warns[0], "balanced")
	require.NotEmpty(t, logger.infos)
	assert.Contains(t, logger.infos[len(logger.infos)-1], "plan-1")
}

func TestBuildPlanRejectsBadRiskAnswers(t *testing.T) {
	plan := samplePlan()
	plan.RiskAnswers = map[string]string{"horizon": "long"}

	_, err := newTestEngine().BuildPlan(context.Background(), plan)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestBuildPlanUnknownPortfolio(t *testing.T) {
	plan := samplePlan()
	plan.Portfolio = "crypto"

	_, err := newTestEngine().BuildPlan(context.Background(), plan)
	assert.ErrorIs(t, err, ErrUnknownPortfolio)
	assert.Contains(t, err.Error(), "crypto")
}

func TestBuildPlanCustomCatalogue(t *testing.T) {
	plan := samplePlan()
	plan.Portfolio = "cash"
	plan.Portfolios = domain.Catalogue{{ID: "cash", Name: "Cash", ExpectedReturn: decimal.Zero}}

	report, err := newTestEngine().BuildPlan(context.Background(), plan)
	require.NoError(t, err)
	// 5000 + 500 × 120 with no growth
	assert.True(t, report.Projection.EndingValue().Equal(decimal.NewFromInt(65000)))
}

func TestBuildPlanInvalidGoal(t *testing.T) {
	plan := samplePlan()
	plan.Goal.RecurringContribution = decimal.NewFromInt(-1)

	_, err := newTestEngine().BuildPlan(context.Background(), plan)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	_, err = newTestEngine().BuildPlan(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestBuildPlanCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestEngine().BuildPlan(ctx, samplePlan())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildPlanComparison(t *testing.T) {
	plan := samplePlan()
	plan.Compare = true
	plan.RiskAnswers = answers("short", "low", "beginner", "preserve", "sell")

	report, err := newTestEngine().BuildPlan(context.Background(), plan)
	require.NoError(t, err)
	require.Len(t, report.Comparison, 4)

	ids := make([]string, 0, 4)
	for i, row := range report.Comparison {
		ids = append(ids, row.PortfolioID)
		assert.False(t, row.MeetsTarget, row.PortfolioID)
		if i > 0 {
			assert.True(t, row.EndingValue.GreaterThan(report.Comparison[i-1].EndingValue))
		}
	}
	assert.Equal(t, []string{"conservative", "income", "balanced", "growth"}, ids)
	assert.True(t, report.Comparison[0].Suitable)
	assert.True(t, report.Comparison[1].Suitable)
	assert.False(t, report.Comparison[2].Suitable)
	assert.False(t, report.Comparison[3].Suitable)
	assert.True(t, report.Comparison[2].EndingValue.Equal(report.Projection.EndingValue()))
}

func TestComparePortfoliosWithoutProfile(t *testing.T) {
	plan := samplePlan()
	plan.Goal.TargetAmount = decimal.NewFromInt(80000)

	rows, err := newTestEngine().ComparePortfolios(plan.Goal, plan.Assumptions, domain.DefaultCatalogue(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	for _, row := range rows {
		assert.True(t, row.Suitable)
	}
	assert.False(t, rows[0].MeetsTarget)
	assert.True(t, rows[3].MeetsTarget)
}

func TestComparePortfoliosReportsErrors(t *testing.T) {
	goal := samplePlan().Goal
	goal.Frequency = 0

	_, err := newTestEngine().ComparePortfolios(goal, domain.Assumptions{}, domain.DefaultCatalogue(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
	assert.Contains(t, err.Error(), "portfolio growth")
}
