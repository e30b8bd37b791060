package calculation

import (
	"testing"

	"github.com/rpgo/goal-planner/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredContributionReachesTarget(t *testing.T) {
	target := decimal.NewFromInt(200000)
	for _, convention := range []domain.RateConvention{domain.Nominal, domain.Geometric} {
		t.Run(convention.String(), func(t *testing.T) {
			projector := NewProjector(convention)
			p := params(5000, 500, domain.Monthly, 10, 0.06)

			required, err := projector.RequiredContribution(p, target)
			require.NoError(t, err)
			assert.True(t, required.GreaterThan(p.PeriodicContribution))

			at, err := projector.EndingValue(p.WithContribution(required))
			require.NoError(t, err)
			assert.True(t, at.GreaterThanOrEqual(target), "ending %s below target", at)

			cent := decimal.New(1, -2)
			below, err := projector.EndingValue(p.WithContribution(required.Sub(cent)))
			require.NoError(t, err)
			assert.True(t, below.LessThan(target))
		})
	}
}

func TestRequiredContributionZeroRate(t *testing.T) {
	projector := NewProjector(domain.Nominal)
	p := params(1000, 0, domain.Quarterly, 5, 0)

	required, err := projector.RequiredContribution(p, decimal.NewFromInt(11000))
	require.NoError(t, err)
	// (11000 − 1000) / 20 periods
	assert.True(t, required.Equal(decimal.NewFromInt(500)), "got %s", required)
}

func TestRequiredContributionInitialAlreadyEnough(t *testing.T) {
	projector := NewProjector(domain.Nominal)
	p := params(500000, 250, domain.Monthly, 10, 0.05)

	required, err := projector.RequiredContribution(p, decimal.NewFromInt(100000))
	require.NoError(t, err)
	assert.True(t, required.Equal(decimal.NewFromInt(250)))
}

func TestRequiredContributionNeedsTenor(t *testing.T) {
	projector := NewProjector(domain.Nominal)
	_, err := projector.RequiredContribution(params(100, 10, domain.Monthly, 0, 0.05), decimal.NewFromInt(1000))
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestRequiredTenor(t *testing.T) {
	projector := NewProjector(domain.Nominal)
	p := params(100000, 0, domain.Monthly, 5, 0.06)

	years, ok, err := projector.RequiredTenor(p, decimal.NewFromInt(150000), 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, years.Equal(decimal.NewFromInt(7)))

	// Agrees with the optimizer's tenor search.
	outcome, err := defaultOptimizer().Optimize(request(p, 150000))
	require.NoError(t, err)
	require.Equal(t, domain.ExtendTenor, outcome.Kind)
	assert.True(t, outcome.Years.Equal(years))
}

func TestRequiredTenorStartsAtCurrentTenor(t *testing.T) {
	projector := NewProjector(domain.Nominal)
	years, ok, err := projector.RequiredTenor(params(100000, 0, domain.Monthly, 4.2, 0.06), decimal.NewFromInt(100000), 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, years.Equal(decimal.NewFromInt(5)))
}

func TestRequiredTenorUnreachable(t *testing.T) {
	projector := NewProjector(domain.Nominal)
	years, ok, err := projector.RequiredTenor(params(0, 1, domain.Monthly, 1, 0.01), decimal.NewFromInt(10_000_000), 30)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, years.Equal(decimal.NewFromInt(30)))
}
