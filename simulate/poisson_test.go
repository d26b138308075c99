package simulate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinjudd/league/models"
	"github.com/justinjudd/league/tournament"
)

func TestPoissonDeterministic(t *testing.T) {
	m := models.Match{ID: "m", HomeID: "a", AwayID: "b"}
	a, b := NewPoisson(42, 0), NewPoisson(42, 0)
	for i := 0; i < 50; i++ {
		ah, aa := a.Simulate(m)
		bh, ba := b.Simulate(m)
		assert.Equal(t, ah, bh)
		assert.Equal(t, aa, ba)
		assert.GreaterOrEqual(t, ah, 0)
		assert.GreaterOrEqual(t, aa, 0)
	}
}

func TestPoissonMeanGoalsBounds(t *testing.T) {
	assert.Equal(t, DefaultMeanGoals, NewPoisson(1, -3).meanGoals)
	assert.Equal(t, 4.0, NewPoisson(1, 4).meanGoals)
	assert.Equal(t, float64(MaxMeanGoals), NewPoisson(1, 1e6).meanGoals)
}

func TestPoissonStrength(t *testing.T) {
	p := NewPoisson(7, 3)
	p.SetHomeAdvantage(1)
	p.SetStrength("strong", 10)
	p.SetStrength("ignored", -1)

	var strongGoals, weakGoals int
	for i := 0; i < 2000; i++ {
		h, a := p.Simulate(models.Match{HomeID: "strong", AwayID: "weak"})
		strongGoals += h
		weakGoals += a
	}
	assert.Greater(t, strongGoals, weakGoals*3)
	assert.Equal(t, 1.0, p.strengthOf("ignored"))
	assert.InDelta(t, 3.0, float64(strongGoals+weakGoals)/2000, 0.3)
}

func TestPoissonDrivesSeason(t *testing.T) {
	l := tournament.NewLeague("sim")
	lower, err := l.AddDivision("Lower", 16, 8)
	require.NoError(t, err)
	upper, err := l.AddDivision("Upper", 8, 8)
	require.NoError(t, err)
	for i := 0; i < 16; i++ {
		require.NoError(t, lower.AddCompetitor(models.NewCompetitor("lower")))
	}
	for i := 0; i < 8; i++ {
		require.NoError(t, upper.AddCompetitor(models.NewCompetitor("upper")))
	}

	report, err := tournament.RunSeason(context.Background(), l, NewPoisson(1, DefaultMeanGoals))
	require.NoError(t, err)
	assert.Len(t, report.Division("Lower").Promoted, 3)
	assert.Len(t, report.Division("Upper").Relegated, 3)
}
