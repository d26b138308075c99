package tournament

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinjudd/league/models"
)

// The five tier career layout, bottom tier first
var tiers = []struct {
	name     string
	size     int
	confSize int
}{
	{"Open", 256, 8},
	{"Intermediate", 128, 8},
	{"Main", 64, 8},
	{"Premier", 32, 8},
	{"Invite", 16, 16},
}

func newTieredLeague(t *testing.T) *League {
	t.Helper()
	l := NewLeague("CAL")
	for _, tier := range tiers {
		d, err := l.AddDivision(tier.name, tier.size, tier.confSize)
		require.NoError(t, err)
		for _, c := range numbered(tier.name, tier.size) {
			require.NoError(t, d.AddCompetitor(c))
		}
	}
	return l
}

func TestRunSeason(t *testing.T) {
	l := newTieredLeague(t)
	report, err := RunSeason(context.Background(), l, favourites)
	require.NoError(t, err)
	assert.True(t, l.IsDone())

	promoted := map[string]int{}
	relegated := map[string]int{}
	for _, r := range report.Divisions {
		promoted[r.Division] = len(r.Promoted)
		relegated[r.Division] = len(r.Relegated)
		assert.Len(t, idSet(r.Promoted), len(r.Promoted), r.Division)
		assert.Len(t, r.Promoted, len(r.Automatic)+len(r.PlayoffWinners), r.Division)
	}
	assert.Equal(t, map[string]int{"Open": 38, "Intermediate": 19, "Main": 9, "Premier": 5, "Invite": 0}, promoted)
	assert.Equal(t, map[string]int{"Open": 0, "Intermediate": 38, "Main": 19, "Premier": 9, "Invite": 5}, relegated)

	open, err := l.GetDivision("Open")
	require.NoError(t, err)
	assert.Len(t, open.GetConferences(), 32)
	assert.Len(t, open.GetPromotionConferences(), 6)
	for _, bracket := range open.GetPromotionConferences() {
		assert.Len(t, bracket.GetCompetitors(), 16)
	}
}

func TestRunSeasonStopsAtFailingStep(t *testing.T) {
	l := newTieredLeague(t)
	broken := SimulatorFunc(func(models.Match) (int, int) { return -1, 0 })

	_, err := RunSeason(context.Background(), l, broken)
	assert.ErrorIs(t, err, models.ErrInvalidScore)
	assert.Contains(t, err.Error(), "group stage")
	assert.False(t, l.IsGroupStageDone())

	for _, d := range l.GetDivisions() {
		assert.Empty(t, d.GetPromotionConferences())
	}
}

func TestRunSeasonCancelled(t *testing.T) {
	l := newTieredLeague(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunSeason(ctx, l, favourites)
	assert.ErrorIs(t, err, context.Canceled)
	for _, d := range l.GetDivisions() {
		assert.Equal(t, models.Phase_EMPTY, d.Phase())
	}
}

func TestRollover(t *testing.T) {
	l := newTieredLeague(t)
	report, err := RunSeason(context.Background(), l, favourites)
	require.NoError(t, err)

	next, err := Rollover(l, report, "CAL season 2")
	require.NoError(t, err)
	assert.Equal(t, "CAL season 2", next.GetName())

	for i, d := range next.GetDivisions() {
		assert.Equal(t, tiers[i].name, d.GetName())
		assert.Len(t, d.GetCompetitors(), tiers[i].size, d.GetName())
		assert.Equal(t, models.Phase_EMPTY, d.Phase())
	}

	intermediate, err := next.GetDivision("Intermediate")
	require.NoError(t, err)
	roster := idSet(intermediate.GetCompetitors())
	for _, c := range report.Division("Open").Promoted {
		assert.True(t, roster[c.ID], "%s should move up to Intermediate", c.ID)
	}
	for _, c := range report.Division("Intermediate").Promoted {
		assert.False(t, roster[c.ID], "%s should have left Intermediate", c.ID)
	}
	for _, c := range report.Division("Main").Relegated {
		assert.True(t, roster[c.ID], "%s should drop to Intermediate", c.ID)
	}

	// The rolled over league plays a season of its own
	_, err = RunSeason(context.Background(), next, favourites)
	require.NoError(t, err)
}

func TestRolloverNeedsFinishedSeason(t *testing.T) {
	l, _, _ := newTwoTierLeague(t)
	require.NoError(t, l.Start())

	_, err := Rollover(l, nil, "next")
	assert.ErrorIs(t, err, models.ErrInvalidConfiguration)

	_, err = Rollover(l, &LeagueReport{Divisions: []*SeasonReport{{Division: "L"}, {Division: "U"}}}, "next")
	assert.ErrorIs(t, err, models.ErrPostSeasonIncomplete)
}
