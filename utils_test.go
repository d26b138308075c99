package league

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinjudd/league/models"
	"github.com/justinjudd/league/tournament"
)

func newDivision(t *testing.T) *tournament.Division {
	t.Helper()
	d, err := tournament.NewDivision("Main", 8, 4)
	require.NoError(t, err)
	for i := 1; i <= 8; i++ {
		require.NoError(t, d.AddCompetitor(models.Competitor{ID: fmt.Sprintf("m%d", i), Name: fmt.Sprintf("Team <%d>", i)}))
	}
	return d
}

func TestGenerateDivisionHTML(t *testing.T) {
	d := newDivision(t)
	require.NoError(t, d.Start())

	first := d.GetConferences()[0].GroupStage()
	played := first.Matches()[0]
	require.NoError(t, first.RecordResult(played.ID, 2, 0))

	out, err := GenerateDivisionHTML(d)
	require.NoError(t, err)
	page := string(out)

	assert.Contains(t, page, "GROUP_STAGE")
	assert.Contains(t, page, "Main Conference 1")
	assert.Contains(t, page, "Main Conference 2")
	assert.Contains(t, page, "Team &lt;1&gt;")
	assert.NotContains(t, page, "Team <1>")
	assert.Contains(t, page, `id="`+played.ID+`"`)
	assert.Contains(t, page, "2 - 0")
	assert.Contains(t, page, "+2")
	assert.Equal(t, 2, strings.Count(page, `<table class="standings">`))
	assert.Equal(t, 12, strings.Count(page, `class="match`))
}

func TestGenerateDivisionHTMLPostSeason(t *testing.T) {
	d := newDivision(t)
	require.NoError(t, d.SetQualifiers(2))
	require.NoError(t, d.Start())
	for _, c := range d.GetConferences() {
		for _, m := range c.GroupStage().Matches() {
			home, away := 1, 0
			if m.HomeID > m.AwayID {
				home, away = 0, 1
			}
			require.NoError(t, c.GroupStage().RecordResult(m.ID, home, away))
		}
	}
	require.NoError(t, d.StartPostSeason())

	out, err := GenerateDivisionHTML(d)
	require.NoError(t, err)
	page := string(out)
	assert.Contains(t, page, `<table class="standings playoff">`)
	assert.Contains(t, page, "Main Promotion Bracket 1")
	assert.Equal(t, 2, strings.Count(page, `<tr class="promoted">`))
	assert.Equal(t, 2, strings.Count(page, `<tr class="playoff">`))
}

func TestGenerateLeagueHTML(t *testing.T) {
	l := tournament.NewLeague("CAL")
	for _, name := range []string{"Lower", "Upper"} {
		d, err := l.AddDivision(name, 4, 4)
		require.NoError(t, err)
		for i := 1; i <= 4; i++ {
			require.NoError(t, d.AddCompetitor(models.Competitor{ID: fmt.Sprintf("%s%d", name, i), Name: fmt.Sprintf("%s %d", name, i)}))
		}
	}

	out, err := GenerateLeagueHTML(l)
	require.NoError(t, err)
	page := string(out)
	assert.True(t, strings.HasPrefix(page, "<h1>CAL</h1>"))
	assert.Less(t, strings.Index(page, "<h2>Upper"), strings.Index(page, "<h2>Lower"))
	assert.Contains(t, page, "EMPTY")
}
