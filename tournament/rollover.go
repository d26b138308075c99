package tournament

import (
	"fmt"

	"github.com/justinjudd/league/models"
)

// Rollover seeds a new league from a finished season. Promoted competitors move up a tier and relegated competitors move down one.
// Everyone else keeps their place in last season's division table, and arrivals are seeded after them:
// those relegated from above first, then those promoted from below. Relegation out of the bottom tier leaves the league
func Rollover(prev *League, report *LeagueReport, name string) (*League, error) {
	if report == nil || len(report.Divisions) != len(prev.divisions) {
		return nil, fmt.Errorf("league %q report doesn't cover every division: %w", prev.name, models.ErrInvalidConfiguration)
	}
	for i, d := range prev.divisions {
		if report.Divisions[i].Division != d.name {
			return nil, fmt.Errorf("league %q report for %q found where %q was expected: %w", prev.name, report.Divisions[i].Division, d.name, models.ErrInvalidConfiguration)
		}
		if d.phase != models.Phase_FINALIZED {
			return nil, fmt.Errorf("division %q: %w", d.name, models.ErrPostSeasonIncomplete)
		}
	}

	next := NewLeague(name)
	for i, d := range prev.divisions {
		nd, err := next.AddDivision(d.name, d.size, d.conferenceSize)
		if err != nil {
			return nil, err
		}
		nd.qualifiers = d.qualifiers
		nd.bracketSize = d.bracketSize
		nd.bracketCount = d.bracketCount
		nd.relegation = d.relegation
		nd.scoring = d.scoring
		nd.topTier = d.topTier

		r := report.Divisions[i]
		leaving := idSet(r.Promoted, r.Relegated)

		table := d.Standings()
		roster := make([]models.Competitor, 0, d.size)
		for _, row := range table {
			if !leaving[row.Competitor.ID] {
				roster = append(roster, row.Competitor)
			}
		}
		if i+1 < len(prev.divisions) {
			roster = append(roster, report.Divisions[i+1].Relegated...)
		}
		if i > 0 {
			roster = append(roster, report.Divisions[i-1].Promoted...)
		}

		for _, c := range roster {
			if err := nd.AddCompetitor(c); err != nil {
				return nil, fmt.Errorf("league %q rollover: %w", name, err)
			}
		}
	}

	return next, nil
}
