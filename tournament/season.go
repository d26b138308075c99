package tournament

import (
	"context"
	"fmt"

	"github.com/justinjudd/league/models"
)

// Simulator produces a score for a fixture. The engine doesn't play matches itself
type Simulator interface {
	Simulate(m models.Match) (homeScore, awayScore int)
}

// SimulatorFunc adapts a plain function to a Simulator
type SimulatorFunc func(m models.Match) (homeScore, awayScore int)

func (f SimulatorFunc) Simulate(m models.Match) (int, int) {
	return f(m)
}

type seasonStep struct {
	name string
	run  func(ctx context.Context) error
}

// RunSeason drives a league through a whole season, stopping at the first step that fails
func RunSeason(ctx context.Context, l *League, sim Simulator) (*LeagueReport, error) {
	var report *LeagueReport

	steps := []seasonStep{
		{"start", func(context.Context) error { return l.Start() }},
		{"group stage", func(ctx context.Context) error {
			for _, d := range l.divisions {
				if err := playConferences(ctx, d.conferences, sim); err != nil {
					return err
				}
			}
			return nil
		}},
		{"start post-season", func(context.Context) error { return l.StartPostSeason() }},
		{"promotion playoffs", func(ctx context.Context) error {
			for _, d := range l.divisions {
				if err := playConferences(ctx, d.promotionConferences, sim); err != nil {
					return err
				}
			}
			return nil
		}},
		{"end post-season", func(context.Context) error {
			var err error
			report, err = l.EndPostSeason()
			return err
		}},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("league %q %s: %w", l.name, step.name, err)
		}
		if err := step.run(ctx); err != nil {
			return nil, fmt.Errorf("league %q %s: %w", l.name, step.name, err)
		}
	}

	return report, nil
}

// playConferences records a simulated result for every pending match
func playConferences(ctx context.Context, conferences []*Conference, sim Simulator) error {
	for _, c := range conferences {
		for _, m := range c.stage.PendingMatches() {
			if err := ctx.Err(); err != nil {
				return err
			}
			home, away := sim.Simulate(m)
			if err := c.stage.RecordResult(m.ID, home, away); err != nil {
				return err
			}
		}
	}
	return nil
}
