package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/justinjudd/league/config"
	"github.com/justinjudd/league/models"
	"github.com/justinjudd/league/models/storm"
	"github.com/justinjudd/league/roster"
	"github.com/justinjudd/league/simulate"
	"github.com/justinjudd/league/tournament"
)

// loadOrCreate resumes the stored league, or seeds a new one from the configured roster generator
func loadOrCreate(ctx context.Context, cfg *config.Config, store *storm.Store, logger *slog.Logger) (*tournament.League, int, error) {
	l, season, err := store.LoadLeague(cfg.League)
	if err == nil {
		logger.Info("Resuming league", "league", cfg.League, "season", season)
		return l, season, nil
	}
	if !errors.Is(err, storm.ErrNotFound) {
		return nil, 0, err
	}

	g, err := roster.NewRegistry().New(cfg.Generator, roster.Options{CacheDir: cfg.CacheDir, Seed: cfg.Seed, Count: cfg.RosterSize()})
	if err != nil {
		return nil, 0, err
	}
	competitors, err := g.Generate(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("generating roster: %w", err)
	}

	l, err = newLeague(cfg.League, cfg.Divisions, competitors)
	if err != nil {
		return nil, 0, err
	}
	if err := store.SaveLeague(l, 1); err != nil {
		return nil, 0, err
	}
	logger.Info("Created league", "league", cfg.League, "generator", cfg.Generator, "competitors", len(competitors))
	return l, 1, nil
}

// newLeague lays out divisions bottom tier first and fills them from the top tier down, so the first competitors
// of the roster start in the top tier
func newLeague(name string, layout []config.DivisionLayout, competitors []models.Competitor) (*tournament.League, error) {
	l := tournament.NewLeague(name)
	divisions := make([]*tournament.Division, len(layout))
	for i, dl := range layout {
		d, err := l.AddDivision(dl.Name, dl.Size, dl.ConferenceSize)
		if err != nil {
			return nil, err
		}
		if err := configureDivision(d, dl); err != nil {
			return nil, err
		}
		divisions[i] = d
	}

	next := 0
	for i := len(divisions) - 1; i >= 0; i-- {
		d := divisions[i]
		for j := 0; j < d.GetSize() && next < len(competitors); j++ {
			if err := d.AddCompetitor(competitors[next]); err != nil {
				return nil, err
			}
			next++
		}
	}
	return l, nil
}

// configureDivision applies the optional parts of a layout, leaving division defaults where they are unset
func configureDivision(d *tournament.Division, dl config.DivisionLayout) error {
	if dl.Qualifiers > 0 {
		if err := d.SetQualifiers(dl.Qualifiers); err != nil {
			return err
		}
	}
	if dl.Brackets > 0 {
		if err := d.SetBracketCount(dl.Brackets); err != nil {
			return err
		}
	}
	if dl.Relegation >= 0 {
		if err := d.SetRelegationCount(dl.Relegation); err != nil {
			return err
		}
	}
	return nil
}

// applyStrength rates competitors by seed within their division, so last season's table carries over into this one
func applyStrength(sim *simulate.Poisson, l *tournament.League) {
	for _, d := range l.GetDivisions() {
		competitors := d.GetCompetitors()
		for i, c := range competitors {
			sim.SetStrength(c.ID, 1.5-float64(i)/float64(len(competitors)))
		}
	}
}

// finishSeason stores a finished season's report and the league seeded for the following season
func finishSeason(store *storm.Store, l *tournament.League, season int, report *tournament.LeagueReport) (*tournament.League, error) {
	if err := store.SaveReport(season, report); err != nil {
		return nil, err
	}
	next, err := tournament.Rollover(l, report, l.GetName())
	if err != nil {
		return nil, fmt.Errorf("rolling over season %d: %w", season, err)
	}
	if err := store.SaveLeague(next, season+1); err != nil {
		return nil, err
	}
	return next, nil
}

func logReport(logger *slog.Logger, season int, report *tournament.LeagueReport, elapsed time.Duration) {
	for _, r := range report.Divisions {
		logger.Info("Division finished",
			"season", season,
			"division", r.Division,
			"automatic", len(r.Automatic),
			"promoted", len(r.Promoted),
			"relegated", len(r.Relegated))
	}
	logger.Info("Season finished", "season", season, "league", report.League, "elapsed", elapsed)
}
