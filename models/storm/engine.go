package storm

import (
	"errors"
	"fmt"
	"sort"

	"github.com/asdine/storm"
	"github.com/asdine/storm/codec/msgpack"
	"github.com/asdine/storm/q"

	"github.com/justinjudd/league/models"
	"github.com/justinjudd/league/tournament"
)

// ErrNotFound is returned when no stored league has the requested name
var ErrNotFound = errors.New("league not stored")

// Store durably keeps league rosters and season reports in a bolt file. The engine itself keeps nothing across restarts
type Store struct {
	*storm.DB
}

type leagueRecord struct {
	ID        int    `storm:"id,increment"`
	Name      string `storm:"unique"`
	Season    int
	Divisions []divisionRecord
}

type divisionRecord struct {
	Name           string
	Size           int
	ConferenceSize int
	Qualifiers     int
	BracketSize    int
	BracketCount   int
	Relegation     int
	Scoring        models.Scoring
	TopTier        bool
	Competitors    []models.Competitor
}

type reportRecord struct {
	ID     int    `storm:"id,increment"`
	League string `storm:"index"`
	Season int    `storm:"index"`
	Report tournament.LeagueReport
}

// SeasonReport is a stored report along with the season it finished
type SeasonReport struct {
	Season int
	Report *tournament.LeagueReport
}

// Open creates or opens the store at path, using a msgpack codec
func Open(path string) (*Store, error) {
	db, err := storm.Open(path, storm.Codec(msgpack.Codec))
	if err != nil {
		return nil, fmt.Errorf("Unable to open storage engine: %w", err)
	}
	return &Store{db}, nil
}

// SaveLeague stores a league's divisions, their settings and their seeded rosters, replacing any league of the same name
func (s *Store) SaveLeague(l *tournament.League, season int) error {
	rec := leagueRecord{Name: l.GetName(), Season: season}
	for _, d := range l.GetDivisions() {
		rec.Divisions = append(rec.Divisions, divisionRecord{
			Name:           d.GetName(),
			Size:           d.GetSize(),
			ConferenceSize: d.GetConferenceSize(),
			Qualifiers:     d.GetQualifiers(),
			BracketSize:    d.GetBracketSize(),
			BracketCount:   d.GetBracketCount(),
			Relegation:     d.GetRelegationCount(),
			Scoring:        d.GetScoring(),
			TopTier:        d.IsTopTier(),
			Competitors:    d.GetCompetitors(),
		})
	}

	var existing leagueRecord
	err := s.One("Name", rec.Name, &existing)
	switch {
	case err == nil:
		rec.ID = existing.ID
	case !errors.Is(err, storm.ErrNotFound):
		return fmt.Errorf("Error looking up league %q: %w", rec.Name, err)
	}

	if err := s.Save(&rec); err != nil {
		return fmt.Errorf("Error saving league %q: %w", rec.Name, err)
	}
	return nil
}

// LoadLeague rebuilds a stored league, ready to start. It also returns the season the league was saved at
func (s *Store) LoadLeague(name string) (*tournament.League, int, error) {
	var rec leagueRecord
	if err := s.One("Name", name, &rec); err != nil {
		if errors.Is(err, storm.ErrNotFound) {
			return nil, 0, fmt.Errorf("%q: %w", name, ErrNotFound)
		}
		return nil, 0, fmt.Errorf("Error loading league %q: %w", name, err)
	}

	l := tournament.NewLeague(rec.Name)
	for _, dr := range rec.Divisions {
		d, err := l.AddDivision(dr.Name, dr.Size, dr.ConferenceSize)
		if err != nil {
			return nil, 0, err
		}
		settings := []error{
			d.SetQualifiers(dr.Qualifiers),
			d.SetBracketSize(dr.BracketSize),
			d.SetBracketCount(dr.BracketCount),
			d.SetRelegationCount(dr.Relegation),
			d.SetScoring(dr.Scoring),
			d.SetTopTier(dr.TopTier),
		}
		for _, c := range dr.Competitors {
			settings = append(settings, d.AddCompetitor(c))
		}
		for _, err := range settings {
			if err != nil {
				return nil, 0, fmt.Errorf("stored division %q: %w", dr.Name, err)
			}
		}
	}
	return l, rec.Season, nil
}

// Leagues lists the names of every stored league
func (s *Store) Leagues() ([]string, error) {
	var recs []leagueRecord
	if err := s.All(&recs); err != nil {
		return nil, fmt.Errorf("Error listing leagues: %w", err)
	}
	names := make([]string, len(recs))
	for i, r := range recs {
		names[i] = r.Name
	}
	sort.Strings(names)
	return names, nil
}

// SaveReport keeps the outcome of a finished season
func (s *Store) SaveReport(season int, report *tournament.LeagueReport) error {
	if report == nil {
		return fmt.Errorf("no report to save for season %d", season)
	}
	rec := reportRecord{League: report.League, Season: season, Report: *report}
	if err := s.Save(&rec); err != nil {
		return fmt.Errorf("Error saving season %d report: %w", season, err)
	}
	return nil
}

// Reports returns every stored season report of a league, oldest season first
func (s *Store) Reports(league string) ([]SeasonReport, error) {
	var out []SeasonReport
	err := s.Select(q.Eq("League", league)).OrderBy("Season").Each(new(reportRecord), func(record interface{}) error {
		r := record.(*reportRecord)
		report := r.Report
		out = append(out, SeasonReport{Season: r.Season, Report: &report})
		return nil
	})
	if err != nil && !errors.Is(err, storm.ErrNotFound) {
		return nil, fmt.Errorf("Error getting reports for %q: %w", league, err)
	}
	return out, nil
}
