package tournament

import (
	"fmt"

	"github.com/justinjudd/league/models"
)

// League fans season operations out to its divisions. Divisions are held in tier order, bottom tier first,
// so the last division added is the top tier and plays no promotion playoffs.
//
// A League isn't safe for concurrent use. Hosts with more than one caller must serialize access to it
type League struct {
	name      string
	divisions []*Division
	byName    map[string]*Division
	started   bool
	report    *LeagueReport
}

// LeagueReport collects every division's season report, in tier order
type LeagueReport struct {
	League    string          `json:"league"`
	Divisions []*SeasonReport `json:"divisions"`
}

// Division finds a division's report by name
func (r *LeagueReport) Division(name string) *SeasonReport {
	for _, d := range r.Divisions {
		if d.Division == name {
			return d
		}
	}
	return nil
}

// NewLeague creates an empty league
func NewLeague(name string) *League {
	return &League{name: name, byName: map[string]*Division{}}
}

func (l *League) GetName() string {
	return l.name
}

// GetDivisions returns divisions in tier order, bottom tier first
func (l *League) GetDivisions() []*Division {
	out := make([]*Division, len(l.divisions))
	copy(out, l.divisions)
	return out
}

// GetReport returns the last finalized report, or nil before EndPostSeason
func (l *League) GetReport() *LeagueReport {
	return l.report
}

// AddDivision appends a division above every division added so far
func (l *League) AddDivision(name string, size, conferenceSize int) (*Division, error) {
	if l.started {
		return nil, fmt.Errorf("league %q: %w", l.name, models.ErrAlreadyStarted)
	}
	if _, exists := l.byName[name]; exists {
		return nil, fmt.Errorf("league %q division %q: %w", l.name, name, models.ErrDuplicateDivisionName)
	}
	d, err := NewDivision(name, size, conferenceSize)
	if err != nil {
		return nil, err
	}
	l.divisions = append(l.divisions, d)
	l.byName[name] = d
	return d, nil
}

func (l *League) GetDivision(name string) (*Division, error) {
	d, ok := l.byName[name]
	if !ok {
		return nil, fmt.Errorf("league %q division %q: %w", l.name, name, models.ErrDivisionNotFound)
	}
	return d, nil
}

// Start begins the group stage of every division. Nothing starts unless every division can
func (l *League) Start() error {
	if len(l.divisions) == 0 {
		return fmt.Errorf("league %q has no divisions: %w", l.name, models.ErrInvalidConfiguration)
	}
	for _, d := range l.divisions {
		if err := d.validateStart(); err != nil {
			return err
		}
	}
	for _, d := range l.divisions {
		if err := d.Start(); err != nil {
			return err
		}
	}
	l.started = true
	return nil
}

// IsGroupStageDone is true only when every division's group stage is finished
func (l *League) IsGroupStageDone() bool {
	if len(l.divisions) == 0 {
		return false
	}
	for _, d := range l.divisions {
		if !d.IsGroupStageDone() {
			return false
		}
	}
	return true
}

// IsDone is true only when every division's post-season is finished
func (l *League) IsDone() bool {
	if len(l.divisions) == 0 {
		return false
	}
	for _, d := range l.divisions {
		if !d.IsDone() {
			return false
		}
	}
	return true
}

// StartPostSeason starts every division's promotion playoffs, with the last division as the top tier
func (l *League) StartPostSeason() error {
	if len(l.divisions) == 0 {
		return fmt.Errorf("league %q has no divisions: %w", l.name, models.ErrInvalidConfiguration)
	}
	for _, d := range l.divisions {
		if err := d.validatePostSeason(); err != nil {
			return err
		}
	}
	l.divisions[len(l.divisions)-1].topTier = true
	for _, d := range l.divisions {
		if err := d.StartPostSeason(); err != nil {
			return err
		}
	}
	return nil
}

// EndPostSeason finalizes every division. A division without a configured relegation count relegates as many competitors
// as the tier below it promotes, and the bottom tier relegates nobody
func (l *League) EndPostSeason() (*LeagueReport, error) {
	if len(l.divisions) == 0 {
		return nil, fmt.Errorf("league %q has no divisions: %w", l.name, models.ErrInvalidConfiguration)
	}
	for _, d := range l.divisions {
		if err := d.validateEnd(); err != nil {
			return nil, err
		}
	}

	report := &LeagueReport{League: l.name}
	for i, d := range l.divisions {
		relegate := d.relegation
		if relegate < 0 {
			relegate = 0
			if i > 0 {
				relegate = len(report.Divisions[i-1].Promoted)
			}
		}
		r, err := d.finalize(relegate)
		if err != nil {
			return nil, err
		}
		report.Divisions = append(report.Divisions, r)
	}
	l.report = report
	return report, nil
}

// FindConference looks up any group stage or promotion conference in the league
func (l *League) FindConference(id string) (*Division, *Conference, error) {
	for _, d := range l.divisions {
		if c, ok := d.GetConference(id); ok {
			return d, c, nil
		}
	}
	return nil, nil, fmt.Errorf("league %q conference %q: %w", l.name, id, models.ErrConferenceNotFound)
}

// FindMatch looks up the conference that owns a match
func (l *League) FindMatch(matchID string) (*Conference, models.Match, error) {
	for _, d := range l.divisions {
		for _, list := range [][]*Conference{d.conferences, d.promotionConferences} {
			for _, c := range list {
				if m, ok := c.stage.Match(matchID); ok {
					return c, m, nil
				}
			}
		}
	}
	return nil, models.Match{}, fmt.Errorf("league %q match %q: %w", l.name, matchID, models.ErrUnknownMatch)
}

// RecordResult routes a result to whichever conference owns the match
func (l *League) RecordResult(matchID string, homeScore, awayScore int) error {
	c, _, err := l.FindMatch(matchID)
	if err != nil {
		return err
	}
	return c.stage.RecordResult(matchID, homeScore, awayScore)
}

// AmendResult routes a correction to whichever conference owns the match
func (l *League) AmendResult(matchID string, homeScore, awayScore int) error {
	c, _, err := l.FindMatch(matchID)
	if err != nil {
		return err
	}
	return c.stage.AmendResult(matchID, homeScore, awayScore)
}
