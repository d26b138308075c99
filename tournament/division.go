package tournament

import (
	"fmt"
	"sort"

	"github.com/justinjudd/league/models"
)

const (
	DefaultQualifiers  = 3  // Conference places 2 through 3 enter the promotion playoffs
	DefaultBracketSize = 16 // Target entrants per promotion bracket
)

// Division is one tier of a league. Its competitors are split into conferences for the group stage,
// conference winners are promoted automatically and the next places fight for the remaining promotion spots in playoff brackets
type Division struct {
	name           string
	size           int
	conferenceSize int

	qualifiers   int
	bracketSize  int
	bracketCount int // zero derives the count from bracketSize
	relegation   int // negative means not configured
	scoring      models.Scoring
	topTier      bool

	competitors []models.Competitor
	entered     map[string]bool

	phase                models.Phase // only EMPTY, GROUP_STAGE, POST_SEASON and FINALIZED are stored, the DONE phases are derived
	conferences          []*Conference
	promotionConferences []*Conference
	automatic            []models.Competitor
	report               *SeasonReport
}

// SeasonReport is what a division hands to the next season once its post-season is finalized
type SeasonReport struct {
	Division       string              `json:"division"`
	Automatic      []models.Competitor `json:"automatic"`
	PlayoffWinners []models.Competitor `json:"playoffWinners"`
	Promoted       []models.Competitor `json:"promoted"`
	Relegated      []models.Competitor `json:"relegated"`
}

// NewDivision creates an empty division that can hold size competitors, played in conferences of conferenceSize
func NewDivision(name string, size, conferenceSize int) (*Division, error) {
	if size < 2 {
		return nil, fmt.Errorf("division %q size %d: %w", name, size, models.ErrInvalidConfiguration)
	}
	if conferenceSize < 2 {
		return nil, fmt.Errorf("division %q conference size %d: %w", name, conferenceSize, models.ErrInvalidConfiguration)
	}
	return &Division{
		name:           name,
		size:           size,
		conferenceSize: conferenceSize,
		qualifiers:     DefaultQualifiers,
		bracketSize:    DefaultBracketSize,
		relegation:     -1,
		scoring:        models.DefaultScoring,
		entered:        map[string]bool{},
		phase:          models.Phase_EMPTY,
	}, nil
}

func (d *Division) GetName() string {
	return d.name
}

func (d *Division) GetSize() int {
	return d.size
}

func (d *Division) GetConferenceSize() int {
	return d.conferenceSize
}

func (d *Division) GetQualifiers() int {
	return d.qualifiers
}

func (d *Division) GetBracketSize() int {
	return d.bracketSize
}

func (d *Division) GetBracketCount() int {
	return d.bracketCount
}

// GetRelegationCount returns the configured relegation count, or -1 when the league decides it
func (d *Division) GetRelegationCount() int {
	return d.relegation
}

func (d *Division) GetScoring() models.Scoring {
	return d.scoring
}

func (d *Division) IsTopTier() bool {
	return d.topTier
}

// GetCompetitors returns competitors in seed order
func (d *Division) GetCompetitors() []models.Competitor {
	return copyCompetitors(d.competitors)
}

func (d *Division) GetConferences() []*Conference {
	out := make([]*Conference, len(d.conferences))
	copy(out, d.conferences)
	return out
}

func (d *Division) GetPromotionConferences() []*Conference {
	out := make([]*Conference, len(d.promotionConferences))
	copy(out, d.promotionConferences)
	return out
}

// GetConference finds a group stage or promotion conference by ID
func (d *Division) GetConference(id string) (*Conference, bool) {
	for _, list := range [][]*Conference{d.conferences, d.promotionConferences} {
		for _, c := range list {
			if c.GetID() == id {
				return c, true
			}
		}
	}
	return nil, false
}

// GetAutomaticPromotions returns the conference winners once the post-season has started
func (d *Division) GetAutomaticPromotions() []models.Competitor {
	return copyCompetitors(d.automatic)
}

// GetReport returns the finalized season report, or nil before EndPostSeason
func (d *Division) GetReport() *SeasonReport {
	return d.report
}

// Phase reports where the division is in its season
func (d *Division) Phase() models.Phase {
	switch d.phase {
	case models.Phase_GROUP_STAGE:
		if allComplete(d.conferences) {
			return models.Phase_GROUP_STAGE_DONE
		}
	case models.Phase_POST_SEASON:
		if allComplete(d.promotionConferences) {
			return models.Phase_DONE
		}
	}
	return d.phase
}

func (d *Division) checkConfigurable() error {
	if d.phase != models.Phase_EMPTY {
		return fmt.Errorf("division %q: %w", d.name, models.ErrAlreadyStarted)
	}
	return nil
}

// SetQualifiers sets the lowest conference place that still enters the promotion playoffs
func (d *Division) SetQualifiers(k int) error {
	if err := d.checkConfigurable(); err != nil {
		return err
	}
	if k < 1 {
		return fmt.Errorf("division %q qualifiers %d: %w", d.name, k, models.ErrInvalidConfiguration)
	}
	d.qualifiers = k
	return nil
}

// SetBracketSize sets the target number of entrants per promotion bracket
func (d *Division) SetBracketSize(n int) error {
	if err := d.checkConfigurable(); err != nil {
		return err
	}
	if n < 2 {
		return fmt.Errorf("division %q bracket size %d: %w", d.name, n, models.ErrInvalidConfiguration)
	}
	d.bracketSize = n
	return nil
}

// SetBracketCount fixes the number of promotion brackets. Zero goes back to deriving it from the bracket size
func (d *Division) SetBracketCount(n int) error {
	if err := d.checkConfigurable(); err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("division %q bracket count %d: %w", d.name, n, models.ErrInvalidConfiguration)
	}
	d.bracketCount = n
	return nil
}

// SetRelegationCount fixes how many competitors drop out of the division. A negative count lets the league decide
func (d *Division) SetRelegationCount(n int) error {
	if err := d.checkConfigurable(); err != nil {
		return err
	}
	if n >= d.size {
		return fmt.Errorf("division %q relegating %d of %d: %w", d.name, n, d.size, models.ErrInvalidConfiguration)
	}
	if n < 0 {
		n = -1
	}
	d.relegation = n
	return nil
}

func (d *Division) SetScoring(s models.Scoring) error {
	if err := d.checkConfigurable(); err != nil {
		return err
	}
	if s.Win < s.Draw || s.Draw < s.Loss {
		return fmt.Errorf("division %q scoring %+v: %w", d.name, s, models.ErrInvalidConfiguration)
	}
	d.scoring = s
	return nil
}

// SetTopTier marks the division as having no tier above it, so it plays no promotion playoffs
func (d *Division) SetTopTier(top bool) error {
	if d.phase >= models.Phase_POST_SEASON {
		return fmt.Errorf("division %q: %w", d.name, models.ErrAlreadyInPostSeason)
	}
	d.topTier = top
	return nil
}

// AddCompetitor enters a competitor. Order of addition is the seed order
func (d *Division) AddCompetitor(c models.Competitor) error {
	if d.phase != models.Phase_EMPTY {
		return fmt.Errorf("division %q: %w", d.name, models.ErrAlreadyStarted)
	}
	if len(d.competitors) >= d.size {
		return fmt.Errorf("division %q holds %d: %w", d.name, d.size, models.ErrDivisionFull)
	}
	if c.ID == "" {
		return fmt.Errorf("division %q: competitor %q has no ID: %w", d.name, c.Name, models.ErrInvalidConfiguration)
	}
	if d.entered[c.ID] {
		return fmt.Errorf("division %q: competitor %q entered twice: %w", d.name, c.ID, models.ErrInvalidConfiguration)
	}
	d.entered[c.ID] = true
	d.competitors = append(d.competitors, c)
	return nil
}

// lockResults stops results changing in conferences whose outcome the division has already acted on
func lockResults(conferences []*Conference, err error) {
	for _, c := range conferences {
		c.stage.lock(err)
	}
}

func (d *Division) validateStart() error {
	if d.phase != models.Phase_EMPTY {
		return fmt.Errorf("division %q: %w", d.name, models.ErrAlreadyStarted)
	}
	if len(d.competitors) < 2 {
		return fmt.Errorf("division %q has %d competitors: %w", d.name, len(d.competitors), models.ErrInvalidConfiguration)
	}
	return nil
}

// Start splits the competitors into conferences and builds their fixtures
func (d *Division) Start() error {
	if err := d.validateStart(); err != nil {
		return err
	}

	var conferences []*Conference
	for i, group := range chunk(d.competitors, d.conferenceSize) {
		c, err := newConference(fmt.Sprintf("%s Conference %d", d.name, i+1), group, d.scoring)
		if err != nil {
			return fmt.Errorf("division %q: %w", d.name, err)
		}
		conferences = append(conferences, c)
	}

	d.conferences = conferences
	d.phase = models.Phase_GROUP_STAGE
	return nil
}

// IsGroupStageDone is true once every conference has played all of its matches
func (d *Division) IsGroupStageDone() bool {
	return d.phase != models.Phase_EMPTY && (d.phase != models.Phase_GROUP_STAGE || allComplete(d.conferences))
}

func (d *Division) validatePostSeason() error {
	if d.phase >= models.Phase_POST_SEASON {
		return fmt.Errorf("division %q: %w", d.name, models.ErrAlreadyInPostSeason)
	}
	if !d.IsGroupStageDone() {
		return fmt.Errorf("division %q: %w", d.name, models.ErrGroupStageIncomplete)
	}
	return nil
}

// StartPostSeason promotes every conference winner and builds the promotion brackets from the next qualifiers.
// Group stage results are locked from here on. A top tier division has nowhere to promote to, so its post-season is
// complete straight away. A standalone division is only top tier if SetTopTier marked it; inside a League the tier
// order decides, and League.StartPostSeason marks the last division
func (d *Division) StartPostSeason() error {
	if err := d.validatePostSeason(); err != nil {
		return err
	}

	lockResults(d.conferences, fmt.Errorf("division %q: %w", d.name, models.ErrAlreadyInPostSeason))
	if d.topTier {
		d.phase = models.Phase_POST_SEASON
		return nil
	}

	var automatic []models.Competitor
	places := make([][]models.Competitor, d.qualifiers)
	for _, c := range d.conferences {
		for _, row := range c.Standings() {
			switch {
			case row.Rank == 1:
				automatic = append(automatic, row.Competitor)
			case row.Rank <= d.qualifiers:
				places[row.Rank-1] = append(places[row.Rank-1], row.Competitor)
			}
		}
	}

	// Every runner up is dealt into a bracket before any third place finisher, and so on
	var pool []models.Competitor
	for _, place := range places {
		pool = append(pool, place...)
	}

	var brackets []*Conference
	for i, group := range distribute(pool, bracketCount(len(pool), d.bracketSize, d.bracketCount)) {
		c, err := newConference(fmt.Sprintf("%s Promotion Bracket %d", d.name, i+1), group, d.scoring)
		if err != nil {
			return fmt.Errorf("division %q: %w", d.name, err)
		}
		brackets = append(brackets, c)
	}

	d.automatic = automatic
	d.promotionConferences = brackets
	d.phase = models.Phase_POST_SEASON
	return nil
}

// IsDone is true once the promotion brackets have finished, or straight after the post-season starts for a top tier division
func (d *Division) IsDone() bool {
	switch d.phase {
	case models.Phase_POST_SEASON:
		return allComplete(d.promotionConferences)
	case models.Phase_FINALIZED:
		return true
	}
	return false
}

func (d *Division) validateEnd() error {
	if d.phase == models.Phase_FINALIZED {
		return fmt.Errorf("division %q: %w", d.name, models.ErrAlreadyFinalized)
	}
	if !d.IsDone() {
		return fmt.Errorf("division %q: %w", d.name, models.ErrPostSeasonIncomplete)
	}
	return nil
}

// EndPostSeason finalizes the promotion and relegation lists. Without a configured relegation count nobody is relegated
func (d *Division) EndPostSeason() (*SeasonReport, error) {
	relegate := d.relegation
	if relegate < 0 {
		relegate = 0
	}
	return d.finalize(relegate)
}

func (d *Division) finalize(relegate int) (*SeasonReport, error) {
	if err := d.validateEnd(); err != nil {
		return nil, err
	}

	report := &SeasonReport{
		Division:  d.name,
		Automatic: copyCompetitors(d.automatic),
	}
	promoted := idSet(d.automatic)
	report.Promoted = copyCompetitors(d.automatic)
	for _, bracket := range d.promotionConferences {
		winner := bracket.Standings()[0].Competitor
		report.PlayoffWinners = append(report.PlayoffWinners, winner)
		if !promoted[winner.ID] {
			promoted[winner.ID] = true
			report.Promoted = append(report.Promoted, winner)
		}
	}

	var remaining []models.Competitor
	for _, row := range d.Standings() {
		if !promoted[row.Competitor.ID] {
			remaining = append(remaining, row.Competitor)
		}
	}
	if relegate > len(remaining) {
		relegate = len(remaining)
	}
	report.Relegated = copyCompetitors(remaining[len(remaining)-relegate:])

	finalized := fmt.Errorf("division %q: %w", d.name, models.ErrAlreadyFinalized)
	lockResults(d.conferences, finalized)
	lockResults(d.promotionConferences, finalized)
	d.report = report
	d.phase = models.Phase_FINALIZED
	return report, nil
}

// Standings is the regular season table across the whole division. Conference places come first,
// so every conference winner sits above every runner up, then points, goal difference and conference order decide
func (d *Division) Standings() []models.StandingsRow {
	if len(d.conferences) == 0 {
		rows := make([]models.StandingsRow, len(d.competitors))
		for i, c := range d.competitors {
			rows[i] = models.StandingsRow{Competitor: c, Rank: i + 1}
		}
		return rows
	}

	type placed struct {
		row        models.StandingsRow
		conference int
	}
	var all []placed
	for i, c := range d.conferences {
		for _, row := range c.Standings() {
			all = append(all, placed{row, i})
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.row.Rank != b.row.Rank {
			return a.row.Rank < b.row.Rank
		}
		if a.row.Points != b.row.Points {
			return a.row.Points > b.row.Points
		}
		if a.row.GoalDiff != b.row.GoalDiff {
			return a.row.GoalDiff > b.row.GoalDiff
		}
		return a.conference < b.conference
	})

	rows := make([]models.StandingsRow, len(all))
	for i, p := range all {
		rows[i] = p.row
		rows[i].Rank = i + 1
	}
	return rows
}
