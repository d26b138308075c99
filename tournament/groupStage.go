package tournament

import (
	"fmt"
	"sort"

	"github.com/rs/xid"

	"github.com/justinjudd/league/models"
)

// GroupStage is a fixed set of round robin fixtures between competitors, and the table derived from their results.
// When a group size cap smaller than the field is provided, the field plays parallel round robins of that size
type GroupStage struct {
	id          string
	competitors []models.Competitor
	seeds       map[string]int // competitor ID to seed index
	groups      [][]int        // seed indexes per parallel round robin
	matches     []models.Match
	matchIndex  map[string]int
	scoring     models.Scoring
	rounds      int
	locked      error // set once results can no longer change, returned by every write
}

// NewGroupStage builds every fixture for competitors up front. A groupSize of zero, or one at least as large as the field, plays a single round robin
func NewGroupStage(competitors []models.Competitor, groupSize int, scoring models.Scoring) (*GroupStage, error) {
	return newGroupStage(xid.New().String(), competitors, groupSize, scoring)
}

func newGroupStage(id string, competitors []models.Competitor, groupSize int, scoring models.Scoring) (*GroupStage, error) {
	if len(competitors) < 2 {
		return nil, fmt.Errorf("group stage needs at least 2 competitors, got %d: %w", len(competitors), models.ErrInvalidConfiguration)
	}
	if groupSize == 1 || groupSize < 0 {
		return nil, fmt.Errorf("group size %d can't hold a match: %w", groupSize, models.ErrInvalidConfiguration)
	}

	g := &GroupStage{
		id:          id,
		competitors: copyCompetitors(competitors),
		seeds:       map[string]int{},
		matchIndex:  map[string]int{},
		scoring:     scoring,
	}
	for i, c := range g.competitors {
		if _, exists := g.seeds[c.ID]; exists {
			return nil, fmt.Errorf("competitor %q entered twice: %w", c.ID, models.ErrInvalidConfiguration)
		}
		g.seeds[c.ID] = i
	}

	offset := 0
	for _, shard := range chunk(g.competitors, groupSize) {
		seeds := make([]int, len(shard))
		for i := range shard {
			seeds[i] = offset + i
		}
		offset += len(shard)
		g.groups = append(g.groups, seeds)
		if r := roundCount(len(seeds)); r > g.rounds {
			g.rounds = r
		}
	}

	for groupIndex, seeds := range g.groups {
		for _, f := range roundRobin(seeds) {
			m := models.Match{
				ID:     fmt.Sprintf("%s-%d-%d-%d", g.id, groupIndex+1, f.round, f.slot),
				Group:  groupIndex + 1,
				Round:  f.round,
				HomeID: g.competitors[f.home].ID,
				AwayID: g.competitors[f.away].ID,
			}
			g.matchIndex[m.ID] = len(g.matches)
			g.matches = append(g.matches, m)
		}
	}

	return g, nil
}

func (g *GroupStage) GetID() string {
	return g.id
}

func (g *GroupStage) GetCompetitors() []models.Competitor {
	return copyCompetitors(g.competitors)
}

// Groups is the number of parallel round robins in the stage
func (g *GroupStage) Groups() int {
	return len(g.groups)
}

// Rounds is the number of rounds the largest group needs
func (g *GroupStage) Rounds() int {
	return g.rounds
}

// Matches returns a copy of every fixture in schedule order
func (g *GroupStage) Matches() []models.Match {
	out := make([]models.Match, len(g.matches))
	for i, m := range g.matches {
		out[i] = copyMatch(m)
	}
	return out
}

// PendingMatches returns the fixtures that don't have a result yet
func (g *GroupStage) PendingMatches() []models.Match {
	var out []models.Match
	for _, m := range g.matches {
		if !models.IsComplete(m) {
			out = append(out, copyMatch(m))
		}
	}
	return out
}

// Match looks up a single fixture
func (g *GroupStage) Match(matchID string) (models.Match, bool) {
	i, ok := g.matchIndex[matchID]
	if !ok {
		return models.Match{}, false
	}
	return copyMatch(g.matches[i]), true
}

// RecordResult stores the score of a fixture. Results are write once, use AmendResult to correct one
func (g *GroupStage) RecordResult(matchID string, homeScore, awayScore int) error {
	if g.locked != nil {
		return fmt.Errorf("match %q: %w", matchID, g.locked)
	}
	i, ok := g.matchIndex[matchID]
	if !ok {
		return fmt.Errorf("match %q: %w", matchID, models.ErrUnknownMatch)
	}
	if models.IsComplete(g.matches[i]) {
		return fmt.Errorf("match %q: %w", matchID, models.ErrDuplicateResult)
	}
	if homeScore < 0 || awayScore < 0 {
		return fmt.Errorf("match %q scored %d-%d: %w", matchID, homeScore, awayScore, models.ErrInvalidScore)
	}
	g.matches[i].HomeScore = models.IntPtr(homeScore)
	g.matches[i].AwayScore = models.IntPtr(awayScore)
	return nil
}

// AmendResult replaces the score of a fixture that already has a result
func (g *GroupStage) AmendResult(matchID string, homeScore, awayScore int) error {
	if g.locked != nil {
		return fmt.Errorf("match %q: %w", matchID, g.locked)
	}
	i, ok := g.matchIndex[matchID]
	if !ok {
		return fmt.Errorf("match %q: %w", matchID, models.ErrUnknownMatch)
	}
	if !models.IsComplete(g.matches[i]) {
		return fmt.Errorf("match %q: %w", matchID, models.ErrNoResult)
	}
	if homeScore < 0 || awayScore < 0 {
		return fmt.Errorf("match %q scored %d-%d: %w", matchID, homeScore, awayScore, models.ErrInvalidScore)
	}
	g.matches[i].HomeScore = models.IntPtr(homeScore)
	g.matches[i].AwayScore = models.IntPtr(awayScore)
	return nil
}

// lock makes every later RecordResult and AmendResult fail with err
func (g *GroupStage) lock(err error) {
	g.locked = err
}

// IsComplete is true once every fixture has a result
func (g *GroupStage) IsComplete() bool {
	for _, m := range g.matches {
		if !models.IsComplete(m) {
			return false
		}
	}
	return true
}

// Standings ranks the whole field over the results recorded so far
func (g *GroupStage) Standings() []models.StandingsRow {
	seeds := make([]int, len(g.competitors))
	for i := range seeds {
		seeds[i] = i
	}
	return g.rank(seeds)
}

// GroupStandings ranks a single parallel round robin, numbered from 1
func (g *GroupStage) GroupStandings(group int) []models.StandingsRow {
	if group < 1 || group > len(g.groups) {
		return nil
	}
	return g.rank(g.groups[group-1])
}

// rank builds table rows for seeds and orders them by points, goal difference, head to head between exactly two tied competitors, then seed
func (g *GroupStage) rank(seeds []int) []models.StandingsRow {
	rows := make([]models.StandingsRow, len(seeds))
	position := map[string]int{}
	for i, seed := range seeds {
		c := g.competitors[seed]
		rows[i].Competitor = c
		position[c.ID] = i
	}

	for _, m := range g.matches {
		for _, id := range []string{m.HomeID, m.AwayID} {
			i, ok := position[id]
			if !ok {
				continue
			}
			points, goalsFor, goalsAgainst, ok := models.Outcome(m, id, g.scoring)
			if !ok {
				continue
			}
			row := &rows[i]
			row.Played++
			row.GoalsFor += goalsFor
			row.GoalsAgainst += goalsAgainst
			row.Points += points
			switch {
			case goalsFor > goalsAgainst:
				row.Won++
			case goalsFor < goalsAgainst:
				row.Lost++
			default:
				row.Drawn++
			}
		}
	}
	for i := range rows {
		rows[i].GoalDiff = rows[i].GoalsFor - rows[i].GoalsAgainst
	}

	// Rows start in seed order, so a stable sort leaves seed order as the final tie break
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		return a.GoalDiff > b.GoalDiff
	})

	for start := 0; start < len(rows); {
		end := start + 1
		for end < len(rows) && rows[end].Points == rows[start].Points && rows[end].GoalDiff == rows[start].GoalDiff {
			end++
		}
		if end-start == 2 && g.headToHeadFavors(rows[start+1].Competitor.ID, rows[start].Competitor.ID) {
			rows[start], rows[start+1] = rows[start+1], rows[start]
		}
		start = end
	}

	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// headToHeadFavors reports whether a did strictly better than b in the completed matches between them,
// by points and then by goal difference
func (g *GroupStage) headToHeadFavors(a, b string) bool {
	var pointsA, pointsB, diff int
	for _, m := range g.matches {
		if !models.Involves(m, a) || !models.Involves(m, b) {
			continue
		}
		pa, forA, againstA, ok := models.Outcome(m, a, g.scoring)
		if !ok {
			continue
		}
		pb, _, _, _ := models.Outcome(m, b, g.scoring)
		pointsA += pa
		pointsB += pb
		diff += forA - againstA
	}
	if pointsA != pointsB {
		return pointsA > pointsB
	}
	return diff > 0
}

func copyMatch(m models.Match) models.Match {
	if m.HomeScore != nil {
		m.HomeScore = models.IntPtr(*m.HomeScore)
	}
	if m.AwayScore != nil {
		m.AwayScore = models.IntPtr(*m.AwayScore)
	}
	return m
}
