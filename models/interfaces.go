package models

import "github.com/rs/xid"

// Phase is the lifecycle position of a division within a season
type Phase int32

const (
	Phase_EMPTY            Phase = 0
	Phase_GROUP_STAGE      Phase = 1
	Phase_GROUP_STAGE_DONE Phase = 2
	Phase_POST_SEASON      Phase = 3
	Phase_DONE             Phase = 4
	Phase_FINALIZED        Phase = 5
)

var phaseNames = map[Phase]string{
	Phase_EMPTY:            "EMPTY",
	Phase_GROUP_STAGE:      "GROUP_STAGE",
	Phase_GROUP_STAGE_DONE: "GROUP_STAGE_DONE",
	Phase_POST_SEASON:      "POST_SEASON",
	Phase_DONE:             "DONE",
	Phase_FINALIZED:        "FINALIZED",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "UNKNOWN"
}

// Competitor is an opaque participant in matches. It is never mutated once created
type Competitor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewCompetitor creates a competitor with a freshly generated ID
func NewCompetitor(name string) Competitor {
	return Competitor{ID: xid.New().String(), Name: name}
}

// Match is a single fixture between two competitors. Scores are nil until a result is recorded
type Match struct {
	ID        string `json:"id"`
	Group     int    `json:"group"`
	Round     int    `json:"round"`
	HomeID    string `json:"homeId"`
	AwayID    string `json:"awayId"`
	HomeScore *int   `json:"homeScore,omitempty"`
	AwayScore *int   `json:"awayScore,omitempty"`
}

// StandingsRow is one line of a table, derived from completed matches
type StandingsRow struct {
	Competitor   Competitor `json:"competitor"`
	Played       int        `json:"played"`
	Won          int        `json:"won"`
	Drawn        int        `json:"drawn"`
	Lost         int        `json:"lost"`
	GoalsFor     int        `json:"goalsFor"`
	GoalsAgainst int        `json:"goalsAgainst"`
	GoalDiff     int        `json:"goalDiff"`
	Points       int        `json:"points"`
	Rank         int        `json:"rank"`
}

// Scoring is the number of table points awarded for each match outcome
type Scoring struct {
	Win  int `json:"win"`
	Draw int `json:"draw"`
	Loss int `json:"loss"`
}

// DefaultScoring awards 3 points for a win, 1 for a draw and none for a loss
var DefaultScoring = Scoring{Win: 3, Draw: 1, Loss: 0}
