package models

// IsComplete determines if a match has a recorded result. Both scores must be present
func IsComplete(m Match) bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

// Involves reports whether the competitor with the given ID plays in the match
func Involves(m Match, competitorID string) bool {
	return m.HomeID == competitorID || m.AwayID == competitorID
}

// Outcome returns the table points and goals for and against the given competitor in a completed match.
// ok is false if the match isn't complete or the competitor isn't part of it
func Outcome(m Match, competitorID string, s Scoring) (points, goalsFor, goalsAgainst int, ok bool) {
	if !IsComplete(m) || !Involves(m, competitorID) {
		return 0, 0, 0, false
	}
	goalsFor, goalsAgainst = *m.HomeScore, *m.AwayScore
	if competitorID == m.AwayID {
		goalsFor, goalsAgainst = goalsAgainst, goalsFor
	}
	switch {
	case goalsFor > goalsAgainst:
		points = s.Win
	case goalsFor < goalsAgainst:
		points = s.Loss
	default:
		points = s.Draw
	}
	return points, goalsFor, goalsAgainst, true
}

// IntPtr returns a pointer to a copy of v
func IntPtr(v int) *int {
	return &v
}
