package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcome(t *testing.T) {
	m := Match{ID: "m", HomeID: "a", AwayID: "b"}
	_, _, _, ok := Outcome(m, "a", DefaultScoring)
	assert.False(t, ok)
	assert.False(t, IsComplete(m))

	m.HomeScore = IntPtr(3)
	assert.False(t, IsComplete(m))
	m.AwayScore = IntPtr(1)
	assert.True(t, IsComplete(m))

	tests := []struct {
		id             string
		points, gf, ga int
		ok             bool
	}{
		{"a", 3, 3, 1, true},
		{"b", 0, 1, 3, true},
		{"c", 0, 0, 0, false},
	}
	for _, tt := range tests {
		points, gf, ga, ok := Outcome(m, tt.id, DefaultScoring)
		assert.Equal(t, tt.ok, ok, tt.id)
		assert.Equal(t, tt.points, points, tt.id)
		assert.Equal(t, tt.gf, gf, tt.id)
		assert.Equal(t, tt.ga, ga, tt.id)
	}

	draw := Match{HomeID: "a", AwayID: "b", HomeScore: IntPtr(2), AwayScore: IntPtr(2)}
	points, _, _, _ := Outcome(draw, "b", Scoring{Win: 2, Draw: 1})
	assert.Equal(t, 1, points)
}

func TestInvolves(t *testing.T) {
	m := Match{HomeID: "a", AwayID: "b"}
	assert.True(t, Involves(m, "a"))
	assert.True(t, Involves(m, "b"))
	assert.False(t, Involves(m, "c"))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "GROUP_STAGE_DONE", Phase_GROUP_STAGE_DONE.String())
	assert.Equal(t, "FINALIZED", Phase_FINALIZED.String())
	assert.Equal(t, "UNKNOWN", Phase(42).String())
}

func TestNewCompetitor(t *testing.T) {
	a, b := NewCompetitor("A"), NewCompetitor("A")
	assert.Equal(t, "A", a.Name)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}
