package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinjudd/league/simulate"
)

func TestParseDivisions(t *testing.T) {
	tests := []struct {
		in      string
		want    []DivisionLayout
		wantErr bool
	}{
		{in: "Lower:16:8", want: []DivisionLayout{{Name: "Lower", Size: 16, ConferenceSize: 8, Relegation: -1}}},
		{in: " Lower:16:8 , Upper:8:8,", want: []DivisionLayout{
			{Name: "Lower", Size: 16, ConferenceSize: 8, Relegation: -1},
			{Name: "Upper", Size: 8, ConferenceSize: 8, Relegation: -1},
		}},
		{in: "Lower:16:8:4", want: []DivisionLayout{{Name: "Lower", Size: 16, ConferenceSize: 8, Qualifiers: 4, Relegation: -1}}},
		{in: "Lower:16:8:4:2", want: []DivisionLayout{{Name: "Lower", Size: 16, ConferenceSize: 8, Qualifiers: 4, Brackets: 2, Relegation: -1}}},
		{in: "Lower:16:8:0:0:3", want: []DivisionLayout{{Name: "Lower", Size: 16, ConferenceSize: 8, Relegation: 3}}},
		{in: "", wantErr: true},
		{in: "Lower:16", wantErr: true},
		{in: "Lower:x:8", wantErr: true},
		{in: "Lower:16:y", wantErr: true},
		{in: "Lower:16:8:q", wantErr: true},
		{in: "Lower:16:8:4:2:1:9", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDivisions(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	require.Len(t, c.Divisions, 5)
	assert.Equal(t, DivisionLayout{Name: "Open", Size: 256, ConferenceSize: 8, Qualifiers: 4, Brackets: 6, Relegation: -1}, c.Divisions[0])
	assert.Equal(t, DivisionLayout{Name: "Invite", Size: 16, ConferenceSize: 16, Relegation: -1}, c.Divisions[4])
	assert.Equal(t, simulate.DefaultMeanGoals, c.MeanGoals)
	assert.Equal(t, 496, c.RosterSize())
	assert.Equal(t, int64(1), c.Seed)
	assert.Equal(t, "synthetic", c.Generator)
	assert.Equal(t, slog.LevelInfo, c.LogLevel)
	assert.Equal(t, time.Minute, c.RateLimitWindow)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("LEAGUE_NAME", "CAL")
	t.Setenv("LEAGUE_DIVISIONS", "Lower:16:8,Upper:8:8")
	t.Setenv("LEAGUE_SEED", "42")
	t.Setenv("LEAGUE_LOG_LEVEL", "debug")
	t.Setenv("LEAGUE_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LEAGUE_RATE_LIMIT_REQUESTS", "not a number")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "CAL", c.League)
	assert.Equal(t, 24, c.RosterSize())
	assert.Equal(t, int64(42), c.Seed)
	assert.Equal(t, slog.LevelDebug, c.LogLevel)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.CORSAllowOrigins)
	assert.Equal(t, 60, c.RateLimitRequests)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"LEAGUE_DIVISIONS", "broken"},
		{"LEAGUE_SEED", "seed"},
		{"LEAGUE_LOG_LEVEL", "loud"},
		{"LEAGUE_MEAN_GOALS", "-1"},
		{"LEAGUE_MEAN_GOALS", "50"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
