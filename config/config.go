// Package config loads leagued settings from LEAGUE_* environment variables
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/justinjudd/league/simulate"
)

// DefaultDivisions is the five tier career layout, bottom tier first. Places 2 to 4 of every conference play off
// and the brackets are sized so promotions run 38, 19, 10 and 5 up the tiers
const DefaultDivisions = "Open:256:8:4:6,Intermediate:128:8:4:3,Main:64:8:4:2,Premier:32:8:4:1,Invite:16:16"

// DivisionLayout describes one tier of a league. Zero Qualifiers and Brackets keep the division defaults, a negative
// Relegation lets the league relegate as many as the tier below promotes
type DivisionLayout struct {
	Name           string
	Size           int
	ConferenceSize int
	Qualifiers     int
	Brackets       int
	Relegation     int
}

type Config struct {
	League    string
	Divisions []DivisionLayout // bottom tier first
	Seed      int64
	MeanGoals float64

	// Storage
	DBPath string

	// Roster
	Generator string
	CacheDir  string

	// HTTP server
	Addr              string
	CORSAllowOrigins  []string
	RateLimitRequests int
	RateLimitWindow   time.Duration

	LogLevel slog.Level
}

// Load reads configuration from the environment, after loading .env if there is one
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	divisions, err := ParseDivisions(envOr("LEAGUE_DIVISIONS", DefaultDivisions))
	if err != nil {
		return nil, err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(envOr("LEAGUE_LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LEAGUE_LOG_LEVEL: %w", err)
	}

	seed, err := strconv.ParseInt(envOr("LEAGUE_SEED", "1"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("LEAGUE_SEED: %w", err)
	}

	meanGoals, err := strconv.ParseFloat(envOr("LEAGUE_MEAN_GOALS", "2.6"), 64)
	if err != nil || meanGoals <= 0 || meanGoals > simulate.MaxMeanGoals {
		return nil, fmt.Errorf("LEAGUE_MEAN_GOALS must be a number in (0, %d], got %q", simulate.MaxMeanGoals, os.Getenv("LEAGUE_MEAN_GOALS"))
	}

	return &Config{
		League:    envOr("LEAGUE_NAME", "League"),
		Divisions: divisions,
		Seed:      seed,
		MeanGoals: meanGoals,

		DBPath: envOr("LEAGUE_DB_PATH", "league.db"),

		Generator: envOr("LEAGUE_ROSTER", "synthetic"),
		CacheDir:  envOr("LEAGUE_CACHE_DIR", "cache"),

		Addr:              envOr("LEAGUE_HTTP_ADDR", ":8080"),
		CORSAllowOrigins:  envList("LEAGUE_CORS_ORIGINS", []string{"http://localhost:3000"}),
		RateLimitRequests: envInt("LEAGUE_RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   time.Duration(envInt("LEAGUE_RATE_LIMIT_WINDOW", 60)) * time.Second,

		LogLevel: level,
	}, nil
}

// RosterSize is the number of competitors needed to fill every division
func (c *Config) RosterSize() int {
	total := 0
	for _, d := range c.Divisions {
		total += d.Size
	}
	return total
}

// ParseDivisions reads a comma separated list of Name:size:conferenceSize[:qualifiers[:brackets[:relegation]]] tiers,
// bottom tier first
func ParseDivisions(s string) ([]DivisionLayout, error) {
	var out []DivisionLayout
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, ":")
		if len(fields) < 3 || len(fields) > 6 {
			return nil, fmt.Errorf("division %q should look like Name:size:conferenceSize[:qualifiers[:brackets[:relegation]]]", part)
		}
		numbers := []int{0, 0, 0, 0, -1}
		for i, label := range []string{"size", "conference size", "qualifiers", "brackets", "relegation"} {
			if i+1 >= len(fields) {
				break
			}
			n, err := strconv.Atoi(strings.TrimSpace(fields[i+1]))
			if err != nil {
				return nil, fmt.Errorf("division %q %s: %w", part, label, err)
			}
			numbers[i] = n
		}
		out = append(out, DivisionLayout{
			Name:           strings.TrimSpace(fields[0]),
			Size:           numbers[0],
			ConferenceSize: numbers[1],
			Qualifiers:     numbers[2],
			Brackets:       numbers[3],
			Relegation:     numbers[4],
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no divisions in %q", s)
	}
	return out, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
