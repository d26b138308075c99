// Package simulate provides match simulators that feed results into a league
package simulate

import (
	"math"
	"math/rand"

	"github.com/justinjudd/league/models"
)

// DefaultMeanGoals is the average number of goals scored in a simulated match
const DefaultMeanGoals = 2.6

// MaxMeanGoals bounds the match average so sampling stays fast and exp(-mean) stays well above zero
const MaxMeanGoals = 20

// Poisson scores matches by drawing each side's goals from a Poisson distribution.
// Each competitor's share of the expected goals is proportional to its strength, and unknown competitors have strength 1.
// A Poisson isn't safe for concurrent use
type Poisson struct {
	rng       *rand.Rand
	meanGoals float64
	homeBoost float64
	strength  map[string]float64
}

// NewPoisson creates a simulator whose results are fully determined by seed
func NewPoisson(seed int64, meanGoals float64) *Poisson {
	if meanGoals <= 0 {
		meanGoals = DefaultMeanGoals
	}
	if meanGoals > MaxMeanGoals {
		meanGoals = MaxMeanGoals
	}
	return &Poisson{
		rng:       rand.New(rand.NewSource(seed)),
		meanGoals: meanGoals,
		homeBoost: 1.1,
		strength:  map[string]float64{},
	}
}

// SetStrength rates a competitor relative to the field. Non positive strengths are ignored
func (p *Poisson) SetStrength(competitorID string, strength float64) {
	if strength <= 0 {
		return
	}
	p.strength[competitorID] = strength
}

// SetHomeAdvantage scales the home side's strength. 1 means no advantage
func (p *Poisson) SetHomeAdvantage(boost float64) {
	if boost > 0 {
		p.homeBoost = boost
	}
}

func (p *Poisson) strengthOf(id string) float64 {
	if s, ok := p.strength[id]; ok {
		return s
	}
	return 1
}

func (p *Poisson) Simulate(m models.Match) (int, int) {
	home := p.strengthOf(m.HomeID) * p.homeBoost
	away := p.strengthOf(m.AwayID)
	total := home + away

	return p.sample(home / total * p.meanGoals), p.sample(away / total * p.meanGoals)
}

// sample draws from a Poisson distribution with mean lambda using Knuth's method
func (p *Poisson) sample(lambda float64) int {
	limit := math.Exp(-lambda)
	product := 1.0
	k := 0
	for {
		product *= p.rng.Float64()
		if product <= limit {
			return k
		}
		k++
	}
}
