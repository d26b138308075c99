package roster

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/justinjudd/league/models"
)

var adjectives = []string{
	"Agile", "Bold", "Brave", "Calm", "Clever", "Daring", "Eager", "Fierce", "Gentle", "Grim",
	"Hasty", "Jolly", "Keen", "Lucky", "Mighty", "Nimble", "Proud", "Quick", "Rapid", "Silent",
	"Sly", "Steady", "Swift", "Tough", "Vivid", "Wild", "Wise", "Zany",
}

var animals = []string{
	"Badgers", "Bears", "Cobras", "Condors", "Coyotes", "Eagles", "Falcons", "Ferrets", "Foxes", "Hawks",
	"Hornets", "Jackals", "Lynxes", "Mantises", "Otters", "Owls", "Panthers", "Pumas", "Ravens", "Rhinos",
	"Sharks", "Stags", "Tigers", "Vipers", "Wasps", "Wolves", "Wombats", "Yaks",
}

// Synthetic makes up adjective and animal team names. The same seed always gives the same roster
type Synthetic struct {
	seed  int64
	count int
}

// NewSynthetic creates a generator of count competitors
func NewSynthetic(seed int64, count int) (*Synthetic, error) {
	if count < 1 {
		return nil, fmt.Errorf("synthetic roster needs a positive count, got %d", count)
	}
	return &Synthetic{seed: seed, count: count}, nil
}

func (s *Synthetic) Generate(ctx context.Context) ([]models.Competitor, error) {
	rng := rand.New(rand.NewSource(s.seed))
	used := map[string]int{}
	out := make([]models.Competitor, 0, s.count)
	for i := 0; i < s.count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := adjectives[rng.Intn(len(adjectives))] + " " + animals[rng.Intn(len(animals))]
		used[name]++
		if n := used[name]; n > 1 {
			name = fmt.Sprintf("%s %d", name, n)
		}
		out = append(out, models.Competitor{ID: fmt.Sprintf("syn-%d-%d", s.seed, i+1), Name: name})
	}
	return out, nil
}
