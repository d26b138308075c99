package tournament

import (
	"github.com/justinjudd/league/models"
)

// chunk splits competitors into contiguous groups of size, preserving seed order.
// A trailing group of a single competitor can't play anyone, so it folds into the group before it
func chunk(competitors []models.Competitor, size int) [][]models.Competitor {
	if size <= 0 || size >= len(competitors) {
		return [][]models.Competitor{competitors}
	}

	var groups [][]models.Competitor
	for start := 0; start < len(competitors); start += size {
		end := start + size
		if end > len(competitors) {
			end = len(competitors)
		}
		groups = append(groups, competitors[start:end])
	}

	if last := groups[len(groups)-1]; len(last) == 1 && len(groups) > 1 {
		prev := groups[len(groups)-2]
		merged := make([]models.Competitor, 0, len(prev)+1)
		merged = append(merged, prev...)
		merged = append(merged, last...)
		groups = append(groups[:len(groups)-2], merged)
	}

	return groups
}

// distribute deals competitors into count groups round-robin style, so group sizes never differ by more than one
func distribute(competitors []models.Competitor, count int) [][]models.Competitor {
	if count <= 0 {
		return nil
	}
	groups := make([][]models.Competitor, count)
	for i, c := range competitors {
		groups[i%count] = append(groups[i%count], c)
	}
	return groups
}

// bracketCount decides how many promotion brackets a qualifier pool of poolSize is split into.
// An explicit count wins, otherwise the pool is divided by the target bracket size. Every bracket needs at least two entrants
func bracketCount(poolSize, target, explicit int) int {
	if poolSize < 2 {
		return 0
	}
	count := explicit
	if count <= 0 && target > 0 {
		count = poolSize / target
	}
	if count < 1 {
		count = 1
	}
	if limit := poolSize / 2; count > limit {
		count = limit
	}
	return count
}

func copyCompetitors(competitors []models.Competitor) []models.Competitor {
	out := make([]models.Competitor, len(competitors))
	copy(out, competitors)
	return out
}

func idSet(lists ...[]models.Competitor) map[string]bool {
	set := map[string]bool{}
	for _, list := range lists {
		for _, c := range list {
			set[c.ID] = true
		}
	}
	return set
}
