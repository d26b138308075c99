package tournament

const bye = -1

// fixture is a pairing of two seed indexes within a group, scheduled in a round
type fixture struct {
	round      int
	slot       int
	home, away int
}

// roundRobin schedules every pairing of the provided seed indexes exactly once using the circle method.
// Seed order fully determines the schedule. With an odd number of entrants one sits out each round
func roundRobin(seeds []int) []fixture {
	entrants := make([]int, len(seeds))
	copy(entrants, seeds)
	if len(entrants)%2 != 0 {
		entrants = append(entrants, bye)
	}
	n := len(entrants)

	var fixtures []fixture
	for round := 0; round < n-1; round++ {
		slot := 0
		for j := 0; j < n/2; j++ {
			home, away := entrants[j], entrants[n-1-j]
			if home == bye || away == bye {
				continue
			}
			// Alternate the fixed entrant between home and away so nobody hosts every round
			if j == 0 && round%2 == 1 {
				home, away = away, home
			}
			slot++
			fixtures = append(fixtures, fixture{round: round + 1, slot: slot, home: home, away: away})
		}

		// Rotate everyone except the first entrant
		last := entrants[n-1]
		copy(entrants[2:], entrants[1:n-1])
		entrants[1] = last
	}

	return fixtures
}

// roundCount is how many rounds a round robin between n entrants needs
func roundCount(n int) int {
	if n < 2 {
		return 0
	}
	if n%2 != 0 {
		return n
	}
	return n - 1
}
