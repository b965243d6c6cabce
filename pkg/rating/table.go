// Package rating maintains per-team strength ratings updated game by game.
package rating

import "sort"

// Table maps team names to Elo-style strength ratings. A Table belongs to
// exactly one season's replay; it must not be shared across seasons and must
// only be mutated in chronological game order.
type Table struct {
	seed    float64
	ratings map[string]float64
}

// NewTable creates an empty table. Teams are seeded at seed on first sight.
func NewTable(seed float64) *Table {
	return &Table{
		seed:    seed,
		ratings: make(map[string]float64),
	}
}

// Rating returns the team's current rating, seeding the team first if it has
// never been seen.
func (t *Table) Rating(team string) float64 {
	r, ok := t.ratings[team]
	if !ok {
		t.ratings[team] = t.seed
		return t.seed
	}
	return r
}

// Apply performs the post-game rating exchange. homeProb is the pre-game home
// win probability and k the update step. The exchange is zero-sum: the
// winner's gain equals the loser's loss exactly.
func (t *Table) Apply(home, away string, homeProb float64, homeWon bool, k float64) {
	if homeWon {
		delta := k * (1 - homeProb)
		t.ratings[home] = t.Rating(home) + delta
		t.ratings[away] = t.Rating(away) - delta
	} else {
		delta := k * homeProb
		t.ratings[home] = t.Rating(home) - delta
		t.ratings[away] = t.Rating(away) + delta
	}
}

// Len returns the number of teams seen so far.
func (t *Table) Len() int { return len(t.ratings) }

// Entry is one row of a rating leaderboard.
type Entry struct {
	Team   string
	Rating float64
}

// Leaderboard returns all teams sorted by rating, strongest first.
func (t *Table) Leaderboard() []Entry {
	out := make([]Entry, 0, len(t.ratings))
	for team, r := range t.ratings {
		out = append(out, Entry{Team: team, Rating: r})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].Team < out[j].Team
	})
	return out
}
