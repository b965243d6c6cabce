// Package window computes rolling statistics over a team's chronological
// game history: season-to-date, last-10, role-restricted, and head-to-head
// splits, all cut off strictly before a target date.
//
// Every derived ratio is guarded: an empty window yields 0, never a fault,
// so the season's first game still produces a complete feature set.
package window

import "github.com/seamhead/pennant-edge/pkg/season"

// lastWindowSize is the target depth of the recent-form windows. The walk
// consumes whole dates, so a doubleheader on the boundary date can push the
// window to eleven games; near season start it holds fewer.
const lastWindowSize = 10

// Split is a season-to-date slice of a team's record with scoring averages.
type Split struct {
	Wins           int
	Played         int
	RunsForAvg     float64
	RunsAgainstAvg float64
}

// WinPct is the split's win fraction, 0 when the split is empty.
func (s Split) WinPct() float64 {
	if s.Played == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Played)
}

// Recent is a backward-looking window of the most recent games.
type Recent struct {
	Wins           int
	Games          int
	RunsForAvg     float64
	RunsAgainstAvg float64
}

// WinPct is the window's win fraction, 0 when the window is empty.
func (r Recent) WinPct() float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Games)
}

// Stats bundles every rolling view of one team going into one game.
type Stats struct {
	Overall    Split // all games before the cutoff
	Role       Split // games in the aggregator's role (home or away) only
	HeadToHead Split // games against the designated opponent only
	Last10     Recent
	Last10Role Recent
}

// Aggregator scans one team's schedule. The role selects which side's splits
// the Role and Last10Role views restrict to: the home team of a matchup is
// aggregated in its home role, the away team in its away role.
type Aggregator struct {
	schedule []season.TeamDate
	homeRole bool
}

// New creates an aggregator over a team's schedule projection.
func New(schedule []season.TeamDate, role season.Side) *Aggregator {
	return &Aggregator{schedule: schedule, homeRole: role == season.SideHome}
}

// At computes the full statistics bundle for games strictly before the
// cutoff day key (month*32+day), head-to-head against opponent. It reads
// only the schedule it was built over, so recomputation is idempotent.
func (a *Aggregator) At(cutoffKey int, opponent string) Stats {
	var st Stats
	var overallFor, overallAgainst int
	var roleFor, roleAgainst int
	var h2hFor, h2hAgainst int

	// First date at or past the cutoff; everything before it is history.
	horizon := len(a.schedule)
	for i, td := range a.schedule {
		if td.Date.DayKey() >= cutoffKey {
			horizon = i
			break
		}
	}

	for _, td := range a.schedule[:horizon] {
		for _, tg := range td.Games {
			if !tg.Played {
				continue
			}
			st.Overall.Played++
			overallFor += tg.RunsFor
			overallAgainst += tg.RunsAgainst
			if tg.Won {
				st.Overall.Wins++
			}

			if tg.Home == a.homeRole {
				st.Role.Played++
				roleFor += tg.RunsFor
				roleAgainst += tg.RunsAgainst
				if tg.Won {
					st.Role.Wins++
				}
			}

			if tg.Opponent == opponent {
				st.HeadToHead.Played++
				h2hFor += tg.RunsFor
				h2hAgainst += tg.RunsAgainst
				if tg.Won {
					st.HeadToHead.Wins++
				}
			}
		}
	}

	st.Overall.RunsForAvg = avg(overallFor, st.Overall.Played)
	st.Overall.RunsAgainstAvg = avg(overallAgainst, st.Overall.Played)
	st.Role.RunsForAvg = avg(roleFor, st.Role.Played)
	st.Role.RunsAgainstAvg = avg(roleAgainst, st.Role.Played)
	st.HeadToHead.RunsForAvg = avg(h2hFor, st.HeadToHead.Played)
	st.HeadToHead.RunsAgainstAvg = avg(h2hAgainst, st.HeadToHead.Played)

	st.Last10 = a.recent(horizon, false)
	st.Last10Role = a.recent(horizon, true)
	return st
}

// recent walks dates backward from the horizon, consuming whole dates until
// the window holds at least lastWindowSize games or history runs out.
func (a *Aggregator) recent(horizon int, roleOnly bool) Recent {
	var r Recent
	var runsFor, runsAgainst int
	for i := horizon - 1; i >= 0 && r.Games < lastWindowSize; i-- {
		for _, tg := range a.schedule[i].Games {
			if !tg.Played {
				continue
			}
			if roleOnly && tg.Home != a.homeRole {
				continue
			}
			r.Games++
			runsFor += tg.RunsFor
			runsAgainst += tg.RunsAgainst
			if tg.Won {
				r.Wins++
			}
		}
	}
	r.RunsForAvg = avg(runsFor, r.Games)
	r.RunsAgainstAvg = avg(runsAgainst, r.Games)
	return r
}

func avg(sum, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}
