// Package feature flattens a game's pre-game context into the fixed-width
// vector consumed by the predictor, and caches whole seasons of vectors and
// labels.
package feature

import (
	"github.com/seamhead/pennant-edge/pkg/season"
	"github.com/seamhead/pennant-edge/pkg/window"
)

// VectorWidth is the number of slots in a feature vector.
const VectorWidth = 38

// Slot indices. The order is load-bearing: cached vectors and any trained
// model weights depend on it, so slots are only ever appended, never
// reordered.
const (
	SlotHomeWinPct = iota
	SlotHomeRunsForAvg
	SlotHomeRunsAgainstAvg
	SlotHomeWinPctPriorSeason
	SlotHomeWinPctHome
	SlotHomeRunsForHome
	SlotHomeRunsAgainstHome
	SlotHomeLast10Pct
	SlotHomeRunsForLast10
	SlotHomeRunsAgainstLast10
	SlotHomeLast10Games
	SlotHomeLast10PctHome
	SlotHomeRunsForLast10Home
	SlotHomeRunsAgainstLast10Home
	SlotHomeLast10GamesHome
	SlotHomeHeadToHeadPlayed
	SlotHomeHeadToHeadWinPct
	SlotHomeRunsForHeadToHead
	SlotHomeRunsAgainstHeadToHead
	SlotAwayWinPct
	SlotAwayRunsForAvg
	SlotAwayRunsAgainstAvg
	SlotAwayWinPctPriorSeason
	SlotAwayWinPctAway
	SlotAwayRunsForAway
	SlotAwayRunsAgainstAway
	SlotAwayLast10Pct
	SlotAwayRunsForLast10
	SlotAwayRunsAgainstLast10
	SlotAwayLast10Games
	SlotAwayLast10PctAway
	SlotAwayRunsForLast10Away
	SlotAwayRunsAgainstLast10Away
	SlotAwayLast10GamesAway
	SlotMonth
	SlotDay
	SlotHomeOpenProb
	SlotAwayOpenProb
)

// neutralProb fills the market slots of games no quote matched.
const neutralProb = 0.5

// Vector is one game's flattened pre-game context.
type Vector [VectorWidth]float64

// Key identifies one game's cached vector.
type Key struct {
	Year     int
	Month    int
	Day      int
	HomeTeam string
	AwayTeam string
}

// Row pairs a game's key, vector, and training label.
type Row struct {
	Key    Key
	Vector Vector
	Label  float64
}

// Builder derives feature vectors from a replayed, market-joined timeline
// and its prior season. Schedules and prior-season records are memoized per
// team; the builder never mutates either timeline.
type Builder struct {
	current *season.Timeline
	prior   *season.Timeline

	schedules map[string][]season.TeamDate
	priorPct  map[string]float64
}

// NewBuilder creates a builder over one season and its predecessor. prior
// may be nil, in which case prior-season win fractions are 0.
func NewBuilder(current, prior *season.Timeline) *Builder {
	return &Builder{
		current:   current,
		prior:     prior,
		schedules: make(map[string][]season.TeamDate),
		priorPct:  make(map[string]float64),
	}
}

func (b *Builder) schedule(team string) []season.TeamDate {
	sched, ok := b.schedules[team]
	if !ok {
		sched = b.current.TeamSchedule(team)
		b.schedules[team] = sched
	}
	return sched
}

func (b *Builder) priorWinPct(team string) float64 {
	if b.prior == nil {
		return 0
	}
	pct, ok := b.priorPct[team]
	if !ok {
		pct = b.prior.Record(team).WinPct()
		b.priorPct[team] = pct
	}
	return pct
}

// Vector builds the feature vector for one game on one date. Both teams'
// windows are cut off at the game's date, so the vector sees only strictly
// earlier games.
func (b *Builder) Vector(d *season.Date, g *season.Game) Vector {
	cutoff := d.DayKey()

	home := window.New(b.schedule(g.HomeTeam), season.SideHome).At(cutoff, g.AwayTeam)
	away := window.New(b.schedule(g.AwayTeam), season.SideAway).At(cutoff, g.HomeTeam)

	homeOpen, awayOpen := neutralProb, neutralProb
	if g.HasMarket {
		homeOpen, awayOpen = g.HomeOpenProb, g.AwayOpenProb
	}

	var v Vector
	v[SlotHomeWinPct] = home.Overall.WinPct()
	v[SlotHomeRunsForAvg] = home.Overall.RunsForAvg
	v[SlotHomeRunsAgainstAvg] = home.Overall.RunsAgainstAvg
	v[SlotHomeWinPctPriorSeason] = b.priorWinPct(g.HomeTeam)
	v[SlotHomeWinPctHome] = home.Role.WinPct()
	v[SlotHomeRunsForHome] = home.Role.RunsForAvg
	v[SlotHomeRunsAgainstHome] = home.Role.RunsAgainstAvg
	v[SlotHomeLast10Pct] = home.Last10.WinPct()
	v[SlotHomeRunsForLast10] = home.Last10.RunsForAvg
	v[SlotHomeRunsAgainstLast10] = home.Last10.RunsAgainstAvg
	v[SlotHomeLast10Games] = float64(home.Last10.Games)
	v[SlotHomeLast10PctHome] = home.Last10Role.WinPct()
	v[SlotHomeRunsForLast10Home] = home.Last10Role.RunsForAvg
	v[SlotHomeRunsAgainstLast10Home] = home.Last10Role.RunsAgainstAvg
	v[SlotHomeLast10GamesHome] = float64(home.Last10Role.Games)
	v[SlotHomeHeadToHeadPlayed] = float64(home.HeadToHead.Played)
	v[SlotHomeHeadToHeadWinPct] = home.HeadToHead.WinPct()
	v[SlotHomeRunsForHeadToHead] = home.HeadToHead.RunsForAvg
	v[SlotHomeRunsAgainstHeadToHead] = home.HeadToHead.RunsAgainstAvg
	v[SlotAwayWinPct] = away.Overall.WinPct()
	v[SlotAwayRunsForAvg] = away.Overall.RunsForAvg
	v[SlotAwayRunsAgainstAvg] = away.Overall.RunsAgainstAvg
	v[SlotAwayWinPctPriorSeason] = b.priorWinPct(g.AwayTeam)
	v[SlotAwayWinPctAway] = away.Role.WinPct()
	v[SlotAwayRunsForAway] = away.Role.RunsForAvg
	v[SlotAwayRunsAgainstAway] = away.Role.RunsAgainstAvg
	v[SlotAwayLast10Pct] = away.Last10.WinPct()
	v[SlotAwayRunsForLast10] = away.Last10.RunsForAvg
	v[SlotAwayRunsAgainstLast10] = away.Last10.RunsAgainstAvg
	v[SlotAwayLast10Games] = float64(away.Last10.Games)
	v[SlotAwayLast10PctAway] = away.Last10Role.WinPct()
	v[SlotAwayRunsForLast10Away] = away.Last10Role.RunsForAvg
	v[SlotAwayRunsAgainstLast10Away] = away.Last10Role.RunsAgainstAvg
	v[SlotAwayLast10GamesAway] = float64(away.Last10Role.Games)
	v[SlotMonth] = float64(d.Month)
	v[SlotDay] = float64(d.Day)
	v[SlotHomeOpenProb] = homeOpen
	v[SlotAwayOpenProb] = awayOpen
	return v
}

// BuildSeason flattens the whole season into ordered rows, one per game.
func (b *Builder) BuildSeason() []Row {
	var rows []Row
	for _, d := range b.current.Dates {
		for _, g := range d.Games {
			rows = append(rows, Row{
				Key: Key{
					Year:     d.Year,
					Month:    d.Month,
					Day:      d.Day,
					HomeTeam: g.HomeTeam,
					AwayTeam: g.AwayTeam,
				},
				Vector: b.Vector(d, g),
				Label:  g.Label(),
			})
		}
	}
	return rows
}
