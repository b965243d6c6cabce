package market

import (
	"fmt"

	"github.com/seamhead/pennant-edge/pkg/odds"
	"github.com/seamhead/pennant-edge/pkg/season"
)

// Quote is one leg of a market price pair. The feed emits two legs per game
// in a fixed order, the away team's leg first and the home team's second.
// DateCode packs month and day as MMDD. Score is nil when the feed row did
// not carry a final score.
type Quote struct {
	DateCode   int     `json:"date_code"`
	TeamAbbrev string  `json:"team"`
	OpenLine   float64 `json:"open_line"`
	CloseLine  float64 `json:"close_line"`
	Score      *int    `json:"score"`
}

// Month returns the month encoded in DateCode.
func (q Quote) Month() int { return q.DateCode / 100 }

// Day returns the day of month encoded in DateCode.
func (q Quote) Day() int { return q.DateCode % 100 }

// Report summarizes a join pass for diagnostics.
type Report struct {
	Pairs      int
	Matched    int
	Unmatched  int
	Unresolved int
}

// Joiner attaches quote pairs to the games of a replayed timeline.
type Joiner struct {
	resolver *Resolver
}

func NewJoiner(resolver *Resolver) *Joiner {
	return &Joiner{resolver: resolver}
}

// Join walks the quote stream two legs at a time and attaches each pair to
// the first game that matches its date, teams, and scores. Pairs that cannot
// be resolved or matched are dropped and counted; they never abort the pass.
// A stream with an odd number of legs is a feed fault.
func (j *Joiner) Join(tl *season.Timeline, quotes []Quote) (Report, error) {
	if len(quotes)%2 != 0 {
		return Report{}, fmt.Errorf("market: quote stream has %d legs, want an even count", len(quotes))
	}

	var report Report
	for i := 0; i+1 < len(quotes); i += 2 {
		away, home := quotes[i], quotes[i+1]
		report.Pairs++

		awayName, okA := j.resolver.Resolve(away.TeamAbbrev)
		homeName, okH := j.resolver.Resolve(home.TeamAbbrev)
		if !okA || !okH {
			report.Unresolved++
			continue
		}

		game := j.findGame(tl, home, homeName, awayName, away.Score, home.Score)
		if game == nil {
			report.Unmatched++
			continue
		}
		attach(game, away, home)
		report.Matched++
	}
	return report, nil
}

// findGame scans the timeline in date order and returns the first game whose
// calendar day, teams, and recorded scores all agree with the quote pair.
func (j *Joiner) findGame(tl *season.Timeline, home Quote, homeName, awayName string, awayScore, homeScore *int) *season.Game {
	for _, d := range tl.Dates {
		if d.Month != home.Month() || d.Day != home.Day() {
			continue
		}
		for _, g := range d.Games {
			if g.HasMarket {
				continue
			}
			if g.HomeTeam != homeName || g.AwayTeam != awayName {
				continue
			}
			if !scoreMatches(g.HomeScore, homeScore) || !scoreMatches(g.AwayScore, awayScore) {
				continue
			}
			return g
		}
	}
	return nil
}

func scoreMatches(recorded, quoted *int) bool {
	if quoted == nil {
		return true
	}
	return recorded != nil && *recorded == *quoted
}

// attach copies the pair's prices onto the game and derives implied
// probabilities for each leg.
func attach(g *season.Game, away, home Quote) {
	g.HasMarket = true
	g.AwayOpenLine = away.OpenLine
	g.AwayCloseLine = away.CloseLine
	g.HomeOpenLine = home.OpenLine
	g.HomeCloseLine = home.CloseLine
	g.AwayOpenProb = odds.ProbFromLine(away.OpenLine)
	g.AwayCloseProb = odds.ProbFromLine(away.CloseLine)
	g.HomeOpenProb = odds.ProbFromLine(home.OpenLine)
	g.HomeCloseProb = odds.ProbFromLine(home.CloseLine)
}
