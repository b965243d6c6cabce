package season

import (
	"errors"
	"fmt"

	"github.com/seamhead/pennant-edge/pkg/odds"
	"github.com/seamhead/pennant-edge/pkg/rating"
)

// ErrGameNotPlayed is returned when an unplayed game reaches the
// rating-update step. Callers must filter unplayed games explicitly; a
// silent no-op here would corrupt the rating stream undetected.
var ErrGameNotPlayed = errors.New("season: game has not been played")

// Params are the replay tunables. Zero values are not usable; call Validate
// before constructing a Timeline.
type Params struct {
	SeedRating      float64 // initial rating for an unseen team
	K               float64 // rating update step
	HomeFieldFactor float64 // additive home win-probability bonus
}

// DefaultParams returns the reference tuning.
func DefaultParams() Params {
	return Params{
		SeedRating:      500,
		K:               10,
		HomeFieldFactor: 0.0435,
	}
}

// Validate rejects parameter sets that would produce a silently wrong
// rating stream.
func (p Params) Validate() error {
	if p.K <= 0 {
		return fmt.Errorf("season: K must be positive, got %v", p.K)
	}
	if p.SeedRating <= 0 {
		return fmt.Errorf("season: seed rating must be positive, got %v", p.SeedRating)
	}
	return nil
}

// GameRecord is one entry of the external results feed: a structured game
// row with its raw date string. Scores are nil for games not yet played.
type GameRecord struct {
	Date      string `json:"date"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeScore *int   `json:"home_score"`
	AwayScore *int   `json:"away_score"`
}

// Timeline is one season's ordered sequence of dates. It owns the rating
// table for that season; construction is the only time dates are arranged
// and Replay the only mutation of ratings.
type Timeline struct {
	Year    int
	Dates   []*Date
	Ratings *rating.Table

	params   Params
	replayed bool

	// DroppedDates counts feed rows discarded for unresolvable date strings.
	DroppedDates int

	// Season totals of the model-vs-outcome record, filled by Replay.
	ModelWins    int
	ModelLosses  int
	ModelNoCalls int
	HomeWins     int
	HomeLosses   int
}

// NewTimeline arranges feed records into a season timeline. Records must
// arrive in chronological order; rows on the same calendar day collapse into
// one Date. Rows with unresolvable dates are dropped and counted, never
// fatal. Invalid params are fatal.
func NewTimeline(year int, records []GameRecord, params Params) (*Timeline, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	tl := &Timeline{
		Year:    year,
		Ratings: rating.NewTable(params.SeedRating),
		params:  params,
	}

	var cur *Date
	for _, rec := range records {
		d, err := ParseDate(rec.Date)
		if err != nil {
			tl.DroppedDates++
			continue
		}
		if cur == nil || !cur.SameDay(d) {
			cur = d
			tl.Dates = append(tl.Dates, cur)
		}
		cur.Games = append(cur.Games, NewGame(rec.HomeTeam, rec.HomeScore, rec.AwayTeam, rec.AwayScore))
	}

	return tl, nil
}

// Games returns the season's games flattened in chronological order.
func (tl *Timeline) Games() []*Game {
	var out []*Game
	for _, d := range tl.Dates {
		out = append(out, d.Games...)
	}
	return out
}

// Replay walks the season forward, snapshotting pre-game ratings and the
// model probability onto each game, then exchanging rating points for played
// games. Each game's probability depends only on strictly earlier games, so
// the resulting stream carries no lookahead.
func (tl *Timeline) Replay() error {
	if tl.replayed {
		return errors.New("season: timeline already replayed")
	}
	tl.replayed = true

	for _, d := range tl.Dates {
		for _, g := range d.Games {
			g.HomeRating = tl.Ratings.Rating(g.HomeTeam)
			g.AwayRating = tl.Ratings.Rating(g.AwayTeam)
			g.HomeModelProb = odds.ProbFromRatings(g.HomeRating, g.AwayRating, tl.params.HomeFieldFactor)
			g.HomeLine, g.AwayLine = odds.LinesFromProb(g.HomeModelProb)

			if g.Winner() == "" {
				continue
			}
			if err := tl.applyResult(g); err != nil {
				return err
			}
			tl.recordOutcome(d, g)
		}
		d.CumHomeWins = tl.HomeWins
		d.CumHomeLosses = tl.HomeLosses
	}
	return nil
}

// applyResult feeds one decided game into the rating table.
func (tl *Timeline) applyResult(g *Game) error {
	if !g.Played() {
		return ErrGameNotPlayed
	}
	tl.Ratings.Apply(g.HomeTeam, g.AwayTeam, g.HomeModelProb, g.Winner() == g.HomeTeam, tl.params.K)
	return nil
}

// recordOutcome tallies the model's straight-up call against the result.
func (tl *Timeline) recordOutcome(d *Date, g *Game) {
	homeWon := g.Winner() == g.HomeTeam
	if homeWon {
		d.HomeWins++
		tl.HomeWins++
	} else {
		d.HomeLosses++
		tl.HomeLosses++
	}

	switch {
	case g.HomeModelProb > 0.5 && homeWon, g.HomeModelProb < 0.5 && !homeWon:
		d.ModelWins++
		tl.ModelWins++
	case g.HomeModelProb == 0.5:
		d.ModelNoCalls++
		tl.ModelNoCalls++
	default:
		d.ModelLosses++
		tl.ModelLosses++
	}
}

// SnapshotReturns re-walks the dates accumulating per-unit open/close
// returns onto each Date. Call after the joiner and return computation have
// populated the games' return fields.
func (tl *Timeline) SnapshotReturns() {
	var openSum, closeSum float64
	for _, d := range tl.Dates {
		for _, g := range d.Games {
			openSum += g.OpenReturn
			closeSum += g.CloseReturn
		}
		d.CumOpenReturn = openSum
		d.CumCloseReturn = closeSum
	}
}
