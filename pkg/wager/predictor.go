// Package wager simulates fractional-Kelly betting against the quoted prices
// of a replayed season.
package wager

import (
	"github.com/seamhead/pennant-edge/pkg/season"
)

// Predictor produces a home win probability for a game. Implementations
// report false when they have no opinion on the game, and such games are
// never bet.
type Predictor interface {
	// Name identifies the predictor in reports.
	Name() string

	// HomeWinProb returns the probability that the home team wins.
	HomeWinProb(g *season.Game) (float64, bool)
}

// RatingPredictor reads the probability the rating replay attached to each
// game. It is the baseline every learned predictor is measured against.
type RatingPredictor struct{}

func (RatingPredictor) Name() string { return "rating" }

func (RatingPredictor) HomeWinProb(g *season.Game) (float64, bool) {
	if g.HomeModelProb <= 0 || g.HomeModelProb >= 1 {
		return 0, false
	}
	return g.HomeModelProb, true
}

// StaticPredictor serves probabilities from a prepared table keyed by game.
// It adapts externally computed predictions, such as a trained model's
// output, to the simulator.
type StaticPredictor struct {
	ModelName string
	Probs     map[*season.Game]float64
}

func (p *StaticPredictor) Name() string { return p.ModelName }

func (p *StaticPredictor) HomeWinProb(g *season.Game) (float64, bool) {
	prob, ok := p.Probs[g]
	return prob, ok
}
