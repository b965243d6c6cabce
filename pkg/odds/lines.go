// Package odds provides pure conversions between team-strength ratings,
// win probabilities, American moneylines, and decimal odds.
package odds

import (
	"errors"
	"math"
)

// ErrZeroProbability is returned when a conversion would divide by a zero
// probability or price.
var ErrZeroProbability = errors.New("odds: probability is zero")

// ProbFromRatings converts a pair of Elo-style ratings into the home side's
// win probability, plus an additive home-field bonus.
//
// The bonus is applied after the logistic term and is NOT clamped: a home
// probability slightly above 1 (or below 0) is possible and is the caller's
// problem to detect. See ValidProb.
func ProbFromRatings(ratingHome, ratingAway, homeFieldFactor float64) float64 {
	return 1.0/(1.0+math.Pow(10, (ratingAway-ratingHome)/400.0)) + homeFieldFactor
}

// ValidProb reports whether p is a usable probability in [0, 1].
func ValidProb(p float64) bool {
	return p >= 0 && p <= 1 && !math.IsNaN(p)
}

// LinesFromProb converts the home side's win probability into American
// moneylines for both sides. The favorite carries the negative line
// -q/(1-q)*100 where q is the favorite's probability; the underdog carries
// the matching positive line. A coin flip reports 100/100 (pick'em).
func LinesFromProb(homeProb float64) (homeLine, awayLine float64) {
	switch {
	case homeProb > 0.5:
		line := homeProb / (1 - homeProb) * 100
		return -line, line
	case homeProb < 0.5:
		q := 1 - homeProb
		line := q / (1 - q) * 100
		return line, -line
	default:
		return 100, 100
	}
}

// ProbFromLine converts an American moneyline into the implied win
// probability of the side carrying that line.
func ProbFromLine(line float64) float64 {
	if line > 0 {
		return 1.0 / (line/100.0 + 1.0)
	}
	return 1.0 / (100.0/math.Abs(line) + 1.0)
}

// DecimalFromProb converts a win probability into decimal odds (gross payout
// per unit staked). A zero probability has no finite price.
func DecimalFromProb(p float64) (float64, error) {
	if p == 0 {
		return 0, ErrZeroProbability
	}
	return 1.0 / p, nil
}
