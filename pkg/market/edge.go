package market

import (
	"github.com/seamhead/pennant-edge/pkg/season"
)

// DefaultEdgeThreshold is the minimum relative advantage a side must show
// before it is chosen.
const DefaultEdgeThreshold = 0.1

// Advantage is the relative excess of a model probability over the market's
// implied probability for the same side. Zero or negative means the market
// already prices the side at least as high as the model does.
func Advantage(modelProb, impliedProb float64) float64 {
	if impliedProb <= 0 {
		return 0
	}
	return modelProb/impliedProb - 1
}

// SideSelector marks the side of each quoted game whose model probability
// clears the market price by more than the threshold, separately for the
// opening and closing prices. The home side is tested first; a game where
// neither side clears keeps SideNone.
type SideSelector struct {
	threshold float64
}

func NewSideSelector(threshold float64) *SideSelector {
	return &SideSelector{threshold: threshold}
}

// Choose fills ChosenSideOpen and ChosenSideClose for every game carrying
// both a market and a model probability, and returns how many games got at
// least one chosen side. homeProb maps a game to the model's home win
// probability; games it reports false for are skipped.
func (s *SideSelector) Choose(tl *season.Timeline, homeProb func(*season.Game) (float64, bool)) int {
	chosen := 0
	for _, g := range tl.Games() {
		if !g.HasMarket {
			continue
		}
		p, ok := homeProb(g)
		if !ok {
			continue
		}
		g.ChosenSideOpen = s.pick(p, g.HomeOpenProb, g.AwayOpenProb)
		g.ChosenSideClose = s.pick(p, g.HomeCloseProb, g.AwayCloseProb)
		if g.ChosenSideOpen != season.SideNone || g.ChosenSideClose != season.SideNone {
			chosen++
		}
	}
	return chosen
}

func (s *SideSelector) pick(homeModelProb, homeImplied, awayImplied float64) season.Side {
	if Advantage(homeModelProb, homeImplied) > s.threshold {
		return season.SideHome
	}
	if Advantage(1-homeModelProb, awayImplied) > s.threshold {
		return season.SideAway
	}
	return season.SideNone
}
