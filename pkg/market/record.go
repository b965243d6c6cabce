package market

import (
	"github.com/seamhead/pennant-edge/pkg/season"
)

// FavoriteRecord tallies how often the market's favorite won, across all
// quoted games with a recorded winner. closing selects the closing price;
// otherwise the opening price is used. Games priced even count as no-calls.
func FavoriteRecord(tl *season.Timeline, closing bool) (wins, losses, noCalls int) {
	for _, g := range tl.Games() {
		if !g.HasMarket {
			continue
		}
		winner := g.Winner()
		if winner == "" {
			continue
		}
		homeProb := g.HomeOpenProb
		if closing {
			homeProb = g.HomeCloseProb
		}
		switch {
		case homeProb == 0.5:
			noCalls++
		case (homeProb > 0.5) == (winner == g.HomeTeam):
			wins++
		default:
			losses++
		}
	}
	return wins, losses, noCalls
}
