// Package season models a chronological season of two-team games and the
// forward replay that derives pre-game ratings and model probabilities
// without lookahead.
package season

// Side identifies which side of a game a bet or statistic refers to.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
	SideNone Side = "none"
)

// Game is one contest. Scores are nil until the game has been played and are
// never mutated once set. The rating, line, market, and return fields are
// filled in by later pipeline stages, each written exactly once.
type Game struct {
	HomeTeam  string
	AwayTeam  string
	HomeScore *int
	AwayScore *int

	// Filled by Timeline.Replay: pre-game ratings and the model's view.
	HomeRating    float64
	AwayRating    float64
	HomeModelProb float64
	HomeLine      float64
	AwayLine      float64

	// Filled by the market joiner.
	HomeOpenLine  float64
	HomeCloseLine float64
	AwayOpenLine  float64
	AwayCloseLine float64
	HomeOpenProb  float64
	HomeCloseProb float64
	AwayOpenProb  float64
	AwayCloseProb float64
	HasMarket     bool

	ChosenSideOpen  Side
	ChosenSideClose Side

	// Per-unit-wagered payoff for the chosen side, 0 when no bet was placed.
	OpenReturn  float64
	CloseReturn float64
}

// NewGame builds a game from raw scores. Either score may be nil for a game
// that has not been played.
func NewGame(homeTeam string, homeScore *int, awayTeam string, awayScore *int) *Game {
	return &Game{
		HomeTeam:        homeTeam,
		AwayTeam:        awayTeam,
		HomeScore:       homeScore,
		AwayScore:       awayScore,
		ChosenSideOpen:  SideNone,
		ChosenSideClose: SideNone,
	}
}

// Played reports whether both scores are recorded.
func (g *Game) Played() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// Winner returns the winning team name, or "" if the game is unplayed or
// drawn.
func (g *Game) Winner() string {
	switch {
	case !g.Played():
		return ""
	case *g.HomeScore > *g.AwayScore:
		return g.HomeTeam
	case *g.AwayScore > *g.HomeScore:
		return g.AwayTeam
	default:
		return ""
	}
}

// Loser returns the losing team name, or "" if the game is unplayed or drawn.
func (g *Game) Loser() string {
	switch {
	case !g.Played():
		return ""
	case *g.HomeScore > *g.AwayScore:
		return g.AwayTeam
	case *g.AwayScore > *g.HomeScore:
		return g.HomeTeam
	default:
		return ""
	}
}

// Label is the training target: 1 for a home win, 0 for an away win, 0.5 for
// a game with no recorded winner.
func (g *Game) Label() float64 {
	switch g.Winner() {
	case g.HomeTeam:
		return 1
	case g.AwayTeam:
		return 0
	default:
		return 0.5
	}
}
