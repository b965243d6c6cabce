package wager

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/seamhead/pennant-edge/pkg/market"
	"github.com/seamhead/pennant-edge/pkg/odds"
	"github.com/seamhead/pennant-edge/pkg/season"
)

// PriceKind selects which of a game's two quoted prices a simulation bets
// against.
type PriceKind int

const (
	PriceOpen PriceKind = iota
	PriceClose
)

func (k PriceKind) String() string {
	if k == PriceClose {
		return "close"
	}
	return "open"
}

// Params tunes a simulation run.
type Params struct {
	// EdgeThreshold is the minimum relative advantage before a bet is sized.
	EdgeThreshold float64

	// KellyFraction scales the full Kelly stake. 0.5 bets half Kelly.
	KellyFraction float64

	// StakeCap is the most a single bet may risk regardless of bankroll.
	StakeCap decimal.Decimal

	// InitialBankroll is the starting bankroll.
	InitialBankroll decimal.Decimal
}

// DefaultParams returns the standard half-Kelly configuration with a unit
// bankroll and a unit stake cap.
func DefaultParams() Params {
	return Params{
		EdgeThreshold:   market.DefaultEdgeThreshold,
		KellyFraction:   0.5,
		StakeCap:        decimal.NewFromInt(1),
		InitialBankroll: decimal.NewFromInt(1),
	}
}

// Validate rejects parameter sets that cannot produce a meaningful run.
func (p Params) Validate() error {
	if p.KellyFraction <= 0 || p.KellyFraction > 1 {
		return fmt.Errorf("wager: kelly fraction %v out of (0, 1]", p.KellyFraction)
	}
	if !p.InitialBankroll.IsPositive() {
		return fmt.Errorf("wager: initial bankroll %s is not positive", p.InitialBankroll)
	}
	if !p.StakeCap.IsPositive() {
		return fmt.Errorf("wager: stake cap %s is not positive", p.StakeCap)
	}
	return nil
}

// Bet records one placed wager.
type Bet struct {
	Date     string
	HomeTeam string
	AwayTeam string
	Side     season.Side
	Stake    decimal.Decimal
	Decimal  float64
	ROI      float64
	Won      bool
	Push     bool
}

// Result summarizes a simulation run.
type Result struct {
	RunID           string
	Predictor       string
	Price           PriceKind
	InitialBankroll decimal.Decimal
	FinalBankroll   decimal.Decimal
	BankrollCurve   []decimal.Decimal
	Bets            []Bet
	Wins            int
	Losses          int
	Pushes          int
	AvgROI          float64
}

// Simulator replays a season's chosen sides against its quoted prices.
type Simulator struct {
	params Params
}

func NewSimulator(params Params) (*Simulator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{params: params}, nil
}

// Run bets every game whose chosen side for the given price kind is set and
// whose predictor probability is available, in season order. The bankroll
// curve holds one point per bet, taken after settlement. A bet never risks
// more than the current bankroll, so the bankroll cannot go negative.
func (s *Simulator) Run(tl *season.Timeline, predictor Predictor, kind PriceKind) (*Result, error) {
	res := &Result{
		RunID:           uuid.NewString(),
		Predictor:       predictor.Name(),
		Price:           kind,
		InitialBankroll: s.params.InitialBankroll,
		BankrollCurve:   []decimal.Decimal{s.params.InitialBankroll},
	}
	bankroll := s.params.InitialBankroll
	roiSum := 0.0

	for _, d := range tl.Dates {
		for _, g := range d.Games {
			side := chosenSide(g, kind)
			if side == season.SideNone {
				continue
			}
			homeProb, ok := predictor.HomeWinProb(g)
			if !ok {
				continue
			}
			implied := impliedProb(g, side, kind)
			model := homeProb
			if side == season.SideAway {
				model = 1 - homeProb
			}

			dec, err := odds.DecimalFromProb(implied)
			if err != nil {
				return nil, fmt.Errorf("wager: %s at %s on %s: %w", g.AwayTeam, g.HomeTeam, d, err)
			}
			stake := s.stake(bankroll, model, implied)
			if !stake.IsPositive() {
				continue
			}

			bet := Bet{
				Date:     d.String(),
				HomeTeam: g.HomeTeam,
				AwayTeam: g.AwayTeam,
				Side:     side,
				Stake:    stake,
				Decimal:  dec,
			}
			switch g.Winner() {
			case "":
				bet.Push = true
				bet.ROI = 0
				res.Pushes++
			case sideTeam(g, side):
				bet.Won = true
				bet.ROI = dec - 1
				bankroll = bankroll.Add(stake.Mul(decimal.NewFromFloat(dec - 1)))
				res.Wins++
			default:
				bet.ROI = -1
				bankroll = bankroll.Sub(stake)
				res.Losses++
			}
			roiSum += bet.ROI
			res.Bets = append(res.Bets, bet)
			res.BankrollCurve = append(res.BankrollCurve, bankroll)
		}
	}

	res.FinalBankroll = bankroll
	if n := len(res.Bets); n > 0 {
		res.AvgROI = roiSum / float64(n)
	}
	return res, nil
}

// stake sizes a bet at a fraction of the Kelly optimum, capped by both the
// configured stake cap and the bankroll itself.
func (s *Simulator) stake(bankroll decimal.Decimal, modelProb, impliedProb float64) decimal.Decimal {
	adv := market.Advantage(modelProb, impliedProb)
	if adv <= s.params.EdgeThreshold {
		return decimal.Zero
	}
	payout := 1/impliedProb - 1
	if payout <= 0 {
		return decimal.Zero
	}
	f := adv / payout * s.params.KellyFraction
	stake := bankroll.Mul(decimal.NewFromFloat(f))
	if stake.GreaterThan(s.params.StakeCap) {
		stake = s.params.StakeCap
	}
	if stake.GreaterThan(bankroll) {
		stake = bankroll
	}
	return stake
}

// UnitReturns writes each chosen side's per-unit payoff onto its game, for
// both price kinds: the decimal payout minus one on a win, -1 on a loss, and
// 0 when no bet or no winner. Date-level cumulative return counters are
// derived from these by season.Timeline.SnapshotReturns.
func UnitReturns(tl *season.Timeline) {
	for _, g := range tl.Games() {
		g.OpenReturn = unitReturn(g, PriceOpen)
		g.CloseReturn = unitReturn(g, PriceClose)
	}
}

func unitReturn(g *season.Game, kind PriceKind) float64 {
	side := chosenSide(g, kind)
	if side == season.SideNone {
		return 0
	}
	winner := g.Winner()
	if winner == "" {
		return 0
	}
	implied := impliedProb(g, side, kind)
	dec, err := odds.DecimalFromProb(implied)
	if err != nil {
		return 0
	}
	if winner == sideTeam(g, side) {
		return dec - 1
	}
	return -1
}

func chosenSide(g *season.Game, kind PriceKind) season.Side {
	if kind == PriceClose {
		return g.ChosenSideClose
	}
	return g.ChosenSideOpen
}

func impliedProb(g *season.Game, side season.Side, kind PriceKind) float64 {
	if kind == PriceClose {
		if side == season.SideHome {
			return g.HomeCloseProb
		}
		return g.AwayCloseProb
	}
	if side == season.SideHome {
		return g.HomeOpenProb
	}
	return g.AwayOpenProb
}

func sideTeam(g *season.Game, side season.Side) string {
	if side == season.SideHome {
		return g.HomeTeam
	}
	return g.AwayTeam
}
