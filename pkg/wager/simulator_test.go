package wager

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/seamhead/pennant-edge/pkg/season"
)

func intp(n int) *int { return &n }

// quotedTimeline builds one quoted game per record with the given home open
// probability, model probability, and home-side choice already made.
func quotedTimeline(t *testing.T, records []season.GameRecord, homeOpenProb, modelProb float64) *season.Timeline {
	t.Helper()
	tl, err := season.NewTimeline(2026, records, season.Params{SeedRating: 500, K: 10})
	if err != nil {
		t.Fatalf("NewTimeline: %v", err)
	}
	for _, g := range tl.Games() {
		g.HasMarket = true
		g.HomeOpenProb = homeOpenProb
		g.AwayOpenProb = 1 - homeOpenProb
		g.HomeCloseProb = homeOpenProb
		g.AwayCloseProb = 1 - homeOpenProb
		g.HomeModelProb = modelProb
		g.ChosenSideOpen = season.SideHome
		g.ChosenSideClose = season.SideHome
	}
	return tl
}

func approxEq(d decimal.Decimal, want float64) bool {
	return math.Abs(d.InexactFloat64()-want) < 1e-9
}

func TestRun_WinningBet(t *testing.T) {
	tl := quotedTimeline(t, []season.GameRecord{
		{Date: "2026-04-06", HomeTeam: "Harbor", AwayTeam: "Mesa", HomeScore: intp(4), AwayScore: intp(2)},
	}, 0.6, 0.75)

	sim, err := NewSimulator(DefaultParams())
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	res, err := sim.Run(tl, RatingPredictor{}, PriceOpen)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Bets) != 1 || res.Wins != 1 {
		t.Fatalf("bets = %d, wins = %d, want 1 and 1", len(res.Bets), res.Wins)
	}
	bet := res.Bets[0]
	// Advantage 0.25 on a 2/3 payout, halved: stake 0.1875 of the bankroll.
	if !approxEq(bet.Stake, 0.1875) {
		t.Errorf("stake = %s, want 0.1875", bet.Stake)
	}
	if math.Abs(bet.Decimal-1/0.6) > 1e-12 {
		t.Errorf("decimal odds = %v, want %v", bet.Decimal, 1/0.6)
	}
	// Won at 2/3 payout: 1 + 0.1875 * 2/3 = 1.125.
	if !approxEq(res.FinalBankroll, 1.125) {
		t.Errorf("final bankroll = %s, want 1.125", res.FinalBankroll)
	}
	if math.Abs(res.AvgROI-(1/0.6-1)) > 1e-9 {
		t.Errorf("avg ROI = %v, want %v", res.AvgROI, 1/0.6-1)
	}
	if len(res.BankrollCurve) != 2 {
		t.Errorf("curve points = %d, want 2", len(res.BankrollCurve))
	}
	if res.RunID == "" {
		t.Error("run ID is empty")
	}
}

func TestRun_LosingBet(t *testing.T) {
	tl := quotedTimeline(t, []season.GameRecord{
		{Date: "2026-04-06", HomeTeam: "Harbor", AwayTeam: "Mesa", HomeScore: intp(1), AwayScore: intp(3)},
	}, 0.6, 0.75)

	sim, _ := NewSimulator(DefaultParams())
	res, err := sim.Run(tl, RatingPredictor{}, PriceOpen)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Losses != 1 {
		t.Fatalf("losses = %d, want 1", res.Losses)
	}
	if !approxEq(res.FinalBankroll, 1-0.1875) {
		t.Errorf("final bankroll = %s, want 0.8125", res.FinalBankroll)
	}
	if res.AvgROI != -1 {
		t.Errorf("avg ROI = %v, want -1", res.AvgROI)
	}
}

func TestRun_PushOnUndecidedGame(t *testing.T) {
	tl := quotedTimeline(t, []season.GameRecord{
		{Date: "2026-04-06", HomeTeam: "Harbor", AwayTeam: "Mesa", HomeScore: intp(2), AwayScore: intp(2)},
	}, 0.6, 0.75)

	sim, _ := NewSimulator(DefaultParams())
	res, err := sim.Run(tl, RatingPredictor{}, PriceOpen)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Pushes != 1 || res.AvgROI != 0 {
		t.Errorf("pushes = %d, avg ROI = %v, want 1 and 0", res.Pushes, res.AvgROI)
	}
	if !res.FinalBankroll.Equal(res.InitialBankroll) {
		t.Errorf("bankroll moved on a push: %s", res.FinalBankroll)
	}
}

func TestRun_NoBets(t *testing.T) {
	// Chosen side left at none everywhere.
	tl, err := season.NewTimeline(2026, []season.GameRecord{
		{Date: "2026-04-06", HomeTeam: "Harbor", AwayTeam: "Mesa", HomeScore: intp(4), AwayScore: intp(2)},
	}, season.Params{SeedRating: 500, K: 10})
	if err != nil {
		t.Fatalf("NewTimeline: %v", err)
	}

	sim, _ := NewSimulator(DefaultParams())
	res, err := sim.Run(tl, RatingPredictor{}, PriceOpen)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Bets) != 0 {
		t.Fatalf("bets = %d, want 0", len(res.Bets))
	}
	if res.AvgROI != 0 {
		t.Errorf("avg ROI with no bets = %v, want 0", res.AvgROI)
	}
	if !res.FinalBankroll.Equal(res.InitialBankroll) {
		t.Errorf("bankroll moved with no bets: %s", res.FinalBankroll)
	}
}

func TestRun_StakeNeverExceedsBankroll(t *testing.T) {
	// A huge edge at full Kelly wants nearly the whole bankroll; the stake
	// cap holds each bet to one unit and losses must floor above zero.
	records := []season.GameRecord{
		{Date: "2026-04-06", HomeTeam: "Harbor", AwayTeam: "Mesa", HomeScore: intp(1), AwayScore: intp(3)},
		{Date: "2026-04-07", HomeTeam: "Harbor", AwayTeam: "Mesa", HomeScore: intp(1), AwayScore: intp(3)},
	}
	tl := quotedTimeline(t, records, 0.05, 0.95)

	params := DefaultParams()
	params.KellyFraction = 1
	params.InitialBankroll = decimal.NewFromInt(10)
	sim, err := NewSimulator(params)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	res, err := sim.Run(tl, RatingPredictor{}, PriceOpen)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Losses != 2 {
		t.Fatalf("losses = %d, want 2", res.Losses)
	}
	if res.FinalBankroll.IsNegative() {
		t.Errorf("bankroll went negative: %s", res.FinalBankroll)
	}
	for _, bet := range res.Bets {
		if bet.Stake.GreaterThan(params.StakeCap) {
			t.Errorf("stake %s exceeds cap", bet.Stake)
		}
	}
}

func TestRun_SkipsGamesWithoutModelProb(t *testing.T) {
	tl := quotedTimeline(t, []season.GameRecord{
		{Date: "2026-04-06", HomeTeam: "Harbor", AwayTeam: "Mesa", HomeScore: intp(4), AwayScore: intp(2)},
	}, 0.6, 0.75)
	tl.Games()[0].HomeModelProb = 0 // replay never saw the game

	sim, _ := NewSimulator(DefaultParams())
	res, err := sim.Run(tl, RatingPredictor{}, PriceOpen)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Bets) != 0 {
		t.Errorf("bets = %d, want 0 without a model probability", len(res.Bets))
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr bool
	}{
		{"defaults", func(*Params) {}, false},
		{"zero kelly", func(p *Params) { p.KellyFraction = 0 }, true},
		{"kelly above one", func(p *Params) { p.KellyFraction = 1.5 }, true},
		{"zero bankroll", func(p *Params) { p.InitialBankroll = decimal.Zero }, true},
		{"zero cap", func(p *Params) { p.StakeCap = decimal.Zero }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			if err := p.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUnitReturns(t *testing.T) {
	records := []season.GameRecord{
		{Date: "2026-04-06", HomeTeam: "Harbor", AwayTeam: "Mesa", HomeScore: intp(4), AwayScore: intp(2)},
		{Date: "2026-04-07", HomeTeam: "Harbor", AwayTeam: "Mesa", HomeScore: intp(1), AwayScore: intp(3)},
		{Date: "2026-04-08", HomeTeam: "Harbor", AwayTeam: "Mesa"},
	}
	tl := quotedTimeline(t, records, 0.6, 0.75)

	UnitReturns(tl)

	games := tl.Games()
	if got, want := games[0].OpenReturn, 1/0.6-1; math.Abs(got-want) > 1e-12 {
		t.Errorf("winning unit return = %v, want %v", got, want)
	}
	if games[1].OpenReturn != -1 {
		t.Errorf("losing unit return = %v, want -1", games[1].OpenReturn)
	}
	if games[2].OpenReturn != 0 {
		t.Errorf("undecided unit return = %v, want 0", games[2].OpenReturn)
	}

	tl.SnapshotReturns()
	if got, want := tl.Dates[1].CumOpenReturn, 1/0.6-2; math.Abs(got-want) > 1e-9 {
		t.Errorf("cumulative open return = %v, want %v", got, want)
	}
}
