package season

import (
	"errors"
	"math"
	"testing"
)

func intp(n int) *int { return &n }

func flatParams() Params {
	return Params{SeedRating: 500, K: 10, HomeFieldFactor: 0}
}

func TestNewTimeline_CollapsesSameDay(t *testing.T) {
	records := []GameRecord{
		{Date: "Monday, April 6, 2026", HomeTeam: "Harbor", AwayTeam: "Mesa", HomeScore: intp(4), AwayScore: intp(2)},
		{Date: "Monday, April 6, 2026", HomeTeam: "Summit", AwayTeam: "Delta", HomeScore: intp(1), AwayScore: intp(3)},
		{Date: "Tuesday, April 7, 2026", HomeTeam: "Mesa", AwayTeam: "Harbor", HomeScore: intp(5), AwayScore: intp(0)},
	}
	tl, err := NewTimeline(2026, records, flatParams())
	if err != nil {
		t.Fatalf("NewTimeline: %v", err)
	}
	if len(tl.Dates) != 2 {
		t.Fatalf("dates = %d, want 2", len(tl.Dates))
	}
	if len(tl.Dates[0].Games) != 2 || len(tl.Dates[1].Games) != 1 {
		t.Errorf("games per date = %d, %d, want 2, 1", len(tl.Dates[0].Games), len(tl.Dates[1].Games))
	}
	if got := len(tl.Games()); got != 3 {
		t.Errorf("total games = %d, want 3", got)
	}
}

func TestNewTimeline_DropsUnresolvableDates(t *testing.T) {
	records := []GameRecord{
		{Date: "not a date", HomeTeam: "Harbor", AwayTeam: "Mesa"},
		{Date: "2026-04-06", HomeTeam: "Summit", AwayTeam: "Delta", HomeScore: intp(2), AwayScore: intp(1)},
		{Date: "April-ish", HomeTeam: "Mesa", AwayTeam: "Summit"},
	}
	tl, err := NewTimeline(2026, records, flatParams())
	if err != nil {
		t.Fatalf("NewTimeline: %v", err)
	}
	if tl.DroppedDates != 2 {
		t.Errorf("DroppedDates = %d, want 2", tl.DroppedDates)
	}
	if len(tl.Dates) != 1 {
		t.Errorf("dates = %d, want 1", len(tl.Dates))
	}
}

func TestNewTimeline_InvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{"zero K", Params{SeedRating: 500, K: 0}},
		{"negative K", Params{SeedRating: 500, K: -1}},
		{"zero seed", Params{SeedRating: 0, K: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTimeline(2026, nil, tt.params); err == nil {
				t.Error("want error, got nil")
			}
		})
	}
}

func TestReplay_RatingsExchange(t *testing.T) {
	records := []GameRecord{
		{Date: "2026-04-06", HomeTeam: "Harbor", AwayTeam: "Mesa", HomeScore: intp(4), AwayScore: intp(2)},
		{Date: "2026-04-07", HomeTeam: "Mesa", AwayTeam: "Harbor", HomeScore: intp(3), AwayScore: intp(1)},
	}
	tl, err := NewTimeline(2026, records, flatParams())
	if err != nil {
		t.Fatalf("NewTimeline: %v", err)
	}
	if err := tl.Replay(); err != nil {
		t.Fatalf("Replay: %v", err)
	}

	first := tl.Dates[0].Games[0]
	if first.HomeRating != 500 || first.AwayRating != 500 {
		t.Errorf("first game ratings = %v, %v, want seed 500", first.HomeRating, first.AwayRating)
	}
	if first.HomeModelProb != 0.5 {
		t.Errorf("first game prob = %v, want 0.5 with no home bonus", first.HomeModelProb)
	}

	// Harbor won at even odds, so it takes K/2 points from Mesa.
	second := tl.Dates[1].Games[0]
	if second.HomeRating != 495 || second.AwayRating != 505 {
		t.Errorf("second game ratings = %v, %v, want 495, 505", second.HomeRating, second.AwayRating)
	}
}

func TestReplay_NoLookahead(t *testing.T) {
	// The second game's snapshot must reflect only the first game, no matter
	// what happens later the same season.
	records := []GameRecord{
		{Date: "2026-04-06", HomeTeam: "Harbor", AwayTeam: "Mesa", HomeScore: intp(4), AwayScore: intp(2)},
		{Date: "2026-04-07", HomeTeam: "Harbor", AwayTeam: "Mesa", HomeScore: intp(0), AwayScore: intp(9)},
		{Date: "2026-04-08", HomeTeam: "Harbor", AwayTeam: "Mesa", HomeScore: intp(0), AwayScore: intp(9)},
	}
	tl, _ := NewTimeline(2026, records, flatParams())
	if err := tl.Replay(); err != nil {
		t.Fatalf("Replay: %v", err)
	}
	g := tl.Dates[1].Games[0]
	if g.HomeRating != 505 || g.AwayRating != 495 {
		t.Errorf("second game ratings = %v, %v, want 505, 495", g.HomeRating, g.AwayRating)
	}
}

func TestReplay_HomeFieldBonus(t *testing.T) {
	records := []GameRecord{
		{Date: "2026-04-06", HomeTeam: "Harbor", AwayTeam: "Mesa", HomeScore: intp(4), AwayScore: intp(2)},
	}
	params := Params{SeedRating: 500, K: 10, HomeFieldFactor: 0.0435}
	tl, _ := NewTimeline(2026, records, params)
	if err := tl.Replay(); err != nil {
		t.Fatalf("Replay: %v", err)
	}
	g := tl.Dates[0].Games[0]
	if math.Abs(g.HomeModelProb-0.5435) > 1e-12 {
		t.Errorf("prob = %v, want 0.5435", g.HomeModelProb)
	}
}

func TestReplay_SkipsUndecidedGames(t *testing.T) {
	records := []GameRecord{
		{Date: "2026-04-06", HomeTeam: "Harbor", AwayTeam: "Mesa"},
		{Date: "2026-04-07", HomeTeam: "Summit", AwayTeam: "Delta", HomeScore: intp(3), AwayScore: intp(3)},
		{Date: "2026-04-08", HomeTeam: "Harbor", AwayTeam: "Mesa", HomeScore: intp(2), AwayScore: intp(1)},
	}
	tl, _ := NewTimeline(2026, records, flatParams())
	if err := tl.Replay(); err != nil {
		t.Fatalf("Replay: %v", err)
	}

	// Neither the unplayed game nor the tie moved any ratings.
	g := tl.Dates[2].Games[0]
	if g.HomeRating != 500 || g.AwayRating != 500 {
		t.Errorf("ratings = %v, %v, want untouched seeds", g.HomeRating, g.AwayRating)
	}
	if tl.HomeWins != 1 || tl.HomeLosses != 0 {
		t.Errorf("home record = %d-%d, want 1-0", tl.HomeWins, tl.HomeLosses)
	}
}

func TestReplay_Twice(t *testing.T) {
	tl, _ := NewTimeline(2026, nil, flatParams())
	if err := tl.Replay(); err != nil {
		t.Fatalf("first Replay: %v", err)
	}
	if err := tl.Replay(); err == nil {
		t.Error("second Replay: want error, got nil")
	}
}

func TestApplyResult_Unplayed(t *testing.T) {
	tl, _ := NewTimeline(2026, nil, flatParams())
	g := NewGame("Harbor", nil, "Mesa", nil)
	if err := tl.applyResult(g); !errors.Is(err, ErrGameNotPlayed) {
		t.Errorf("applyResult = %v, want ErrGameNotPlayed", err)
	}
}

func TestReplay_ModelRecord(t *testing.T) {
	// After Harbor beats Mesa at even odds, the model favors Harbor. It is
	// then right once at home and wrong once away.
	records := []GameRecord{
		{Date: "2026-04-06", HomeTeam: "Harbor", AwayTeam: "Mesa", HomeScore: intp(4), AwayScore: intp(2)},
		{Date: "2026-04-07", HomeTeam: "Harbor", AwayTeam: "Mesa", HomeScore: intp(5), AwayScore: intp(1)},
		{Date: "2026-04-08", HomeTeam: "Mesa", AwayTeam: "Harbor", HomeScore: intp(6), AwayScore: intp(0)},
	}
	tl, _ := NewTimeline(2026, records, flatParams())
	if err := tl.Replay(); err != nil {
		t.Fatalf("Replay: %v", err)
	}
	// First game is a coin flip, counted as a no-call.
	if tl.ModelNoCalls != 1 {
		t.Errorf("no-calls = %d, want 1", tl.ModelNoCalls)
	}
	if tl.ModelWins != 1 || tl.ModelLosses != 1 {
		t.Errorf("model record = %d-%d, want 1-1", tl.ModelWins, tl.ModelLosses)
	}
	if got := tl.Dates[2].CumHomeWins; got != 3 {
		t.Errorf("cumulative home wins = %d, want 3", got)
	}
}

func TestSnapshotReturns(t *testing.T) {
	records := []GameRecord{
		{Date: "2026-04-06", HomeTeam: "Harbor", AwayTeam: "Mesa", HomeScore: intp(4), AwayScore: intp(2)},
		{Date: "2026-04-07", HomeTeam: "Mesa", AwayTeam: "Harbor", HomeScore: intp(3), AwayScore: intp(1)},
	}
	tl, _ := NewTimeline(2026, records, flatParams())
	tl.Dates[0].Games[0].OpenReturn = 0.5
	tl.Dates[0].Games[0].CloseReturn = -1
	tl.Dates[1].Games[0].OpenReturn = -1

	tl.SnapshotReturns()

	if got := tl.Dates[0].CumOpenReturn; got != 0.5 {
		t.Errorf("day 1 cum open return = %v, want 0.5", got)
	}
	if got := tl.Dates[1].CumOpenReturn; got != -0.5 {
		t.Errorf("day 2 cum open return = %v, want -0.5", got)
	}
	if got := tl.Dates[1].CumCloseReturn; got != -1 {
		t.Errorf("day 2 cum close return = %v, want -1", got)
	}
}

func TestGameLabel(t *testing.T) {
	tests := []struct {
		name string
		home *int
		away *int
		want float64
	}{
		{"home win", intp(4), intp(2), 1},
		{"away win", intp(1), intp(3), 0},
		{"tie", intp(2), intp(2), 0.5},
		{"unplayed", nil, nil, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGame("Harbor", tt.home, "Mesa", tt.away)
			if got := g.Label(); got != tt.want {
				t.Errorf("Label() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		month   int
		day     int
		year    int
		weekday string
		wantErr bool
	}{
		{in: "Monday, April 6, 2026", month: 4, day: 6, year: 2026, weekday: "Monday"},
		{in: "2026-04-06", month: 4, day: 6, year: 2026, weekday: "Monday"},
		{in: "Funday, April 6, 2026", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDate(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("want error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate: %v", err)
			}
			if d.Month != tt.month || d.Day != tt.day || d.Year != tt.year || d.Weekday != tt.weekday {
				t.Errorf("got %+v", d)
			}
		})
	}
}
