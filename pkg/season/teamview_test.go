package season

import "testing"

func buildTestTimeline(t *testing.T, records []GameRecord) *Timeline {
	t.Helper()
	tl, err := NewTimeline(2026, records, flatParams())
	if err != nil {
		t.Fatalf("NewTimeline: %v", err)
	}
	return tl
}

func TestTeamSchedule(t *testing.T) {
	tl := buildTestTimeline(t, []GameRecord{
		{Date: "2026-04-06", HomeTeam: "Harbor", AwayTeam: "Mesa", HomeScore: intp(4), AwayScore: intp(2)},
		{Date: "2026-04-06", HomeTeam: "Summit", AwayTeam: "Delta", HomeScore: intp(1), AwayScore: intp(3)},
		{Date: "2026-04-07", HomeTeam: "Mesa", AwayTeam: "Harbor", HomeScore: intp(5), AwayScore: intp(0)},
		{Date: "2026-04-08", HomeTeam: "Summit", AwayTeam: "Mesa"},
	})

	sched := tl.TeamSchedule("Mesa")
	if len(sched) != 3 {
		t.Fatalf("schedule dates = %d, want 3", len(sched))
	}

	first := sched[0].Games[0]
	if first.Home || first.Opponent != "Harbor" {
		t.Errorf("first game = %+v, want away vs Harbor", first)
	}
	if first.RunsFor != 2 || first.RunsAgainst != 4 || !first.Lost {
		t.Errorf("first game from Mesa's side = %+v", first)
	}

	second := sched[1].Games[0]
	if !second.Home || !second.Won || second.RunsFor != 5 {
		t.Errorf("second game from Mesa's side = %+v", second)
	}

	third := sched[2].Games[0]
	if third.Played || third.Won || third.Lost {
		t.Errorf("unplayed game carries a decision: %+v", third)
	}
}

func TestRecord(t *testing.T) {
	tl := buildTestTimeline(t, []GameRecord{
		{Date: "2026-04-06", HomeTeam: "Harbor", AwayTeam: "Mesa", HomeScore: intp(4), AwayScore: intp(2)},
		{Date: "2026-04-07", HomeTeam: "Mesa", AwayTeam: "Harbor", HomeScore: intp(5), AwayScore: intp(0)},
		{Date: "2026-04-08", HomeTeam: "Mesa", AwayTeam: "Harbor", HomeScore: intp(3), AwayScore: intp(3)},
		{Date: "2026-04-09", HomeTeam: "Mesa", AwayTeam: "Summit"},
	})

	rec := tl.Record("Mesa")
	if rec.Wins != 1 || rec.Losses != 1 || rec.Played != 3 {
		t.Errorf("record = %d-%d in %d, want 1-1 in 3", rec.Wins, rec.Losses, rec.Played)
	}
	if rec.HomeWins != 1 || rec.HomePlayed != 2 {
		t.Errorf("home split = %d wins in %d, want 1 in 2", rec.HomeWins, rec.HomePlayed)
	}
	if got, want := rec.WinPct(), 1.0/3.0; got != want {
		t.Errorf("WinPct() = %v, want %v", got, want)
	}
}

func TestRecord_UnknownTeam(t *testing.T) {
	tl := buildTestTimeline(t, nil)
	rec := tl.Record("Nobody")
	if rec.Played != 0 || rec.WinPct() != 0 {
		t.Errorf("empty record = %+v, want all zeros", rec)
	}
}
