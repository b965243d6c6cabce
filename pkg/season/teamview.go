package season

// TeamGame is one game seen from a single team's perspective: role, scores
// attributed for/against, and the outcome for that team.
type TeamGame struct {
	Opponent     string
	Home         bool
	RunsFor      int
	RunsAgainst  int
	Played       bool
	Won          bool
	Lost         bool // false alongside Won=false means no decision (unplayed/tie)
}

// TeamDate pairs one calendar day with the team's games on that day.
// Doubleheaders put two games on one TeamDate.
type TeamDate struct {
	Date  *Date
	Games []TeamGame
}

// TeamSchedule projects the timeline onto one team: the ordered subsequence
// of dates on which the team played, each game flipped into the team's
// perspective. The projection is read-only with respect to the timeline.
func (tl *Timeline) TeamSchedule(team string) []TeamDate {
	var out []TeamDate
	for _, d := range tl.Dates {
		var games []TeamGame
		for _, g := range d.Games {
			if g.HomeTeam != team && g.AwayTeam != team {
				continue
			}
			games = append(games, teamPerspective(g, team))
		}
		if len(games) > 0 {
			out = append(out, TeamDate{Date: d, Games: games})
		}
	}
	return out
}

func teamPerspective(g *Game, team string) TeamGame {
	tg := TeamGame{
		Home:   g.HomeTeam == team,
		Played: g.Played(),
	}
	if tg.Home {
		tg.Opponent = g.AwayTeam
	} else {
		tg.Opponent = g.HomeTeam
	}
	if g.Played() {
		if tg.Home {
			tg.RunsFor, tg.RunsAgainst = *g.HomeScore, *g.AwayScore
		} else {
			tg.RunsFor, tg.RunsAgainst = *g.AwayScore, *g.HomeScore
		}
		tg.Won = g.Winner() == team
		tg.Lost = g.Loser() == team
	}
	return tg
}

// TeamRecord is a team's full-season aggregate with guarded win fractions.
// The prior-season feature lookup uses the overall WinPct.
type TeamRecord struct {
	Team       string
	Wins       int
	Losses     int
	Played     int
	HomeWins   int
	HomeLosses int
	HomePlayed int
	AwayWins   int
	AwayLosses int
	AwayPlayed int
}

// Record aggregates the team's whole season with no cutoff.
func (tl *Timeline) Record(team string) TeamRecord {
	rec := TeamRecord{Team: team}
	for _, td := range tl.TeamSchedule(team) {
		for _, tg := range td.Games {
			if !tg.Played {
				continue
			}
			rec.Played++
			if tg.Home {
				rec.HomePlayed++
			} else {
				rec.AwayPlayed++
			}
			switch {
			case tg.Won:
				rec.Wins++
				if tg.Home {
					rec.HomeWins++
				} else {
					rec.AwayWins++
				}
			case tg.Lost:
				rec.Losses++
				if tg.Home {
					rec.HomeLosses++
				} else {
					rec.AwayLosses++
				}
			}
		}
	}
	return rec
}

// WinPct is wins over games played, 0 for a team with no played games.
func (r TeamRecord) WinPct() float64 { return ratio(r.Wins, r.Played) }

// HomeWinPct is the home-role win fraction, 0 for an empty home record.
func (r TeamRecord) HomeWinPct() float64 { return ratio(r.HomeWins, r.HomePlayed) }

// AwayWinPct is the away-role win fraction, 0 for an empty away record.
func (r TeamRecord) AwayWinPct() float64 { return ratio(r.AwayWins, r.AwayPlayed) }

// ratio is the guarded division used throughout: an empty denominator yields
// 0 by policy, never a fault.
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
