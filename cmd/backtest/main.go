// pennant-backtest replays a season of results, joins market quotes, and
// simulates fractional-Kelly wagering against the quoted prices.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/seamhead/pennant-edge/pkg/config"
	"github.com/seamhead/pennant-edge/pkg/feed"
	"github.com/seamhead/pennant-edge/pkg/logger"
	"github.com/seamhead/pennant-edge/pkg/market"
	"github.com/seamhead/pennant-edge/pkg/metrics"
	"github.com/seamhead/pennant-edge/pkg/season"
	"github.com/seamhead/pennant-edge/pkg/wager"
)

var (
	// Input flags
	resultsFile = flag.String("results", "", "Path to season results file (JSON or CSV)")
	quotesFile  = flag.String("quotes", "", "Path to market quotes file (JSON or CSV)")
	teamsFile   = flag.String("teams", "", "Path to team abbreviation table (YAML)")
	year        = flag.Int("year", 0, "Season year")
	outputFile  = flag.String("output", "", "Output file for the run report (JSON)")

	// Config flags
	seedRating = flag.Float64("seed-rating", 0, "Initial rating for unseen teams")
	ratingK    = flag.Float64("k", 0, "Rating update step")
	homeField  = flag.Float64("home-field", 0, "Additive home win-probability bonus")
	edge       = flag.Float64("edge", 0, "Minimum relative advantage before betting")
	kelly      = flag.Float64("kelly", 0, "Kelly fraction multiplier")
	stakeCap   = flag.Float64("stake-cap", 0, "Maximum stake per bet")
	bankroll   = flag.Float64("bankroll", 0, "Initial bankroll")

	// Output flags
	rankings = flag.Bool("rankings", false, "Print the final rating leaderboard")
	verbose  = flag.Bool("verbose", false, "Log per-bet detail")
)

func main() {
	flag.Parse()
	cfg := loadConfig()
	log := logger.New(cfg.LogLevel)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	m := metrics.NewPipelineMetrics()
	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", m.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.WithError(err).Warn("metrics server stopped")
			}
		}()
	}

	tl := buildTimeline(log, cfg, m)
	joinQuotes(log, cfg, m, tl)

	selector := market.NewSideSelector(cfg.EdgeThreshold)
	predictor := wager.RatingPredictor{}
	chosen := selector.Choose(tl, predictor.HomeWinProb)
	log.WithField("games", chosen).Info("sides chosen")

	wager.UnitReturns(tl)
	tl.SnapshotReturns()

	params := wager.Params{
		EdgeThreshold:   cfg.EdgeThreshold,
		KellyFraction:   cfg.KellyFraction,
		StakeCap:        decimal.NewFromFloat(cfg.StakeCap),
		InitialBankroll: decimal.NewFromFloat(cfg.Bankroll),
	}
	sim, err := wager.NewSimulator(params)
	if err != nil {
		log.Fatal(err)
	}

	var results []*wager.Result
	for _, kind := range []wager.PriceKind{wager.PriceOpen, wager.PriceClose} {
		res, err := sim.Run(tl, predictor, kind)
		if err != nil {
			log.Fatal(err)
		}
		m.RecordRun(kind.String(), res.Predictor, res.Wins, res.Losses, res.Pushes, res.FinalBankroll, res.AvgROI)
		printRun(log, res)
		results = append(results, res)
	}

	printRecords(tl)
	if *rankings {
		printRankings(tl)
	}

	if *outputFile != "" {
		if err := exportResults(results, *outputFile); err != nil {
			log.WithError(err).Error("failed to export results")
		}
	}
}

// loadConfig layers command-line flags over the environment config. A flag
// left at its zero value keeps the environment's setting.
func loadConfig() *config.Config {
	cfg := config.Load()
	if *resultsFile != "" {
		cfg.ResultsPath = *resultsFile
	}
	if *quotesFile != "" {
		cfg.QuotesPath = *quotesFile
	}
	if *teamsFile != "" {
		cfg.TeamsPath = *teamsFile
	}
	if *year != 0 {
		cfg.Year = *year
	}
	if *seedRating != 0 {
		cfg.SeedRating = *seedRating
	}
	if *ratingK != 0 {
		cfg.K = *ratingK
	}
	if *homeField != 0 {
		cfg.HomeFieldFactor = *homeField
	}
	if *edge != 0 {
		cfg.EdgeThreshold = *edge
	}
	if *kelly != 0 {
		cfg.KellyFraction = *kelly
	}
	if *stakeCap != 0 {
		cfg.StakeCap = *stakeCap
	}
	if *bankroll != 0 {
		cfg.Bankroll = *bankroll
	}
	return cfg
}

func buildTimeline(log *logrus.Logger, cfg *config.Config, m *metrics.PipelineMetrics) *season.Timeline {
	records, err := feed.LoadResults(cfg.ResultsPath)
	if err != nil {
		log.Fatal(err)
	}
	tl, err := season.NewTimeline(cfg.Year, records, cfg.ReplayParams())
	if err != nil {
		log.Fatal(err)
	}
	if tl.DroppedDates > 0 {
		m.DatesDropped.Add(float64(tl.DroppedDates))
		log.WithField("rows", tl.DroppedDates).Warn("dropped rows with unresolvable dates")
	}
	if err := tl.Replay(); err != nil {
		log.Fatal(err)
	}
	log.WithFields(logrus.Fields{
		"year":  tl.Year,
		"dates": len(tl.Dates),
		"games": len(tl.Games()),
	}).Info("season replayed")
	return tl
}

func joinQuotes(log *logrus.Logger, cfg *config.Config, m *metrics.PipelineMetrics, tl *season.Timeline) {
	if cfg.QuotesPath == "" {
		log.Info("no quotes file, skipping market join")
		return
	}
	table, err := config.LoadTeams(cfg.TeamsPath)
	if err != nil {
		log.Fatal(err)
	}
	resolver, err := market.NewResolver(table)
	if err != nil {
		log.Fatal(err)
	}
	quotes, err := feed.LoadQuotes(cfg.QuotesPath)
	if err != nil {
		log.Fatal(err)
	}
	report, err := market.NewJoiner(resolver).Join(tl, quotes)
	if err != nil {
		log.Fatal(err)
	}
	m.RecordJoin(report.Pairs, report.Matched, report.Unmatched, report.Unresolved)
	log.WithFields(logrus.Fields{
		"pairs":      report.Pairs,
		"matched":    report.Matched,
		"unmatched":  report.Unmatched,
		"unresolved": report.Unresolved,
	}).Info("quotes joined")
}

func printRun(log *logrus.Logger, res *wager.Result) {
	fmt.Printf("\n=== %s price simulation (%s predictor, run %s) ===\n", res.Price, res.Predictor, res.RunID)
	fmt.Printf("Bets:            %d (%d won, %d lost, %d pushed)\n",
		len(res.Bets), res.Wins, res.Losses, res.Pushes)
	fmt.Printf("Bankroll:        %s -> %s\n", res.InitialBankroll, res.FinalBankroll.StringFixed(4))
	fmt.Printf("Average ROI:     %.4f\n", res.AvgROI)

	for _, bet := range res.Bets {
		outcome := "lost"
		if bet.Won {
			outcome = "won"
		} else if bet.Push {
			outcome = "push"
		}
		log.WithFields(logrus.Fields{
			"date":  bet.Date,
			"game":  fmt.Sprintf("%s at %s", bet.AwayTeam, bet.HomeTeam),
			"side":  bet.Side,
			"stake": bet.Stake.StringFixed(4),
			"roi":   bet.ROI,
		}).Debugf("bet %s", outcome)
	}
}

func printRecords(tl *season.Timeline) {
	fmt.Printf("\n=== Straight-up records ===\n")
	fmt.Printf("Rating model:    %d-%d (%d no-calls)\n", tl.ModelWins, tl.ModelLosses, tl.ModelNoCalls)
	fmt.Printf("Home teams:      %d-%d\n", tl.HomeWins, tl.HomeLosses)
	openW, openL, openN := market.FavoriteRecord(tl, false)
	closeW, closeL, closeN := market.FavoriteRecord(tl, true)
	fmt.Printf("Open favorites:  %d-%d (%d no-calls)\n", openW, openL, openN)
	fmt.Printf("Close favorites: %d-%d (%d no-calls)\n", closeW, closeL, closeN)
}

func printRankings(tl *season.Timeline) {
	fmt.Printf("\n=== Final ratings ===\n")
	for i, entry := range tl.Ratings.Leaderboard() {
		fmt.Printf("%3d. %-25s %8.2f\n", i+1, entry.Team, entry.Rating)
	}
}

func exportResults(results []*wager.Result, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
