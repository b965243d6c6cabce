// pennant-features builds per-game feature vectors for a season and caches
// them in a local SQLite store, rebuilding only on request.
package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/seamhead/pennant-edge/pkg/config"
	"github.com/seamhead/pennant-edge/pkg/feature"
	"github.com/seamhead/pennant-edge/pkg/feed"
	"github.com/seamhead/pennant-edge/pkg/logger"
	"github.com/seamhead/pennant-edge/pkg/market"
	"github.com/seamhead/pennant-edge/pkg/season"
)

var (
	resultsFile = flag.String("results", "", "Path to season results file (JSON or CSV)")
	priorFile   = flag.String("prior", "", "Path to previous season results file (optional)")
	quotesFile  = flag.String("quotes", "", "Path to market quotes file (optional)")
	teamsFile   = flag.String("teams", "", "Path to team abbreviation table (YAML)")
	year        = flag.Int("year", 0, "Season year")
	cacheFile   = flag.String("cache", "", "Path to the feature cache database")
	rebuild     = flag.Bool("rebuild", false, "Rebuild even if the season is cached")
	list        = flag.Bool("list", false, "List cached seasons and exit")
	dump        = flag.Bool("dump", false, "Print cached rows after building")
)

func main() {
	flag.Parse()
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
	if *cacheFile != "" {
		cfg.CachePath = *cacheFile
	}
	log := logger.New(cfg.LogLevel)

	store, err := feature.OpenStore(cfg.CachePath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	if *list {
		listSeasons(log, store)
		return
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	cached, err := store.HasSeason(cfg.Year)
	if err != nil {
		log.Fatal(err)
	}
	if cached && !*rebuild {
		log.WithField("year", cfg.Year).Info("season already cached")
	} else {
		rows := buildRows(log, cfg)
		if err := store.SaveSeason(cfg.Year, rows); err != nil {
			log.Fatal(err)
		}
		log.WithFields(logrus.Fields{"year": cfg.Year, "rows": len(rows)}).Info("season cached")
	}

	if *dump {
		dumpSeason(log, store, cfg.Year)
	}
}

func buildRows(log *logrus.Logger, cfg *config.Config) []feature.Row {
	current := loadSeason(log, cfg, cfg.ResultsPath, cfg.Year)

	var prior *season.Timeline
	if *priorFile != "" {
		prior = loadSeason(log, cfg, *priorFile, cfg.Year-1)
	}

	if cfg.QuotesPath != "" {
		attachQuotes(log, cfg, current)
	}

	return feature.NewBuilder(current, prior).BuildSeason()
}

func loadSeason(log *logrus.Logger, cfg *config.Config, path string, year int) *season.Timeline {
	records, err := feed.LoadResults(path)
	if err != nil {
		log.Fatal(err)
	}
	tl, err := season.NewTimeline(year, records, cfg.ReplayParams())
	if err != nil {
		log.Fatal(err)
	}
	if tl.DroppedDates > 0 {
		log.WithFields(logrus.Fields{"year": year, "rows": tl.DroppedDates}).
			Warn("dropped rows with unresolvable dates")
	}
	if err := tl.Replay(); err != nil {
		log.Fatal(err)
	}
	return tl
}

func attachQuotes(log *logrus.Logger, cfg *config.Config, tl *season.Timeline) {
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
	log.WithFields(logrus.Fields{
		"matched":   report.Matched,
		"unmatched": report.Unmatched,
	}).Info("quotes joined")
}

func listSeasons(log *logrus.Logger, store *feature.Store) {
	years, err := store.Seasons()
	if err != nil {
		log.Fatal(err)
	}
	if len(years) == 0 {
		fmt.Println("no cached seasons")
		return
	}
	for _, y := range years {
		rows, err := store.LoadSeason(y)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%d: %d rows\n", y, len(rows))
	}
}

func dumpSeason(log *logrus.Logger, store *feature.Store, year int) {
	rows, err := store.LoadSeason(year)
	if err != nil {
		log.Fatal(err)
	}
	for _, row := range rows {
		cells := make([]string, len(row.Vector))
		for i, v := range row.Vector {
			cells[i] = fmt.Sprintf("%.4f", v)
		}
		fmt.Printf("%04d-%02d-%02d %s at %s label=%.1f [%s]\n",
			row.Key.Year, row.Key.Month, row.Key.Day,
			row.Key.AwayTeam, row.Key.HomeTeam, row.Label, strings.Join(cells, " "))
	}
}
