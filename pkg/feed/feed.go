// Package feed loads season results and market quote files from disk.
// Both feeds accept JSON and CSV forms; format is picked by file extension.
package feed

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/seamhead/pennant-edge/pkg/market"
	"github.com/seamhead/pennant-edge/pkg/season"
)

// LoadResults reads a results feed file into game records, in file order.
func LoadResults(filename string) ([]season.GameRecord, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".json":
		return resultsFromJSON(filename)
	case ".csv":
		return resultsFromCSV(filename)
	default:
		return nil, fmt.Errorf("feed: unsupported results format %q", ext)
	}
}

// LoadQuotes reads a market feed file into quote legs, in file order.
func LoadQuotes(filename string) ([]market.Quote, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".json":
		return quotesFromJSON(filename)
	case ".csv":
		return quotesFromCSV(filename)
	default:
		return nil, fmt.Errorf("feed: unsupported quotes format %q", ext)
	}
}

func resultsFromJSON(filename string) ([]season.GameRecord, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("feed: open results: %w", err)
	}
	defer file.Close()

	var records []season.GameRecord
	if err := json.NewDecoder(file).Decode(&records); err != nil {
		return nil, fmt.Errorf("feed: decode results: %w", err)
	}
	return records, nil
}

// resultsFromCSV expects columns: date, home_team, home_score, away_team,
// away_score. Score cells may be blank for unplayed games.
func resultsFromCSV(filename string) ([]season.GameRecord, error) {
	rows, cols, err := readCSV(filename)
	if err != nil {
		return nil, fmt.Errorf("feed: read results: %w", err)
	}

	var records []season.GameRecord
	for i, row := range rows {
		rec := season.GameRecord{
			Date:     cell(row, cols, "date"),
			HomeTeam: cell(row, cols, "home_team"),
			AwayTeam: cell(row, cols, "away_team"),
		}
		if rec.HomeScore, err = optionalInt(cell(row, cols, "home_score")); err != nil {
			return nil, fmt.Errorf("feed: results row %d: %w", i+2, err)
		}
		if rec.AwayScore, err = optionalInt(cell(row, cols, "away_score")); err != nil {
			return nil, fmt.Errorf("feed: results row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func quotesFromJSON(filename string) ([]market.Quote, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("feed: open quotes: %w", err)
	}
	defer file.Close()

	var quotes []market.Quote
	if err := json.NewDecoder(file).Decode(&quotes); err != nil {
		return nil, fmt.Errorf("feed: decode quotes: %w", err)
	}
	return quotes, nil
}

// quotesFromCSV expects columns: date_code, team, open_line, close_line,
// score. The score cell may be blank.
func quotesFromCSV(filename string) ([]market.Quote, error) {
	rows, cols, err := readCSV(filename)
	if err != nil {
		return nil, fmt.Errorf("feed: read quotes: %w", err)
	}

	var quotes []market.Quote
	for i, row := range rows {
		var q market.Quote
		if q.DateCode, err = strconv.Atoi(cell(row, cols, "date_code")); err != nil {
			return nil, fmt.Errorf("feed: quotes row %d: date_code: %w", i+2, err)
		}
		q.TeamAbbrev = cell(row, cols, "team")
		if q.OpenLine, err = strconv.ParseFloat(cell(row, cols, "open_line"), 64); err != nil {
			return nil, fmt.Errorf("feed: quotes row %d: open_line: %w", i+2, err)
		}
		if q.CloseLine, err = strconv.ParseFloat(cell(row, cols, "close_line"), 64); err != nil {
			return nil, fmt.Errorf("feed: quotes row %d: close_line: %w", i+2, err)
		}
		if q.Score, err = optionalInt(cell(row, cols, "score")); err != nil {
			return nil, fmt.Errorf("feed: quotes row %d: %w", i+2, err)
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// readCSV returns the data rows and a header-name column index.
func readCSV(filename string) ([][]string, map[string]int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, col := range header {
		cols[strings.TrimSpace(strings.ToLower(col))] = i
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read record: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, cols, nil
}

func cell(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func optionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
