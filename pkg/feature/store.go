package feature

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store caches whole seasons of feature rows in SQLite. Vectors are
// recomputable, so the cache is purely an accelerator: a season hit
// short-circuits the replay-and-scan work for that year.
type Store struct {
	db *sql.DB
}

// OpenStore opens (and if needed initializes) the cache database at path.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS feature_rows (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			year      INTEGER NOT NULL,
			month     INTEGER NOT NULL,
			day       INTEGER NOT NULL,
			home_team TEXT    NOT NULL,
			away_team TEXT    NOT NULL,
			vector    TEXT    NOT NULL,
			label     REAL    NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_feature_rows_year ON feature_rows(year)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init schema (%s): %w", stmt, err)
		}
	}

	return &Store{db: db}, nil
}

// HasSeason reports whether any rows are cached for the year.
func (s *Store) HasSeason(year int) (bool, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM feature_rows WHERE year = ?`, year).Scan(&n); err != nil {
		return false, fmt.Errorf("count season %d: %w", year, err)
	}
	return n > 0, nil
}

// SaveSeason replaces the cached rows for a year in one transaction.
func (s *Store) SaveSeason(year int, rows []Row) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM feature_rows WHERE year = ?`, year); err != nil {
		return fmt.Errorf("clear season %d: %w", year, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO feature_rows
		(year, month, day, home_team, away_team, vector, label)
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		blob, err := json.Marshal(r.Vector)
		if err != nil {
			return fmt.Errorf("encode vector: %w", err)
		}
		if _, err := stmt.Exec(r.Key.Year, r.Key.Month, r.Key.Day,
			r.Key.HomeTeam, r.Key.AwayTeam, string(blob), r.Label); err != nil {
			return fmt.Errorf("insert row: %w", err)
		}
	}

	return tx.Commit()
}

// LoadSeason returns a year's cached rows in insertion (chronological) order.
func (s *Store) LoadSeason(year int) ([]Row, error) {
	rows, err := s.db.Query(`SELECT year, month, day, home_team, away_team, vector, label
		FROM feature_rows WHERE year = ? ORDER BY id`, year)
	if err != nil {
		return nil, fmt.Errorf("load season %d: %w", year, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var blob string
		if err := rows.Scan(&r.Key.Year, &r.Key.Month, &r.Key.Day,
			&r.Key.HomeTeam, &r.Key.AwayTeam, &blob, &r.Label); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if err := json.Unmarshal([]byte(blob), &r.Vector); err != nil {
			return nil, fmt.Errorf("decode vector: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Seasons lists the cached years in ascending order.
func (s *Store) Seasons() ([]int, error) {
	rows, err := s.db.Query(`SELECT DISTINCT year FROM feature_rows ORDER BY year`)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("scan year: %w", err)
		}
		out = append(out, y)
	}
	return out, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
