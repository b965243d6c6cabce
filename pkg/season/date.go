package season

import (
	"fmt"
	"time"
)

// Date is one calendar day's slate of games. Ordering within a season uses
// (Year, Month, Day); Weekday is descriptive only and excluded from equality.
type Date struct {
	Weekday string
	Month   int
	Day     int
	Year    int
	Games   []*Game

	// Cumulative league-wide totals as of the end of this date, snapshotted
	// during replay (wins/losses) and after return computation (returns), so
	// consumers can read a date's running state without rescanning.
	CumHomeWins    int
	CumHomeLosses  int
	CumOpenReturn  float64
	CumCloseReturn float64

	// Record of the pre-game rating model against actual outcomes, for this
	// date only.
	ModelWins    int
	ModelLosses  int
	ModelNoCalls int
	HomeWins     int
	HomeLosses   int
}

// NewDate builds an empty slate for one calendar day.
func NewDate(weekday string, month, day, year int) *Date {
	return &Date{Weekday: weekday, Month: month, Day: day, Year: year}
}

// Key orders dates chronologically across years.
func (d *Date) Key() int {
	return d.Year*13*32 + d.Month*32 + d.Day
}

// DayKey orders dates within one season: month*32+day, the cutoff key used
// by the window aggregator.
func (d *Date) DayKey() int {
	return d.Month*32 + d.Day
}

// SameDay reports calendar equality on (Month, Day, Year) only.
func (d *Date) SameDay(o *Date) bool {
	return d.Month == o.Month && d.Day == o.Day && d.Year == o.Year
}

func (d *Date) String() string {
	return fmt.Sprintf("%s, %s %d, %d", d.Weekday, time.Month(d.Month), d.Day, d.Year)
}

// resultDateLayouts are the accepted forms of a feed date string, tried in
// order. The long form is how schedule pages caption a day's slate.
var resultDateLayouts = []string{
	"Monday, January 2, 2006",
	"2006-01-02",
}

// ParseDate resolves a feed date string into a Date with no games. It returns
// an error for strings matching no known layout; callers drop such dates and
// continue (malformed input must not abort a season).
func ParseDate(s string) (*Date, error) {
	for _, layout := range resultDateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return NewDate(t.Weekday().String(), int(t.Month()), t.Day(), t.Year()), nil
	}
	return nil, fmt.Errorf("season: unresolved date %q", s)
}
