// Package market joins external price quotes onto a season's games and
// decides which side, if any, carries a bettable edge.
package market

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Resolver maps the market feed's team abbreviations to the full team names
// used by the results feed. The table comes from configuration; a malformed
// table is a construction error, not a per-quote one.
type Resolver struct {
	byAbbrev map[string]string
}

// NewResolver validates and indexes an abbreviation table.
func NewResolver(table map[string]string) (*Resolver, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("market: abbreviation table is empty")
	}

	byAbbrev := make(map[string]string, len(table))
	for abbrev, name := range table {
		key := normalizeKey(abbrev)
		if key == "" {
			return nil, fmt.Errorf("market: blank abbreviation for team %q", name)
		}
		if name == "" {
			return nil, fmt.Errorf("market: blank team name for abbreviation %q", abbrev)
		}
		if prev, dup := byAbbrev[key]; dup {
			return nil, fmt.Errorf("market: abbreviation %q maps to both %q and %q", abbrev, prev, name)
		}
		byAbbrev[key] = name
	}
	return &Resolver{byAbbrev: byAbbrev}, nil
}

// Resolve returns the full team name for an abbreviation.
func (r *Resolver) Resolve(abbrev string) (string, bool) {
	name, ok := r.byAbbrev[normalizeKey(abbrev)]
	return name, ok
}

// normalizeKey lowercases and strips accents and surrounding space so feed
// variants of the same abbreviation collide.
func normalizeKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, _ = transform.String(t, s)
	return strings.ToLower(strings.TrimSpace(s))
}
