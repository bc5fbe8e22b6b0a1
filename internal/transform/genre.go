// Package transform implements the core of the pipeline: genre normalization,
// field cleaning with derived-metric computation, and the split of the raw
// dataset into the movies and movie_genres row sets.
//
// Everything in this package is a pure function of its input plus an injected
// Corrections table; there is no shared mutable state and no I/O.
package transform

import "strings"

// Corrections maps a known misspelled or non-standard genre label to its
// canonical form. Lookups are case-sensitive and exact-match; there is no
// fuzzy matching. The table is built once at startup and passed into the
// normalizer, so tests can substitute their own.
type Corrections map[string]string

// defaultCorrections is the shipped typo/variant table. Canonical forms never
// appear as keys mapping to something else, so applying the table twice is a
// no-op.
var defaultCorrections = Corrections{
	"Horor":            "Horror",
	"Mistery":          "Mystery",
	"Misterija":        "Mystery",
	"Krimi":            "Crime",
	"Komedija":         "Comedy",
	"Akcija":           "Action",
	"Romantic Drama":   "Drama",
	"Comedy-Drama":     "Drama",
	"Crime Drama":      "Crime",
	"Sports Drama":     "Drama",
	"War Drama":        "Drama",
	"Historical Drama": "Drama",
	"Thriller":         "Thriller",
	"Avant-Garde":      "Documentary",
}

// DefaultCorrections returns a copy of the shipped correction table. Callers
// may extend the copy without affecting other users.
func DefaultCorrections() Corrections {
	out := make(Corrections, len(defaultCorrections))
	for k, v := range defaultCorrections {
		out[k] = v
	}
	return out
}

// Fix trims a single genre label and maps it through the correction table.
// An unmapped label passes through verbatim after the trim.
func (c Corrections) Fix(genre string) string {
	g := strings.TrimSpace(genre)
	if fixed, ok := c[g]; ok {
		return fixed
	}
	return g
}

// NormalizeGenres splits a raw comma-separated genre field into an ordered
// list of corrected, de-duplicated labels.
//
// A nil input (missing field) yields an empty list. Duplicates that appear
// after correction (e.g. "Action, Akcija") collapse to the first occurrence;
// order of first appearance is preserved. A token that is empty after
// trimming (malformed input such as a trailing comma) is kept as an
// empty-string label rather than dropped, so degenerate source rows remain
// visible downstream.
func NormalizeGenres(raw *string, corr Corrections) []string {
	if raw == nil {
		return []string{}
	}
	parts := strings.Split(*raw, ",")
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		g := corr.Fix(p)
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}
