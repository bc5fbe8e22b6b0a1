package transform

import (
	"math"
	"strconv"
	"strings"

	"moviesetl/internal/movie"
)

// CleanRecord coerces one raw row into a CleanedMovie.
//
// Numeric coercion is lossy and best-effort: a cell that does not parse as a
// number (including the literal sentinel "unknown" that the source uses for
// box_office) becomes nil instead of an error. The row itself is never
// rejected. Text fields are trimmed; a missing text field stays missing
// rather than becoming "".
//
// ROI is (box_office - budget) / budget * 100 rounded to two decimals, and is
// present only when both inputs are present and budget is nonzero. A zero
// budget yields a nil ROI, not a division error.
//
// The genre field is deliberately absent from the output; genres are handled
// exclusively by NormalizeGenres and Split.
func CleanRecord(raw movie.RawRecord) movie.CleanedMovie {
	out := movie.CleanedMovie{
		Title:       trimmed(raw.Title),
		ReleaseYear: parseInt(raw.ReleaseYear),
		Director:    trimPtr(raw.Director),
		Language:    trimPtr(raw.Language),
		Country:     trimPtr(raw.Country),
		Duration:    parseInt(raw.Duration),
		Budget:      parseInt64(raw.Budget),
		BoxOffice:   parseInt64(raw.BoxOffice),
		Extra:       raw.Extra,
	}
	out.ROI = roi(out.Budget, out.BoxOffice)
	return out
}

// roi returns the rounded ROI percentage, or nil when it is undefined.
func roi(budget, boxOffice *int64) *float64 {
	if budget == nil || boxOffice == nil || *budget == 0 {
		return nil
	}
	v := float64(*boxOffice-*budget) / float64(*budget) * 100
	// Ties round to even, matching how the upstream tabular tooling rounds.
	v = math.RoundToEven(v*100) / 100
	return &v
}

// parseInt64 parses a raw cell as a 64-bit integer. Values written as
// integral floats ("165000000.0") are accepted; anything else unparseable,
// fractional, or non-finite becomes nil.
func parseInt64(raw *string) *int64 {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil
	}
	// float64(math.MaxInt64) rounds up to 2^63, so the upper bound must be
	// exclusive or a value of exactly 2^63 would saturate the conversion.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return nil
	}
	n := int64(f)
	return &n
}

// parseInt is parseInt64 narrowed to int for year/duration columns.
func parseInt(raw *string) *int {
	n64 := parseInt64(raw)
	if n64 == nil {
		return nil
	}
	n := int(*n64)
	if int64(n) != *n64 {
		return nil
	}
	return &n
}

// trimPtr trims a present string in place; nil stays nil.
func trimPtr(raw *string) *string {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(*raw)
	return &s
}

// trimmed returns the trimmed value of a possibly missing cell; a missing
// title becomes "" because the movies table requires a title value.
func trimmed(raw *string) string {
	if raw == nil {
		return ""
	}
	return strings.TrimSpace(*raw)
}
