// Package csv parses the source CSV blob into raw movie records.
//
// The parser is deliberately tolerant of cell content (bad numbers are a
// transform concern, not a parse error) but strict about the header: the
// canonical movie columns must all be present or the payload is rejected,
// since downstream field mapping would otherwise be silently wrong. Columns
// beyond the canonical set are carried through opaquely on each record.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"moviesetl/internal/movie"
)

// canonical column names, in schema order.
const (
	colTitle       = "title"
	colReleaseYear = "release_year"
	colDirector    = "director"
	colLanguage    = "language"
	colCountry     = "country"
	colDuration    = "duration"
	colBudget      = "budget"
	colBoxOffice   = "box_office"
	colGenre       = "genre"
)

var canonicalColumns = []string{
	colTitle, colReleaseYear, colDirector, colLanguage, colCountry,
	colDuration, colBudget, colBoxOffice, colGenre,
}

// Options configures the parser. Zero values give sensible defaults.
type Options struct {
	// Comma is the field delimiter; ',' when zero.
	Comma rune

	// HeaderMap maps a source header (post-slug) to a canonical column name,
	// for feeds whose headers do not slug onto the schema directly.
	HeaderMap map[string]string
}

// Parser parses CSV input according to Options. A Parser is reusable across
// inputs but is not safe for concurrent use.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse reads the entire CSV stream and returns one RawRecord per data row,
// in input order.
//
// Header handling: the first row is required, slugged (diacritics stripped,
// lowercased, snake_cased), optionally renamed through HeaderMap, and checked
// against the canonical column set. A missing canonical column is an error.
// Header order is not significant.
//
// Cell handling: an empty cell is a missing value (nil), matching how the
// upstream tabular tooling reads blanks. Rows narrower than the header get
// nil for the absent columns; surplus cells on over-wide rows are dropped.
func (p *Parser) Parse(r io.Reader) ([]movie.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.Comma = ','
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.FieldsPerRecord = -1 // enforce width ourselves
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header = StripHeaderBOM(header)

	// index of each canonical column, plus the pass-through columns in
	// source order.
	idx := make(map[string]int, len(header))
	var extras []extraCol
	for i, raw := range header {
		name := SlugHeader(raw)
		if mapped, ok := p.opt.HeaderMap[name]; ok && mapped != "" {
			name = mapped
		}
		if isCanonical(name) {
			idx[name] = i
			continue
		}
		extras = append(extras, extraCol{name: name, pos: i})
	}

	var missing []string
	for _, c := range canonicalColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("header missing column(s): %s", strings.Join(missing, ", "))
	}

	var out []movie.RawRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(out)+2, err)
		}
		out = append(out, assemble(row, idx, extras))
	}
	return out, nil
}

type extraCol struct {
	name string
	pos  int
}

func isCanonical(name string) bool {
	for _, c := range canonicalColumns {
		if name == c {
			return true
		}
	}
	return false
}

// assemble maps one positional CSV row onto a RawRecord.
func assemble(row []string, idx map[string]int, extras []extraCol) movie.RawRecord {
	cell := func(col string) *string {
		i := idx[col]
		if i >= len(row) || row[i] == "" {
			return nil
		}
		v := row[i]
		return &v
	}

	rec := movie.RawRecord{
		Title:       cell(colTitle),
		ReleaseYear: cell(colReleaseYear),
		Director:    cell(colDirector),
		Language:    cell(colLanguage),
		Country:     cell(colCountry),
		Duration:    cell(colDuration),
		Budget:      cell(colBudget),
		BoxOffice:   cell(colBoxOffice),
		Genre:       cell(colGenre),
	}
	for _, ec := range extras {
		var v *string
		if ec.pos < len(row) && row[ec.pos] != "" {
			s := row[ec.pos]
			v = &s
		}
		rec.Extra = append(rec.Extra, movie.Column{Name: ec.name, Value: v})
	}
	return rec
}
