// Package movie defines the record types that flow through the pipeline.
//
// The source represents a row as loosely typed tabular data; here each stage
// has an explicit struct so that "absent" is a checked state (nil pointer)
// rather than an implicit convention. All transforms produce new values and
// never mutate their input.
package movie

// Column is a single pass-through column that is not part of the canonical
// schema. Extra columns are carried opaquely, in source order, so a future
// schema change on the sink side does not require touching the transform.
type Column struct {
	Name  string
	Value *string
}

// RawRecord is one row exactly as read from the source, before any cleaning.
// Known fields hold the raw cell text; a nil pointer means the cell was
// missing or empty in the source. Genre is the single comma-separated string
// from the source, not yet split.
type RawRecord struct {
	Title       *string
	ReleaseYear *string
	Director    *string
	Language    *string
	Country     *string
	Duration    *string
	Budget      *string
	BoxOffice   *string
	Genre       *string

	// Extra holds any columns beyond the canonical set, in source order.
	Extra []Column
}

// CleanedMovie is one row of the movies table after field coercion. Any field
// that failed coercion (or was missing) is nil; the row is never rejected for
// bad data. ROI is present iff both Budget and BoxOffice are present and
// Budget is nonzero.
type CleanedMovie struct {
	Title       string
	ReleaseYear *int
	Director    *string
	Language    *string
	Country     *string
	Duration    *int
	Budget      *int64
	BoxOffice   *int64
	ROI         *float64

	// Extra is carried through from the RawRecord untouched. The Postgres
	// sink only writes the canonical columns; these exist so later schema
	// evolution does not need a parser change.
	Extra []Column
}

// GenreLink is one row of the movie_genres table: a single (title, genre)
// pair produced by denormalizing the comma-separated genre field. The title
// is the join key; no foreign key is declared on the destination.
type GenreLink struct {
	Title string
	Genre string
}
