// Package storage contains the sink contract the pipeline writes through.
// Concrete backends live in subpackages (postgres for the real destination,
// sqlite for the local transform check); the pipeline itself depends only on
// this interface.
package storage

import (
	"context"

	"moviesetl/internal/movie"
)

// Counts are post-write row totals per destination table.
type Counts struct {
	Movies     int64
	GenreLinks int64
}

// Repository is the sink side of the pipeline.
//
// EnsureSchema is idempotent: it creates the two destination tables when
// absent and succeeds silently otherwise. ReplaceAll performs a full-refresh
// write: existing rows are discarded and replaced, atomically per table but
// with no transaction spanning both tables — a failure between the two writes
// leaves the destination in an undefined mixed state, which is accepted for a
// full-refresh batch tool. Counts reads back the current row totals for
// post-write verification.
type Repository interface {
	EnsureSchema(ctx context.Context) error
	ReplaceAll(ctx context.Context, movies []movie.CleanedMovie, links []movie.GenreLink) error
	Counts(ctx context.Context) (Counts, error)
	Close()
}

// MovieColumns is the ordered column list for bulk writes into movies. The
// serial id column is omitted; the database populates it.
var MovieColumns = []string{
	"title", "release_year", "director", "language", "country",
	"duration", "budget", "box_office", "roi",
}

// GenreColumns is the ordered column list for bulk writes into movie_genres.
var GenreColumns = []string{"title", "genre"}

// MovieRows converts cleaned movies into positional rows aligned with
// MovieColumns. Absent fields become untyped nils so every driver writes SQL
// NULL.
func MovieRows(movies []movie.CleanedMovie) [][]any {
	rows := make([][]any, 0, len(movies))
	for _, m := range movies {
		rows = append(rows, []any{
			m.Title,
			nullable(m.ReleaseYear),
			nullable(m.Director),
			nullable(m.Language),
			nullable(m.Country),
			nullable(m.Duration),
			nullable(m.Budget),
			nullable(m.BoxOffice),
			nullable(m.ROI),
		})
	}
	return rows
}

// GenreRows converts genre links into positional rows aligned with GenreColumns.
func GenreRows(links []movie.GenreLink) [][]any {
	rows := make([][]any, 0, len(links))
	for _, l := range links {
		rows = append(rows, []any{l.Title, l.Genre})
	}
	return rows
}

// nullable flattens a typed nil pointer into an untyped nil and dereferences
// otherwise.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
