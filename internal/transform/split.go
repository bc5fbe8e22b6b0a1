package transform

import (
	"log"

	"moviesetl/internal/movie"
)

// Summary carries observational counts from one transform run. The numbers
// feed logs and metrics only; nothing downstream branches on them.
type Summary struct {
	Rows          int // input rows = movies rows out
	NullBudget    int // movies with budget coerced to nil
	NullBoxOffice int // movies with box_office coerced to nil
	GenreRows     int // total movie_genres rows
	UniqueGenres  int // distinct labels across all links
}

// Split turns the raw dataset into the two destination row sets: exactly one
// CleanedMovie per input record, and zero or more GenreLinks per record (one
// per normalized genre label).
//
// Output order follows input order, and the links for a given movie are
// contiguous and in the per-record genre order. Titles are not de-duplicated:
// two input rows with the same title stay two rows in both outputs. Link rows
// use the cleaned (trimmed) title so they join against the movies table.
func Split(recs []movie.RawRecord, corr Corrections) ([]movie.CleanedMovie, []movie.GenreLink, Summary) {
	movies := make([]movie.CleanedMovie, 0, len(recs))
	links := make([]movie.GenreLink, 0, len(recs))
	distinct := map[string]struct{}{}

	sum := Summary{Rows: len(recs)}
	for _, rec := range recs {
		m := CleanRecord(rec)
		movies = append(movies, m)
		if m.Budget == nil {
			sum.NullBudget++
		}
		if m.BoxOffice == nil {
			sum.NullBoxOffice++
		}

		for _, g := range NormalizeGenres(rec.Genre, corr) {
			links = append(links, movie.GenreLink{Title: m.Title, Genre: g})
			distinct[g] = struct{}{}
		}
	}
	sum.GenreRows = len(links)
	sum.UniqueGenres = len(distinct)
	return movies, links, sum
}

// Log emits the run-summary lines for one transform pass.
func (s Summary) Log() {
	log.Printf("transform: rows=%d null_budget=%d null_box_office=%d genre_rows=%d unique_genres=%d",
		s.Rows, s.NullBudget, s.NullBoxOffice, s.GenreRows, s.UniqueGenres)
}
