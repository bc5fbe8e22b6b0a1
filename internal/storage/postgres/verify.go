package postgres

import (
	"context"
	"fmt"
)

// ROIRow is one line of the top-by-ROI diagnostic.
type ROIRow struct {
	Title       string
	ReleaseYear *int
	Budget      *int64
	BoxOffice   *int64
	ROI         *float64
}

// GenreCount is one line of the genre frequency histogram.
type GenreCount struct {
	Genre string
	Count int64
}

// Version returns the server version string; used as a connectivity check.
func (r *Repository) Version(ctx context.Context) (string, error) {
	var v string
	if err := r.pool.QueryRow(ctx, "SELECT version()").Scan(&v); err != nil {
		return "", fmt.Errorf("version: %w", err)
	}
	return v, nil
}

// TopROI returns the limit highest-ROI movies. Rows with NULL roi sort last.
func (r *Repository) TopROI(ctx context.Context, limit int) ([]ROIRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT title, release_year, budget, box_office, roi
		FROM movies
		ORDER BY roi DESC NULLS LAST
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top roi: %w", err)
	}
	defer rows.Close()

	var out []ROIRow
	for rows.Next() {
		var rr ROIRow
		if err := rows.Scan(&rr.Title, &rr.ReleaseYear, &rr.Budget, &rr.BoxOffice, &rr.ROI); err != nil {
			return nil, fmt.Errorf("top roi: scan: %w", err)
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

// GenreHistogram returns the limit most frequent genres with their counts.
func (r *Repository) GenreHistogram(ctx context.Context, limit int) ([]GenreCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT genre, COUNT(*) AS film_count
		FROM movie_genres
		GROUP BY genre
		ORDER BY film_count DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("genre histogram: %w", err)
	}
	defer rows.Close()

	var out []GenreCount
	for rows.Next() {
		var gc GenreCount
		if err := rows.Scan(&gc.Genre, &gc.Count); err != nil {
			return nil, fmt.Errorf("genre histogram: scan: %w", err)
		}
		out = append(out, gc)
	}
	return out, rows.Err()
}
