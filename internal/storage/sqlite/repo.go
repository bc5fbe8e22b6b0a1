// Package sqlite implements the sink contract against a local SQLite file.
// It exists for the standalone transform check: the transformed tables can be
// written to disk and inspected with any SQLite client, without a Postgres
// instance. SQLite has no COPY; batched INSERTs inside one transaction are
// close enough at this volume.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"moviesetl/internal/movie"
	"moviesetl/internal/storage"
)

const (
	createMovies = `CREATE TABLE IF NOT EXISTS movies (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	title        TEXT NOT NULL,
	release_year INTEGER,
	director     TEXT,
	language     TEXT,
	country      TEXT,
	duration     INTEGER,
	budget       INTEGER,
	box_office   INTEGER,
	roi          REAL
)`

	createMovieGenres = `CREATE TABLE IF NOT EXISTS movie_genres (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	genre TEXT NOT NULL
)`
)

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path.
func Open(ctx context.Context, path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite: path must not be empty")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return &Repository{db: db}, nil
}

// Close closes the underlying handle.
func (r *Repository) Close() { r.db.Close() }

// EnsureSchema creates the two tables if absent.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	for _, ddl := range []string{createMovies, createMovieGenres} {
		if _, err := r.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("sqlite: ensure schema: %w", err)
		}
	}
	return nil
}

// ReplaceAll performs the full-refresh write of both tables.
func (r *Repository) ReplaceAll(ctx context.Context, movies []movie.CleanedMovie, links []movie.GenreLink) error {
	if err := r.replaceTable(ctx, "movies", storage.MovieColumns, storage.MovieRows(movies)); err != nil {
		return err
	}
	return r.replaceTable(ctx, "movie_genres", storage.GenreColumns, storage.GenreRows(links))
}

func (r *Repository) replaceTable(ctx context.Context, table string, columns []string, rows [][]any) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: replace %s: begin: %w", table, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("sqlite: replace %s: clear: %w", table, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), placeholders,
	))
	if err != nil {
		return fmt.Errorf("sqlite: replace %s: prepare: %w", table, err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("sqlite: replace %s: insert: %w", table, err)
		}
	}
	return tx.Commit()
}

// Counts reads back the row totals of both tables.
func (r *Repository) Counts(ctx context.Context) (storage.Counts, error) {
	var c storage.Counts
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies").Scan(&c.Movies); err != nil {
		return storage.Counts{}, fmt.Errorf("sqlite: counts: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM movie_genres").Scan(&c.GenreLinks); err != nil {
		return storage.Counts{}, fmt.Errorf("sqlite: counts: %w", err)
	}
	return c, nil
}
