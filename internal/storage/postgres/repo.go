// Package postgres implements the destination sink using pgx v5. Writes go
// through COPY inside a per-table transaction: TRUNCATE then CopyFrom, so a
// reader never observes a half-empty table. No transaction spans the two
// tables; a failure between the writes leaves a mixed state until the next run.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"moviesetl/internal/movie"
	"moviesetl/internal/storage"
)

// Destination schema. SERIAL ids are populated by the database and excluded
// from the COPY column lists.
const (
	createMovies = `CREATE TABLE IF NOT EXISTS movies (
	id           SERIAL PRIMARY KEY,
	title        VARCHAR(300) NOT NULL,
	release_year INTEGER,
	director     VARCHAR(200),
	language     VARCHAR(100),
	country      VARCHAR(100),
	duration     INTEGER,
	budget       BIGINT,
	box_office   BIGINT,
	roi          NUMERIC(10, 2)
)`

	createMovieGenres = `CREATE TABLE IF NOT EXISTS movie_genres (
	id    SERIAL PRIMARY KEY,
	title VARCHAR(300) NOT NULL,
	genre VARCHAR(100) NOT NULL
)`
)

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
}

// New connects a pool to the given DSN. The pool is validated with a ping so
// bad credentials fail here rather than mid-run.
func New(ctx context.Context, dsn string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Repository{pool: pool}, nil
}

// Close releases the pool.
func (r *Repository) Close() { r.pool.Close() }

// EnsureSchema creates the movies and movie_genres tables if absent.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	for _, ddl := range []string{createMovies, createMovieGenres} {
		if _, err := r.pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", pgDetail(err))
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

// replaceTable truncates and reloads one table inside a single transaction.
func (r *Repository) replaceTable(ctx context.Context, table string, columns []string, rows [][]any) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("replace %s: begin: %w", table, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "TRUNCATE "+pgIdent(table)+" RESTART IDENTITY"); err != nil {
		return fmt.Errorf("replace %s: truncate: %w", table, pgDetail(err))
	}
	n, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("replace %s: copy: %w", table, pgDetail(err))
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("replace %s: commit: %w", table, err)
	}
	log.Printf("load: table=%s rows=%d", table, n)
	return nil
}

// Counts reads back the row totals of both tables. The two reads are
// independent, so they run concurrently.
func (r *Repository) Counts(ctx context.Context) (storage.Counts, error) {
	var c storage.Counts
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM movies").Scan(&c.Movies)
	})
	g.Go(func() error {
		return r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM movie_genres").Scan(&c.GenreLinks)
	})
	if err := g.Wait(); err != nil {
		return storage.Counts{}, fmt.Errorf("counts: %w", err)
	}
	return c, nil
}

// pgDetail surfaces the Postgres error detail when present; pgx error strings
// alone often omit the interesting part (offending value, constraint name).
func pgDetail(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Detail != "" {
		return fmt.Errorf("%s (%s): %s", pgErr.Message, pgErr.SQLState(), pgErr.Detail)
	}
	return err
}

// pgIdent safely quotes a single identifier segment.
func pgIdent(id string) string {
	out := make([]byte, 0, len(id)+2)
	out = append(out, '"')
	for i := 0; i < len(id); i++ {
		if id[i] == '"' {
			out = append(out, '"')
		}
		out = append(out, id[i])
	}
	return string(append(out, '"'))
}
