package pipeline

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"moviesetl/internal/movie"
	csvparser "moviesetl/internal/parser/csv"
	"moviesetl/internal/storage"
)

const sampleCSV = `title,release_year,director,language,country,duration,budget,box_office,genre
Inception,2010,Christopher Nolan,English,USA,148,160000000,829895144,"Action, Sci-Fi"
The Room,2003,Tommy Wiseau,English,USA,99,6000000,unknown,Drama
Podzemlje,1995,Emir Kusturica,Serbian,Yugoslavia,170,,4000000,"Komedija, War Drama"
`

// stringSource serves a fixed payload, optionally failing on Open.
type stringSource struct {
	payload string
	err     error
}

func (s stringSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if s.err != nil {
		return nil, s.err
	}
	return io.NopCloser(strings.NewReader(s.payload)), nil
}

// fakeRepo records what the pipeline writes and serves configurable counts.
type fakeRepo struct {
	schemaCalls int
	movies      []movie.CleanedMovie
	links       []movie.GenreLink

	schemaErr  error
	replaceErr error
	counts     storage.Counts
	countsErr  error
	countsSet  bool
}

func (r *fakeRepo) EnsureSchema(ctx context.Context) error {
	r.schemaCalls++
	return r.schemaErr
}

func (r *fakeRepo) ReplaceAll(ctx context.Context, movies []movie.CleanedMovie, links []movie.GenreLink) error {
	if r.replaceErr != nil {
		return r.replaceErr
	}
	r.movies = movies
	r.links = links
	return nil
}

func (r *fakeRepo) Counts(ctx context.Context) (storage.Counts, error) {
	if r.countsErr != nil {
		return storage.Counts{}, r.countsErr
	}
	if r.countsSet {
		return r.counts, nil
	}
	return storage.Counts{Movies: int64(len(r.movies)), GenreLinks: int64(len(r.links))}, nil
}

func (r *fakeRepo) Close() {}

/*
TestRunEndToEnd feeds a small CSV through the full pipeline against a fake
sink and checks the written shape: one movie row per input line, one genre
link per normalized token, corrections applied.
*/
func TestRunEndToEnd(t *testing.T) {
	repo := &fakeRepo{}
	p := Pipeline{
		Source: stringSource{payload: sampleCSV},
		Repo:   repo,
	}
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if repo.schemaCalls != 1 {
		t.Errorf("EnsureSchema called %d times, want 1", repo.schemaCalls)
	}
	if len(repo.movies) != 3 {
		t.Fatalf("got %d movies, want 3", len(repo.movies))
	}
	if len(repo.links) != 5 {
		t.Fatalf("got %d genre links, want 5", len(repo.links))
	}

	// "unknown" box office coerces to absent; ROI follows it.
	room := repo.movies[1]
	if room.BoxOffice != nil {
		t.Errorf("The Room box_office = %v, want absent", *room.BoxOffice)
	}
	if room.ROI != nil {
		t.Errorf("The Room roi = %v, want absent", *room.ROI)
	}

	// Corrections rewrite local-language and compound genres.
	want := []movie.GenreLink{
		{Title: "Inception", Genre: "Action"},
		{Title: "Inception", Genre: "Sci-Fi"},
		{Title: "The Room", Genre: "Drama"},
		{Title: "Podzemlje", Genre: "Comedy"},
		{Title: "Podzemlje", Genre: "Drama"},
	}
	for i, l := range repo.links {
		if l != want[i] {
			t.Errorf("link[%d] = %v, want %v", i, l, want[i])
		}
	}
}

/*
TestRunFetchFailure checks that a source failure aborts the run before any
sink call and is wrapped with the stage name.
*/
func TestRunFetchFailure(t *testing.T) {
	repo := &fakeRepo{}
	p := Pipeline{
		Source: stringSource{err: errors.New("bucket offline")},
		Repo:   repo,
	}
	err := p.Run(context.Background())
	if err == nil {
		t.Fatal("Run succeeded, want fetch error")
	}
	if !strings.Contains(err.Error(), "fetch:") {
		t.Errorf("error %q does not name the fetch stage", err)
	}
	if repo.schemaCalls != 0 {
		t.Errorf("EnsureSchema called %d times after fetch failure, want 0", repo.schemaCalls)
	}
}

/*
TestRunSchemaAndReplaceFailures checks wrapping for each fatal sink stage.
*/
func TestRunSchemaAndReplaceFailures(t *testing.T) {
	tests := []struct {
		name string
		repo *fakeRepo
		want string
	}{
		{"schema", &fakeRepo{schemaErr: errors.New("permission denied")}, "ensure schema:"},
		{"replace", &fakeRepo{replaceErr: errors.New("connection reset")}, "replace:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Pipeline{Source: stringSource{payload: sampleCSV}, Repo: tt.repo}
			err := p.Run(context.Background())
			if err == nil {
				t.Fatalf("Run succeeded, want %s error", tt.name)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

/*
TestRunCountMismatchIsNotFatal checks that a destination reporting different
totals than what was written only warns: the run still succeeds.
*/
func TestRunCountMismatchIsNotFatal(t *testing.T) {
	repo := &fakeRepo{counts: storage.Counts{Movies: 99, GenreLinks: 0}, countsSet: true}
	p := Pipeline{Source: stringSource{payload: sampleCSV}, Repo: repo}
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

/*
TestRunCountsErrorIsNotFatal checks that a failed count read-back after a
successful write does not fail the run.
*/
func TestRunCountsErrorIsNotFatal(t *testing.T) {
	repo := &fakeRepo{countsErr: errors.New("timeout")}
	p := Pipeline{Source: stringSource{payload: sampleCSV}, Repo: repo}
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(repo.movies) != 3 {
		t.Errorf("got %d movies written, want 3", len(repo.movies))
	}
}

/*
TestExtractParsesPayload checks the extract stage alone: bytes in, raw
records out, with empty cells mapped to absent fields.
*/
func TestExtractParsesPayload(t *testing.T) {
	recs, err := Extract(context.Background(), stringSource{payload: sampleCSV}, csvparser.Options{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	if recs[2].Budget != nil {
		t.Errorf("Podzemlje budget = %v, want absent", *recs[2].Budget)
	}
}
