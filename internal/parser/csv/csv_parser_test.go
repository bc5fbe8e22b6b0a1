package csv

import (
	"strings"
	"testing"
)

/*
TestParseBasic verifies the common path: header in arbitrary order, empty
cells becoming missing values, and raw cell text preserved without coercion.
*/
func TestParseBasic(t *testing.T) {
	in := strings.Join([]string{
		"genre,title,release_year,director,language,country,duration,budget,box_office",
		`"Action, Horor",Dune,2021,Denis Villeneuve,English,USA,155,165000000,unknown`,
		",Arrival,2016,,,USA,116,47000000,203388186",
	}, "\n")

	recs, err := NewParser(Options{}).Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}

	r := recs[0]
	if r.Title == nil || *r.Title != "Dune" {
		t.Errorf("Title = %v, want Dune", r.Title)
	}
	if r.Genre == nil || *r.Genre != "Action, Horor" {
		t.Errorf("Genre = %v, want raw comma-separated string", r.Genre)
	}
	if r.BoxOffice == nil || *r.BoxOffice != "unknown" {
		t.Errorf("BoxOffice = %v, want raw sentinel passed through", r.BoxOffice)
	}

	r = recs[1]
	if r.Genre != nil {
		t.Errorf("empty genre cell = %q, want missing", *r.Genre)
	}
	if r.Director != nil {
		t.Errorf("empty director cell = %q, want missing", *r.Director)
	}
}

// TestParseHeaderStrictness: a payload without the canonical columns is
// rejected, naming what is missing.
func TestParseHeaderStrictness(t *testing.T) {
	in := "title,genre\nDune,Action\n"
	_, err := NewParser(Options{}).Parse(strings.NewReader(in))
	if err == nil {
		t.Fatal("Parse accepted a header missing seven canonical columns")
	}
	if !strings.Contains(err.Error(), "release_year") {
		t.Errorf("error %q does not name a missing column", err)
	}
}

// TestParseExtrasPreserved: unknown columns ride along on the record in
// source order and are not dropped.
func TestParseExtrasPreserved(t *testing.T) {
	in := strings.Join([]string{
		"title,release_year,director,language,country,duration,budget,box_office,genre,imdb_id,rating",
		"Dune,2021,DV,English,USA,155,1,2,Action,tt1160419,8.0",
	}, "\n")

	recs, err := NewParser(Options{}).Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	extra := recs[0].Extra
	if len(extra) != 2 || extra[0].Name != "imdb_id" || extra[1].Name != "rating" {
		t.Fatalf("Extra = %#v, want imdb_id then rating", extra)
	}
	if *extra[0].Value != "tt1160419" {
		t.Errorf("imdb_id = %q", *extra[0].Value)
	}
}

// TestParseShortRow: a row narrower than the header yields missing values for
// the absent trailing columns instead of an error.
func TestParseShortRow(t *testing.T) {
	in := strings.Join([]string{
		"title,release_year,director,language,country,duration,budget,box_office,genre",
		"Dune,2021",
	}, "\n")

	recs, err := NewParser(Options{}).Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if recs[0].Genre != nil || recs[0].Budget != nil {
		t.Errorf("short row produced values beyond its width: %+v", recs[0])
	}
	if recs[0].ReleaseYear == nil || *recs[0].ReleaseYear != "2021" {
		t.Errorf("ReleaseYear = %v, want 2021", recs[0].ReleaseYear)
	}
}

// TestParseBOMAndHeaderMap: a BOM on the first header cell is ignored, and
// HeaderMap renames slugged source headers onto canonical columns.
func TestParseBOMAndHeaderMap(t *testing.T) {
	in := strings.Join([]string{
		"\uFEFFtitle,release_year,director,language,country,duration,budget,Box Office ,zanr",
		"Dune,2021,DV,English,USA,155,1,2,Action",
	}, "\n")

	p := NewParser(Options{HeaderMap: map[string]string{"zanr": "genre"}})
	recs, err := p.Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if recs[0].Genre == nil || *recs[0].Genre != "Action" {
		t.Errorf("mapped genre column = %v, want Action", recs[0].Genre)
	}
	if recs[0].BoxOffice == nil || *recs[0].BoxOffice != "2" {
		t.Errorf("slugged box_office column = %v, want 2", recs[0].BoxOffice)
	}
}

/*
TestSlugHeader documents the canonicalization rules used to match source
headers to schema columns.
*/
func TestSlugHeader(t *testing.T) {
	tests := []struct{ in, want string }{
		{"title", "title"},
		{"Box Office ", "box_office"},
		{"Release-Year", "release_year"},
		{"Žánr", "zanr"},
		{"  DURATION", "duration"},
		{"box__office", "box_office"},
	}
	for _, tc := range tests {
		if got := SlugHeader(tc.in); got != tc.want {
			t.Errorf("SlugHeader(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
