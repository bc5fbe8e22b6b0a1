// Command transform runs the cleaning and splitting stage against a local CSV
// file and prints what would be loaded, without any network or database
// access. With -out it also writes the result into a local SQLite file so the
// tables can be inspected with ordinary SQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	csvparser "moviesetl/internal/parser/csv"
	"moviesetl/internal/storage/sqlite"
	"moviesetl/internal/transform"
)

func main() {
	path := flag.String("file", "", "local CSV file to transform (required)")
	out := flag.String("out", "", "optional SQLite file to write the result into")
	flag.Parse()
	if *path == "" {
		flag.Usage()
		os.Exit(2)
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	defer f.Close()

	recs, err := csvparser.NewParser(csvparser.Options{}).Parse(f)
	if err != nil {
		log.Fatalf("parse: %v", err)
	}

	movies, links, sum := transform.Split(recs, transform.DefaultCorrections())
	sum.Log()

	fmt.Println("movies (first 5):")
	for i, m := range movies {
		if i == 5 {
			break
		}
		fmt.Printf("  %-30s year=%s budget=%s box_office=%s roi=%s\n",
			m.Title, fmtInt(m.ReleaseYear), fmtInt64(m.Budget), fmtInt64(m.BoxOffice), fmtFloat(m.ROI))
	}

	fmt.Println("movie_genres (first 10):")
	for i, l := range links {
		if i == 10 {
			break
		}
		fmt.Printf("  %-30s %s\n", l.Title, l.Genre)
	}

	seen := map[string]bool{}
	var genres []string
	for _, l := range links {
		if !seen[l.Genre] {
			seen[l.Genre] = true
			genres = append(genres, l.Genre)
		}
	}
	sort.Strings(genres)
	fmt.Printf("unique genres (%d): %v\n", len(genres), genres)

	if *out == "" {
		return
	}
	ctx := context.Background()
	repo, err := sqlite.Open(ctx, *out)
	if err != nil {
		log.Fatalf("sqlite: %v", err)
	}
	defer repo.Close()
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}
	if err := repo.ReplaceAll(ctx, movies, links); err != nil {
		log.Fatalf("replace: %v", err)
	}
	counts, err := repo.Counts(ctx)
	if err != nil {
		log.Fatalf("counts: %v", err)
	}
	log.Printf("wrote %s: movies=%d movie_genres=%d", *out, counts.Movies, counts.GenreLinks)
}

func fmtInt(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *p)
}

func fmtInt64(p *int64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *p)
}

func fmtFloat(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *p)
}
