// Command verify inspects the loaded tables: total row counts, the top movies
// by ROI, and the genre frequency histogram. With -ping it only checks
// connectivity and prints the server version.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"moviesetl/internal/config"
	"moviesetl/internal/storage/postgres"
)

func main() {
	envFile := flag.String("env", ".env", "path to a .env file (missing file is ignored)")
	ping := flag.Bool("ping", false, "check connectivity and exit")
	roiLimit := flag.Int("roi-limit", 5, "number of top-ROI movies to print")
	genreLimit := flag.Int("genre-limit", 10, "number of genre histogram rows to print")
	flag.Parse()

	cfg := config.Load(*envFile)
	issues := config.ValidateSink(cfg.DB)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasError(issues) {
		log.Fatalf("configuration invalid, aborting")
	}

	ctx := context.Background()
	repo, err := postgres.New(ctx, cfg.DB.DSN())
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer repo.Close()

	if *ping {
		v, err := repo.Version(ctx)
		if err != nil {
			log.Fatalf("ping: %v", err)
		}
		fmt.Println(v)
		return
	}

	counts, err := repo.Counts(ctx)
	if err != nil {
		log.Fatalf("counts: %v", err)
	}
	fmt.Printf("movies=%d movie_genres=%d\n", counts.Movies, counts.GenreLinks)

	top, err := repo.TopROI(ctx, *roiLimit)
	if err != nil {
		log.Fatalf("top roi: %v", err)
	}
	fmt.Printf("top %d by roi:\n", *roiLimit)
	for _, r := range top {
		fmt.Printf("  %-30s year=%s budget=%s box_office=%s roi=%s\n",
			r.Title, fmtInt(r.ReleaseYear), fmtInt64(r.Budget), fmtInt64(r.BoxOffice), fmtFloat(r.ROI))
	}

	hist, err := repo.GenreHistogram(ctx, *genreLimit)
	if err != nil {
		log.Fatalf("genre histogram: %v", err)
	}
	fmt.Printf("top %d genres:\n", *genreLimit)
	for _, g := range hist {
		fmt.Printf("  %-20s %d\n", g.Genre, g.Count)
	}
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
