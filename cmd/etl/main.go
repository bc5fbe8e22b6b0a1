// Command etl runs the full movies pipeline: fetch the source CSV from object
// storage, normalize and split it, and full-refresh the movies and
// movie_genres tables in Postgres.
//
// Configuration comes from the environment (optionally seeded from a .env
// file); see internal/config for the recognized keys. Metrics are off by
// default and opt-in per backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"moviesetl/internal/config"
	"moviesetl/internal/datasource/s3ds"
	"moviesetl/internal/metrics"
	"moviesetl/internal/metrics/datadog"
	"moviesetl/internal/metrics/prompush"
	"moviesetl/internal/pipeline"
	"moviesetl/internal/storage/postgres"
)

func main() {
	envFile := flag.String("env", ".env", "path to a .env file (missing file is ignored)")
	validateOnly := flag.Bool("validate", false, "validate configuration and exit")
	metricsBackend := flag.String("metrics-backend", "none", "metrics backend: none, pushgateway, or datadog")
	pushgatewayURL := flag.String("pushgateway-url", "", "Pushgateway base URL (overrides PUSHGATEWAY_URL)")
	statsdAddr := flag.String("statsd-addr", "127.0.0.1:8125", "DogStatsD address for the datadog backend")
	flag.Parse()

	cfg := config.Load(*envFile)

	issues := config.Validate(cfg)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasError(issues) {
		log.Fatalf("configuration invalid, aborting")
	}
	if *validateOnly {
		fmt.Println("configuration OK")
		return
	}

	if err := setupMetrics(*metricsBackend, *pushgatewayURL, *statsdAddr, cfg); err != nil {
		log.Fatalf("metrics: %v", err)
	}

	ctx := context.Background()

	src, err := s3ds.New(s3ds.Config{
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
		Region:          cfg.S3.Region,
		Bucket:          cfg.S3.Bucket,
		Key:             cfg.S3.Key,
		Endpoint:        cfg.S3.Endpoint,
	})
	if err != nil {
		log.Fatalf("source: %v", err)
	}

	repo, err := postgres.New(ctx, cfg.DB.DSN())
	if err != nil {
		log.Fatalf("destination: %v", err)
	}
	defer repo.Close()

	p := pipeline.Pipeline{Source: src, Repo: repo}
	runErr := p.Run(ctx)

	if err := metrics.Flush(); err != nil {
		log.Printf("WARN: metrics flush: %v", err)
	}
	if runErr != nil {
		log.Fatalf("pipeline: %v", runErr)
	}
	log.Printf("pipeline: done")
}

// setupMetrics installs the requested metrics backend. "none" leaves the
// default no-op backend in place.
func setupMetrics(backend, pushgatewayURL, statsdAddr string, cfg config.Config) error {
	switch backend {
	case "none", "":
		return nil
	case "pushgateway":
		url := pushgatewayURL
		if url == "" {
			url = cfg.PushgatewayURL
		}
		b, err := prompush.NewBackend(pipeline.Job, url)
		if err != nil {
			return err
		}
		metrics.SetBackend(b)
		return nil
	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:      statsdAddr,
			Namespace: pipeline.Job,
		})
		if err != nil {
			return err
		}
		metrics.SetBackend(b)
		return nil
	default:
		return fmt.Errorf("unknown backend %q", backend)
	}
}
