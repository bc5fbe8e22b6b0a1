// Command extract fetches the source object and prints a short preview, for
// checking credentials and object coordinates without touching the database.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/zeebo/xxh3"

	"moviesetl/internal/config"
	"moviesetl/internal/datasource"
	"moviesetl/internal/datasource/file"
	"moviesetl/internal/datasource/s3ds"
	csvparser "moviesetl/internal/parser/csv"
)

func main() {
	envFile := flag.String("env", ".env", "path to a .env file (missing file is ignored)")
	localPath := flag.String("file", "", "read a local file instead of object storage")
	headLines := flag.Int("head", 5, "number of leading lines to print")
	flag.Parse()

	var src datasource.Source
	if *localPath != "" {
		src = file.NewLocal(*localPath)
	} else {
		cfg := config.Load(*envFile)
		issues := config.ValidateSource(cfg.S3)
		for _, iss := range issues {
			fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		}
		if config.HasError(issues) {
			log.Fatalf("configuration invalid, aborting")
		}
		s, err := s3ds.New(s3ds.Config{
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
		src = s
	}

	rc, err := src.Open(context.Background())
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	defer rc.Close()

	payload, err := io.ReadAll(rc)
	if err != nil {
		log.Fatalf("read: %v", err)
	}
	fmt.Printf("bytes=%d fingerprint=%016x\n", len(payload), xxh3.Hash(payload))

	header, err := csv.NewReader(bytes.NewReader(payload)).Read()
	if err != nil {
		log.Fatalf("read header: %v", err)
	}
	slugged := make([]string, len(header))
	for i, h := range csvparser.StripHeaderBOM(header) {
		slugged[i] = csvparser.SlugHeader(h)
	}
	fmt.Printf("columns: %s\n", strings.Join(slugged, ", "))

	sc := bufio.NewScanner(bytes.NewReader(payload))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for i := 0; i < *headLines && sc.Scan(); i++ {
		fmt.Println(sc.Text())
	}
	if err := sc.Err(); err != nil {
		log.Fatalf("scan: %v", err)
	}
}
