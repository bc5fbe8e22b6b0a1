// Package config loads and validates the pipeline configuration from the
// environment (12-factor style). A .env file in the working directory is
// honored when present, matching how the rest of our tooling is configured in
// development; real deployments set plain environment variables.
//
// Recognized keys:
//
//	AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, AWS_REGION, AWS_BUCKET_NAME
//	S3_OBJECT_KEY  (default "movies.csv")
//	S3_ENDPOINT    (optional, for S3-compatible stores)
//	DB_HOST, DB_PORT (default 5432), DB_NAME, DB_USER, DB_PASSWORD
//	DB_SSLMODE     (default "disable")
//	PUSHGATEWAY_URL (optional; metrics)
package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/joho/godotenv"
)

// S3Config holds the object-store credentials and object coordinates.
type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	Key             string
	Endpoint        string
}

// DBConfig holds the relational-store connection parameters.
type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// Config is the full runtime configuration for one pipeline run.
type Config struct {
	S3             S3Config
	DB             DBConfig
	PushgatewayURL string
}

// DSN renders the pgx connection string.
func (d DBConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%s", d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	q := url.Values{}
	if d.SSLMode != "" {
		q.Set("sslmode", d.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Load reads configuration from the environment. When envFile is non-empty
// and exists it is loaded first (without overriding variables already set).
// A missing envFile is not an error; the environment alone may be complete.
func Load(envFile string) Config {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			// Malformed .env is worth surfacing, but the environment may
			// still carry everything needed; validation decides.
			fmt.Fprintf(os.Stderr, "config: load %s: %v\n", envFile, err)
		}
	}

	return Config{
		S3: S3Config{
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			Region:          os.Getenv("AWS_REGION"),
			Bucket:          os.Getenv("AWS_BUCKET_NAME"),
			Key:             getenvDefault("S3_OBJECT_KEY", "movies.csv"),
			Endpoint:        os.Getenv("S3_ENDPOINT"),
		},
		DB: DBConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     getenvDefault("DB_PORT", "5432"),
			Name:     os.Getenv("DB_NAME"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			SSLMode:  getenvDefault("DB_SSLMODE", "disable"),
		},
		PushgatewayURL: os.Getenv("PUSHGATEWAY_URL"),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
