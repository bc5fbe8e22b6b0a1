// Package s3ds implements the object-storage datasource: it fetches a single
// well-known CSV object from an S3 bucket.
//
// Failure modes (missing object, bad credentials, unreachable endpoint) all
// surface as wrapped errors from Open; the run aborts before any transform
// executes. There is no retry here: a transient failure terminates the run
// and the caller re-invokes the whole pipeline.
package s3ds

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// Config carries the object-store credentials and coordinates.
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	Key             string // object key, e.g. "movies.csv"

	// Endpoint optionally points at an S3-compatible store (MinIO etc.).
	// Empty means AWS.
	Endpoint string
}

// Source fetches one object from S3.
type Source struct {
	api    s3iface.S3API
	bucket string
	key    string
}

// New builds a Source from static credentials. Session construction only
// validates configuration shape; network errors show up at Open time.
func New(cfg Config) (*Source, error) {
	if cfg.Bucket == "" || cfg.Key == "" {
		return nil, fmt.Errorf("s3: bucket and key are required")
	}
	awsCfg := &aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("s3: session: %w", err)
	}
	return &Source{api: s3.New(sess), bucket: cfg.Bucket, key: cfg.Key}, nil
}

// NewWithClient builds a Source around an existing S3 API client. Tests use
// this to substitute a fake.
func NewWithClient(api s3iface.S3API, bucket, key string) *Source {
	return &Source{api: api, bucket: bucket, key: key}
}

// Open issues the GetObject and returns the object body stream.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	out, err := s.api.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3: get s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return out.Body, nil
}
