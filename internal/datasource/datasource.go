// Package datasource defines the minimal contract between the pipeline and
// whatever holds the raw dataset. A Source yields a byte stream; parsing is
// someone else's job.
package datasource

import (
	"context"
	"io"
)

// Source opens the raw dataset for reading. Implementations block on network
// or filesystem I/O and must respect ctx cancellation. The caller owns the
// returned ReadCloser.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
