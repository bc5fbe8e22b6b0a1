// Package file implements a local filesystem datasource, used by the
// standalone transform check to run the pipeline against a CSV on disk
// without touching object storage.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Local opens files from the local disk.
type Local struct{ path string }

// NewLocal returns a Local source bound to path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open opens the configured path for reading. A context that is already
// canceled short-circuits without touching the filesystem. Filesystem errors
// are wrapped with the path but stay inspectable via errors.Is (e.g.
// os.ErrNotExist).
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}
