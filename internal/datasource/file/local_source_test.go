package file

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// TestLocalOpen covers success, missing file, and pre-canceled context.
func TestLocalOpen(t *testing.T) {
	t.Parallel()

	t.Run("success_reads_content", func(t *testing.T) {
		t.Parallel()
		p := filepath.Join(t.TempDir(), "movies.csv")
		const payload = "title,genre\nDune,Action"
		if err := os.WriteFile(p, []byte(payload), 0o644); err != nil {
			t.Fatalf("write test file: %v", err)
		}

		rc, err := NewLocal(p).Open(context.Background())
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		defer rc.Close()

		got, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("reading: %v", err)
		}
		if string(got) != payload {
			t.Fatalf("content = %q, want %q", got, payload)
		}
	})

	t.Run("missing_file_errors_with_wrapping", func(t *testing.T) {
		t.Parallel()
		p := filepath.Join(t.TempDir(), "missing.csv")

		rc, err := NewLocal(p).Open(context.Background())
		if err == nil {
			rc.Close()
			t.Fatal("expected error for missing file")
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("errors.Is(%v, os.ErrNotExist) = false", err)
		}
	})

	t.Run("pre_canceled_context_short_circuits", func(t *testing.T) {
		t.Parallel()
		p := filepath.Join(t.TempDir(), "movies.csv")
		if err := os.WriteFile(p, []byte("ignored"), 0o644); err != nil {
			t.Fatalf("write test file: %v", err)
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := NewLocal(p).Open(ctx); !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	})
}
