package metrics

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"
)

// recorder accumulates emissions keyed by "name{k=v,...}" so assertions can
// name the exact series they expect.
type recorder struct {
	counts  map[string]float64
	obs     map[string][]float64
	flushes int
}

func newRecorder() *recorder {
	return &recorder{counts: map[string]float64{}, obs: map[string][]float64{}}
}

func (r *recorder) IncCounter(name string, delta float64, labels Labels) {
	r.counts[series(name, labels)] += delta
}

func (r *recorder) ObserveHistogram(name string, value float64, labels Labels) {
	key := series(name, labels)
	r.obs[key] = append(r.obs[key], value)
}

func (r *recorder) Flush() error {
	r.flushes++
	return nil
}

func series(name string, labels Labels) string {
	pairs := make([]string, 0, len(labels))
	for k, v := range labels {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(pairs)
	return name + "{" + strings.Join(pairs, ",") + "}"
}

func install(t *testing.T) *recorder {
	t.Helper()
	orig := backend
	t.Cleanup(func() { backend = orig })
	r := newRecorder()
	backend = r
	return r
}

/*
TestRecordStep verifies the per-stage instrumentation: each call produces one
increment of etl_step_total and one duration observation, both labeled with
job, step, and the status derived from the error.
*/
func TestRecordStep(t *testing.T) {
	tests := []struct {
		name     string
		step     string
		err      error
		d        time.Duration
		wantKey  string
		wantSecs float64
	}{
		{
			name:     "success",
			step:     "extract",
			d:        2 * time.Second,
			wantKey:  "etl_step_total{job=movies_etl,status=success,step=extract}",
			wantSecs: 2.0,
		},
		{
			name:     "failure",
			step:     "load",
			err:      errors.New("copy: connection reset"),
			d:        1500 * time.Millisecond,
			wantKey:  "etl_step_total{job=movies_etl,status=failure,step=load}",
			wantSecs: 1.5,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := install(t)
			RecordStep("movies_etl", tc.step, tc.err, tc.d)

			if got := rec.counts[tc.wantKey]; got != 1 {
				t.Errorf("counter %s = %v, want 1 (have %v)", tc.wantKey, got, rec.counts)
			}
			durKey := strings.Replace(tc.wantKey, "etl_step_total", "etl_step_duration_seconds", 1)
			if obs := rec.obs[durKey]; len(obs) != 1 || obs[0] != tc.wantSecs {
				t.Errorf("observations %s = %v, want [%v]", durKey, obs, tc.wantSecs)
			}
		})
	}
}

/*
TestRecordRows verifies the record-level counter: positive deltas accumulate
on the (job, kind) series and non-positive deltas emit nothing, so a clean
dataset produces no null_budget series at all.
*/
func TestRecordRows(t *testing.T) {
	rec := install(t)

	RecordRows("movies_etl", "rows", 120)
	RecordRows("movies_etl", "rows", 30)
	RecordRows("movies_etl", "null_budget", 0)
	RecordRows("movies_etl", "genre_rows", -1)

	if got := rec.counts["etl_records_total{job=movies_etl,kind=rows}"]; got != 150 {
		t.Errorf("rows total = %v, want 150", got)
	}
	if len(rec.counts) != 1 {
		t.Errorf("series = %v, want only the rows series", rec.counts)
	}
}

// TestBackendInstall: the default backend swallows everything without error,
// SetBackend(nil) is a no-op, and Flush reaches the installed backend.
func TestBackendInstall(t *testing.T) {
	if err := Flush(); err != nil {
		t.Fatalf("Flush on default backend: %v", err)
	}

	rec := install(t)
	SetBackend(nil)
	if err := Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if rec.flushes != 1 {
		t.Fatalf("flushes = %d, want 1 (SetBackend(nil) must not replace)", rec.flushes)
	}
}
