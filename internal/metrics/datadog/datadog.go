// Package datadog sends pipeline metrics to a DogStatsD agent.
//
// The metrics package speaks the Prometheus dialect: cumulative counters plus
// duration observations in seconds, under *_total / *_seconds names. DogStatsD
// has a native timing type that wants milliseconds, so duration observations
// are translated to Timing under the name with its "_seconds" suffix dropped;
// everything else maps onto Count and Histogram directly. Labels become
// "key:value" tags, sorted so agent-side aggregation sees a stable tag set.
package datadog

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"

	"moviesetl/internal/metrics"
)

// Config holds the DogStatsD connection settings.
type Config struct {
	// Addr is the agent address, e.g. "127.0.0.1:8125" or "unix:///path.sock".
	Addr string

	// Namespace is an optional prefix for every metric name.
	Namespace string

	// GlobalTags are added to every metric, e.g. []string{"env:prod"}.
	GlobalTags []string
}

// Backend forwards metrics.Backend calls to a DogStatsD client.
type Backend struct {
	client statsd.ClientInterface
}

// NewBackend connects to the agent at cfg.Addr. Addr is required; namespace
// and global tags are applied at the client level so every emission carries
// them.
func NewBackend(cfg Config) (*Backend, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("datadog: agent address is required")
	}
	var opts []statsd.Option
	if cfg.Namespace != "" {
		opts = append(opts, statsd.WithNamespace(cfg.Namespace))
	}
	if len(cfg.GlobalTags) > 0 {
		opts = append(opts, statsd.WithTags(cfg.GlobalTags))
	}
	c, err := statsd.New(cfg.Addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("datadog: connect %s: %w", cfg.Addr, err)
	}
	return &Backend{client: c}, nil
}

// newWithClient wires an existing client in; tests substitute a fake here.
func newWithClient(c statsd.ClientInterface) *Backend {
	return &Backend{client: c}
}

// IncCounter implements metrics.Backend. DogStatsD counts are integral;
// the pipeline only ever emits whole-row deltas, so truncation is lossless.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	b.client.Count(name, int64(delta), tagset(labels), 1)
}

// ObserveHistogram implements metrics.Backend. Observations named *_seconds
// are durations and go out as Timing values; anything else stays a Histogram.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if trimmed, ok := strings.CutSuffix(name, "_seconds"); ok {
		b.client.Timing(trimmed, time.Duration(value*float64(time.Second)), tagset(labels), 1)
		return
	}
	b.client.Histogram(name, value, tagset(labels), 1)
}

// Flush implements metrics.Backend. The client stays open; a run may flush
// more than once.
func (b *Backend) Flush() error {
	return b.client.Flush()
}

// tagset renders labels as sorted "key:value" tags.
func tagset(labels metrics.Labels) []string {
	if len(labels) == 0 {
		return nil
	}
	tags := make([]string, 0, len(labels))
	for k, v := range labels {
		tags = append(tags, k+":"+v)
	}
	sort.Strings(tags)
	return tags
}
