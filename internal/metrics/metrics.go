// Package metrics records run outcomes as Prometheus metrics and writes
// them in the node_exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns a private registry so several runs in one process
// never share counters.
type Collector struct {
	registry *prometheus.Registry

	FilesProcessed *prometheus.CounterVec
	FileDuration   prometheus.Histogram
	MediaFilled    prometheus.Counter
	LastRun        prometheus.Gauge
	RunDuration    prometheus.Gauge
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		FilesProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transform_pages_files_total",
				Help: "Page files processed, labeled by outcome and failing stage.",
			},
			[]string{"status", "stage"},
		),
		FileDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "transform_pages_file_duration_seconds",
				Help:    "Time spent processing a single page file.",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
		),
		MediaFilled: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "transform_pages_media_filled_total",
				Help: "Empty media blocks filled with an image.",
			},
		),
		LastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "transform_pages_last_run_timestamp_seconds",
				Help: "Unix time the last run finished.",
			},
		),
		RunDuration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "transform_pages_run_duration_seconds",
				Help: "Wall time of the last run.",
			},
		),
	}
	c.registry.MustRegister(c.FilesProcessed, c.FileDuration, c.MediaFilled, c.LastRun, c.RunDuration)
	return c
}

// ObserveFile records the outcome of one file.
func (c *Collector) ObserveFile(status, stage string, mediaFilled int, d time.Duration) {
	if c == nil {
		return
	}
	c.FilesProcessed.WithLabelValues(status, stage).Inc()
	c.FileDuration.Observe(d.Seconds())
	if mediaFilled > 0 {
		c.MediaFilled.Add(float64(mediaFilled))
	}
}

// ObserveRun records the end of a run.
func (c *Collector) ObserveRun(d time.Duration) {
	if c == nil {
		return
	}
	c.RunDuration.Set(d.Seconds())
	c.LastRun.SetToCurrentTime()
}

// WriteTextfile writes all metrics to path atomically.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// Registry exposes the underlying registry for tests and embedding.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }
