package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector(t *testing.T) {
	c := New()
	c.ObserveFile("transformed", "", 2, 3*time.Millisecond)
	c.ObserveFile("failed", "extract", 0, time.Millisecond)
	c.ObserveFile("transformed", "", 0, time.Millisecond)
	c.ObserveRun(time.Second)

	if got := testutil.ToFloat64(c.FilesProcessed.WithLabelValues("transformed", "")); got != 2 {
		t.Fatalf("transformed = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.MediaFilled); got != 2 {
		t.Fatalf("media filled = %v, want 2", got)
	}

	path := filepath.Join(t.TempDir(), "transform.prom")
	if err := c.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `transform_pages_files_total{stage="extract",status="failed"} 1`) {
		t.Fatalf("textfile missing failure counter:\n%s", data)
	}
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.ObserveFile("transformed", "", 1, time.Millisecond)
	c.ObserveRun(time.Second)
}
