package pipeline

import (
	"fmt"
	"time"

	"github.com/backlinkoo/transform-pages/internal/inspect"
)

// PageRef identifies one discovered page source.
type PageRef struct {
	Path string
	Name string // base filename, e.g. "seo-guide.tsx"
	Slug string // lowercased filename stem, e.g. "seo-guide"
}

// Status is the outcome of processing one file.
type Status string

const (
	StatusTransformed Status = "transformed"
	StatusUnchanged   Status = "unchanged"
	StatusSkipped     Status = "skipped"
	StatusFailed      Status = "failed"
)

// Stages a file failure can be attributed to.
const (
	StageRead       = "read"
	StageExtract    = "extract"
	StageSynthesize = "synthesize"
	StageWrite      = "write"
	StageIndex      = "index"
)

// FileResult is the per-file record kept for the summary and report.
type FileResult struct {
	File        string            `json:"file" yaml:"file"`
	Slug        string            `json:"slug" yaml:"slug"`
	Status      Status            `json:"status" yaml:"status"`
	Stage       string            `json:"stage,omitempty" yaml:"stage,omitempty"`
	Reason      string            `json:"reason,omitempty" yaml:"reason,omitempty"`
	Recognizer  string            `json:"recognizer,omitempty" yaml:"recognizer,omitempty"`
	Title       string            `json:"title,omitempty" yaml:"title,omitempty"`
	Placeholder bool              `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	MediaFilled int               `json:"media_filled,omitempty" yaml:"media_filled,omitempty"`
	VideoAdded  bool              `json:"video_added,omitempty" yaml:"video_added,omitempty"`
	Backup      string            `json:"backup,omitempty" yaml:"backup,omitempty"`
	Audit       *inspect.Analysis `json:"audit,omitempty" yaml:"audit,omitempty"`
	Duration    time.Duration     `json:"-" yaml:"-"`
}

// Failed reports whether the file ended in a failure.
func (r FileResult) Failed() bool { return r.Status == StatusFailed }

// Stats aggregates outcome counts for a run.
type Stats struct {
	Total           int     `json:"total" yaml:"total"`
	Transformed     int     `json:"transformed" yaml:"transformed"`
	Unchanged       int     `json:"unchanged" yaml:"unchanged"`
	Skipped         int     `json:"skipped" yaml:"skipped"`
	Failed          int     `json:"failed" yaml:"failed"`
	DurationSeconds float64 `json:"duration_seconds" yaml:"duration_seconds"`
}

// Summary is the full outcome of a run, in discovery order.
type Summary struct {
	Dir     string       `json:"dir" yaml:"dir"`
	DryRun  bool         `json:"dry_run" yaml:"dry_run"`
	Stats   Stats        `json:"stats" yaml:"stats"`
	Results []FileResult `json:"results" yaml:"results"`
}

// Failures returns the failed results in discovery order.
func (s *Summary) Failures() []FileResult {
	var out []FileResult
	for _, r := range s.Results {
		if r.Failed() {
			out = append(out, r)
		}
	}
	return out
}

// OK reports whether every file succeeded.
func (s *Summary) OK() bool { return s.Stats.Failed == 0 }

func (s *Summary) tally(elapsed time.Duration) {
	s.Stats = Stats{Total: len(s.Results), DurationSeconds: elapsed.Seconds()}
	for _, r := range s.Results {
		switch r.Status {
		case StatusTransformed:
			s.Stats.Transformed++
		case StatusUnchanged:
			s.Stats.Unchanged++
		case StatusSkipped:
			s.Stats.Skipped++
		case StatusFailed:
			s.Stats.Failed++
		}
	}
}

// DiscoveryError is returned when the page directory cannot be listed.
// It aborts the whole run.
type DiscoveryError struct {
	Dir string
	Err error
}

func (e *DiscoveryError) Error() string { return fmt.Sprintf("discover %s: %v", e.Dir, e.Err) }
func (e *DiscoveryError) Unwrap() error { return e.Err }

// WriteError wraps a filesystem failure while replacing a page so callers
// can tell it apart from extraction problems.
type WriteError struct{ Err error }

func (e *WriteError) Error() string { return e.Err.Error() }
func (e *WriteError) Unwrap() error { return e.Err }
