// Package report renders run summaries for people (console) and for
// tooling (JSON or YAML report files).
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/backlinkoo/transform-pages/internal/pipeline"
)

// File is the machine-readable report document.
type File struct {
	Status  string                `json:"status" yaml:"status"`
	Dir     string                `json:"dir" yaml:"dir"`
	DryRun  bool                  `json:"dry_run" yaml:"dry_run"`
	Stats   pipeline.Stats        `json:"stats" yaml:"stats"`
	Results []pipeline.FileResult `json:"results" yaml:"results"`
}

func newFile(s *pipeline.Summary) File {
	status := "ok"
	if !s.OK() {
		status = "failed"
	}
	return File{
		Status:  status,
		Dir:     s.Dir,
		DryRun:  s.DryRun,
		Stats:   s.Stats,
		Results: s.Results,
	}
}

// Marshal encodes the summary as YAML when format is "yaml" or "yml" and
// as indented JSON otherwise.
func Marshal(s *pipeline.Summary, format string) ([]byte, error) {
	doc := newFile(s)
	switch strings.ToLower(format) {
	case "yaml", "yml":
		out, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("marshal yaml report: %w", err)
		}
		return out, nil
	default:
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal json report: %w", err)
		}
		return append(out, '\n'), nil
	}
}

// Write saves the report to path, choosing the format from its extension.
func Write(path string, s *pipeline.Summary) error {
	data, err := Marshal(s, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// FailuresPath is where the per-failure log lives for a report path.
func FailuresPath(reportPath string) string {
	if reportPath == "" {
		return ""
	}
	return reportPath + ".failures.log"
}
