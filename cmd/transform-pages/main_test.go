package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

const examplePage = `import React from 'react';

export default function ExampleGuide() {
  return <div dangerouslySetInnerHTML={{ __html: "<h1>Example Guide<\/h1><p>This is a short guide about building links.<\/p>" }} />;
}
`

func pagesDir(t *testing.T, pages map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range pages {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := &app{v: viper.New(), stdout: &out}
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name       string
		pages      map[string]string
		wantErr    string
		wantOutput string
		wantReport string
	}{
		{
			name:       "transforms pages",
			pages:      map[string]string{"example-guide.tsx": examplePage},
			wantOutput: "TRANSFORMATION SUMMARY",
			wantReport: `"transformed": 1`,
		},
		{
			name: "reports failures",
			pages: map[string]string{
				"example-guide.tsx": examplePage,
				"broken-page.tsx":   "export default function Broken() { return null; }\n",
			},
			wantErr:    "1 of 2 files failed",
			wantOutput: "broken-page.tsx: no html content",
			wantReport: `"status": "failed"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := pagesDir(t, tt.pages)
			reportPath := filepath.Join(t.TempDir(), "report.json")

			out, err := execute(t, dir, "--report", reportPath)
			if tt.wantErr == "" && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != "" && (err == nil || err.Error() != tt.wantErr) {
				t.Fatalf("error = %v, want %q", err, tt.wantErr)
			}
			if !strings.Contains(out, tt.wantOutput) {
				t.Fatalf("output missing %q:\n%s", tt.wantOutput, out)
			}
			data, err := os.ReadFile(reportPath)
			if err != nil {
				t.Fatalf("missing report: %v", err)
			}
			if !strings.Contains(string(data), tt.wantReport) {
				t.Fatalf("report missing %q:\n%s", tt.wantReport, data)
			}
		})
	}
}

func TestAuditCommandDoesNotWrite(t *testing.T) {
	dir := pagesDir(t, map[string]string{"example-guide.tsx": examplePage})

	out, err := execute(t, "audit", dir)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if !strings.Contains(out, "(dry run)") {
		t.Fatalf("audit did not run dry:\n%s", out)
	}
	got, err := os.ReadFile(filepath.Join(dir, "example-guide.tsx"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != examplePage {
		t.Fatal("audit modified the page")
	}
}

func TestPageCommand(t *testing.T) {
	dir := pagesDir(t, map[string]string{"example-guide.tsx": examplePage})
	path := filepath.Join(dir, "example-guide.tsx")

	out, err := execute(t, "page", path)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if !strings.Contains(out, "example-guide.tsx") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), "export default ExampleGuide;") {
		t.Fatalf("page not rewritten:\n%s", got)
	}

	if _, err := execute(t, "page", filepath.Join(dir, "notes.txt")); err == nil {
		t.Fatal("expected an error for a non-page file")
	}
}

func TestSearchCommand(t *testing.T) {
	dir := pagesDir(t, map[string]string{"example-guide.tsx": examplePage})
	dbPath := filepath.Join(t.TempDir(), "pages.db")

	if _, err := execute(t, dir, "--index", dbPath); err != nil {
		t.Fatalf("index run: %v", err)
	}

	out, err := execute(t, "search", "--index", dbPath, "links")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "example-guide\tExample Guide") || !strings.Contains(out, "1 result(s)") {
		t.Fatalf("unexpected search output:\n%s", out)
	}

	if _, err := execute(t, "search", "links"); err == nil {
		t.Fatal("expected an error without --index")
	}
}
