package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"zeta-links.tsx",
		"anchor-text.tsx",
		"Index.tsx",
		"notes-draft.md",
		"mid-page.tsx.bak",
		".hidden-page.tsx",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested-dir.tsx"), 0o755); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "deep-page.tsx"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	refs, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	var got []string
	for _, r := range refs {
		got = append(got, r.Slug)
	}
	want := []string{"anchor-text", "zeta-links"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestDiscoverMissingDir(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"))
	var de *DiscoveryError
	if !errors.As(err, &de) {
		t.Fatalf("expected DiscoveryError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist cause, got %v", err)
	}
}

func TestDiscoverNotDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "page-x.tsx")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	var de *DiscoveryError
	if _, err := Discover(file); !errors.As(err, &de) {
		t.Fatalf("expected DiscoveryError, got %v", err)
	}
}

func TestParsePagePath(t *testing.T) {
	tests := []struct {
		path     string
		wantSlug string
		wantName string
	}{
		{"src/pages/link-building-guide.tsx", "link-building-guide", "link-building-guide.tsx"},
		{"/x/Link-Building-Guide.tsx", "link-building-guide", "Link-Building-Guide.tsx"},
		{"src/pages/SEO-101.tsx", "seo-101", "SEO-101.tsx"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			ref, err := ParsePagePath(tt.path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ref.Slug != tt.wantSlug || ref.Name != tt.wantName || ref.Path != tt.path {
				t.Fatalf("unexpected ref: %+v", ref)
			}
		})
	}

	for _, bad := range []string{"src/pages/readme.md", "src/pages/.tsx", "src/pages/.hidden-page.tsx"} {
		if _, err := ParsePagePath(bad); err == nil {
			t.Fatalf("expected error for %s", bad)
		}
	}
}
