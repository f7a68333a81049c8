package index

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/backlinkoo/transform-pages/internal/inspect"
)

func TestIndexAndSearch(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "pages.db")

	idx, err := NewSQLiteIndexer(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteIndexer: %v", err)
	}
	docs := []Document{
		NewDocument("anchor-text-guide", "src/pages/anchor-text-guide.tsx", "Anchor Text Guide", "How to pick anchors", "anchor, text, guide, SEO",
			inspect.Analysis{Text: "choosing anchor text for backlinks", Words: 5, Language: "eng"}),
		NewDocument("guest-posting", "src/pages/guest-posting.tsx", "Guest Posting", "Outreach basics", "guest, posting, SEO",
			inspect.Analysis{Text: "writing for other blogs", Words: 4, Language: "eng"}),
	}
	for _, d := range docs {
		if err := idx.IndexPage(ctx, d); err != nil {
			t.Fatalf("IndexPage: %v", err)
		}
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err := NewSQLiteSearcher(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteSearcher: %v", err)
	}
	defer func() { _ = s.Close() }()

	resp, err := s.Search(ctx, "backlink", "", 10, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Total != 1 || resp.Results[0].Slug != "anchor-text-guide" {
		t.Fatalf("unexpected results: %+v", resp)
	}

	resp, err = s.Search(ctx, "guest", "fra", 10, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Fatalf("language filter ignored: %+v", resp)
	}
}

func TestSanitizeQuery(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", ""},
		{"anchor text", `"anchor"* "text"*`},
		{"seo AND links", `"seo"* "links"*`},
		{`"quoted" (parens)`, `"quoted"* "parens"*`},
		{"OR", ""},
	}
	for _, tt := range tests {
		if got := sanitizeQuery(tt.input); got != tt.want {
			t.Errorf("sanitizeQuery(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIndexerRun(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "pages.db")

	idx, err := NewSQLiteIndexer(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteIndexer: %v", err)
	}
	for _, title := range []string{"Link Guide", "Link Guide Revised"} {
		doc := NewDocument("link-guide", "src/pages/link-guide.tsx", title, "", "link, guide, SEO",
			inspect.Analysis{Text: "earning links", Words: 2, Language: "eng"})
		if err := idx.IndexPage(ctx, doc); err != nil {
			t.Fatalf("IndexPage: %v", err)
		}
	}
	if err := idx.IndexPage(ctx, Document{}); err == nil {
		t.Fatal("expected an error for an empty slug")
	}
	if idx.Pages() != 2 {
		t.Fatalf("Pages = %d, want 2", idx.Pages())
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := idx.IndexPage(ctx, Document{Slug: "late-page"}); !errors.Is(err, ErrClosed) {
		t.Fatalf("IndexPage after Close = %v, want ErrClosed", err)
	}

	s, err := NewSQLiteSearcher(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteSearcher: %v", err)
	}
	defer func() { _ = s.Close() }()

	resp, err := s.Search(ctx, "links", "", 10, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Total != 1 || resp.Results[0].Title != "Link Guide Revised" {
		t.Fatalf("unexpected results: %+v", resp)
	}
}
