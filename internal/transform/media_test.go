package transform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFillEmptyMedia(t *testing.T) {
	body := `<h2>Intro</h2>
<div class="media"></div>
<p>Text</p>
<div class="media">
    <img src="keep.jpg" alt="kept" />
</div>
<div class="media">   </div>`
	cursor := NewMediaCursor([]Image{
		{Src: "one.jpg", Alt: "First"},
		{Src: "two.jpg", Alt: "Second"},
	})

	got, filled := FillEmptyMedia(body, cursor)
	if filled != 2 {
		t.Fatalf("filled = %d, want 2", filled)
	}
	if cursor.Used() != 2 {
		t.Fatalf("cursor used = %d", cursor.Used())
	}
	for _, want := range []string{`src="one.jpg" alt="First"`, `src="two.jpg" alt="Second"`, `src="keep.jpg"`} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
	if opens, closes := strings.Count(got, "<div"), strings.Count(got, "</div>"); opens != closes {
		t.Fatalf("unbalanced divs: %d open, %d close", opens, closes)
	}
}

func TestFillEmptyMediaSingleBlock(t *testing.T) {
	got, _ := FillEmptyMedia(`<div class="media"></div>`, NewMediaCursor(DefaultImages))
	if n := strings.Count(got, "<img "); n != 1 {
		t.Fatalf("expected exactly one img, got %d", n)
	}
	if strings.Count(got, `<div class="media">`) != 1 || strings.Count(got, "</div>") != 1 {
		t.Fatalf("media div not balanced: %s", got)
	}
	if strings.Contains(got, `src=""`) || strings.Contains(got, `alt=""`) {
		t.Fatalf("empty src or alt: %s", got)
	}
}

func TestMediaCursorWraps(t *testing.T) {
	c := NewMediaCursor([]Image{{Src: "a", Alt: "A"}, {Src: "b", Alt: "B"}})
	var got []string
	for range 3 {
		img, ok := c.Next()
		if !ok {
			t.Fatal("cursor exhausted")
		}
		got = append(got, img.Src)
	}
	if strings.Join(got, ",") != "a,b,a" {
		t.Fatalf("got %v", got)
	}

	var empty *MediaCursor
	if _, ok := empty.Next(); ok {
		t.Fatal("nil cursor returned an image")
	}
}

func TestInsertVideo(t *testing.T) {
	body := "<p>Intro</p>\n  <h2>Conclusion</h2>\n  <h2>FAQ</h2>"
	got, ok := InsertVideo(body, "xyz")
	if !ok {
		t.Fatal("video not inserted")
	}
	embed := strings.Index(got, "youtube.com/embed/xyz")
	if embed < 0 || embed > strings.Index(got, "<h2>FAQ") || embed < strings.Index(got, "<h2>Conclusion") {
		t.Fatalf("video not placed before FAQ: %s", got)
	}

	if _, ok := InsertVideo(got, "other"); ok {
		t.Fatal("second embed inserted")
	}
	if _, ok := InsertVideo("<p>No anchors</p>", "xyz"); ok {
		t.Fatal("inserted without an anchor heading")
	}
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "media.yaml")
	data := `anchor-text-tips:
  video: dQw4w9WgXcQ
  images:
    - src: https://example.com/a.jpg
      alt: Anchor text chart
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Video("anchor-text-tips") != "dQw4w9WgXcQ" {
		t.Fatalf("video = %q", m.Video("anchor-text-tips"))
	}
	img, _ := m.Cursor("anchor-text-tips").Next()
	if img.Alt != "Anchor text chart" {
		t.Fatalf("image = %+v", img)
	}
	fallback, _ := m.Cursor("unknown-page").Next()
	if fallback != DefaultImages[0] {
		t.Fatalf("fallback = %+v", fallback)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("p:\n  images:\n    - src: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadManifest(bad); err == nil {
		t.Fatal("expected error for image without alt")
	}
}
