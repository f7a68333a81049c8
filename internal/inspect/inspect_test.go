package inspect

import (
	"strings"
	"testing"
)

func TestAnalyze(t *testing.T) {
	body := `<h1>Link Building Guide</h1>
<p>Building links from relevant websites is one of the most reliable ways to
improve the visibility of a page in search results. This guide explains how
to earn links that last and how to avoid the tactics that get sites penalized.</p>
<div class="media"></div>
<div class="media"><img src="a.jpg" alt="Chart" /></div>
<img src="b.jpg" />
<a href="/pricing">Pricing</a>
<script>var hidden = "do not count";</script>`

	a, err := Analyze(body)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if a.Headings != 1 || a.Links != 1 || a.Images != 2 {
		t.Fatalf("unexpected counts: %+v", a)
	}
	if a.ImagesMissingAlt != 1 {
		t.Fatalf("ImagesMissingAlt = %d", a.ImagesMissingAlt)
	}
	if a.EmptyMedia != 1 {
		t.Fatalf("EmptyMedia = %d", a.EmptyMedia)
	}
	if strings.Contains(a.Text, "do not count") {
		t.Fatal("script text leaked into visible text")
	}
	if a.Language != "eng" {
		t.Fatalf("Language = %q, want eng", a.Language)
	}
	if len(a.Issues()) != 2 {
		t.Fatalf("Issues = %v", a.Issues())
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	a, err := Analyze("")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if a.Words != 0 || a.Language != "" {
		t.Fatalf("unexpected analysis: %+v", a)
	}
}
