// Package inspect analyzes an article body the way a reader or crawler
// sees it: visible text, language, headings and media.
package inspect

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/abadojack/whatlanggo"
)

// languageSampleWords bounds the text handed to language detection.
const languageSampleWords = 100

// Analysis is what Analyze learns about an article body.
type Analysis struct {
	Text             string `json:"-" yaml:"-"`
	Words            int    `json:"words" yaml:"words"`
	Language         string `json:"language,omitempty" yaml:"language,omitempty"`
	Headings         int    `json:"headings" yaml:"headings"`
	Links            int    `json:"links" yaml:"links"`
	Images           int    `json:"images" yaml:"images"`
	ImagesMissingAlt int    `json:"images_missing_alt,omitempty" yaml:"images_missing_alt,omitempty"`
	EmptyMedia       int    `json:"empty_media,omitempty" yaml:"empty_media,omitempty"`
	HasVideo         bool   `json:"has_video,omitempty" yaml:"has_video,omitempty"`
}

// Issues lists human-readable problems found in the body.
func (a Analysis) Issues() []string {
	var out []string
	if a.EmptyMedia > 0 {
		out = append(out, fmt.Sprintf("%d empty media block(s)", a.EmptyMedia))
	}
	if a.ImagesMissingAlt > 0 {
		out = append(out, fmt.Sprintf("%d image(s) without alt", a.ImagesMissingAlt))
	}
	if a.Headings == 0 {
		out = append(out, "no headings")
	}
	return out
}

// Analyze parses body as an HTML fragment.
func Analyze(body string) (Analysis, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return Analysis{}, fmt.Errorf("parse html: %w", err)
	}

	var a Analysis
	a.Headings = doc.Find("h1, h2, h3, h4, h5, h6").Length()
	a.Links = doc.Find("a[href]").Length()

	imgs := doc.Find("img")
	a.Images = imgs.Length()
	imgs.Each(func(_ int, s *goquery.Selection) {
		if alt, ok := s.Attr("alt"); !ok || strings.TrimSpace(alt) == "" {
			a.ImagesMissingAlt++
		}
	})

	doc.Find("div.media").Each(func(_ int, s *goquery.Selection) {
		if s.Children().Length() == 0 && strings.TrimSpace(s.Text()) == "" {
			a.EmptyMedia++
		}
	})
	doc.Find("iframe[src]").Each(func(_ int, s *goquery.Selection) {
		if src, _ := s.Attr("src"); strings.Contains(src, "youtube.com/embed/") {
			a.HasVideo = true
		}
	})

	doc.Find("script, style, noscript").Remove()
	words := strings.Fields(doc.Text())
	a.Text = strings.Join(words, " ")
	a.Words = len(words)

	sample := words
	if len(sample) > languageSampleWords {
		sample = sample[:languageSampleWords]
	}
	if len(sample) > 0 {
		info := whatlanggo.Detect(strings.Join(sample, " "))
		a.Language = info.Lang.Iso6393()
	}
	return a, nil
}
