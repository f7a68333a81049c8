// Package transform rewrites generated landing-page sources into the
// canonical GenericPageTemplate component.
//
// The pipeline runs as a sequence of named stages:
//  1. Recognize the encoded HTML body (first matching recognizer wins)
//  2. Extract the title, substituting a placeholder for near-empty bodies
//  3. Fill empty media blocks and add the page video (optional)
//  4. Extract the subtitle
//  5. Render the component source
package transform

import (
	"fmt"
	htmlutil "html"
	"strings"
	"unicode/utf8"
)

// Page holds everything extracted from one source file.
type Page struct {
	Slug        string
	Title       string
	Subtitle    string
	HTMLBody    string
	Recognizer  string
	Placeholder bool
	MediaFilled int
	VideoAdded  bool
}

// ShortContentPolicy decides what happens to bodies below the minimum length.
type ShortContentPolicy string

const (
	ShortContentPlaceholder ShortContentPolicy = "placeholder"
	ShortContentFail        ShortContentPolicy = "fail"
)

// DefaultMinContentLength is the body length, in runes, below which a
// body counts as near-empty.
const DefaultMinContentLength = 50

// Options tunes a single Pipeline call. The zero value uses the default
// recognizers, the placeholder policy and no media repair.
type Options struct {
	Recognizers      []Recognizer
	MinContentLength int
	ShortContent     ShortContentPolicy
	// Media, when set, fills empty media blocks from this cursor.
	Media *MediaCursor
	// Video is a YouTube id inserted when the body has no embed.
	Video string
}

func (o Options) recognizers() []Recognizer {
	if len(o.Recognizers) > 0 {
		return o.Recognizers
	}
	return DefaultRecognizers
}

func (o Options) minContentLength() int {
	if o.MinContentLength > 0 {
		return o.MinContentLength
	}
	return DefaultMinContentLength
}

// Recognize runs the recognizer chain over src and returns the trimmed
// body with the name of the recognizer that produced it.
func Recognize(src string, recognizers []Recognizer) (body, name string, err error) {
	if !hasHTMLMarker(src) {
		return "", "", &ExtractionError{Reason: ReasonNoHTMLContent}
	}
	matchedEmpty := false
	for _, r := range recognizers {
		raw, ok := r.Recognize(src)
		if !ok {
			continue
		}
		if body = strings.TrimSpace(raw); body == "" {
			matchedEmpty = true
			continue
		}
		return body, r.Name(), nil
	}
	if matchedEmpty {
		return "", "", &ExtractionError{Reason: ReasonNoHTMLContent}
	}
	return "", "", &ExtractionError{Reason: ReasonMarkerNotFound}
}

// Extract isolates the body and metadata of a page source.
func Extract(slug, src string, opts Options) (Page, error) {
	body, name, err := Recognize(src, opts.recognizers())
	if err != nil {
		return Page{}, err
	}

	page := Page{Slug: slug, Recognizer: name}
	page.Title = ExtractTitle(body, slug)

	if utf8.RuneCountInString(body) < opts.minContentLength() {
		if opts.ShortContent == ShortContentFail {
			return Page{}, &ExtractionError{Reason: ReasonTooShort}
		}
		body = placeholderBody(page.Title)
		page.Placeholder = true
	}

	if opts.Media != nil {
		body, page.MediaFilled = FillEmptyMedia(body, opts.Media)
	}
	body, page.VideoAdded = InsertVideo(body, opts.Video)

	page.HTMLBody = body
	page.Subtitle = ExtractSubtitle(body, page.Title)
	return page, nil
}

// Pipeline extracts src and renders the canonical component source.
func Pipeline(slug, src string, opts Options) (Page, []byte, error) {
	page, err := Extract(slug, src, opts)
	if err != nil {
		return page, nil, err
	}
	out, err := Render(page)
	if err != nil {
		return page, nil, fmt.Errorf("render %s: %w", slug, err)
	}
	return page, out, nil
}

func placeholderBody(title string) string {
	t := htmlutil.EscapeString(title)
	return "<h1>" + t + "</h1>\n<p>This guide is being updated. Check back soon for the complete article on " + t + ".</p>"
}
