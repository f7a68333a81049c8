package transform

import (
	htmlutil "html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	pageTitlePattern    = regexp.MustCompile(`(?i)<h1[^>]*>([^<]+)</h1>`)
	pageSubtitlePattern = regexp.MustCompile(`(?i)<p[^>]*>([^<]+)</p>`)
	pageStripTags       = regexp.MustCompile(`(?is)<[^>]+>`)
)

// MaxSubtitleLen is the meta-description limit, counted in runes.
const MaxSubtitleLen = 160

const (
	ellipsis            = "..."
	fallbackTitlePrefix = "The Complete Guide to "
	fallbackSubtitle    = "Complete guide to "
)

// collapseWhitespace replaces runs of whitespace (including newlines)
// with a single space.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// cleanText strips tags, decodes entities and collapses whitespace.
func cleanText(s string) string {
	s = pageStripTags.ReplaceAllString(s, " ")
	s = htmlutil.UnescapeString(s)
	// UnescapeString turns &nbsp; into U+00A0, which strings.Fields
	// already treats as a space.
	return collapseWhitespace(s)
}

// ExtractTitle returns the text of the first <h1> in body, or a title
// built from slug when there is none.
func ExtractTitle(body, slug string) string {
	if m := pageTitlePattern.FindStringSubmatch(body); m != nil {
		if text := cleanText(m[1]); text != "" {
			return text
		}
	}
	return TitleFromSlug(slug)
}

// TitleFromSlug builds the deterministic fallback title for a page.
func TitleFromSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		words[i] = capitalize(w)
	}
	if len(words) == 0 {
		return strings.TrimSpace(fallbackTitlePrefix)
	}
	return fallbackTitlePrefix + strings.Join(words, " ")
}

// ExtractSubtitle returns the cleaned text of the first <p> in body,
// capped at MaxSubtitleLen. Pages without a usable paragraph get a
// generic subtitle derived from title.
func ExtractSubtitle(body, title string) string {
	if m := pageSubtitlePattern.FindStringSubmatch(body); m != nil {
		if text := cleanText(m[1]); text != "" {
			return CapSubtitle(text)
		}
	}
	return CapSubtitle(fallbackSubtitle + title)
}

// CapSubtitle truncates s to MaxSubtitleLen runes, replacing the tail
// with an ellipsis when it is too long.
func CapSubtitle(s string) string {
	if utf8.RuneCountInString(s) <= MaxSubtitleLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:MaxSubtitleLen-len(ellipsis)]) + ellipsis
}

// StripHTMLTags removes all HTML tags from the input.
func StripHTMLTags(html string) string {
	return strings.TrimSpace(pageStripTags.ReplaceAllString(html, " "))
}

func capitalize(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return w
	}
	return string(unicode.ToUpper(r)) + w[size:]
}
