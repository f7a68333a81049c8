package transform

import (
	"regexp"
	"strings"
)

// Recognizer isolates the encoded HTML body of a page source. It reports
// ok=false when the source does not use the encoding it understands.
// Returned bodies are already unescaped.
type Recognizer interface {
	Name() string
	Recognize(src string) (body string, ok bool)
}

// DefaultRecognizers is the fixed priority order used by Extract.
var DefaultRecognizers = []Recognizer{
	innerHTMLString{},
	templateLiteral{},
	rawTag{},
}

var (
	innerHTMLOpen      = regexp.MustCompile("dangerouslySetInnerHTML=\\{\\{\\s*__html:\\s*([\"'`])")
	innerHTMLClose     = regexp.MustCompile(`^\s*\}`)
	htmlContentDecl    = regexp.MustCompile("const\\s+htmlContent\\s*=\\s*`")
	htmlContentMarker  = regexp.MustCompile(`const\s+htmlContent\s*=`)
	templateTerminator = regexp.MustCompile(`^;?[ \t]*\r?\n\s*(?:const\s+[A-Za-z_$][\w$]*\s*=|return\s*\()`)
	nextConstLine      = regexp.MustCompile(`(?m)^[ \t]*const\s+[A-Za-z_$][\w$]*\s*=`)
	rawTagClose        = regexp.MustCompile(`</[A-Za-z][\w-]*>\s*/>`)
)

const (
	rawTagAttr      = "dangerouslySetInnerHTML="
	innerHTMLMarker = "dangerouslySetInnerHTML"
)

// scanQuoted returns the index of the first unescaped quote byte at or
// after start for which accept reports true, or -1.
func scanQuoted(s string, start int, quote byte, accept func(rest string) bool) int {
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case quote:
			if accept(s[i+1:]) {
				return i
			}
		}
	}
	return -1
}

// innerHTMLString handles dangerouslySetInnerHTML={{ __html: "..." }} and its
// single-quoted and back-quoted variants.
type innerHTMLString struct{}

func (innerHTMLString) Name() string { return "inner-html-string" }

func (innerHTMLString) Recognize(src string) (string, bool) {
	loc := innerHTMLOpen.FindStringSubmatchIndex(src)
	if loc == nil {
		return "", false
	}
	quote := src[loc[2]]
	start := loc[1]
	end := scanQuoted(src, start, quote, innerHTMLClose.MatchString)
	if end < 0 {
		return "", false
	}
	return Unescape(src[start:end]), true
}

// templateLiteral handles const htmlContent = `...`, including files where
// the closing backtick is missing and the next const statement bounds the body.
type templateLiteral struct{}

func (templateLiteral) Name() string { return "template-literal" }

func (templateLiteral) Recognize(src string) (string, bool) {
	loc := htmlContentDecl.FindStringIndex(src)
	if loc == nil {
		return "", false
	}
	start := loc[1]
	if end := scanQuoted(src, start, '`', templateTerminator.MatchString); end >= 0 {
		return Unescape(src[start:end]), true
	}

	next := nextConstLine.FindStringIndex(src[start:])
	if next == nil {
		return "", false
	}
	raw := strings.TrimRight(src[start:start+next[0]], " \t\r\n")
	raw = strings.TrimSuffix(raw, ";")
	raw = strings.TrimRight(raw, " \t\r\n")
	raw = strings.TrimSuffix(raw, "`")
	return Unescape(raw), true
}

// rawTag handles markup assigned straight to the prop without braces:
// <div dangerouslySetInnerHTML=<article ...>...</article> />. The body ends
// at the first closing tag followed by the self-close, whatever the tag.
// Files without a self-close fall back to the last </div>.
type rawTag struct{}

func (rawTag) Name() string { return "raw-tag" }

func (rawTag) Recognize(src string) (string, bool) {
	idx := strings.Index(src, rawTagAttr+"<")
	if idx < 0 {
		return "", false
	}
	start := idx + len(rawTagAttr)
	if loc := rawTagClose.FindStringIndex(src[start:]); loc != nil {
		closing := src[start+loc[0] : start+loc[1]]
		end := strings.IndexByte(closing, '>') + 1
		return src[start : start+loc[0]+end], true
	}
	last := strings.LastIndex(src[start:], "</div>")
	if last < 0 {
		return "", false
	}
	return src[start : start+last+len("</div>")], true
}

func hasHTMLMarker(src string) bool {
	return strings.Contains(src, innerHTMLMarker) || htmlContentMarker.MatchString(src)
}
