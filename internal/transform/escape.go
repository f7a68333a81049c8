package transform

import "strings"

// templateEscaper applies the three template-literal escapes in one pass.
// Running them as a single replacer is equivalent to backslash first, then
// backtick, then dollar, because no replacement output is re-scanned.
var templateEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`$`, `\$`,
)

// Escape makes s safe to embed between backticks in a JS template literal.
func Escape(s string) string {
	return templateEscaper.Replace(s)
}

// Unescape reverses source-level escaping found in string and template
// literals. It scans left to right once, so an escaped backslash is never
// re-read as the start of another escape. Unknown escapes are left as-is.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		next := s[i+1]
		switch next {
		case '"', '\'', '`', '$', '\\', '/':
			b.WriteByte(next)
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(c)
			b.WriteByte(next)
		}
		i++
	}
	return b.String()
}
