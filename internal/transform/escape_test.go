package transform

import (
	"strings"
	"testing"
)

var roundTripInputs = []string{
	"",
	"plain text",
	"back`tick",
	"template ${literal} here",
	`C:\path\to\file`,
	`already \` + "`escaped`" + ` and \$ and \\`,
	`trailing backslash \`,
	"multi\nline\twith tabs",
	`unicode é ✓ 中文 \u00e9`,
	"$$`` \\\\ ${${}}",
}

func TestEscapeRoundTrip(t *testing.T) {
	for _, s := range roundTripInputs {
		if got := Unescape(Escape(s)); got != s {
			t.Errorf("Unescape(Escape(%q)) = %q", s, got)
		}
	}
}

func FuzzEscapeRoundTrip(f *testing.F) {
	for _, s := range roundTripInputs {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, s string) {
		escaped := Escape(s)
		if got := Unescape(escaped); got != s {
			t.Fatalf("Unescape(Escape(%q)) = %q", s, got)
		}
		for i := 0; i < len(escaped); i++ {
			switch escaped[i] {
			case '\\':
				i++
			case '`', '$':
				t.Fatalf("unescaped %q at %d in %q", escaped[i], i, escaped)
			}
		}
	})
}

func TestEscapeLeavesNoOpenTemplateSyntax(t *testing.T) {
	escaped := Escape("a ` b ${c} d \\")
	for i := 0; i < len(escaped); i++ {
		switch escaped[i] {
		case '\\':
			i++
		case '`', '$':
			t.Fatalf("unescaped %q at %d in %q", escaped[i], i, escaped)
		}
	}
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{`<p class=\"lead\">`, `<p class="lead">`},
		{`it\'s`, `it's`},
		{`line\nbreak`, "line\nbreak"},
		{`tab\there`, "tab\there"},
		{`<\/p>`, `</p>`},
		{`\\n`, `\n`},
		{`keep \d as is`, `keep \d as is`},
		{`end\`, `end\`},
	}
	for _, tt := range tests {
		if got := Unescape(tt.input); got != tt.want {
			t.Errorf("Unescape(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
	if strings.Contains(Unescape(`\\\"`), `\\`) {
		t.Error("escaped backslash was read twice")
	}
}
