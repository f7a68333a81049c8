package transform

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ComponentName derives a PascalCase identifier from a page slug.
func ComponentName(slug string) string {
	var b strings.Builder
	for _, part := range strings.Split(slug, "-") {
		b.WriteString(capitalize(part))
	}
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$' {
			return r
		}
		return -1
	}, b.String())
	if name == "" {
		return "Page"
	}
	if r, _ := utf8.DecodeRuneInString(name); unicode.IsDigit(r) {
		name = "Page" + name
	}
	return name
}

// Keywords derives the keyword list for a page slug.
func Keywords(slug string) string {
	return strings.ReplaceAll(slug, "-", ", ") + ", SEO"
}

// jsString encodes s as a double-quoted literal that is valid JS.
func jsString(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Render assembles the canonical component source for page.
func Render(page Page) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &SynthesisError{Err: fmt.Errorf("render panic: %v", r)}
		}
	}()

	for _, f := range []struct{ name, value string }{
		{"title", page.Title},
		{"subtitle", page.Subtitle},
		{"html", page.HTMLBody},
		{"slug", page.Slug},
	} {
		if !utf8.ValidString(f.value) {
			return nil, &SynthesisError{Err: fmt.Errorf("invalid utf-8 in %s", f.name)}
		}
	}
	if page.Slug == "" {
		return nil, &SynthesisError{Err: errors.New("empty slug")}
	}

	title, err := jsString(page.Title)
	if err != nil {
		return nil, &SynthesisError{Err: fmt.Errorf("encode title: %w", err)}
	}
	subtitle, err := jsString(page.Subtitle)
	if err != nil {
		return nil, &SynthesisError{Err: fmt.Errorf("encode subtitle: %w", err)}
	}
	keywords, err := jsString(Keywords(page.Slug))
	if err != nil {
		return nil, &SynthesisError{Err: fmt.Errorf("encode keywords: %w", err)}
	}
	name := ComponentName(page.Slug)

	var b bytes.Buffer
	b.Grow(len(page.HTMLBody) + 640)
	b.WriteString("import React from 'react';\n")
	b.WriteString("import { GenericPageTemplate } from '@/components/GenericPageTemplate';\n\n")
	fmt.Fprintf(&b, "const %s: React.FC = () => {\n", name)
	fmt.Fprintf(&b, "  const title = %s;\n", title)
	fmt.Fprintf(&b, "  const subtitle = %s;\n", subtitle)
	b.WriteString("  const htmlContent = `")
	b.WriteString(Escape(page.HTMLBody))
	b.WriteString("`;\n")
	fmt.Fprintf(&b, "  const keywords = %s;\n\n", keywords)
	b.WriteString("  return (\n")
	b.WriteString("    <GenericPageTemplate\n")
	b.WriteString("      title={title}\n")
	b.WriteString("      subtitle={subtitle}\n")
	b.WriteString("      htmlContent={htmlContent}\n")
	b.WriteString("      keywords={keywords}\n")
	b.WriteString("      description={subtitle}\n")
	b.WriteString("    />\n")
	b.WriteString("  );\n")
	b.WriteString("};\n\n")
	fmt.Fprintf(&b, "export default %s;\n", name)
	return b.Bytes(), nil
}
