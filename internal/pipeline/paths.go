package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PageExt is the extension of page sources.
const PageExt = ".tsx"

// IsPageName reports whether a directory entry name looks like a
// generated page: a .tsx file with at least one hyphen in its name.
func IsPageName(name string) bool {
	return strings.HasSuffix(name, PageExt) && strings.Contains(name, "-")
}

// ParsePagePath derives the page reference for a source path. The slug is
// the lowercased filename stem; Path and Name keep the original case.
func ParsePagePath(path string) (PageRef, error) {
	name := filepath.Base(path)
	if !strings.HasSuffix(name, PageExt) {
		return PageRef{}, fmt.Errorf("not a %s file: %s", PageExt, name)
	}
	slug := strings.ToLower(strings.TrimSuffix(name, PageExt))
	if slug == "" || strings.HasPrefix(slug, ".") {
		return PageRef{}, fmt.Errorf("invalid page name %q", name)
	}
	return PageRef{Path: path, Name: name, Slug: slug}, nil
}
