package index

import (
	"context"

	"github.com/backlinkoo/transform-pages/internal/inspect"
)

// Indexer abstracts page indexing so the pipeline package does not depend
// on a specific storage implementation.
type Indexer interface {
	IndexPage(ctx context.Context, doc Document) error
	Close() error
}

// Document represents a transformed page to be indexed.
type Document struct {
	Slug     string
	Path     string
	Title    string
	Subtitle string
	Keywords string
	Language string
	Words    int
	Content  string
}

// NewDocument builds a Document from page fields and the analysis of its
// HTML body.
func NewDocument(slug, path, title, subtitle, keywords string, a inspect.Analysis) Document {
	return Document{
		Slug:     slug,
		Path:     path,
		Title:    title,
		Subtitle: subtitle,
		Keywords: keywords,
		Language: a.Language,
		Words:    a.Words,
		Content:  a.Text,
	}
}
