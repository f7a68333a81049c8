package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
)

// ErrClosed is returned by IndexPage once the run has been committed.
var ErrClosed = errors.New("page index closed")

// upsertPage replaces a page indexed earlier in the same run. Two files whose
// names differ only in case share a slug, and the later one wins. The update
// trigger keeps pages_fts in step.
const upsertPage = `INSERT INTO pages (slug, path, title, subtitle, keywords, language, words, content)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(slug) DO UPDATE SET
	path = excluded.path,
	title = excluded.title,
	subtitle = excluded.subtitle,
	keywords = excluded.keywords,
	language = excluded.language,
	words = excluded.words,
	content = excluded.content`

// SQLiteIndexer rebuilds the page index for one transform run. Every page
// of the run is written inside a single transaction, so searchers see
// either the previous index or the complete new one, never a partial run.
type SQLiteIndexer struct {
	mu    sync.Mutex
	db    *sql.DB
	run   *sql.Tx
	stmt  *sql.Stmt
	pages int
}

func NewSQLiteIndexer(path string) (*SQLiteIndexer, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	run, err := db.Begin()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("begin index run: %w", err)
	}
	if _, err := run.Exec(schema); err != nil {
		_ = run.Rollback()
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	stmt, err := run.Prepare(upsertPage)
	if err != nil {
		_ = run.Rollback()
		_ = db.Close()
		return nil, fmt.Errorf("prepare upsert: %w", err)
	}
	return &SQLiteIndexer{db: db, run: run, stmt: stmt}, nil
}

// IndexPage adds one transformed page to the run.
func (s *SQLiteIndexer) IndexPage(ctx context.Context, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.run == nil {
		return ErrClosed
	}
	if doc.Slug == "" {
		return errors.New("index page: empty slug")
	}
	if _, err := s.stmt.ExecContext(ctx, doc.Slug, doc.Path, doc.Title, doc.Subtitle, doc.Keywords, doc.Language, doc.Words, doc.Content); err != nil {
		return fmt.Errorf("index page %s: %w", doc.Slug, err)
	}
	s.pages++
	return nil
}

// Pages reports how many pages the run has indexed so far.
func (s *SQLiteIndexer) Pages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pages
}

// Close commits the run and closes the database. Calling it again is a no-op.
func (s *SQLiteIndexer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.run == nil {
		return nil
	}
	_ = s.stmt.Close()
	err := s.run.Commit()
	s.run, s.stmt = nil, nil
	if closeErr := s.db.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close page index: %w", closeErr)
	} else if err != nil {
		err = fmt.Errorf("commit index run: %w", err)
	}
	return err
}
