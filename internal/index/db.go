package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// schema drops and recreates all tables. The index is rebuilt from scratch
// on each run so there is no need for migrations.
const schema = `
DROP TRIGGER IF EXISTS pages_au;
DROP TRIGGER IF EXISTS pages_ad;
DROP TRIGGER IF EXISTS pages_ai;
DROP TABLE IF EXISTS pages_fts;
DROP TABLE IF EXISTS pages;

CREATE TABLE pages (
	slug TEXT PRIMARY KEY,
	path TEXT NOT NULL,
	title TEXT NOT NULL,
	subtitle TEXT NOT NULL,
	keywords TEXT NOT NULL,
	language TEXT NOT NULL DEFAULT '',
	words INTEGER NOT NULL DEFAULT 0,
	content TEXT NOT NULL
);

CREATE VIRTUAL TABLE pages_fts USING fts5(
	title, subtitle, content,
	content='pages',
	content_rowid='rowid'
);

CREATE TRIGGER pages_ai AFTER INSERT ON pages BEGIN
	INSERT INTO pages_fts(rowid, title, subtitle, content)
	VALUES (new.rowid, new.title, new.subtitle, new.content);
END;

CREATE TRIGGER pages_ad AFTER DELETE ON pages BEGIN
	INSERT INTO pages_fts(pages_fts, rowid, title, subtitle, content)
	VALUES ('delete', old.rowid, old.title, old.subtitle, old.content);
END;

CREATE TRIGGER pages_au AFTER UPDATE ON pages BEGIN
	INSERT INTO pages_fts(pages_fts, rowid, title, subtitle, content)
	VALUES ('delete', old.rowid, old.title, old.subtitle, old.content);
	INSERT INTO pages_fts(rowid, title, subtitle, content)
	VALUES (new.rowid, new.title, new.subtitle, new.content);
END;
`

func openDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open page index: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return db, nil
}
