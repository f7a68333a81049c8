package storage

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// BackupSuffix is appended to a page path to form its backup copy.
const BackupSuffix = ".bak"

// FSStorage reads and rewrites page sources. CacheDir, when set, holds
// one digest file per slug recording the last output written.
type FSStorage struct {
	CacheDir string
	DryRun   bool
}

func NewFSStorage(cacheDir string, dryRun bool) *FSStorage {
	return &FSStorage{CacheDir: cacheDir, DryRun: dryRun}
}

// ReadPage returns the content and permission bits of a page source.
func (s *FSStorage) ReadPage(path string) ([]byte, fs.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, fmt.Errorf("stat: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read: %w", err)
	}
	return data, info.Mode().Perm(), nil
}

// WritePage atomically replaces path with content.
func (s *FSStorage) WritePage(ctx context.Context, path string, content []byte, perm fs.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.DryRun {
		return nil
	}
	return writeFileAtomic(path, content, perm)
}

// Backup copies path to path+BackupSuffix unless a backup already exists.
// The first backup is the pre-transformation original, so it is never
// overwritten by later runs.
func (s *FSStorage) Backup(path string) (string, error) {
	dest := path + BackupSuffix
	if s.DryRun {
		return dest, nil
	}
	if _, err := os.Lstat(dest); err == nil {
		return dest, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("stat backup: %w", err)
	}
	data, perm, err := s.ReadPage(path)
	if err != nil {
		return "", err
	}
	if err := writeFileAtomic(dest, data, perm); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return dest, nil
}

// Digest returns the hex sha1 of content.
func Digest(content []byte) string {
	sum := sha1.Sum(content)
	return hex.EncodeToString(sum[:])
}

// CheckCache reports whether content matches the digest recorded for slug.
func (s *FSStorage) CheckCache(slug string, content []byte) bool {
	if s.CacheDir == "" {
		return false
	}
	data, err := os.ReadFile(filepath.Join(s.CacheDir, slug))
	return err == nil && string(data) == Digest(content)
}

// WriteCache records the digest of content for slug.
func (s *FSStorage) WriteCache(ctx context.Context, slug string, content []byte) error {
	if s.CacheDir == "" || s.DryRun {
		return nil
	}
	if slug == "" {
		return fmt.Errorf("cache slug required")
	}
	if err := os.MkdirAll(s.CacheDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	return writeFileAtomic(filepath.Join(s.CacheDir, slug), []byte(Digest(content)), 0o644)
}

// writeFileAtomic writes content to a temporary file next to fullPath and
// renames it into place. Rename replaces a symlink at fullPath instead of
// writing through it.
func writeFileAtomic(fullPath string, content []byte, perm fs.FileMode) (err error) {
	dir := filepath.Dir(fullPath)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fullPath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if perm == 0 {
		perm = 0o644
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err = os.Rename(tmpName, fullPath); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
