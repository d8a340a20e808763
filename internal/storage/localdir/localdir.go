// Package localdir implements the object store primitives over a local
// directory, mapping keys to relative file paths. Useful for staging
// trees before ingestion and for exercising the driver contract without
// a network.
package localdir

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/eodrift/satstore/internal/storage"
)

// Store is an ObjectStore rooted at one directory. The directory name
// acts as the container name.
type Store struct {
	root string
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: abs}, nil
}

// Container returns the root directory's base name.
func (s *Store) Container() string {
	return filepath.Base(s.root)
}

func (s *Store) abs(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

// Get opens a file for reading.
func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	f, err := os.Open(s.abs(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, fmt.Errorf("%s: %w", key, storage.ErrMissingObject)
		}
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

// Put writes a file, creating parent directories as needed.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, size int64) error {
	target := s.abs(key)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, r)
	return err
}

// List returns every file key starting with prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	keys := make([]string, 0)
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// ListDelimited returns the immediate children of prefix: file keys and
// directory names.
func (s *Store) ListDelimited(ctx context.Context, prefix string) ([]string, error) {
	dir := s.root
	if prefix != "" {
		dir = s.abs(prefix)
	}

	if !isDir(dir) {
		// The prefix is an exact file or nothing; the engine handles both.
		return []string{}, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if prefix != "" {
			keys = append(keys, prefix+"/"+entry.Name())
		} else {
			keys = append(keys, entry.Name())
		}
	}
	return keys, nil
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

// Delete removes a single file.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.abs(key))
	if os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", key, storage.ErrMissingObject)
	}
	return err
}

// URL returns a file:// locator.
func (s *Store) URL(key string) string {
	return "file://" + filepath.ToSlash(s.abs(key))
}

// Rename moves a single file, creating the destination's parents.
func (s *Store) Rename(ctx context.Context, src, dst string) error {
	from, to := s.abs(src), s.abs(dst)
	if _, err := os.Stat(from); os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", src, storage.ErrMissingObject)
	}
	if err := os.MkdirAll(filepath.Dir(to), 0o755); err != nil {
		return err
	}
	return os.Rename(from, to)
}
