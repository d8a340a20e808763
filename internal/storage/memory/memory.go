// Package memory provides a map-backed object store used in tests and as
// the reference implementation of the driver contract semantics.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/eodrift/satstore/internal/storage"
)

// Store is an in-memory object store bound to one container.
// All operations are safe for concurrent use.
type Store struct {
	container string

	mu       sync.RWMutex
	objects  map[string][]byte
	tiers    map[string]storage.AccessTier
	siblings map[string]*Store
}

// New creates an empty store bound to container.
func New(container string) *Store {
	return &Store{
		container: container,
		objects:   make(map[string][]byte),
		tiers:     make(map[string]storage.AccessTier),
		siblings:  make(map[string]*Store),
	}
}

// AddSibling registers another container so cross-container copies can
// resolve it.
func (s *Store) AddSibling(other *Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.siblings[other.container] = other
}

// Container returns the bound container name.
func (s *Store) Container() string {
	return s.container
}

// Get opens an object for reading.
func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[key]
	if !ok {
		return nil, 0, fmt.Errorf("%s: %w", key, storage.ErrMissingObject)
	}
	return io.NopCloser(bytes.NewReader(data)), int64(len(data)), nil
}

// Put writes an object, replacing any existing one.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

// List returns every key starting with prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0)
	for k := range s.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// ListDelimited returns the immediate children of prefix: object keys and
// virtual directory names, without trailing slashes.
func (s *Store) ListDelimited(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	base := prefix
	if base != "" {
		base += "/"
	}

	seen := make(map[string]bool)
	children := make([]string, 0)
	for k := range s.objects {
		if !strings.HasPrefix(k, base) {
			continue
		}
		rest := k[len(base):]
		if rest == "" {
			continue
		}
		child := rest
		if idx := strings.Index(rest, "/"); idx != -1 {
			child = rest[:idx]
		}
		full := base + child
		if !seen[full] {
			seen[full] = true
			children = append(children, full)
		}
	}
	return children, nil
}

// Delete removes a single object.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[key]; !ok {
		return fmt.Errorf("%s: %w", key, storage.ErrMissingObject)
	}
	delete(s.objects, key)
	delete(s.tiers, key)
	return nil
}

// URL returns a mem:// locator for key.
func (s *Store) URL(key string) string {
	return "mem://" + s.container + "/" + key
}

// Rename moves a single object.
func (s *Store) Rename(ctx context.Context, src, dst string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.objects[src]
	if !ok {
		return fmt.Errorf("%s: %w", src, storage.ErrMissingObject)
	}
	s.objects[dst] = data
	delete(s.objects, src)
	return nil
}

// Copy performs an immediate copy, recording the requested destination
// tier. Cross-container destinations resolve through registered siblings.
func (s *Store) Copy(ctx context.Context, srcKey, dstKey string, opts storage.CopyOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.objects[srcKey]
	if !ok {
		return fmt.Errorf("%s: %w", srcKey, storage.ErrMissingObject)
	}

	dst := s
	if opts.DstContainer != "" && opts.DstContainer != s.container {
		sibling, ok := s.siblings[opts.DstContainer]
		if !ok {
			return fmt.Errorf("unknown container %q", opts.DstContainer)
		}
		dst = sibling
		dst.mu.Lock()
		defer dst.mu.Unlock()
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	dst.objects[dstKey] = buf
	if opts.Tier != "" {
		dst.tiers[dstKey] = opts.Tier
	}
	return nil
}

// Tier reports the tier recorded for key by a copy, if any.
func (s *Store) Tier(key string) storage.AccessTier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tiers[key]
}

// Len reports the number of stored objects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
