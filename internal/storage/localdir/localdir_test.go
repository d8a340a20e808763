package localdir

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eodrift/satstore/internal/logging"
	"github.com/eodrift/satstore/internal/storage"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "bucket"))
	require.NoError(t, err)
	return s
}

func put(t *testing.T, s *Store, key, content string) {
	t.Helper()
	require.NoError(t, s.Put(context.Background(), key, bytes.NewReader([]byte(content)), int64(len(content))))
}

func TestContainerName(t *testing.T) {
	s := newStore(t)
	assert.Equal(t, "bucket", s.Container())
}

func TestPutGetRoundTrip(t *testing.T) {
	s := newStore(t)
	put(t, s, "a/b/c.txt", "hello")

	rc, size, err := s.Get(context.Background(), "a/b/c.txt")
	require.NoError(t, err)
	defer rc.Close()

	assert.Equal(t, int64(5), size)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestGetMissing(t *testing.T) {
	s := newStore(t)
	_, _, err := s.Get(context.Background(), "nope.txt")
	assert.ErrorIs(t, err, storage.ErrMissingObject)
}

func TestList(t *testing.T) {
	s := newStore(t)
	put(t, s, "p/a.txt", "1")
	put(t, s, "p/sub/b.txt", "2")
	put(t, s, "q/c.txt", "3")

	keys, err := s.List(context.Background(), "p")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"p/a.txt", "p/sub/b.txt"}, keys)
}

func TestListDelimited(t *testing.T) {
	s := newStore(t)
	put(t, s, "p/a.txt", "1")
	put(t, s, "p/sub/b.txt", "2")

	keys, err := s.ListDelimited(context.Background(), "p")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"p/a.txt", "p/sub"}, keys)

	// A prefix naming a file, not a directory, has no children.
	keys, err = s.ListDelimited(context.Background(), "p/a.txt")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestRename(t *testing.T) {
	s := newStore(t)
	put(t, s, "old.txt", "x")

	require.NoError(t, s.Rename(context.Background(), "old.txt", "deep/new.txt"))

	_, _, err := s.Get(context.Background(), "old.txt")
	assert.ErrorIs(t, err, storage.ErrMissingObject)
	rc, _, err := s.Get(context.Background(), "deep/new.txt")
	require.NoError(t, err)
	rc.Close()
}

func TestCopyUnsupportedThroughEngine(t *testing.T) {
	s := newStore(t)
	engine := storage.NewEngine(s, logging.NewLogger(io.Discard))

	err := engine.Copy(context.Background(), "a", "b", storage.CopyOptions{})
	assert.ErrorIs(t, err, storage.ErrCopyUnsupported)
}
