package memory

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eodrift/satstore/internal/storage"
)

func put(t *testing.T, s *Store, key, content string) {
	t.Helper()
	require.NoError(t, s.Put(context.Background(), key, bytes.NewReader([]byte(content)), int64(len(content))))
}

func TestGetMissing(t *testing.T) {
	s := New("c")
	_, _, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, storage.ErrMissingObject)
}

func TestPutGet(t *testing.T) {
	s := New("c")
	put(t, s, "a/b.txt", "hello")

	rc, size, err := s.Get(context.Background(), "a/b.txt")
	require.NoError(t, err)
	defer rc.Close()

	assert.Equal(t, int64(5), size)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestListDelimited(t *testing.T) {
	s := New("c")
	put(t, s, "p/a.txt", "1")
	put(t, s, "p/sub/b.txt", "2")
	put(t, s, "p/sub/deep/c.txt", "3")
	put(t, s, "q/d.txt", "4")

	children, err := s.ListDelimited(context.Background(), "p")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"p/a.txt", "p/sub"}, children)

	children, err = s.ListDelimited(context.Background(), "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"p", "q"}, children)
}

func TestDeleteMissing(t *testing.T) {
	s := New("c")
	err := s.Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, storage.ErrMissingObject)
}

func TestURL(t *testing.T) {
	s := New("my-container")
	assert.Equal(t, "mem://my-container/a/b.txt", s.URL("a/b.txt"))
}

func TestCopyRecordsTier(t *testing.T) {
	s := New("c")
	put(t, s, "src.txt", "x")

	opts := storage.CopyOptions{Tier: storage.TierArchive}
	require.NoError(t, s.Copy(context.Background(), "src.txt", "dst.txt", opts))
	assert.Equal(t, storage.TierArchive, s.Tier("dst.txt"))

	_, _, err := s.Get(context.Background(), "dst.txt")
	assert.NoError(t, err)
}

func TestCopyUnknownContainer(t *testing.T) {
	s := New("c")
	put(t, s, "src.txt", "x")

	opts := storage.CopyOptions{DstContainer: "nowhere"}
	err := s.Copy(context.Background(), "src.txt", "dst.txt", opts)
	assert.Error(t, err)
}
