package images

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/baibai/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStore_PutGetDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	s, err := NewDiskStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "a1-1700000000000.png", "image/png", strings.NewReader("png-bytes"), 9))

	rc, ct, err := s.Get(ctx, "a1-1700000000000.png")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "image/png", ct)

	require.NoError(t, s.Delete(ctx, "a1-1700000000000.png"))
	_, err = os.Stat(filepath.Join(dir, "a1-1700000000000.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestDiskStore_PutExistingNameFails(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "x.png", "image/png", strings.NewReader("1"), 1))
	require.Error(t, s.Put(ctx, "x.png", "image/png", strings.NewReader("2"), 1))
}

func TestDiskStore_ShortWriteRemovesFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDiskStore(dir)
	require.NoError(t, err)

	err = s.Put(context.Background(), "x.png", "image/png", strings.NewReader("abc"), 10)
	require.ErrorContains(t, err, "short write")

	_, statErr := os.Stat(filepath.Join(dir, "x.png"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDiskStore_Missing(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, _, err = s.Get(ctx, "nope.png")
	require.ErrorIs(t, err, common.ErrorNotFound)

	require.ErrorIs(t, s.Delete(ctx, "nope.png"), common.ErrorNotFound)
}

func TestDiskStore_RejectsTraversal(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, name := range []string{"../secret", "..", "a/b.png", `a\b.png`, ""} {
		_, _, err := s.Get(ctx, name)
		assert.ErrorIs(t, err, common.ErrorNotFound, name)
		assert.ErrorIs(t, s.Delete(ctx, name), common.ErrorNotFound, name)
		assert.Error(t, s.Put(ctx, name, "image/png", strings.NewReader("x"), 1), name)
	}
}

func TestContentTypeOf(t *testing.T) {
	assert.Equal(t, "image/png", contentTypeOf("a.png"))
	assert.Equal(t, "image/jpeg", contentTypeOf("a.jpg"))
	assert.Equal(t, "application/octet-stream", contentTypeOf("noext"))
}
