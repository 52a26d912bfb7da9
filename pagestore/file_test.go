package pagestore

import (
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
)

func TestFileReadWrite(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ost")
	defer teardown()
	path := filepath.Join(t.TempDir(), "pages")
	fs, err := OpenFile(path, false)
	require.NoError(t, err)
	require.Equal(t, path, fs.Path())
	require.NoError(t, fs.WritePage(PageSize4K, page(PageSize4K, 5)))
	require.NoError(t, fs.Sync())
	size, err := fs.Size()
	require.NoError(t, err)
	require.Equal(t, int64(2*PageSize4K), size)

	p := make([]byte, PageSize4K)
	require.NoError(t, fs.ReadPage(PageSize4K, p))
	require.Equal(t, page(PageSize4K, 5), p)
	require.ErrorIs(t, fs.ReadPage(2*PageSize4K, p), ErrOutOfRange)
	require.NoError(t, fs.Close())
	require.ErrorIs(t, fs.ReadPage(PageSize4K, p), ErrClosed)

	ro, err := OpenFile(path, true)
	require.NoError(t, err)
	defer ro.Close()
	require.NoError(t, ro.ReadPage(PageSize4K, p))
	require.Equal(t, page(PageSize4K, 5), p)
	require.Error(t, ro.WritePage(PageSize4K, p))
}

func TestOpenFileRejectsDirectory(t *testing.T) {
	_, err := OpenFile(t.TempDir(), true)
	require.Error(t, err)
}
