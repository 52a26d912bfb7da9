package pagestore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheHitsAndEvictions(t *testing.T) {
	m := NewMemory()
	c := NewCache(m, PageSize4K, 2)
	for i := 1; i <= 3; i++ {
		require.NoError(t, c.WritePage(Addr(i*PageSize4K), page(PageSize4K, byte(i))))
	}
	require.Equal(t, 2, c.Stats().Pages)

	p := make([]byte, PageSize4K)
	require.NoError(t, c.ReadPage(Addr(3*PageSize4K), p))
	require.Equal(t, page(PageSize4K, 3), p)
	require.Equal(t, uint64(1), c.Stats().Hits)

	// page 1 has been evicted by the write of page 3
	require.NoError(t, c.ReadPage(Addr(PageSize4K), p))
	require.Equal(t, page(PageSize4K, 1), p)
	st := c.Stats()
	require.Equal(t, uint64(1), st.Misses)
	require.Equal(t, 2, st.Pages)

	// partial reads bypass the cache
	small := make([]byte, 16)
	require.NoError(t, c.ReadPage(Addr(2*PageSize4K), small))
	require.Equal(t, page(16, 2), small)
	require.Equal(t, st, c.Stats())

	c.Clear()
	require.Zero(t, c.Stats().Pages)
	require.NoError(t, c.ReadPage(Addr(3*PageSize4K), p))
	require.Equal(t, uint64(2), c.Stats().Misses)
}

func TestCacheReturnsCopies(t *testing.T) {
	c := NewCache(NewMemory(), PageSize4K, 4)
	src := page(PageSize4K, 4)
	require.NoError(t, c.WritePage(Addr(PageSize4K), src))
	src[0] = 99
	p := make([]byte, PageSize4K)
	require.NoError(t, c.ReadPage(Addr(PageSize4K), p))
	require.Equal(t, byte(4), p[0])
	p[1] = 77
	q := make([]byte, PageSize4K)
	require.NoError(t, c.ReadPage(Addr(PageSize4K), q))
	require.Equal(t, byte(4), q[1])
}
