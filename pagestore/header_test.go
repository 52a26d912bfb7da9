package pagestore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	m := NewMemory()
	h := Header{PageSize: PageSize8K, Root: Addr(5 * PageSize8K), AllocCursor: 9 * PageSize8K, Count: 1234}
	require.NoError(t, WriteHeader(m, h))
	require.Equal(t, int64(PageSize8K), m.Size())
	got, err := ReadHeader(m)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestHeaderCorruption(t *testing.T) {
	h := Header{PageSize: PageSize4K, Root: Addr(PageSize4K), AllocCursor: 2 * PageSize4K, Count: 3}
	p := h.Encode()
	require.Len(t, p, PageSize4K)

	p[30] ^= 0xff
	_, err := DecodeHeader(p)
	require.True(t, IsCorruption(err), "checksum mismatch")

	p = h.Encode()
	p[0] = 'X'
	_, err = DecodeHeader(p)
	require.True(t, IsCorruption(err), "bad magic")

	_, err = DecodeHeader(p[:20])
	require.True(t, IsCorruption(err), "truncated")

	m := NewMemory()
	require.NoError(t, m.WritePage(HeaderAddr, make([]byte, PageSize4K)))
	_, err = ReadHeader(m)
	require.True(t, IsCorruption(err), "zero page")
}
