package pagestore

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocatorSkipsHeaderPage(t *testing.T) {
	for _, size := range []int{PageSize4K, PageSize8K, PageSize16K} {
		a, err := NewAllocator(size)
		require.NoError(t, err)
		require.Equal(t, size, a.PageSize())
		for i := 1; i <= 3; i++ {
			addr, err := a.AllocatePage()
			require.NoError(t, err)
			require.False(t, addr.IsNil())
			require.Equal(t, Addr(i*size), addr)
		}
		require.Equal(t, uint64(4*size), a.Cursor())
	}
}

func TestAllocatorRejectsPageSize(t *testing.T) {
	_, err := NewAllocator(1000)
	require.ErrorIs(t, err, ErrInvalidPageSize)
	_, err = ResumeAllocator(PageSize4K, 100)
	require.Error(t, err)
}

func TestAllocatorResumeAligns(t *testing.T) {
	a, err := ResumeAllocator(PageSize4K, PageSize4K+10)
	require.NoError(t, err)
	addr, err := a.AllocatePage()
	require.NoError(t, err)
	require.Equal(t, Addr(2*PageSize4K), addr)
}

func TestAllocatorPending(t *testing.T) {
	a, err := NewAllocator(PageSize4K)
	require.NoError(t, err)
	require.NoError(t, a.BeginPending())
	require.True(t, a.Pending())
	require.ErrorIs(t, a.BeginPending(), ErrPendingState)
	require.ErrorIs(t, a.SetCursor(8*PageSize4K), ErrPendingState)
	_, err = a.AllocatePage()
	require.NoError(t, err)
	_, err = a.AllocatePage()
	require.NoError(t, err)
	require.Equal(t, uint64(PageSize4K), a.CommittedCursor())
	require.NoError(t, a.RollbackPending())
	require.Equal(t, uint64(PageSize4K), a.Cursor())

	require.NoError(t, a.BeginPending())
	addr, err := a.AllocatePage()
	require.NoError(t, err)
	require.Equal(t, Addr(PageSize4K), addr, "rolled back addresses are reissued")
	require.NoError(t, a.CommitPending())
	require.Equal(t, uint64(2*PageSize4K), a.CommittedCursor())
	require.ErrorIs(t, a.CommitPending(), ErrPendingState)
	require.ErrorIs(t, a.RollbackPending(), ErrPendingState)
}

func TestAllocatorSetCursor(t *testing.T) {
	a, err := NewAllocator(PageSize4K)
	require.NoError(t, err)
	require.Error(t, a.SetCursor(0))
	require.NoError(t, a.SetCursor(10*PageSize4K))
	addr, err := a.AllocatePage()
	require.NoError(t, err)
	require.Equal(t, Addr(10*PageSize4K), addr)
}

func TestAllocatorOverflow(t *testing.T) {
	a, err := ResumeAllocator(PageSize4K, math.MaxUint64-PageSize4K)
	require.NoError(t, err)
	_, err = a.AllocatePage()
	require.ErrorIs(t, err, ErrAllocOverflow)
}
