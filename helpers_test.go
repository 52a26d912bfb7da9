package ost

import (
	"bytes"
	"sync"
	"testing"

	"github.com/npillmayer/ost/pagestore"
	"github.com/stretchr/testify/require"
)

const testPageSize = pagestore.PageSize4K

func newTestEngine(t *testing.T) (*Engine, *pagestore.Memory) {
	t.Helper()
	store := pagestore.NewMemory()
	alloc, err := pagestore.NewAllocator(testPageSize)
	require.NoError(t, err)
	eng, err := NewEngine(store, alloc, testPageSize)
	require.NoError(t, err)
	return eng, store
}

// sparseStore keeps pages without their zero padding, for tests writing
// many thousands of pages.
type sparseStore struct {
	mu    sync.RWMutex
	pages map[pagestore.Addr][]byte
}

func (s *sparseStore) ReadPage(addr pagestore.Addr, p []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.pages[addr]
	if !ok {
		return pagestore.ErrOutOfRange
	}
	n := copy(p, stored)
	clear(p[n:])
	return nil
}

func (s *sparseStore) WritePage(addr pagestore.Addr, p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[addr] = append([]byte(nil), bytes.TrimRight(p, "\x00")...)
	return nil
}

func newSparseEngine(t *testing.T) *Engine {
	t.Helper()
	alloc, err := pagestore.NewAllocator(testPageSize)
	require.NoError(t, err)
	eng, err := NewEngine(&sparseStore{pages: map[pagestore.Addr][]byte{}}, alloc, testPageSize)
	require.NoError(t, err)
	return eng
}

// appendN appends refs first, first+1, ... to the tree at root.
func appendN(t *testing.T, eng *Engine, root pagestore.Addr, first, n int) pagestore.Addr {
	t.Helper()
	size, err := eng.SizeAt(root)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		root, err = eng.InsertAt(root, size+i, ElementRef(first+i))
		require.NoError(t, err)
	}
	return root
}

func requireElements(t *testing.T, eng *Engine, root pagestore.Addr, want []ElementRef) {
	t.Helper()
	size, err := eng.SizeAt(root)
	require.NoError(t, err)
	require.Equal(t, len(want), size)
	got, err := eng.Elements(root)
	require.NoError(t, err)
	if len(want) == 0 {
		require.Empty(t, got)
	} else {
		require.Equal(t, want, got)
	}
	for i, w := range want {
		ref, err := eng.GetAt(root, i)
		require.NoError(t, err)
		require.Equalf(t, w, ref, "element %d", i)
	}
}

func seq(first, n int) []ElementRef {
	s := make([]ElementRef, n)
	for i := range s {
		s[i] = ElementRef(first + i)
	}
	return s
}

func childSlots(n int) []Child {
	c := make([]Child, n)
	for i := range c {
		c[i] = Child{Addr: pagestore.Addr((i + 1) * testPageSize), Count: uint32(i*3 + 1)}
	}
	return c
}
