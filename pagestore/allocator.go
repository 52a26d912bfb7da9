package pagestore

import (
	"math"

	"github.com/cockroachdb/errors"
)

// Valid page sizes for an Allocator.
const (
	PageSize4K  = 4096
	PageSize8K  = 8192
	PageSize16K = 16384
)

// overflowThreshold leaves headroom of two maximum pages below MaxUint64.
const overflowThreshold = math.MaxUint64 - 2*PageSize16K

// Allocator issues fresh page addresses by bumping a tail cursor.
//
// The first page of the address space is reserved for the header page, so the
// lowest address ever issued equals the page size. The allocator never reuses
// an address; reclamation of superseded pages is not its concern.
//
// In pending mode, allocations advance the current cursor only; CommitPending
// publishes them and RollbackPending discards them. Outside pending mode every
// allocation is committed immediately.
//
// An Allocator is meant for a single writer and is not safe for concurrent use.
type Allocator struct {
	pageSize  int
	committed uint64
	current   uint64
	pending   bool
}

// NewAllocator creates an allocator for a fresh address space.
func NewAllocator(pageSize int) (*Allocator, error) {
	return ResumeAllocator(pageSize, uint64(pageSize))
}

// ResumeAllocator creates an allocator continuing at cursor tail, e.g., a cursor
// read from a header page. tail must lie beyond the reserved header page.
func ResumeAllocator(pageSize int, tail uint64) (*Allocator, error) {
	if !ValidPageSize(pageSize) {
		return nil, errors.Wrapf(ErrInvalidPageSize,
			"must be %d, %d or %d, was %d", PageSize4K, PageSize8K, PageSize16K, pageSize)
	}
	if tail < uint64(pageSize) {
		return nil, errors.Newf("pagestore: cursor %d overlaps the header page", tail)
	}
	return &Allocator{
		pageSize:  pageSize,
		committed: tail,
		current:   tail,
	}, nil
}

// ValidPageSize reports whether size is a page size supported by Allocator.
func ValidPageSize(size int) bool {
	switch size {
	case PageSize4K, PageSize8K, PageSize16K:
		return true
	}
	return false
}

// PageSize returns the page size of this allocator.
func (a *Allocator) PageSize() int {
	return a.pageSize
}

// AllocatePage returns the address of a fresh, page-aligned page.
func (a *Allocator) AllocatePage() (Addr, error) {
	if a.current > overflowThreshold {
		return NoPage, errors.Wrapf(ErrAllocOverflow, "cursor at %d", a.current)
	}
	aligned := alignUp(a.current, uint64(a.pageSize))
	tail := aligned + uint64(a.pageSize)
	if aligned > overflowThreshold {
		return NoPage, errors.Wrapf(ErrAllocOverflow, "page at offset %d", aligned)
	}
	a.current = tail
	if !a.pending {
		a.committed = tail
	}
	return Addr(aligned), nil
}

// Cursor returns the current allocation tail.
func (a *Allocator) Cursor() uint64 {
	return a.current
}

// CommittedCursor returns the tail as of the last commit.
func (a *Allocator) CommittedCursor() uint64 {
	return a.committed
}

// SetCursor moves the allocation tail, e.g., after restoring a snapshot.
// It fails in pending mode and for cursors overlapping the header page.
func (a *Allocator) SetCursor(tail uint64) error {
	if a.pending {
		return errors.Wrap(ErrPendingState, "cannot move cursor while pending")
	}
	if tail < uint64(a.pageSize) {
		return errors.Newf("pagestore: cursor %d overlaps the header page", tail)
	}
	a.current, a.committed = tail, tail
	return nil
}

// BeginPending starts a batch of allocations which may be rolled back.
func (a *Allocator) BeginPending() error {
	if a.pending {
		return errors.Wrap(ErrPendingState, "already pending")
	}
	a.pending = true
	return nil
}

// CommitPending publishes the allocations made since BeginPending.
func (a *Allocator) CommitPending() error {
	if !a.pending {
		return errors.Wrap(ErrPendingState, "not pending")
	}
	a.committed = a.current
	a.pending = false
	return nil
}

// RollbackPending discards the allocations made since BeginPending.
func (a *Allocator) RollbackPending() error {
	if !a.pending {
		return errors.Wrap(ErrPendingState, "not pending")
	}
	a.current = a.committed
	a.pending = false
	return nil
}

// Pending reports whether the allocator is in pending mode.
func (a *Allocator) Pending() bool {
	return a.pending
}

func alignUp(v, alignment uint64) uint64 {
	return (v + alignment - 1) &^ (alignment - 1)
}
