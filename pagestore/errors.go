package pagestore

import "github.com/cockroachdb/errors"

var (
	// ErrClosed signals an operation on a closed store.
	ErrClosed = errors.New("pagestore: store is closed")
	// ErrOutOfRange signals a read beyond the written extent of a store.
	ErrOutOfRange = errors.New("pagestore: read out of range")
	// ErrLimitExceeded signals that a write would grow a store beyond its limit.
	ErrLimitExceeded = errors.New("pagestore: memory limit exceeded")
	// ErrInvalidPageSize signals an unsupported page size.
	ErrInvalidPageSize = errors.New("pagestore: invalid page size")
	// ErrAllocOverflow signals that the allocation cursor would overflow.
	ErrAllocOverflow = errors.New("pagestore: allocation overflow")
	// ErrPendingState signals a pending-mode call in the wrong state.
	ErrPendingState = errors.New("pagestore: invalid pending state")
	// ErrCorruption marks errors caused by bytes which cannot have been written
	// by this module: bad magic, checksum mismatch, unknown page tags.
	ErrCorruption = errors.New("pagestore: corruption")
)

// CorruptionErrorf formats an error and marks it as a corruption error.
func CorruptionErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrCorruption)
}

// IsCorruption reports whether err has been marked as a corruption error.
func IsCorruption(err error) bool {
	return errors.Is(err, ErrCorruption)
}
