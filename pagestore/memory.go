package pagestore

import (
	"math"
	"sync"

	"github.com/cockroachdb/errors"
)

// Memory is an in-memory byte-addressable Store.
//
// Memory is safe for concurrent use: readers of published pages may run while a
// single writer appends new pages.
type Memory struct {
	mu     sync.RWMutex
	data   []byte
	size   int64
	limit  int64
	closed bool
}

// NewMemory creates an empty in-memory store without a size limit.
func NewMemory() *Memory {
	return NewMemoryWithLimit(math.MaxInt64)
}

// NewMemoryWithLimit creates an empty in-memory store which refuses to grow
// beyond limit bytes.
func NewMemoryWithLimit(limit int64) *Memory {
	return &Memory{
		data:  make([]byte, 4096),
		limit: limit,
	}
}

// ReadPage implements Store.
func (m *Memory) ReadPage(addr Addr, p []byte) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	off := int64(addr)
	if off < 0 || off+int64(len(p)) > m.size {
		return errors.Wrapf(ErrOutOfRange, "read %s len=%d size=%d", addr, len(p), m.size)
	}
	copy(p, m.data[off:off+int64(len(p))])
	return nil
}

// WritePage implements Store.
func (m *Memory) WritePage(addr Addr, p []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if int64(addr) < 0 {
		return errors.Wrapf(ErrOutOfRange, "write %s", addr)
	}
	end := int64(addr) + int64(len(p))
	if end < 0 {
		return errors.Wrapf(ErrOutOfRange, "write %s len=%d", addr, len(p))
	}
	if err := m.ensureCapacity(end); err != nil {
		return err
	}
	copy(m.data[addr:], p)
	if end > m.size {
		m.size = end
	}
	return nil
}

func (m *Memory) ensureCapacity(required int64) error {
	if required > m.limit {
		return errors.Wrapf(ErrLimitExceeded, "%d > %d", required, m.limit)
	}
	if required <= int64(len(m.data)) {
		return nil
	}
	capacity := int64(len(m.data))
	for capacity < required {
		capacity *= 2
	}
	grown := make([]byte, capacity)
	copy(grown, m.data[:m.size])
	m.data = grown
	return nil
}

// Size returns the extent of the store in bytes.
func (m *Memory) Size() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.size
}

// Bytes returns a copy of the written extent.
func (m *Memory) Bytes() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]byte(nil), m.data[:m.size]...)
}

// Close releases the buffer. Further calls fail with ErrClosed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.data = nil
	return nil
}
