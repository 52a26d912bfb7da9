package ost

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/npillmayer/ost/pagestore"
)

var (
	// ErrIndexOutOfBounds signals an invalid positional index.
	ErrIndexOutOfBounds = errors.New("ost: index out of bounds")
	// ErrInvalidConfig signals an invalid engine configuration.
	ErrInvalidConfig = errors.New("ost: invalid configuration")
	// ErrCorruption marks errors caused by pages which do not decode to a
	// well-formed node, or trees violating structural invariants.
	ErrCorruption = pagestore.ErrCorruption
	// ErrPageOverflow signals a node whose encoding does not fit into a page.
	ErrPageOverflow = errors.New("ost: node does not fit into page")
	// ErrHeadClosed signals use of a closed Head.
	ErrHeadClosed = errors.New("ost: head closed")
)

// BoundsError is returned for a position outside the legal range of an
// operation. It unwraps to ErrIndexOutOfBounds.
type BoundsError struct {
	Op    string // get, insert or remove
	Index int
	Size  int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("ost: %s: index %d out of bounds for size %d", e.Op, e.Index, e.Size)
}

func (e *BoundsError) Unwrap() error {
	return ErrIndexOutOfBounds
}

func boundsError(op string, index, size int) error {
	return &BoundsError{Op: op, Index: index, Size: size}
}

// IsCorruption reports whether err signals a corrupted page or tree.
func IsCorruption(err error) bool {
	return errors.Is(err, ErrCorruption)
}
