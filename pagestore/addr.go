package pagestore

import "fmt"

// Addr names a persisted page. Addresses are opaque to the tree; the stores in
// this package interpret them as byte offsets.
type Addr uint64

// NoPage is the sentinel address meaning "no page" or "empty tree".
const NoPage Addr = 0

// IsNil reports whether a is the NoPage sentinel.
func (a Addr) IsNil() bool {
	return a == NoPage
}

func (a Addr) String() string {
	if a == NoPage {
		return "nil"
	}
	return fmt.Sprintf("@%d", uint64(a))
}

// Store is a byte-addressable page space.
type Store interface {
	// ReadPage fills p with the bytes starting at addr.
	ReadPage(addr Addr, p []byte) error
	// WritePage writes p starting at addr.
	WritePage(addr Addr, p []byte) error
}
