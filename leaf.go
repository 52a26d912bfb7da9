package ost

import (
	"encoding/binary"

	"github.com/npillmayer/ost/pagestore"
)

// Leaf holds an ordered run of element references.
//
// A Leaf is a value: methods which change content return a new leaf and never
// share storage with the receiver.
type Leaf struct {
	elems []ElementRef
	// next is the address of the right sibling as of the last split. It is
	// kept for the page format and is not read by any traversal.
	next pagestore.Addr
}

// NewLeaf creates a leaf holding a copy of elems.
func NewLeaf(elems []ElementRef, next pagestore.Addr) *Leaf {
	l := &Leaf{elems: make([]ElementRef, len(elems)), next: next}
	copy(l.elems, elems)
	return l
}

func (l *Leaf) IsLeaf() bool         { return true }
func (l *Leaf) ElementCount() uint64 { return uint64(len(l.elems)) }
func (l *Leaf) sealed()              {}

// Len returns the number of elements.
func (l *Leaf) Len() int {
	return len(l.elems)
}

// Element returns the i-th element reference.
func (l *Leaf) Element(i int) ElementRef {
	return l.elems[i]
}

// Elements returns a copy of the element references.
func (l *Leaf) Elements() []ElementRef {
	return append([]ElementRef(nil), l.elems...)
}

// Next returns the legacy next-leaf address.
func (l *Leaf) Next() pagestore.Addr {
	return l.next
}

// InsertAt returns a new leaf with ref spliced in at position i.
// The result may exceed MaxLeafElements; callers split it before persisting.
func (l *Leaf) InsertAt(i int, ref ElementRef) *Leaf {
	assert(i >= 0 && i <= len(l.elems), "leaf insert position out of range")
	elems := make([]ElementRef, len(l.elems)+1)
	copy(elems, l.elems[:i])
	elems[i] = ref
	copy(elems[i+1:], l.elems[i:])
	return &Leaf{elems: elems, next: l.next}
}

// RemoveAt returns a new leaf without the element at position i, together with
// the removed element.
func (l *Leaf) RemoveAt(i int) (*Leaf, ElementRef) {
	assert(i >= 0 && i < len(l.elems), "leaf remove position out of range")
	elems := make([]ElementRef, len(l.elems)-1)
	copy(elems, l.elems[:i])
	copy(elems[i:], l.elems[i+1:])
	return &Leaf{elems: elems, next: l.next}, l.elems[i]
}

// Split divides the leaf at n/2. The right leaf takes over the old next
// address, the left leaf links to rightAddr.
func (l *Leaf) Split(rightAddr pagestore.Addr) (left, right *Leaf) {
	mid := len(l.elems) / 2
	left = NewLeaf(l.elems[:mid], rightAddr)
	right = NewLeaf(l.elems[mid:], l.next)
	return left, right
}

// Full reports whether the leaf has reached MaxLeafElements.
func (l *Leaf) Full() bool {
	return len(l.elems) >= MaxLeafElements
}

// Underfull reports whether the leaf holds fewer than min elements.
func (l *Leaf) Underfull(min int) bool {
	return len(l.elems) < min
}

// Serialize returns count, next and the element references, little endian.
func (l *Leaf) Serialize() []byte {
	b := make([]byte, 2+8+8*len(l.elems))
	binary.LittleEndian.PutUint16(b[0:], uint16(len(l.elems)))
	binary.LittleEndian.PutUint64(b[2:], uint64(l.next))
	off := 10
	for _, e := range l.elems {
		binary.LittleEndian.PutUint64(b[off:], uint64(e))
		off += 8
	}
	return b
}

func decodeLeaf(p []byte) (*Leaf, error) {
	if len(p) < 10 {
		return nil, pagestore.CorruptionErrorf("ost: leaf header truncated (%d bytes)", len(p))
	}
	n := int(binary.LittleEndian.Uint16(p[0:]))
	next := pagestore.Addr(binary.LittleEndian.Uint64(p[2:]))
	if len(p) < 10+8*n {
		return nil, pagestore.CorruptionErrorf("ost: leaf with %d elements truncated (%d bytes)", n, len(p))
	}
	l := &Leaf{elems: make([]ElementRef, n), next: next}
	off := 10
	for i := range l.elems {
		l.elems[i] = ElementRef(binary.LittleEndian.Uint64(p[off:]))
		off += 8
	}
	return l, nil
}
