package ost

import (
	"encoding/binary"
	"math"

	"github.com/npillmayer/ost/pagestore"
)

// Internal is an inner node: a level and an ordered list of child slots.
//
// Like Leaf, an Internal is a value; WithChild and its siblings return copies.
type Internal struct {
	level    uint16
	children []Child
}

// NewInternal creates an internal node holding a copy of children.
func NewInternal(level uint16, children []Child) *Internal {
	n := &Internal{level: level, children: make([]Child, len(children))}
	copy(n.children, children)
	return n
}

func (n *Internal) IsLeaf() bool { return false }
func (n *Internal) sealed()      {}

// ElementCount is the sum of the child counts.
func (n *Internal) ElementCount() uint64 {
	var total uint64
	for _, c := range n.children {
		total += uint64(c.Count)
	}
	return total
}

// Level returns the level recorded for the node.
func (n *Internal) Level() uint16 {
	return n.level
}

// NumChildren returns the number of child slots.
func (n *Internal) NumChildren() int {
	return len(n.children)
}

// Child returns the address of the i-th child.
func (n *Internal) Child(i int) pagestore.Addr {
	return n.children[i].Addr
}

// ChildCount returns the element count of the i-th child.
func (n *Internal) ChildCount(i int) uint32 {
	return n.children[i].Count
}

// Children returns a copy of the child slots.
func (n *Internal) Children() []Child {
	return append([]Child(nil), n.children...)
}

// FindChildForPosition locates the child whose range strictly contains pos and
// returns its index together with pos relative to that child. Children with
// count 0 are never selected.
func (n *Internal) FindChildForPosition(pos uint64) (int, uint64, error) {
	var accum uint64
	for i, c := range n.children {
		if pos < accum+uint64(c.Count) {
			return i, pos - accum, nil
		}
		accum += uint64(c.Count)
	}
	return -1, 0, boundsError("find", int(pos), int(accum))
}

// childForInsert works like FindChildForPosition, but falls back to the last
// child if no child strictly contains pos. With pos <= ElementCount() this
// appends to the last child.
func (n *Internal) childForInsert(pos uint64) (int, uint64) {
	assert(len(n.children) > 0, "childForInsert called on internal node without children")
	var accum uint64
	for i, c := range n.children {
		if pos < accum+uint64(c.Count) {
			return i, pos - accum
		}
		accum += uint64(c.Count)
	}
	last := len(n.children) - 1
	return last, pos - (accum - uint64(n.children[last].Count))
}

// Split divides the node at n/2 into two fresh nodes of the same level.
func (n *Internal) Split() (left, right *Internal) {
	mid := len(n.children) / 2
	left = NewInternal(n.level, n.children[:mid])
	right = NewInternal(n.level, n.children[mid:])
	return left, right
}

// WithChild returns a copy with slot i pointing to addr and its count shifted
// by delta.
func (n *Internal) WithChild(i int, addr pagestore.Addr, delta int) *Internal {
	m := NewInternal(n.level, n.children)
	count := int64(m.children[i].Count) + int64(delta)
	assert(count >= 0 && count <= math.MaxUint32, "child count out of range")
	m.children[i] = Child{Addr: addr, Count: uint32(count)}
	return m
}

// WithSplitChild returns a copy with slot i replaced by the two slots
// (left, leftCount) and (right, rightCount).
func (n *Internal) WithSplitChild(i int, left pagestore.Addr, leftCount uint32,
	right pagestore.Addr, rightCount uint32) *Internal {
	//
	assert(i >= 0 && i < len(n.children), "split child index out of range")
	children := make([]Child, 0, len(n.children)+1)
	children = append(children, n.children[:i]...)
	children = append(children, Child{Addr: left, Count: leftCount}, Child{Addr: right, Count: rightCount})
	children = append(children, n.children[i+1:]...)
	return &Internal{level: n.level, children: children}
}

// Overflows reports whether the node holds more than MaxChildren children.
func (n *Internal) Overflows() bool {
	return len(n.children) > MaxChildren
}

// Underfull reports whether the node holds fewer than min children.
func (n *Internal) Underfull(min int) bool {
	return len(n.children) < min
}

// Serialize returns level, child count and the child slots, little endian.
func (n *Internal) Serialize() []byte {
	b := make([]byte, 4+childSlotSize*len(n.children))
	binary.LittleEndian.PutUint16(b[0:], n.level)
	binary.LittleEndian.PutUint16(b[2:], uint16(len(n.children)))
	off := 4
	for _, c := range n.children {
		binary.LittleEndian.PutUint64(b[off:], uint64(c.Addr))
		binary.LittleEndian.PutUint32(b[off+8:], c.Count)
		off += childSlotSize
	}
	return b
}

func decodeInternal(p []byte) (*Internal, error) {
	if len(p) < 4 {
		return nil, pagestore.CorruptionErrorf("ost: internal header truncated (%d bytes)", len(p))
	}
	level := binary.LittleEndian.Uint16(p[0:])
	k := int(binary.LittleEndian.Uint16(p[2:]))
	if len(p) < 4+childSlotSize*k {
		return nil, pagestore.CorruptionErrorf("ost: internal node with %d children truncated (%d bytes)", k, len(p))
	}
	n := &Internal{level: level, children: make([]Child, k)}
	off := 4
	for i := range n.children {
		n.children[i] = Child{
			Addr:  pagestore.Addr(binary.LittleEndian.Uint64(p[off:])),
			Count: binary.LittleEndian.Uint32(p[off+8:]),
		}
		off += childSlotSize
	}
	return n, nil
}
