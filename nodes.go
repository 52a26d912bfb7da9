package ost

import (
	"github.com/npillmayer/ost/pagestore"
)

// ElementRef is an opaque reference to an externally stored element payload.
// The tree never interprets it.
type ElementRef uint64

// Node is a tree node, either a *Leaf or an *Internal. The set of node types is
// closed; clients dispatch with a type switch.
type Node interface {
	// IsLeaf reports whether the node is a *Leaf.
	IsLeaf() bool
	// ElementCount is the number of leaf elements in the subtree of this node.
	ElementCount() uint64
	// Serialize returns the type-specific payload of the page encoding,
	// without the type tag.
	Serialize() []byte
	sealed()
}

// Page type tags.
const (
	tagLeaf     byte = 1
	tagInternal byte = 2
)

// Child is a slot of an internal node.
type Child struct {
	Addr  pagestore.Addr
	Count uint32
}

const childSlotSize = 8 + 4

var (
	_ Node = (*Leaf)(nil)
	_ Node = (*Internal)(nil)
)
