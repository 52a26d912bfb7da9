package ost

import (
	"github.com/npillmayer/ost/pagestore"
)

// Tree is a stateful handle on an Engine. It threads one root address through
// the engine's operations and carries an allocator cursor value, which it
// stores but never interprets. Callers persisting {root, cursor} as one unit
// use Snapshot.
//
// A Tree is not safe for concurrent use.
type Tree struct {
	eng    *Engine
	root   pagestore.Addr
	size   int
	cursor uint64
}

// Snapshot is the pair of root address and allocator cursor describing one
// version of a tree.
type Snapshot struct {
	Root        pagestore.Addr
	AllocCursor uint64
}

// CreateEmpty creates an empty tree.
func CreateEmpty(store PageStore, alloc Allocator, pageSize int) (*Tree, error) {
	eng, err := NewEngine(store, alloc, pageSize)
	if err != nil {
		return nil, err
	}
	return &Tree{eng: eng}, nil
}

// Open creates a handle on the existing tree at root. The root page is read to
// determine the size of the tree.
func Open(store PageStore, alloc Allocator, pageSize int, root pagestore.Addr) (*Tree, error) {
	eng, err := NewEngine(store, alloc, pageSize)
	if err != nil {
		return nil, err
	}
	t := &Tree{eng: eng}
	if err := t.SetRoot(root); err != nil {
		return nil, err
	}
	return t, nil
}

// Engine returns the engine of t.
func (t *Tree) Engine() *Engine {
	return t.eng
}

// Size returns the number of elements.
func (t *Tree) Size() int {
	return t.size
}

// IsEmpty reports whether the tree has no elements.
func (t *Tree) IsEmpty() bool {
	return t.size == 0
}

// Get returns the element at index.
func (t *Tree) Get(index int) (ElementRef, error) {
	return t.eng.GetAt(t.root, index)
}

// Insert inserts ref at index. On error the tree keeps its current root.
func (t *Tree) Insert(index int, ref ElementRef) error {
	root, err := t.eng.InsertAt(t.root, index, ref)
	if err != nil {
		return err
	}
	t.root = root
	t.size++
	return nil
}

// Remove removes and returns the element at index. On error the tree keeps its
// current root.
func (t *Tree) Remove(index int) (ElementRef, error) {
	root, removed, err := t.eng.RemoveAt(t.root, index)
	if err != nil {
		return 0, err
	}
	t.root = root
	t.size--
	return removed, nil
}

// Root returns the current root address; pagestore.NoPage for an empty tree.
func (t *Tree) Root() pagestore.Addr {
	return t.root
}

// SetRoot switches the tree to the version at root.
func (t *Tree) SetRoot(root pagestore.Addr) error {
	size, err := t.eng.SizeAt(root)
	if err != nil {
		return err
	}
	t.root, t.size = root, size
	return nil
}

// AllocCursor returns the allocator cursor value carried with the tree.
func (t *Tree) AllocCursor() uint64 {
	return t.cursor
}

// SetAllocCursor sets the allocator cursor value carried with the tree.
func (t *Tree) SetAllocCursor(v uint64) {
	t.cursor = v
}

// Snapshot returns root and allocator cursor as one value.
func (t *Tree) Snapshot() Snapshot {
	return Snapshot{Root: t.root, AllocCursor: t.cursor}
}
