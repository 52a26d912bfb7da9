package ost

import (
	"github.com/cockroachdb/errors"
	"github.com/npillmayer/ost/pagestore"
)

// PageStore is the byte-addressable page space the engine reads from and
// writes to. ReadPage fills p from addr, WritePage writes p at addr.
type PageStore interface {
	ReadPage(addr pagestore.Addr, p []byte) error
	WritePage(addr pagestore.Addr, p []byte) error
}

// Allocator hands out fresh page addresses. It must never return
// pagestore.NoPage or an address already in use.
type Allocator interface {
	AllocatePage() (pagestore.Addr, error)
}

// Engine implements the tree algorithms on explicit root addresses. It holds
// no tree state, so any number of goroutines may read through an Engine
// concurrently, provided the page store supports concurrent reads. Mutating
// operations require external serialization of writers.
type Engine struct {
	store PageStore
	alloc Allocator
	cfg   Config
}

// NewEngine creates an engine writing pages of pageSize bytes to store, with
// addresses from alloc.
func NewEngine(store PageStore, alloc Allocator, pageSize int) (*Engine, error) {
	return NewEngineWithConfig(store, alloc, Config{PageSize: pageSize})
}

// NewEngineWithConfig creates an engine from a configuration.
func NewEngineWithConfig(store PageStore, alloc Allocator, cfg Config) (*Engine, error) {
	if store == nil || alloc == nil {
		return nil, errors.Wrap(ErrInvalidConfig, "page store and allocator are required")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Engine{store: store, alloc: alloc, cfg: cfg.normalized()}, nil
}

// PageSize returns the configured page size.
func (e *Engine) PageSize() int {
	return e.cfg.PageSize
}

// SizeAt returns the number of elements of the tree at root.
func (e *Engine) SizeAt(root pagestore.Addr) (int, error) {
	if root.IsNil() {
		return 0, nil
	}
	n, err := e.load(root)
	if err != nil {
		return 0, err
	}
	return int(n.ElementCount()), nil
}

// GetAt returns the element at index of the tree at root.
func (e *Engine) GetAt(root pagestore.Addr, index int) (ElementRef, error) {
	size, err := e.SizeAt(root)
	if err != nil {
		return 0, err
	}
	if index < 0 || index >= size {
		return 0, boundsError("get", index, size)
	}
	n, err := e.load(root)
	if err != nil {
		return 0, err
	}
	local := uint64(index)
	for {
		switch node := n.(type) {
		case *Leaf:
			if local >= uint64(node.Len()) {
				return 0, slotMismatch(local, node)
			}
			return node.Element(int(local)), nil
		case *Internal:
			var i int
			if i, local, err = node.FindChildForPosition(local); err != nil {
				return 0, err
			}
			if n, err = e.load(node.Child(i)); err != nil {
				return 0, err
			}
		}
	}
}

// Load reads and decodes the node at addr.
func (e *Engine) Load(addr pagestore.Addr) (Node, error) {
	return e.load(addr)
}

func (e *Engine) load(addr pagestore.Addr) (Node, error) {
	if addr.IsNil() {
		return nil, pagestore.CorruptionErrorf("ost: reference to nil page")
	}
	page := make([]byte, e.cfg.PageSize)
	if err := e.store.ReadPage(addr, page); err != nil {
		return nil, errors.Wrapf(err, "ost: read page %s", addr)
	}
	n, err := DecodePage(page)
	if err != nil {
		tracer().Errorf("ost: page %s: %v", addr, err)
		return nil, errors.Wrapf(err, "page %s", addr)
	}
	if in, ok := n.(*Internal); ok && in.NumChildren() == 0 {
		tracer().Errorf("ost: page %s is an internal node without children", addr)
		return nil, pagestore.CorruptionErrorf("ost: page %s: internal node without children", addr)
	}
	return n, nil
}

// slotMismatch reports a leaf holding fewer elements than its parent slot
// counts for it.
func slotMismatch(local uint64, leaf *Leaf) error {
	tracer().Errorf("ost: position %d beyond leaf of %d elements", local, leaf.Len())
	return pagestore.CorruptionErrorf("ost: slot count disagrees with leaf: position %d, leaf holds %d",
		local, leaf.Len())
}

// persist writes n to a fresh page and returns its address.
func (e *Engine) persist(n Node) (pagestore.Addr, error) {
	addr, err := e.allocate()
	if err != nil {
		return pagestore.NoPage, err
	}
	if err := e.writeNode(addr, n); err != nil {
		return pagestore.NoPage, err
	}
	return addr, nil
}

func (e *Engine) allocate() (pagestore.Addr, error) {
	addr, err := e.alloc.AllocatePage()
	if err != nil {
		return pagestore.NoPage, errors.Wrap(err, "ost: allocate page")
	}
	if addr.IsNil() {
		return pagestore.NoPage, errors.AssertionFailedf("ost: allocator returned the nil page")
	}
	return addr, nil
}

func (e *Engine) writeNode(addr pagestore.Addr, n Node) error {
	page, err := EncodePage(n, e.cfg.PageSize)
	if err != nil {
		return err
	}
	if err := e.store.WritePage(addr, page); err != nil {
		return errors.Wrapf(err, "ost: write page %s", addr)
	}
	return nil
}
