package ost

import (
	"github.com/npillmayer/ost/pagestore"
)

// InsertAt inserts ref at index into the tree at root and returns the root of
// the new version. index may equal the size of the tree, which appends.
// The tree at root is left untouched.
func (e *Engine) InsertAt(root pagestore.Addr, index int, ref ElementRef) (pagestore.Addr, error) {
	size, err := e.SizeAt(root)
	if err != nil {
		return pagestore.NoPage, err
	}
	if index < 0 || index > size {
		return pagestore.NoPage, boundsError("insert", index, size)
	}
	if root.IsNil() {
		return e.persist(NewLeaf([]ElementRef{ref}, pagestore.NoPage))
	}
	var p path
	n, err := e.load(root)
	if err != nil {
		return pagestore.NoPage, err
	}
	local := uint64(index)
	for {
		switch node := n.(type) {
		case *Leaf:
			if local > uint64(node.Len()) {
				return pagestore.NoPage, slotMismatch(local, node)
			}
			if node.Full() {
				return e.insertWithSplit(p, node, int(local), ref)
			}
			addr, err := e.persist(node.InsertAt(int(local), ref))
			if err != nil {
				return pagestore.NoPage, err
			}
			return e.propagate(p, addr, +1)
		case *Internal:
			i, rel := node.childForInsert(local)
			p = append(p, pathFrame{node: node, index: i, local: rel})
			local = rel
			if n, err = e.load(node.Child(i)); err != nil {
				return pagestore.NoPage, err
			}
		}
	}
}

// insertWithSplit splices ref into a full leaf and splits the overfull result
// into two fresh leaves.
func (e *Engine) insertWithSplit(p path, leaf *Leaf, local int, ref ElementRef) (pagestore.Addr, error) {
	work := leaf.InsertAt(local, ref)
	rightAddr, err := e.allocate()
	if err != nil {
		return pagestore.NoPage, err
	}
	left, right := work.Split(rightAddr)
	if err := e.writeNode(rightAddr, right); err != nil {
		return pagestore.NoPage, err
	}
	leftAddr, err := e.persist(left)
	if err != nil {
		return pagestore.NoPage, err
	}
	tracer().Debugf("ost: split leaf into %s (%d) and %s (%d)",
		leftAddr, left.Len(), rightAddr, right.Len())
	return e.insertIntoParent(p, leftAddr, uint32(left.Len()), rightAddr, uint32(right.Len()))
}

// insertIntoParent replaces the slot of a split child in its parent, the
// deepest frame of p, by the two halves. If p is empty, the split child was
// the root and a new root is created above the halves.
func (e *Engine) insertIntoParent(p path, left pagestore.Addr, leftCount uint32,
	right pagestore.Addr, rightCount uint32) (pagestore.Addr, error) {
	//
	if len(p) == 0 {
		root := NewInternal(1, []Child{{Addr: left, Count: leftCount}, {Addr: right, Count: rightCount}})
		addr, err := e.persist(root)
		if err != nil {
			return pagestore.NoPage, err
		}
		tracer().Debugf("ost: new root %s above %s and %s", addr, left, right)
		return addr, nil
	}
	frame := p.deepest()
	parent := frame.node.WithSplitChild(frame.index, left, leftCount, right, rightCount)
	if !parent.Overflows() {
		addr, err := e.persist(parent)
		if err != nil {
			return pagestore.NoPage, err
		}
		return e.propagate(p.pop(), addr, +1)
	}
	return e.splitInternal(p.pop(), parent)
}

// splitInternal splits an overflowing internal node, persists both halves and
// continues one level up.
func (e *Engine) splitInternal(p path, node *Internal) (pagestore.Addr, error) {
	lnode, rnode := node.Split()
	leftAddr, err := e.persist(lnode)
	if err != nil {
		return pagestore.NoPage, err
	}
	rightAddr, err := e.persist(rnode)
	if err != nil {
		return pagestore.NoPage, err
	}
	tracer().Debugf("ost: split internal node into %s (%d children) and %s (%d children)",
		leftAddr, lnode.NumChildren(), rightAddr, rnode.NumChildren())
	return e.insertIntoParent(p, leftAddr, countOf(lnode), rightAddr, countOf(rnode))
}

// propagate rewrites the nodes of p bottom-up, each with its recorded child
// slot pointing to the rewritten child and the slot count shifted by delta.
// It returns the address of the last node written, the new root. For an empty
// path, child itself is the new root.
func (e *Engine) propagate(p path, child pagestore.Addr, delta int) (pagestore.Addr, error) {
	for i := len(p) - 1; i >= 0; i-- {
		frame := p[i]
		addr, err := e.persist(frame.node.WithChild(frame.index, child, delta))
		if err != nil {
			return pagestore.NoPage, err
		}
		child = addr
	}
	return child, nil
}

func countOf(n Node) uint32 {
	c := n.ElementCount()
	assert(c <= 1<<32-1, "subtree element count exceeds slot range")
	return uint32(c)
}
