package ost

import (
	"github.com/cockroachdb/swiss"
	"github.com/npillmayer/ost/pagestore"
)

// Check validates the structural invariants of the tree at root:
//
//   - every child slot count equals the number of elements beneath the child,
//   - internal nodes have 2 to MaxChildren children,
//   - leaves hold at most MaxLeafElements elements,
//   - all leaves are at the same depth,
//   - no page is referenced twice,
//   - a root leaf is not empty.
//
// Violations are reported as errors marked ErrCorruption.
func (e *Engine) Check(root pagestore.Addr) error {
	if root.IsNil() {
		return nil
	}
	seen := swiss.New[pagestore.Addr, struct{}](64)
	_, _, err := e.checkNode(root, true, seen)
	return err
}

func (e *Engine) checkNode(addr pagestore.Addr, isRoot bool,
	seen *swiss.Map[pagestore.Addr, struct{}]) (elements uint64, height int, err error) {
	//
	if _, dup := seen.Get(addr); dup {
		return 0, 0, pagestore.CorruptionErrorf("ost: page %s referenced twice", addr)
	}
	seen.Put(addr, struct{}{})
	n, err := e.load(addr)
	if err != nil {
		return 0, 0, err
	}
	switch node := n.(type) {
	case *Leaf:
		if node.Len() > MaxLeafElements {
			return 0, 0, pagestore.CorruptionErrorf("ost: leaf %s holds %d elements, capacity is %d",
				addr, node.Len(), MaxLeafElements)
		}
		if isRoot && node.Len() == 0 {
			return 0, 0, pagestore.CorruptionErrorf("ost: root leaf %s is empty", addr)
		}
		return node.ElementCount(), 1, nil
	case *Internal:
		if node.NumChildren() < 2 || node.NumChildren() > MaxChildren {
			return 0, 0, pagestore.CorruptionErrorf("ost: internal node %s has %d children",
				addr, node.NumChildren())
		}
		var total uint64
		childHeight := 0
		for i := 0; i < node.NumChildren(); i++ {
			cnt, h, err := e.checkNode(node.Child(i), false, seen)
			if err != nil {
				return 0, 0, err
			}
			if cnt != uint64(node.ChildCount(i)) {
				return 0, 0, pagestore.CorruptionErrorf("ost: node %s slot %d counts %d, subtree holds %d",
					addr, i, node.ChildCount(i), cnt)
			}
			if i == 0 {
				childHeight = h
			} else if h != childHeight {
				return 0, 0, pagestore.CorruptionErrorf("ost: node %s has subtrees of different height", addr)
			}
			total += cnt
		}
		return total, childHeight + 1, nil
	}
	panic("unreachable")
}

// Stats summarizes the shape of a tree.
type Stats struct {
	Height          int // 0 for the empty tree, 1 for a single leaf
	Internals       int
	Leaves          int
	EmptyLeaves     int
	UnderfullLeaves int // leaves below half capacity, including empty ones
	Elements        uint64
}

// Pages returns the number of pages reachable from the root.
func (s Stats) Pages() int {
	return s.Internals + s.Leaves
}

// Stats walks all pages of the tree at root.
func (e *Engine) Stats(root pagestore.Addr) (Stats, error) {
	var st Stats
	if root.IsNil() {
		return st, nil
	}
	err := e.walk(root, 1, func(n Node, depth int) error {
		if depth > st.Height {
			st.Height = depth
		}
		switch node := n.(type) {
		case *Leaf:
			st.Leaves++
			st.Elements += node.ElementCount()
			if node.Len() == 0 {
				st.EmptyLeaves++
			}
			if node.Underfull(MaxLeafElements / 2) {
				st.UnderfullLeaves++
			}
		case *Internal:
			st.Internals++
		}
		return nil
	})
	return st, err
}

// walk visits the nodes of a subtree in pre-order.
func (e *Engine) walk(addr pagestore.Addr, depth int, fn func(n Node, depth int) error) error {
	n, err := e.load(addr)
	if err != nil {
		return err
	}
	if err := fn(n, depth); err != nil {
		return err
	}
	if in, ok := n.(*Internal); ok {
		for i := 0; i < in.NumChildren(); i++ {
			if err := e.walk(in.Child(i), depth+1, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
