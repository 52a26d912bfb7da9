package ost

import (
	"github.com/npillmayer/ost/pagestore"
)

// RemoveAt removes the element at index from the tree at root. It returns the
// root of the new version and the removed element. Removing the last element
// of a tree yields pagestore.NoPage.
//
// Nodes are never merged or rebalanced: a non-root leaf losing its last
// element stays in its parent's slot with count 0.
func (e *Engine) RemoveAt(root pagestore.Addr, index int) (pagestore.Addr, ElementRef, error) {
	size, err := e.SizeAt(root)
	if err != nil {
		return pagestore.NoPage, 0, err
	}
	if root.IsNil() || index < 0 || index >= size {
		return pagestore.NoPage, 0, boundsError("remove", index, size)
	}
	var p path
	n, err := e.load(root)
	if err != nil {
		return pagestore.NoPage, 0, err
	}
	local := uint64(index)
	for {
		switch node := n.(type) {
		case *Leaf:
			if local >= uint64(node.Len()) {
				return pagestore.NoPage, 0, slotMismatch(local, node)
			}
			shrunk, removed := node.RemoveAt(int(local))
			if shrunk.Len() == 0 && len(p) == 0 {
				return pagestore.NoPage, removed, nil
			}
			addr, err := e.persist(shrunk)
			if err != nil {
				return pagestore.NoPage, 0, err
			}
			newRoot, err := e.propagate(p, addr, -1)
			if err != nil {
				return pagestore.NoPage, 0, err
			}
			return newRoot, removed, nil
		case *Internal:
			i, rel, err := node.FindChildForPosition(local)
			if err != nil {
				return pagestore.NoPage, 0, err
			}
			p = append(p, pathFrame{node: node, index: i, local: rel})
			local = rel
			if n, err = e.load(node.Child(i)); err != nil {
				return pagestore.NoPage, 0, err
			}
		}
	}
}
