package ost

import (
	"github.com/npillmayer/ost/pagestore"
)

// ForEach walks the elements of the tree at root in order, calling fn with the
// position and the reference of each element.
//
// Iteration stops early if fn returns false.
func (e *Engine) ForEach(root pagestore.Addr, fn func(index int, ref ElementRef) bool) error {
	if root.IsNil() || fn == nil {
		return nil
	}
	index := 0
	_, err := e.forEachNode(root, &index, fn)
	return err
}

func (e *Engine) forEachNode(addr pagestore.Addr, index *int, fn func(int, ElementRef) bool) (bool, error) {
	n, err := e.load(addr)
	if err != nil {
		return false, err
	}
	switch node := n.(type) {
	case *Leaf:
		for i := 0; i < node.Len(); i++ {
			if !fn(*index, node.Element(i)) {
				return false, nil
			}
			*index++
		}
	case *Internal:
		for i := 0; i < node.NumChildren(); i++ {
			if node.ChildCount(i) == 0 {
				continue
			}
			cont, err := e.forEachNode(node.Child(i), index, fn)
			if err != nil || !cont {
				return false, err
			}
		}
	}
	return true, nil
}

// Elements collects all element references of the tree at root.
func (e *Engine) Elements(root pagestore.Addr) ([]ElementRef, error) {
	size, err := e.SizeAt(root)
	if err != nil {
		return nil, err
	}
	elems := make([]ElementRef, 0, size)
	err = e.ForEach(root, func(_ int, ref ElementRef) bool {
		elems = append(elems, ref)
		return true
	})
	return elems, err
}

// ForEach walks the elements of t in order. See Engine.ForEach.
func (t *Tree) ForEach(fn func(index int, ref ElementRef) bool) error {
	return t.eng.ForEach(t.root, fn)
}
