package ost

// pathFrame records one internal node visited on the way down: the node, the
// index of the chosen child and the position relative to that child.
type pathFrame struct {
	node  *Internal
	index int
	local uint64
}

type path []pathFrame

func (p path) deepest() pathFrame {
	assert(len(p) > 0, "deepest called on empty path")
	return p[len(p)-1]
}

func (p path) pop() path {
	return p[:len(p)-1]
}
