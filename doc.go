/*
Package ost implements a paged order-statistics tree: a sequence of opaque
element references with get, insert and remove by position in O(log n).

# Pages

Nodes are persisted to fixed-size pages of a page store. A page, once written,
is never rewritten. Every logical change writes fresh pages along the path from
the touched leaf to the root and yields a new root address; all earlier roots
stay valid and keep describing their version of the sequence. Readers holding
an older root may traverse it while a writer builds a newer one, without any
locking inside this package.

Nodes come in two flavours:

	Leaf        up to 100 element references, plus a legacy next-leaf address
	Internal    2 to 128 (child address, child element count) slots

The element count of a child slot is the number of leaf elements beneath that
child. Descending from the root, a position is resolved by accumulating child
counts, which gives the rank arithmetic of an order-statistics tree.

Removal never merges or rebalances nodes. Leaves may shrink to zero elements
while still occupying a slot in their parent.

# Engine and Tree

Engine is the stateless form: operations take a root address and return a new
one. Callers publishing versions to concurrent readers can do so with a single
atomic store of the returned root, see Head. Tree is a stateful convenience
wrapper threading one root field (and an opaque allocator cursor value)
through the engine.

# Collaborators

The page store and the page allocator are injected as interfaces. Package
pagestore provides implementations backed by memory, by a file and (package
pagestore/objstore) by an S3-compatible object store.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package ost

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ost'
func tracer() tracing.Trace {
	return tracing.Select("ost")
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
