/*
Package pagestore provides the page-level collaborators of an order-statistics
tree: an address type, byte-addressable page stores, a tail allocator, a
header page and a page cache.

Pages handed to a store by the tree are immutable once written. Stores in this
package rely on that: the cache never invalidates, and the object store keeps
one object per page.

Addresses are byte offsets. An Allocator reserves the first page of the space
for the header page, therefore NoPage (0) is never issued as a page address.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package pagestore

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ost'
func tracer() tracing.Trace {
	return tracing.Select("ost")
}
