package ost

import (
	"github.com/cockroachdb/errors"
	"github.com/npillmayer/ost/pagestore"
)

// EncodePage renders n as a page of pageSize bytes: a type tag (1 for a leaf,
// 2 for an internal node) followed by the node's payload and zero padding.
func EncodePage(n Node, pageSize int) ([]byte, error) {
	var tag byte
	switch n.(type) {
	case *Leaf:
		tag = tagLeaf
	case *Internal:
		tag = tagInternal
	default:
		return nil, errors.AssertionFailedf("ost: cannot encode node of type %T", n)
	}
	payload := n.Serialize()
	if 1+len(payload) > pageSize {
		return nil, errors.Wrapf(ErrPageOverflow, "%d bytes, page size %d", 1+len(payload), pageSize)
	}
	page := make([]byte, pageSize)
	page[0] = tag
	copy(page[1:], payload)
	return page, nil
}

// DecodePage decodes a page produced by EncodePage. An unknown type tag or a
// truncated payload yields an error marked ErrCorruption.
func DecodePage(page []byte) (Node, error) {
	if len(page) == 0 {
		return nil, pagestore.CorruptionErrorf("ost: empty page")
	}
	switch page[0] {
	case tagLeaf:
		return decodeLeaf(page[1:])
	case tagInternal:
		return decodeInternal(page[1:])
	}
	return nil, pagestore.CorruptionErrorf("ost: unknown page type tag %d", page[0])
}
