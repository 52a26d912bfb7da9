package pagestore

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/cockroachdb/errors"
)

// HeaderAddr is the address of the header page.
const HeaderAddr Addr = 0

// HeaderSize is the number of meaningful bytes at the start of the header page.
const HeaderSize = 40

var headerMagic = [8]byte{'O', 'S', 'T', 'H', 'D', 'R', '0', '1'}

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Header is the superblock of a page space. It records a tree version, i.e.
// root address and allocation cursor, as one unit.
//
// Layout (little-endian):
//   - Bytes 0-7:   magic "OSTHDR01"
//   - Bytes 8-11:  page size (uint32)
//   - Bytes 12-19: root address (uint64)
//   - Bytes 20-27: allocation cursor (uint64)
//   - Bytes 28-35: element count (uint64)
//   - Bytes 36-39: CRC-32C of bytes 0-35
type Header struct {
	PageSize    int
	Root        Addr
	AllocCursor uint64
	Count       uint64
}

// Encode serializes h into a zero-padded page of h.PageSize bytes.
func (h Header) Encode() []byte {
	size := h.PageSize
	if size < HeaderSize {
		size = HeaderSize
	}
	p := make([]byte, size)
	copy(p[0:8], headerMagic[:])
	binary.LittleEndian.PutUint32(p[8:12], uint32(h.PageSize))
	binary.LittleEndian.PutUint64(p[12:20], uint64(h.Root))
	binary.LittleEndian.PutUint64(p[20:28], h.AllocCursor)
	binary.LittleEndian.PutUint64(p[28:36], h.Count)
	binary.LittleEndian.PutUint32(p[36:40], crc32.Checksum(p[:36], castagnoli))
	return p
}

// DecodeHeader parses a header from the first HeaderSize bytes of p.
func DecodeHeader(p []byte) (Header, error) {
	if len(p) < HeaderSize {
		return Header{}, CorruptionErrorf("pagestore: header truncated (%d bytes)", len(p))
	}
	if [8]byte(p[0:8]) != headerMagic {
		return Header{}, CorruptionErrorf("pagestore: bad header magic %q", p[0:8])
	}
	want := binary.LittleEndian.Uint32(p[36:40])
	if got := crc32.Checksum(p[:36], castagnoli); got != want {
		return Header{}, CorruptionErrorf("pagestore: header checksum mismatch (%08x != %08x)", got, want)
	}
	return Header{
		PageSize:    int(binary.LittleEndian.Uint32(p[8:12])),
		Root:        Addr(binary.LittleEndian.Uint64(p[12:20])),
		AllocCursor: binary.LittleEndian.Uint64(p[20:28]),
		Count:       binary.LittleEndian.Uint64(p[28:36]),
	}, nil
}

// WriteHeader writes h to the header page of store.
//
// The header page is the only page which is ever rewritten in place.
func WriteHeader(store Store, h Header) error {
	if err := store.WritePage(HeaderAddr, h.Encode()); err != nil {
		return errors.Wrap(err, "pagestore: write header")
	}
	return nil
}

// ReadHeader reads and validates the header page of store.
func ReadHeader(store Store) (Header, error) {
	p := make([]byte, HeaderSize)
	if err := store.ReadPage(HeaderAddr, p); err != nil {
		return Header{}, errors.Wrap(err, "pagestore: read header")
	}
	h, err := DecodeHeader(p)
	if err != nil {
		tracer().Errorf("pagestore: %v", err)
		return Header{}, err
	}
	return h, nil
}
