package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/npillmayer/ost"
	"github.com/npillmayer/ost/pagestore"
	"github.com/prometheus/client_golang/prometheus"
)

// session is an open tree file: the file store, instrumented and cached, the
// header and a tree handle on the root recorded in the header.
type session struct {
	file    *pagestore.File
	metrics *pagestore.Instrumented
	reg     *prometheus.Registry
	cache   *pagestore.Cache
	alloc   *pagestore.Allocator
	header  pagestore.Header
	tree    *ost.Tree
}

// openMode selects how openSession treats the tree file.
type openMode int

const (
	readOnly openMode = iota // the file must exist
	writable                 // the file must exist
	create                   // a missing or empty file is initialized
)

// openSession opens the tree file at path. In mode create, an empty file is
// initialized with a fresh header.
func openSession(path string, mode openMode) (*session, error) {
	if mode != create {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrapf(err, "open tree file")
		}
	}
	file, err := pagestore.OpenFile(path, mode == readOnly)
	if err != nil {
		return nil, err
	}
	s := &session{file: file, reg: prometheus.NewRegistry()}
	if s.metrics, err = pagestore.NewInstrumented(file, s.reg, "ostdump"); err != nil {
		file.Close()
		return nil, err
	}
	size, err := file.Size()
	if err != nil {
		file.Close()
		return nil, err
	}
	if size == 0 {
		if mode != create {
			file.Close()
			return nil, errors.Newf("%s: empty tree file", path)
		}
		if err := s.initialize(); err != nil {
			file.Close()
			return nil, err
		}
	} else if s.header, err = pagestore.ReadHeader(s.metrics); err != nil {
		file.Close()
		return nil, errors.Wrapf(err, "%s", path)
	}
	if s.alloc, err = pagestore.ResumeAllocator(s.header.PageSize, s.header.AllocCursor); err != nil {
		file.Close()
		return nil, err
	}
	s.cache = pagestore.NewCache(s.metrics, s.header.PageSize, cachePages)
	if s.tree, err = ost.Open(s.cache, s.alloc, s.header.PageSize, s.header.Root); err != nil {
		file.Close()
		return nil, err
	}
	s.tree.SetAllocCursor(s.header.AllocCursor)
	if uint64(s.tree.Size()) != s.header.Count {
		file.Close()
		return nil, errors.Newf("%s: header counts %d elements, tree holds %d", path, s.header.Count, s.tree.Size())
	}
	return s, nil
}

func (s *session) initialize() error {
	if !pagestore.ValidPageSize(pageSize) {
		return errors.Wrapf(pagestore.ErrInvalidPageSize, "page size %d", pageSize)
	}
	s.header = pagestore.Header{PageSize: pageSize, AllocCursor: uint64(pageSize)}
	return pagestore.WriteHeader(s.metrics, s.header)
}

// commit records the current tree version in the header page.
func (s *session) commit() error {
	s.tree.SetAllocCursor(s.alloc.Cursor())
	snap := s.tree.Snapshot()
	s.header.Root = snap.Root
	s.header.AllocCursor = snap.AllocCursor
	s.header.Count = uint64(s.tree.Size())
	if err := pagestore.WriteHeader(s.metrics, s.header); err != nil {
		return err
	}
	return s.file.Sync()
}

func (s *session) close() error {
	return s.file.Close()
}

// writeIOStats prints page transfer counters and cache statistics.
func (s *session) writeIOStats(w io.Writer) error {
	families, err := s.reg.Gather()
	if err != nil {
		return err
	}
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			op := ""
			for _, l := range m.GetLabel() {
				if l.GetName() == "op" {
					op = l.GetValue()
				}
			}
			lines = append(lines, fmt.Sprintf("%s{op=%s} %.0f", mf.GetName(), op, m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	st := s.cache.Stats()
	fmt.Fprintf(w, "cache pages=%d hits=%d misses=%d\n", st.Pages, st.Hits, st.Misses)
	return nil
}
