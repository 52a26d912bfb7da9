package pagestore

import (
	"io"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
)

// File is a Store backed by an OS file.
type File struct {
	mu       sync.RWMutex
	path     string
	file     *os.File
	readOnly bool
	closed   bool
}

// OpenFile opens or creates the file at path as a page store.
func OpenFile(path string, readOnly bool) (*File, error) {
	flags := os.O_RDWR | os.O_CREATE
	if readOnly {
		flags = os.O_RDONLY
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "pagestore: open %q", path)
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "pagestore: stat %q", path)
	}
	if !fi.Mode().IsRegular() {
		_ = f.Close()
		return nil, errors.Newf("pagestore: %q is not a regular file", path)
	}
	tracer().Debugf("pagestore: opened %s (size=%d, read-only=%v)", path, fi.Size(), readOnly)
	return &File{path: path, file: f, readOnly: readOnly}, nil
}

// Path returns the file name of the store.
func (fs *File) Path() string {
	return fs.path
}

// ReadPage implements Store.
func (fs *File) ReadPage(addr Addr, p []byte) error {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if fs.closed {
		return ErrClosed
	}
	n, err := fs.file.ReadAt(p, int64(addr))
	if err == io.EOF && n < len(p) {
		return errors.Wrapf(ErrOutOfRange, "read %s len=%d got=%d", addr, len(p), n)
	}
	if err != nil && err != io.EOF {
		return errors.Wrapf(err, "pagestore: read %s", addr)
	}
	return nil
}

// WritePage implements Store.
func (fs *File) WritePage(addr Addr, p []byte) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.closed {
		return ErrClosed
	}
	if fs.readOnly {
		return errors.Newf("pagestore: %q is read-only", fs.path)
	}
	if _, err := fs.file.WriteAt(p, int64(addr)); err != nil {
		return errors.Wrapf(err, "pagestore: write %s", addr)
	}
	return nil
}

// Size returns the current file size.
func (fs *File) Size() (int64, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if fs.closed {
		return 0, ErrClosed
	}
	fi, err := fs.file.Stat()
	if err != nil {
		return 0, errors.Wrapf(err, "pagestore: stat %q", fs.path)
	}
	return fi.Size(), nil
}

// Sync flushes written pages to stable storage.
func (fs *File) Sync() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.closed {
		return ErrClosed
	}
	return fs.file.Sync()
}

// Close closes the underlying file.
func (fs *File) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.closed {
		return nil
	}
	fs.closed = true
	return fs.file.Close()
}
