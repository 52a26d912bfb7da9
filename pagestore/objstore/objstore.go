/*
Package objstore implements a page store on top of an S3-compatible object
store, using the MinIO client.

Every page is a single object named after its address. Tree pages are
immutable once written, which matches object semantics: a page object is put
once and read many times. The header page is the only object which is
overwritten.
*/
package objstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/minio/minio-go/v7"
	"github.com/npillmayer/ost/pagestore"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ost'
func tracer() tracing.Trace {
	return tracing.Select("ost")
}

// DefaultTimeout bounds a single page transfer.
const DefaultTimeout = 30 * time.Second

// Store implements pagestore.Store for MinIO and S3-compatible storage.
type Store struct {
	client  *minio.Client
	bucket  string
	prefix  string
	timeout time.Duration
}

// NewStore creates a page store in bucket. rootPrefix is prepended to all
// object keys (e.g. "lists/orders").
func NewStore(client *minio.Client, bucket, rootPrefix string) *Store {
	return &Store{
		client:  client,
		bucket:  bucket,
		prefix:  rootPrefix,
		timeout: DefaultTimeout,
	}
}

// WithTimeout sets the per-transfer timeout and returns the store.
func (s *Store) WithTimeout(d time.Duration) *Store {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Key returns the object key of the page at addr.
func (s *Store) Key(addr pagestore.Addr) string {
	return path.Join(s.prefix, fmt.Sprintf("%016x", uint64(addr)))
}

// ReadPage implements pagestore.Store.
func (s *Store) ReadPage(addr pagestore.Addr, p []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	obj, err := s.client.GetObject(ctx, s.bucket, s.Key(addr), minio.GetObjectOptions{})
	if err != nil {
		return s.translate(err, addr)
	}
	defer obj.Close()
	if _, err := io.ReadFull(obj, p); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return errors.Wrapf(pagestore.ErrOutOfRange, "read %s len=%d", addr, len(p))
		}
		return s.translate(err, addr)
	}
	return nil
}

// WritePage implements pagestore.Store.
func (s *Store) WritePage(addr pagestore.Addr, p []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	_, err := s.client.PutObject(ctx, s.bucket, s.Key(addr), bytes.NewReader(p), int64(len(p)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		tracer().Errorf("objstore: put %s failed: %v", s.Key(addr), err)
		return errors.Wrapf(err, "objstore: put %s", addr)
	}
	return nil
}

func (s *Store) translate(err error, addr pagestore.Addr) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.Code == "NotFound" {
		return errors.Wrapf(pagestore.ErrOutOfRange, "no page object %s", s.Key(addr))
	}
	return errors.Wrapf(err, "objstore: get %s", addr)
}

var _ pagestore.Store = (*Store)(nil)
