// Package blobstore stores files and benchmark reports in a gocloud.dev bucket.
//
// Buckets are opened by URL, so the same code serves Azure Blob Storage
// (azblob://container), local directories (file:///path) and in-memory
// buckets (mem://) used by tests.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/azureblob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"

	"github.com/bft-labs/primebench/internal/domain"
)

// Store reads and writes blobs under an optional key prefix.
type Store struct {
	bucket *blob.Bucket
	prefix string
}

// Open opens the bucket at bucketURL. Keys passed to the Store are placed
// under prefix, which may be empty.
func Open(ctx context.Context, bucketURL, prefix string) (*Store, error) {
	if bucketURL == "" {
		return nil, fmt.Errorf("%w: bucket url is required", domain.ErrInvalidConfig)
	}
	b, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", bucketURL, err)
	}
	return NewStore(b, prefix), nil
}

// NewStore wraps an already opened bucket.
func NewStore(b *blob.Bucket, prefix string) *Store {
	return &Store{bucket: b, prefix: strings.Trim(prefix, "/")}
}

// Key returns the full bucket key for name.
func (s *Store) Key(name string) string {
	name = strings.TrimLeft(name, "/")
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

// Upload writes data to name, replacing any existing blob.
func (s *Store) Upload(ctx context.Context, name string, data []byte, contentType string) error {
	key := s.Key(name)
	var opts *blob.WriterOptions
	if contentType != "" {
		opts = &blob.WriterOptions{ContentType: contentType}
	}
	if err := s.bucket.WriteAll(ctx, key, data, opts); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

// UploadFile streams the local file at p to name and returns the number of
// bytes written. A failed copy leaves any existing blob untouched.
func (s *Store) UploadFile(ctx context.Context, name, p string) (int64, error) {
	f, err := os.Open(p)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	key := s.Key(name)
	// Cancelling the writer's context before Close aborts the write.
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	w, err := s.bucket.NewWriter(wctx, key, nil)
	if err != nil {
		return 0, fmt.Errorf("upload %s: %w", key, err)
	}
	n, err := io.Copy(w, f)
	if err != nil {
		cancel()
		_ = w.Close()
		return n, fmt.Errorf("upload %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return n, fmt.Errorf("upload %s: %w", key, err)
	}
	return n, nil
}

// Download reads the whole blob stored at name.
func (s *Store) Download(ctx context.Context, name string) ([]byte, error) {
	key := s.Key(name)
	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		return nil, wrapRead(key, err)
	}
	return data, nil
}

// DownloadFile copies the blob at name to the local file p. The file is
// written to a temporary sibling first and renamed into place, so p never
// holds a partial download.
func (s *Store) DownloadFile(ctx context.Context, name, p string) (int64, error) {
	key := s.Key(name)
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		return 0, wrapRead(key, err)
	}
	defer r.Close()

	if dir := filepath.Dir(p); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, err
		}
	}
	tmp := p + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return n, fmt.Errorf("download %s: %w", key, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return n, err
	}
	return n, nil
}

// Exists reports whether a blob is stored at name.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	return s.bucket.Exists(ctx, s.Key(name))
}

// Close releases the bucket.
func (s *Store) Close() error {
	return s.bucket.Close()
}

func wrapRead(key string, err error) error {
	if gcerrors.Code(err) == gcerrors.NotFound {
		return fmt.Errorf("%w: %s", domain.ErrBlobNotFound, key)
	}
	return fmt.Errorf("download %s: %w", key, err)
}

// IsNotFound reports whether err means the requested blob does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrBlobNotFound)
}
