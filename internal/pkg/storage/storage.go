// Package storage abstracts object storage for uploaded documents.
// Implementations exist for AWS S3, Google Cloud Storage, and MinIO.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrUnknownDriver indicates an unsupported storage driver.
	ErrUnknownDriver = errors.New("storage: unknown driver")
	// ErrMissingSigner indicates signed URL support is not configured.
	ErrMissingSigner = errors.New("storage: signed url signer not configured")
)

// Blob defines the object storage operations the service needs.
type Blob interface {
	io.Closer

	// Put streams data into the bucket and returns object metadata.
	Put(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error)
	// Get retrieves the object contents and metadata.
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, ObjectInfo, error)
	// Stat returns object metadata without reading its contents.
	Stat(ctx context.Context, bucket, key string) (ObjectInfo, error)
	// Delete removes the object.
	Delete(ctx context.Context, bucket, key string) error
	// PresignGet returns a time-limited URL for downloading.
	PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}

// PutOptions configures upload behavior.
type PutOptions struct {
	// Size is the expected content length, -1 when unknown.
	Size int64
	// ContentType is the MIME type for the object.
	ContentType string
	// Metadata includes custom key/value metadata.
	Metadata map[string]string
}

// ObjectInfo describes object metadata.
type ObjectInfo struct {
	Bucket      string
	Key         string
	Size        int64
	ETag        string
	ContentType string
	Metadata    map[string]string
	UpdatedAt   time.Time
}
