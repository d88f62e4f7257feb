package storage

import (
	"context"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// GCSOptions configures GCS client initialization.
type GCSOptions struct {
	// ServiceAccountJSON holds service account credentials. When set it is
	// used for the client and for signed URL generation; otherwise the
	// client falls back to application default credentials and signing is
	// unavailable.
	ServiceAccountJSON []byte
}

// GCSBlob implements Blob using Google Cloud Storage.
type GCSBlob struct {
	client         *gcs.Client
	googleAccessID string
	privateKey     []byte
}

// NewGCS constructs a GCS-backed Blob.
func NewGCS(ctx context.Context, opts GCSOptions) (*GCSBlob, error) {
	var clientOpts []option.ClientOption
	blob := &GCSBlob{}

	if len(opts.ServiceAccountJSON) > 0 {
		jwtCfg, err := google.JWTConfigFromJSON(opts.ServiceAccountJSON)
		if err != nil {
			return nil, err
		}
		blob.googleAccessID = jwtCfg.Email
		blob.privateKey = jwtCfg.PrivateKey
		clientOpts = append(clientOpts, option.WithCredentialsJSON(opts.ServiceAccountJSON))
	}

	client, err := gcs.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, err
	}
	blob.client = client
	return blob, nil
}

// Put stores data in GCS.
func (b *GCSBlob) Put(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error) {
	writer := b.client.Bucket(bucket).Object(key).NewWriter(ctx)
	writer.ContentType = opts.ContentType
	if len(opts.Metadata) > 0 {
		writer.Metadata = opts.Metadata
	}

	if _, err := io.Copy(writer, r); err != nil {
		_ = writer.Close()
		return ObjectInfo{}, err
	}
	if err := writer.Close(); err != nil {
		return ObjectInfo{}, err
	}

	return gcsAttrsToInfo(writer.Attrs()), nil
}

// Get retrieves object contents and metadata from GCS.
func (b *GCSBlob) Get(ctx context.Context, bucket, key string) (io.ReadCloser, ObjectInfo, error) {
	obj := b.client.Bucket(bucket).Object(key)

	reader, err := obj.NewReader(ctx)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	attrs, err := obj.Attrs(ctx)
	if err != nil {
		_ = reader.Close()
		return nil, ObjectInfo{}, err
	}
	return reader, gcsAttrsToInfo(attrs), nil
}

// Stat returns metadata for a GCS object.
func (b *GCSBlob) Stat(ctx context.Context, bucket, key string) (ObjectInfo, error) {
	attrs, err := b.client.Bucket(bucket).Object(key).Attrs(ctx)
	if err != nil {
		return ObjectInfo{}, err
	}
	return gcsAttrsToInfo(attrs), nil
}

// Delete removes an object from GCS.
func (b *GCSBlob) Delete(ctx context.Context, bucket, key string) error {
	return b.client.Bucket(bucket).Object(key).Delete(ctx)
}

// PresignGet returns a signed download URL.
func (b *GCSBlob) PresignGet(_ context.Context, bucket, key string, expiry time.Duration) (string, error) {
	if b.googleAccessID == "" || len(b.privateKey) == 0 {
		return "", ErrMissingSigner
	}
	return gcs.SignedURL(bucket, key, &gcs.SignedURLOptions{
		Method:         "GET",
		Expires:        time.Now().Add(expiry),
		GoogleAccessID: b.googleAccessID,
		PrivateKey:     b.privateKey,
	})
}

// Close closes the GCS client.
func (b *GCSBlob) Close() error {
	return b.client.Close()
}

func gcsAttrsToInfo(attrs *gcs.ObjectAttrs) ObjectInfo {
	if attrs == nil {
		return ObjectInfo{}
	}
	return ObjectInfo{
		Bucket:      attrs.Bucket,
		Key:         attrs.Name,
		Size:        attrs.Size,
		ETag:        attrs.Etag,
		ContentType: attrs.ContentType,
		Metadata:    attrs.Metadata,
		UpdatedAt:   attrs.Updated,
	}
}
