// Package storage holds binary file content behind a small put/get/delete
// interface. Blobs are keyed per tenant by a generated name; metadata lives
// in the files collection, not here.
package storage

import (
	"io"
	"os"
)

// BlobStore is the minimal contract the file handlers need.
type BlobStore interface {
	Save(tenantID, name string, content io.Reader) error
	Open(tenantID, name string) (io.ReadCloser, error)
	Delete(tenantID, name string) error
}

// NewFromEnv selects a backend: S3 when S3_BUCKET is set, the local
// filesystem otherwise.
func NewFromEnv() (BlobStore, error) {
	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		return NewS3Store(bucket, os.Getenv("AWS_REGION"))
	}

	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "uploads"
	}
	return NewLocalStore(dir), nil
}
