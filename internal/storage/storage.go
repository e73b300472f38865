package storage

import (
	"fmt"
	"io"

	"github.com/gribpie/gribpie/internal/config"
)

// Storage defines the interface for file blob operations.
// Keys are opaque, slash-separated paths of the form "{projectID}/{fileKey}".
type Storage interface {
	// Save stores a blob at the given key
	Save(key string, file io.Reader) error

	// Open returns a reader for the blob at the given key
	Open(key string) (io.ReadCloser, error)

	// Delete removes the blob at the given key
	Delete(key string) error

	// DeletePrefix removes every blob under the given key prefix
	DeletePrefix(prefix string) error
}

// New selects a storage backend from app config.
// Local disk is the default; any S3-compatible service works for "s3".
func New(c *config.Config) (Storage, error) {
	switch c.StorageDriver {
	case "", "local":
		return NewLocalStorage(c.UploadDir)
	case "s3":
		return NewS3Storage(S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}
