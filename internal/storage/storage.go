package storage

import (
	"context"
	"io"
	"time"
)

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// Service is the object store contract used by the file endpoints.
type Service interface {
	// Put stores size bytes from body under key. An empty contentType leaves it unset.
	Put(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error
	// List returns the objects of a single listing call, in store order.
	List(ctx context.Context, bucket string) ([]ObjectInfo, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, bucket, key string) error
	Sign(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
	// ObjectURL returns the unsigned, store-addressable path of key.
	ObjectURL(bucket, key string) string
}
