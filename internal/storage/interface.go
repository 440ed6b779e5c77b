package storage

import (
	"context"
	"io"
	"time"
)

// ExportStore persists exported exhibitions and hands out links to them.
type ExportStore interface {
	// EnsureBucket creates the target bucket when the provider allows it.
	EnsureBucket(ctx context.Context) error

	// Put writes an object under key, replacing any previous version.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// URL returns a link a browser can open to fetch the object.
	URL(ctx context.Context, key string) (string, error)
}

// DefaultLinkTTL is the lifetime of presigned links when no public URL prefix is configured.
const DefaultLinkTTL = 24 * time.Hour
