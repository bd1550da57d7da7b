package model

import (
	"context"
	"io"
)

// Storage abstracts blob storage for uploaded files. Keys are opaque
// filesystem-safe tokens produced by the filename cipher.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, key string) error
}
