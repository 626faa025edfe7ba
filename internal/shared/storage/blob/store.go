package blob

import (
	"context"
	"errors"
)

// ErrNotFound reports that a named blob does not exist in the bucket.
var ErrNotFound = errors.New("blob not found")

// Store is the contract for keeping named binary objects in a bucket.
// Upload returns the public URL the stored blob resolves to.
type Store interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (publicURL string, err error)
	Delete(ctx context.Context, name string) error
}
