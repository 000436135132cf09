// Package blob abstracts raw byte storage addressed by generated paths.
// Derivative thumbnails live next to their original under <path>_<width>.
package blob

import "context"

// Store is the blob storage contract.
type Store interface {
	// NewPath returns a fresh, unique path for a blob about to be written.
	NewPath() string
	// Exists reports whether a blob is present at path.
	Exists(ctx context.Context, path string) (bool, error)
	// Write stores data at path, overwriting any previous content.
	Write(ctx context.Context, path string, data []byte) error
	// Read returns the blob at path, or common.ErrorNotFound.
	Read(ctx context.Context, path string) ([]byte, error)
}
