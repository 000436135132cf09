package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/vtumanov/filevault/internal/common"
)

// DiskStore keeps blobs as flat files under a configurable root directory.
// The root is created lazily on the first write.
type DiskStore struct {
	root string
}

// NewDiskStore constructs a disk-backed store rooted at root.
func NewDiskStore(root string) *DiskStore {
	return &DiskStore{root: root}
}

// NewPath returns a unique path under the storage root.
func (s *DiskStore) NewPath() string {
	return filepath.Join(s.root, uuid.NewString())
}

func (s *DiskStore) Exists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", path, err)
}

func (s *DiskStore) Write(_ context.Context, path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o660); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (s *DiskStore) Read(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
