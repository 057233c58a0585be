package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mindvault/curator/internal/domain/items"
)

// LocalStore implementasi items.BlobStore di filesystem lokal. Dipakai kalau
// konfigurasi remote storage tidak ada.
type LocalStore struct {
	dir string
}

func NewLocal(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{dir: dir}, nil
}

// Store writes the bytes under <dir>/<item-id><ext>; the path is the blob id.
func (s *LocalStore) Store(_ context.Context, put items.BlobPut) (items.StorageRef, error) {
	name := string(put.ItemID) + filepath.Ext(put.DisplayName)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, put.Data, 0o644); err != nil {
		return items.StorageRef{}, fmt.Errorf("%w: %v", items.ErrStorageUnavailable, err)
	}
	return items.StorageRef{Backend: items.BackendLocal, BlobID: path}, nil
}

func (s *LocalStore) Fetch(_ context.Context, ref items.StorageRef) ([]byte, error) {
	data, err := os.ReadFile(ref.BlobID)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", ref.BlobID, items.ErrBlobNotFound)
		}
		return nil, err
	}
	return data, nil
}

func (s *LocalStore) Delete(_ context.Context, ref items.StorageRef) error {
	if err := os.Remove(ref.BlobID); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
