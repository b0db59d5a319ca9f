package storage

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStore writes attachments to a directory on disk and serves them under
// /uploads of the public URL.
type LocalStore struct {
	dir       string
	publicURL string
}

func NewLocalStore(dir, publicURL string) *LocalStore {
	return &LocalStore{dir: dir, publicURL: publicURL}
}

// Upload stores data under a collision-resistant name, preserving the
// original extension when present. The destination folder is created on
// demand.
func (s *LocalStore) Upload(data []byte, originalName, folder string) (UploadResult, error) {
	name := uuid.New().String() + filepath.Ext(originalName)

	key := name
	if folder != "" {
		key = path.Join(folder, name)
	}

	dest := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return UploadResult{}, fmt.Errorf("failed to create upload dir: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return UploadResult{}, fmt.Errorf("failed to write file: %w", err)
	}

	return UploadResult{
		Key: key,
		URL: s.publicURL + "/uploads/" + key,
	}, nil
}

// Delete removes the stored file. A missing key is treated as already
// deleted.
func (s *LocalStore) Delete(key string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
