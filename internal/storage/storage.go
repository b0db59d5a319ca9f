// Package storage validates report attachments and persists them behind a
// FileStore capability. One concrete adapter is selected by configuration.
package storage

import (
	"fmt"

	"github.com/ampmbg/backend/internal/config"
)

type UploadResult struct {
	Key string
	URL string
}

// FileStore is the storage capability. Delete is idempotent: removing an
// absent key is not an error.
type FileStore interface {
	Upload(data []byte, originalName, folder string) (UploadResult, error)
	Delete(key string) error
}

// New selects the configured adapter.
func New(cfg *config.Config) (FileStore, error) {
	switch cfg.StorageType {
	case "local":
		return NewLocalStore(cfg.LocalUploadDir, cfg.PublicURL), nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.StorageType)
	}
}
