// Package media stores question and message image attachments behind
// one Storage interface with local-disk and S3 backends.
package media

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ichigoapp/ichigo-server/internal/config"
)

// Storage is the object storage contract for attachments.
type Storage interface {
	// Upload stores a file and returns the storage path
	Upload(ctx context.Context, fileID uuid.UUID, filename string, data io.Reader) (string, error)

	// Download retrieves a file by storage path
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete removes a file by storage path
	Delete(ctx context.Context, storagePath string) error
}

// NewStorage creates a storage backend from configuration.
func NewStorage(cfg config.MediaConfig) (Storage, error) {
	switch cfg.Backend {
	case config.MediaBackendLocal:
		return NewLocalStorage(cfg.LocalPath)
	case config.MediaBackendS3:
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown media backend: %s", cfg.Backend)
	}
}

// generateStoragePath generates a unique storage path for a file.
// The two-character shard prefix keeps any one directory small.
func generateStoragePath(fileID uuid.UUID, filename string) string {
	ext := filepath.Ext(filename)
	baseName := strings.TrimSuffix(filepath.Base(filename), ext)
	baseName = strings.ReplaceAll(baseName, " ", "_")
	baseName = strings.ReplaceAll(baseName, "/", "_")
	baseName = strings.ReplaceAll(baseName, "\\", "_")

	return fmt.Sprintf("%s/%s_%s%s", fileID.String()[:2], fileID.String(), baseName, ext)
}

// contentTypeFor maps an image filename to its MIME type.
func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
