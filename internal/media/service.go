package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ichigoapp/ichigo-server/internal/config"
	"github.com/ichigoapp/ichigo-server/internal/errors"
)

// UploadResult describes a stored attachment.
type UploadResult struct {
	URL      string `json:"url"`
	Path     string `json:"path"`
	BlurHash string `json:"blurHash"`
	Size     int64  `json:"size"`
}

// Service validates and stores image attachments. Uploads are capped
// in size and must decode as an image; a BlurHash placeholder is
// computed at upload time for progressive rendering in the UI.
type Service struct {
	storage  Storage
	baseURL  string
	maxBytes int64
	logger   *slog.Logger
}

// NewService creates a media service over the given storage backend.
func NewService(storage Storage, cfg config.MediaConfig, logger *slog.Logger) *Service {
	return &Service{
		storage:  storage,
		baseURL:  strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		maxBytes: cfg.MaxUploadBytes,
		logger:   logger,
	}
}

// UploadImage stores an image and returns its public URL and BlurHash.
func (s *Service) UploadImage(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to read upload")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, errors.PayloadTooLarge(fmt.Sprintf("image exceeds %d bytes", s.maxBytes))
	}
	if len(data) == 0 {
		return nil, errors.Validation("empty upload")
	}

	hash, err := ComputeBlurHash(data)
	if err != nil {
		return nil, errors.Validation("file is not a supported image (jpeg, png, gif, webp)")
	}

	fileID := uuid.New()
	path, err := s.storage.Upload(ctx, fileID, filename, bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to store image")
	}

	s.logger.Info("image stored", "path", path, "bytes", len(data))

	return &UploadResult{
		URL:      s.baseURL + "/" + path,
		Path:     path,
		BlurHash: hash,
		Size:     int64(len(data)),
	}, nil
}

// Open retrieves a stored attachment for serving.
func (s *Service) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	rc, err := s.storage.Download(ctx, path)
	if err != nil {
		return nil, errors.NotFound("attachment not found")
	}
	return rc, nil
}
