package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/ichigoapp/ichigo-server/internal/config"
	"github.com/ichigoapp/ichigo-server/internal/logger"
	"github.com/ichigoapp/ichigo-server/internal/media"
)

// MediaServiceHandle carries the media service. Service is nil when no
// storage backend could be configured, which disables uploads.
type MediaServiceHandle struct {
	Service *media.Service
}

// ProvideMediaService provides image attachment storage.
func ProvideMediaService(i do.Injector) (*MediaServiceHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	var storage media.Storage
	switch cfg.Media.Backend {
	case config.MediaBackendLocal:
		if cfg.Media.LocalPath == "" {
			log.Info("Media uploads disabled, no local storage path configured")
			return &MediaServiceHandle{}, nil
		}
		local, err := media.NewLocalStorage(cfg.Media.LocalPath)
		if err != nil {
			return nil, err
		}
		storage = local
		log.Info("Media storage ready", "backend", "local", "path", cfg.Media.LocalPath)
	case config.MediaBackendS3:
		s3Storage, err := media.NewS3Storage(cfg.Media)
		if err != nil {
			return nil, err
		}
		storage = s3Storage
		log.Info("Media storage ready", "backend", "s3", "bucket", cfg.Media.S3Bucket)
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.Media.Backend)
	}

	return &MediaServiceHandle{
		Service: media.NewService(storage, cfg.Media, log.Logger),
	}, nil
}
