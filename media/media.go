// Package media stores uploaded images and returns their public URLs.
package media

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/greengauge/greengauge-go/apperror"
	"github.com/greengauge/greengauge-go/config"
)

// Store uploads a file and returns the URL it can be fetched from.
type Store interface {
	Upload(ctx context.Context, folder, filename, contentType string, body io.Reader) (string, error)
}

// NewStore builds the backend selected in cfg. It returns a nil Store when
// uploads are disabled.
func NewStore(ctx context.Context, cfg *config.MediaConfig) (Store, error) {
	switch cfg.Backend {
	case config.MediaBackendNone:
		return nil, nil
	case config.MediaBackendCloudinary:
		s, err := NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.MediaBackendS3:
		s, err := NewS3Store(ctx, S3Options{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, apperror.NewConfigError("unknown media backend "+cfg.Backend, nil)
	}
}

// ObjectKey names an upload: folder/<slug of base name>-<uuid><ext>.
// The random part keeps two uploads of "photo.jpg" apart.
func ObjectKey(folder, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := strings.ToLower(path.Ext(base))
	name := slug.Make(strings.TrimSuffix(base, path.Ext(base)))
	if name == "" {
		name = "file"
	}
	key := name + "-" + uuid.NewString() + ext
	if folder = strings.Trim(folder, "/"); folder != "" {
		key = folder + "/" + key
	}
	return key
}
