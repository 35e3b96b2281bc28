package media

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/greengauge/greengauge-go/apperror"
)

// CloudinaryStore uploads images to Cloudinary.
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStore creates a store for the given account.
func NewCloudinaryStore(cloudName, apiKey, apiSecret string) (*CloudinaryStore, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, apperror.NewConfigError("cloudinary configuration is missing", nil)
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, apperror.NewConfigError("failed to initialize cloudinary", err)
	}
	return &CloudinaryStore{cld: cld}, nil
}

// Upload stores body under folder and returns its secure URL. Cloudinary
// derives the format from the content, so the extension is dropped from the public id.
func (s *CloudinaryStore) Upload(ctx context.Context, folder, filename, _ string, body io.Reader) (string, error) {
	key := ObjectKey(folder, filename)
	publicID := strings.TrimSuffix(key, path.Ext(key))

	res, err := s.cld.Upload.Upload(ctx, body, uploader.UploadParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return "", apperror.NewExternalServiceError("failed to upload image", err)
	}
	if res.Error.Message != "" {
		return "", apperror.NewExternalServiceError("failed to upload image", errors.New(res.Error.Message))
	}
	return res.SecureURL, nil
}
