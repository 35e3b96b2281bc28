package media

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/greengauge/greengauge-go/apperror"
)

// multipartSlack leaves room for boundaries and text fields next to the file.
const multipartSlack = 1 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// Image is an uploaded image held in memory.
type Image struct {
	Filename    string
	ContentType string // sniffed from the bytes, not taken from the client
	Data        []byte
}

// ReadFormImage parses a multipart request and returns the image in field.
// Other form values are available through r.FormValue afterwards.
func ReadFormImage(w http.ResponseWriter, r *http.Request, field string, maxBytes int64) (*Image, error) {
	tooLarge := apperror.NewFieldValidationError(field, fmt.Sprintf("image must be at most %d MiB", maxBytes>>20))

	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartSlack)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, tooLarge
		}
		return nil, apperror.NewValidationError("request must be multipart/form-data", err)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, apperror.NewMissingFieldError(field)
		}
		return nil, apperror.NewValidationError("could not read uploaded file", err)
	}
	defer file.Close()

	if header.Size > maxBytes {
		return nil, tooLarge
	}
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, apperror.NewValidationError("could not read uploaded file", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, tooLarge
	}
	if len(data) == 0 {
		return nil, apperror.NewFieldValidationError(field, "image is empty")
	}

	contentType := http.DetectContentType(data)
	if !allowedImageTypes[contentType] {
		return nil, apperror.NewFieldValidationError(field, "image must be a JPEG, PNG, WebP or GIF")
	}
	return &Image{Filename: header.Filename, ContentType: contentType, Data: data}, nil
}
