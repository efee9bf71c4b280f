package usecase

import (
	"bytes"
	"context"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/interfaces"
)

// MaxPhotoSize is the largest accepted upload
const MaxPhotoSize = 10 << 20

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"video/mp4":  ".mp4",
}

// Photo is an uploaded file as received from the client
type Photo struct {
	ContentType string
	Body        io.Reader
}

// uploadPhoto checks type and size, then stores the file as <folder>/<uuid><ext>
func uploadPhoto(ctx context.Context, storage interfaces.PhotoStorage, folder string, photo Photo) (string, error) {
	if storage == nil {
		return "", goerr.Wrap(ErrStorageDisabled, "cannot upload photo")
	}

	mediaType, _, err := mime.ParseMediaType(photo.ContentType)
	if err != nil {
		return "", goerr.Wrap(ErrUnsupportedPhoto, "malformed content type", goerr.V("content_type", photo.ContentType))
	}
	mediaType = strings.ToLower(mediaType)
	ext, ok := photoExtensions[mediaType]
	if !ok {
		return "", goerr.Wrap(ErrUnsupportedPhoto, "content type not accepted", goerr.V("content_type", mediaType))
	}

	data, err := io.ReadAll(io.LimitReader(photo.Body, MaxPhotoSize+1))
	if err != nil {
		return "", goerr.Wrap(err, "failed to read photo")
	}
	if len(data) > MaxPhotoSize {
		return "", goerr.Wrap(ErrPhotoTooLarge, "photo exceeds size limit", goerr.V("limit", MaxPhotoSize))
	}
	if len(data) == 0 {
		return "", goerr.Wrap(ErrUnsupportedPhoto, "photo is empty")
	}

	object := path.Join(folder, uuid.New().String()+ext)
	url, err := storage.Upload(ctx, object, mediaType, bytes.NewReader(data))
	if err != nil {
		return "", goerr.Wrap(err, "failed to upload photo", goerr.V("object", object))
	}

	return url, nil
}
