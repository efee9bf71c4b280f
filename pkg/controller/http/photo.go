package http

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/usecase"
	"github.com/secmon-lab/hra/pkg/utils/safe"
)

const (
	photoFormField = "file"
	multipartSlack = 1 << 20
)

// withPhoto reads the multipart "file" field and hands it to fn. The part is closed afterwards.
func withPhoto(w http.ResponseWriter, r *http.Request, fn func(photo usecase.Photo) error) error {
	r.Body = http.MaxBytesReader(w, r.Body, usecase.MaxPhotoSize+multipartSlack)
	if err := r.ParseMultipartForm(usecase.MaxPhotoSize + multipartSlack); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return goerr.Wrap(usecase.ErrPhotoTooLarge, "request body too large")
		}
		return goerr.Wrap(errBadRequest, "invalid multipart form", goerr.V("cause", err.Error()))
	}
	defer func() {
		if r.MultipartForm != nil {
			safe.Do(r.Context(), "multipart temp files", r.MultipartForm.RemoveAll)
		}
	}()

	file, header, err := r.FormFile(photoFormField)
	if err != nil {
		return goerr.Wrap(errBadRequest, "file field is required")
	}
	defer safe.Close(r.Context(), "uploaded photo", file)

	return fn(usecase.Photo{
		ContentType: contentTypeOf(header),
		Body:        file,
	})
}

func contentTypeOf(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
