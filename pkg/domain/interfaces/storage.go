package interfaces

import (
	"context"
	"io"
)

// PhotoStorage stores uploaded images and returns their public URL
type PhotoStorage interface {
	Upload(ctx context.Context, object string, contentType string, r io.Reader) (string, error)
}
