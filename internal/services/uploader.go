package services

import (
	"context"
	"mime/multipart"
)

// Uploader stores an uploaded file and returns its publicly retrievable URL.
type Uploader interface {
	Upload(ctx context.Context, fileHeader *multipart.FileHeader) (string, error)
}
