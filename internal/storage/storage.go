package storage

import (
	"context"
	"io"
)

// Storage abstracts where uploaded files live. The API writes relative
// paths to the database and resolves them through this interface.
type Storage interface {
	// Save stores content and returns its relative path
	Save(ctx context.Context, reader io.Reader, size int64, filename, subDir string) (string, error)
	// Open returns the file content for reading
	Open(ctx context.Context, relativePath string) (io.ReadCloser, error)
	// Delete removes a stored file
	Delete(ctx context.Context, relativePath string) error
}

// ValidContentTypes returns allowed MIME types for uploads
func ValidContentTypes() map[string]bool {
	return map[string]bool{
		"application/pdf": true,
		"image/jpeg":      true,
		"image/jpg":       true,
		"image/png":       true,
	}
}

// MaxFileSize returns the maximum allowed file size (10MB)
func MaxFileSize() int64 {
	return 10 * 1024 * 1024 // 10 MB
}

// IsValidContentType checks if the content type is allowed
func IsValidContentType(contentType string) bool {
	return ValidContentTypes()[contentType]
}
