package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStorage stores uploaded menu images. Names returned by Save are what
// gets persisted as an image's file_path.
type FileStorage interface {
	Save(ctx context.Context, originalName, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, name string) error
	URL(name string) string
}

var ErrInvalidContentType = errors.New("content type is not allowed")

// AllowedImageTypes are the content types accepted for menu images.
var AllowedImageTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
}

// ValidateContentType validates the content type
func ValidateContentType(contentType string, allowedTypes []string) error {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	for _, allowed := range allowedTypes {
		if mediaType == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidContentType, contentType)
}

// DetectContentType prefers the declared type and falls back to the file
// extension when the client sent none or a generic one.
func DetectContentType(declared, filename string) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
		return byExt
	}
	return declared
}

// uniqueName keeps the original extension behind a random uuid.
func uniqueName(originalName string) string {
	return uuid.New().String() + strings.ToLower(filepath.Ext(originalName))
}
