package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStorage writes uploads to a directory that the router serves under
// publicPath.
type LocalStorage struct {
	dir        string
	publicPath string
}

func NewLocalStorage(dir, publicPath string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{
		dir:        dir,
		publicPath: "/" + strings.Trim(publicPath, "/"),
	}, nil
}

func (s *LocalStorage) Save(ctx context.Context, originalName, contentType string, body io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uniqueName(originalName)
	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(dst, body); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	return name, nil
}

// Delete removes a stored file. A file that is already gone is not an error.
func (s *LocalStorage) Delete(ctx context.Context, name string) error {
	if name == "" {
		return nil
	}
	// file_path values never contain directories
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStorage) URL(name string) string {
	if name == "" {
		return ""
	}
	return path.Join(s.publicPath, name)
}
