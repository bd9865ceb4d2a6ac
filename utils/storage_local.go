package utils

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// localStorage writes under UPLOAD_DIR (default ./public/uploads), mirroring
// the paths the web frontend serves at /uploads/.
type localStorage struct{}

func uploadDir() string {
	dir := strings.TrimSpace(os.Getenv("UPLOAD_DIR"))
	if dir == "" {
		dir = filepath.Join("public", "uploads")
	}
	return dir
}

func (s *localStorage) Save(ctx context.Context, objectKey string, contentType string, r io.Reader) (string, error) {
	if strings.Contains(objectKey, "..") {
		return "", fmt.Errorf("invalid object key %q", objectKey)
	}
	dest := filepath.Join(uploadDir(), filepath.FromSlash(objectKey))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return "/uploads/" + objectKey, nil
}

func (s *localStorage) Delete(ctx context.Context, objectKey string) error {
	if strings.Contains(objectKey, "..") {
		return fmt.Errorf("invalid object key %q", objectKey)
	}
	return os.Remove(filepath.Join(uploadDir(), filepath.FromSlash(objectKey)))
}
