package utils

import (
	"context"
	"io"
	"os"
	"strings"
)

const (
	StorageProviderGCS   = "gcs"
	StorageProviderLocal = "local"
)

// Storage persists uploaded files (GST documents, partner/bearer photos,
// gallery images) and returns a URL the frontend can serve.
type Storage interface {
	Save(ctx context.Context, objectKey string, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, objectKey string) error
}

func GetStorageProvider() string {
	provider := strings.TrimSpace(strings.ToLower(os.Getenv("STORAGE_PROVIDER")))
	if provider == "" {
		return StorageProviderLocal
	}
	return provider
}

// GetStorage returns the configured storage backend.
func GetStorage() Storage {
	if GetStorageProvider() == StorageProviderGCS {
		return &gcsStorage{}
	}
	return &localStorage{}
}
