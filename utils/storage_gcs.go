package utils

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// gcsStorage stores objects in GCS_BUCKET and serves them via the bucket's
// public URL (or STORAGE_ACCESS_BASE_URL when fronted by a CDN).
type gcsStorage struct{}

func getGCSClient(ctx context.Context) (*storage.Client, error) {
	// Prefer ADC (service account / GOOGLE_APPLICATION_CREDENTIALS).
	// Explicit JSON via GCS_CREDENTIALS_JSON for local development.
	if credJSON := os.Getenv("GCS_CREDENTIALS_JSON"); strings.TrimSpace(credJSON) != "" {
		return storage.NewClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
	}
	return storage.NewClient(ctx)
}

func gcsBucket() (string, error) {
	bucket := strings.TrimSpace(os.Getenv("GCS_BUCKET"))
	if bucket == "" {
		return "", errors.New("GCS_BUCKET is required")
	}
	return bucket, nil
}

func (s *gcsStorage) Save(ctx context.Context, objectKey string, contentType string, r io.Reader) (string, error) {
	bucket, err := gcsBucket()
	if err != nil {
		return "", err
	}
	client, err := getGCSClient(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	wc := client.Bucket(bucket).Object(objectKey).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return BuildObjectAccessURL(objectKey), nil
}

func (s *gcsStorage) Delete(ctx context.Context, objectKey string) error {
	bucket, err := gcsBucket()
	if err != nil {
		return err
	}
	client, err := getGCSClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()
	return client.Bucket(bucket).Object(objectKey).Delete(ctx)
}

func BuildObjectAccessURL(objectKey string) string {
	base := strings.TrimSpace(os.Getenv("STORAGE_ACCESS_BASE_URL"))
	if base != "" {
		return strings.TrimRight(base, "/") + "/" + objectKey
	}
	bucket := strings.TrimSpace(os.Getenv("GCS_BUCKET"))
	if bucket != "" {
		return "https://storage.googleapis.com/" + bucket + "/" + objectKey
	}
	return objectKey
}
