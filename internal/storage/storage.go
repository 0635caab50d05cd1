package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"webstarter/pkg/apperrors"
)

// Storage defines the interface for file storage operations.
// Keys are slash-separated, e.g. "users/<id>/1700000000000-abc123.png".
type Storage interface {
	// Save stores the content under key
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Get opens the stored content; missing keys give NOT_FOUND
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)

	// URL returns the public URL for key
	URL(key string) string

	// PresignPut returns a temporary URL a client can PUT the file to
	PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error)

	// Provider - local, s3 или cloudflare_r2
	Provider() string
}

const (
	ProviderLocal        = "local"
	ProviderS3           = "s3"
	ProviderCloudflareR2 = "cloudflare_r2"
)

// Config holds storage configuration
type Config struct {
	Type       string // local, s3, cloudflare_r2
	BasePath   string // For local storage
	BaseURL    string // Public URL base (CDN)
	Bucket     string // For S3/R2
	Region     string // For S3
	AccessKey  string // For S3/R2
	SecretKey  string // For S3/R2
	Endpoint   string // For R2 or custom S3
	PublicRead bool   // Make files public by default
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case ProviderLocal, "":
		return NewLocalStorage(cfg)
	case ProviderS3:
		return NewS3Storage(cfg)
	case ProviderCloudflareR2:
		return NewCloudflareR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// CleanKey rejects keys that could escape the storage root.
func CleanKey(key string) (string, error) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" {
		return "", apperrors.InvalidInput("File key is required", "key")
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." || part == "" {
			return "", apperrors.InvalidInput("Invalid file key", "key")
		}
	}
	return key, nil
}

func joinURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + key
}
