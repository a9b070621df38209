package storage

import (
	"fmt"
	"io"
	"log/slog"

	cfg "github.com/templui/corpsite/internal/config"
)

// Storage persists uploaded files under relative slash-separated paths.
type Storage interface {
	// Save stores a file at the given path, creating parent directories as needed
	Save(path string, file io.Reader) error

	// Delete removes a file at the given path
	Delete(path string) error

	// URL returns the public URL for accessing the file
	URL(path string) string
}

// New picks the backend named by UPLOADS_BACKEND.
func New(c *cfg.Config) (Storage, error) {
	switch c.UploadsBackend {
	case "", "local":
		slog.Info("initializing local storage", "path", c.UploadsPath)
		local, err := NewLocalStorage(c.UploadsPath, "/uploads")
		if err != nil {
			return nil, err
		}
		return local, nil
	case "s3":
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		s3, err := NewS3Storage(S3Config{
			Region:              c.S3Region,
			Bucket:              c.S3Bucket,
			AccessKey:           c.S3AccessKey,
			SecretKey:           c.S3SecretKey,
			Endpoint:            c.S3Endpoint,
			PresignExpiryPublic: c.S3PresignExpiryPublic,
		})
		if err != nil {
			return nil, err
		}
		return s3, nil
	default:
		return nil, fmt.Errorf("unknown uploads backend %q", c.UploadsBackend)
	}
}
