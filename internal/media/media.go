// Package media normalizes uploaded images and stores them on Cloudinary.
package media

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotConfigured is returned when no Cloudinary credentials were provided.
	ErrNotConfigured = errors.New("media: uploads not configured")
	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("media: upload service unavailable")
	// ErrUnsupportedImage is returned for payloads that are not JPEG, PNG or GIF.
	ErrUnsupportedImage = errors.New("media: unsupported image")
)

// UploadResult describes a stored asset.
type UploadResult struct {
	URL      string
	PublicID string
}

// Uploader stores an image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, filename string) (*UploadResult, error)
}

// Disabled is the Uploader used when credentials are absent.
type Disabled struct{}

// Upload always fails with ErrNotConfigured.
func (Disabled) Upload(context.Context, io.Reader, string) (*UploadResult, error) {
	return nil, ErrNotConfigured
}
