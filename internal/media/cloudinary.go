package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/Clark-Hu/recipebox/internal/metrics"
)

// CloudinaryConfig holds credentials and upload policy.
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
	MaxWidth  int
	Timeout   time.Duration
}

type uploadFunc func(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)

// CloudinaryUploader implements Uploader on the Cloudinary upload API.
type CloudinaryUploader struct {
	upload   uploadFunc
	folder   string
	maxWidth int
	timeout  time.Duration
	breaker  *gobreaker.CircuitBreaker[*uploader.UploadResult]
	logger   zerolog.Logger
}

// NewCloudinaryUploader builds an uploader from credentials.
func NewCloudinaryUploader(cfg CloudinaryConfig, logger zerolog.Logger) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return newUploader(cld.Upload.Upload, cfg, logger), nil
}

func newUploader(fn uploadFunc, cfg CloudinaryConfig, logger zerolog.Logger) *CloudinaryUploader {
	logger = logger.With().Str("component", "media").Logger()
	breaker := gobreaker.NewCircuitBreaker[*uploader.UploadResult](gobreaker.Settings{
		Name:        "cloudinary",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})
	return &CloudinaryUploader{
		upload:   fn,
		folder:   cfg.Folder,
		maxWidth: cfg.MaxWidth,
		timeout:  cfg.Timeout,
		breaker:  breaker,
		logger:   logger,
	}
}

// Upload normalizes the image and sends it to the configured folder.
func (u *CloudinaryUploader) Upload(ctx context.Context, r io.Reader, filename string) (*UploadResult, error) {
	data, err := Normalize(r, u.maxWidth)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	res, err := u.breaker.Execute(func() (*uploader.UploadResult, error) {
		res, err := u.upload(ctx, bytes.NewReader(data), uploader.UploadParams{
			Folder:       u.folder,
			ResourceType: "image",
		})
		if err != nil {
			return nil, err
		}
		if res == nil {
			return nil, errors.New("empty upload response")
		}
		if res.Error.Message != "" {
			return nil, fmt.Errorf("cloudinary: %s", res.Error.Message)
		}
		return res, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.UploadsTotal.WithLabelValues("unavailable").Inc()
			return nil, ErrUnavailable
		}
		metrics.UploadsTotal.WithLabelValues("failed").Inc()
		u.logger.Error().Err(err).Str("filename", filename).Msg("upload failed")
		return nil, fmt.Errorf("upload %s: %w", filename, err)
	}

	metrics.UploadsTotal.WithLabelValues("ok").Inc()
	return &UploadResult{URL: res.SecureURL, PublicID: res.PublicID}, nil
}
