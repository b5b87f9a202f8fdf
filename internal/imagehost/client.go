package imagehost

import (
	"context"
	"io"
	"log/slog"

	"github.com/chayanin/inventory-api/internal"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Uploader pushes an image stream to the external asset host and returns a
// durable URL. The core only ever consumes that URL string.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, filename string) (string, error)
}

// NewUploader builds the configured uploader. Without a Cloudinary URL the
// service still starts; uploads then fail loudly instead of silently, since a
// product must never reference an image that was not stored.
func NewUploader(cfg internal.ImageHostConfig, logger *slog.Logger) (Uploader, error) {
	if cfg.CloudinaryURL == "" {
		logger.Warn("image hosting disabled: no cloudinary url configured")
		return disabledUploader{}, nil
	}
	return NewCloudinaryClient(cfg, logger)
}

type disabledUploader struct{}

func (disabledUploader) Upload(context.Context, io.Reader, string) (string, error) {
	return "", internal.NewExternalError("Image hosting is not configured", internal.ErrCodeUploadFailed, nil)
}

// CloudinaryClient uploads into a fixed Cloudinary folder.
type CloudinaryClient struct {
	cld    *cloudinary.Cloudinary
	folder string
	logger *slog.Logger
}

func NewCloudinaryClient(cfg internal.ImageHostConfig, logger *slog.Logger) (*CloudinaryClient, error) {
	cld, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
	if err != nil {
		return nil, err
	}

	folder := cfg.Folder
	if folder == "" {
		folder = "inventory"
	}

	return &CloudinaryClient{
		cld:    cld,
		folder: folder,
		logger: logger,
	}, nil
}

func (c *CloudinaryClient) Upload(ctx context.Context, file io.Reader, filename string) (string, error) {
	resp, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       c.folder,
		ResourceType: "image",
	})
	if err != nil {
		c.logger.Error("image upload failed", "error", err, "filename", filename)
		return "", internal.NewExternalError("Upload failed", internal.ErrCodeUploadFailed, err)
	}

	if resp.SecureURL == "" {
		return "", internal.NewExternalError("No image url returned from upstream", internal.ErrCodeUploadFailed, nil)
	}

	return resp.SecureURL, nil
}
