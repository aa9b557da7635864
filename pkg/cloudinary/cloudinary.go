package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
	"github.com/google/uuid"
)

var ErrNotConfigured = errors.New("cloudinary not configured")

// Client uploads and removes report photos.
type Client interface {
	UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (Upload, error)
	Destroy(ctx context.Context, publicID string) error
}

// Upload is the delivery info of a stored image.
type Upload struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	PublicID     string `json:"public_id"`
}

const (
	ImageWidth = 1024
	ThumbWidth = 240
	thumbEager = "q_auto,f_auto,w_240,c_fill"
)

var eagerAsyncFalse = false

// BuildImageURL returns a delivery URL for publicID resized to width.
func BuildImageURL(cloudName, publicID string, width int) string {
	if width <= 0 {
		width = ImageWidth
	}
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/q_auto,f_auto,w_%d,c_fill/%s",
		cloudName, width, publicID)
}

// NewPublicID returns a random public ID with the given prefix, e.g. "nest_3f2a...".
func NewPublicID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
}

type clientImpl struct {
	cloudName string
	uploader  *uploader.API
}

func (c *clientImpl) UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (Upload, error) {
	result, err := c.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:     folder,
		PublicID:   publicID,
		Eager:      thumbEager,
		EagerAsync: &eagerAsyncFalse,
	})
	if err != nil {
		return Upload{}, err
	}
	if result.Error.Message != "" {
		return Upload{}, fmt.Errorf("cloudinary upload: %s", result.Error.Message)
	}
	up := Upload{URL: result.SecureURL, PublicID: result.PublicID}
	if len(result.Eager) > 0 {
		up.ThumbnailURL = result.Eager[0].SecureURL
	}
	if up.ThumbnailURL == "" {
		up.ThumbnailURL = BuildImageURL(c.cloudName, result.PublicID, ThumbWidth)
	}
	return up, nil
}

func (c *clientImpl) Destroy(ctx context.Context, publicID string) error {
	result, err := c.uploader.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return err
	}
	if result.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", result.Error.Message)
	}
	return nil
}

// NewClientFromParams builds a Client from Cloudinary cloud name, API key, and secret.
func NewClientFromParams(cloudName, apiKey, apiSecret string) (Client, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, ErrNotConfigured
	}
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &clientImpl{cloudName: cloudName, uploader: up}, nil
}
