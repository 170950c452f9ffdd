// Package storage keeps session recordings in Cloudinary.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ErrNotConfigured is returned by Disabled when no media credentials exist.
var ErrNotConfigured = errors.New("storage: media store not configured")

// Asset identifies an uploaded recording.
type Asset struct {
	ID  string // provider public id, needed to delete the asset later
	URL string
}

// Store uploads and removes recording assets.
type Store interface {
	Upload(ctx context.Context, file io.Reader, folder string) (Asset, error)
	Destroy(ctx context.Context, assetID string) error
}

const resourceType = "video"

// Cloudinary is the Store backed by a Cloudinary account.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

var _ Store = (*Cloudinary)(nil)

// NewCloudinary builds a Store for the given account.
func NewCloudinary(cloudName, apiKey, apiSecret string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("storage.NewCloudinary: %w", err)
	}
	return &Cloudinary{cld: cld}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, file io.Reader, folder string) (Asset, error) {
	res, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		ResourceType: resourceType,
	})
	if err != nil {
		return Asset{}, fmt.Errorf("storage.Cloudinary.Upload: %w", err)
	}
	if res.Error.Message != "" {
		return Asset{}, fmt.Errorf("storage.Cloudinary.Upload: %s", res.Error.Message)
	}
	if res.PublicID == "" {
		return Asset{}, errors.New("storage.Cloudinary.Upload: no public id returned")
	}
	return Asset{ID: res.PublicID, URL: res.SecureURL}, nil
}

func (c *Cloudinary) Destroy(ctx context.Context, assetID string) error {
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     assetID,
		ResourceType: resourceType,
	})
	if err != nil {
		return fmt.Errorf("storage.Cloudinary.Destroy: %w", err)
	}
	// Result is "ok" or "not found"; either way the asset is gone.
	if res.Error.Message != "" {
		return fmt.Errorf("storage.Cloudinary.Destroy: %s", res.Error.Message)
	}
	return nil
}

// Disabled is the Store used when media storage is not configured.
type Disabled struct{}

func (Disabled) Upload(context.Context, io.Reader, string) (Asset, error) {
	return Asset{}, ErrNotConfigured
}

func (Disabled) Destroy(context.Context, string) error {
	return ErrNotConfigured
}
