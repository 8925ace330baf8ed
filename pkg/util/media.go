package util

import (
	"context"
	"time"

	"github.com/cloudinary/cloudinary-go"
	"github.com/cloudinary/cloudinary-go/api/uploader"
	"github.com/pkg/errors"
)

const mediaTimeout = 40 * time.Second

// MediaUploader stores product images and vendor certification files on
// Cloudinary.
type MediaUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewMediaUploader(cfg CloudinaryConfig) (*MediaUploader, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, errors.Wrap(err, "init cloudinary")
	}
	return &MediaUploader{cld: cld, folder: cfg.UploadFolder}, nil
}

// Upload sends file (a reader, path or URL) to the configured folder and
// returns its secure URL.
func (m *MediaUploader) Upload(ctx context.Context, file interface{}, subfolder string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, mediaTimeout)
	defer cancel()

	folder := m.folder
	if subfolder != "" {
		folder = folder + "/" + subfolder
	}

	res, err := m.cld.Upload.Upload(ctx, file, uploader.UploadParams{Folder: folder})
	if err != nil {
		return "", errors.Wrap(err, "upload media")
	}
	return res.SecureURL, nil
}

func (m *MediaUploader) Destroy(ctx context.Context, publicID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, mediaTimeout)
	defer cancel()

	res, err := m.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return "", errors.Wrap(err, "destroy media")
	}
	return res.Result, nil
}
