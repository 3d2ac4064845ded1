package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryFolder is the folder campaign images are uploaded into.
const CloudinaryFolder = "campaigns"

const uploadTimeout = 60 * time.Second

// CloudinaryStore uploads images to Cloudinary.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStore builds a store from a cloudinary:// URL.
func NewCloudinaryStore(cloudinaryURL string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(strings.TrimSpace(cloudinaryURL))
	if err != nil {
		return nil, fmt.Errorf("cloudinary config error: %w", err)
	}
	return &CloudinaryStore{cld: cld, folder: CloudinaryFolder}, nil
}

// Upload validates the image and uploads it, returning the secure URL.
func (s *CloudinaryStore) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	data, _, err := readImage(r)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	resp, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:         s.folder,
		UniqueFilename: boolPtr(true),
	})
	if err != nil {
		return "", fmt.Errorf("upload error: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("upload error: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}

func boolPtr(b bool) *bool { return &b }
