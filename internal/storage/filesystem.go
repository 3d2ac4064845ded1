// Package storage uploads campaign images and returns their public URL.
package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxImageBytes caps a single upload.
const MaxImageBytes = 5 << 20

var (
	// ErrNotImage rejects uploads whose content is not a supported image.
	ErrNotImage = errors.New("storage: file is not a supported image")
	// ErrTooLarge rejects uploads above MaxImageBytes.
	ErrTooLarge = errors.New("storage: file too large")
)

var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Uploader stores an image and returns the URL it is served from.
type Uploader interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
}

// FileStore persists images onto the local filesystem. It is intended for
// development and demo deployments where Cloudinary is not configured.
type FileStore struct {
	basePath string
	baseURL  string
}

// NewFileStore initializes a FileStore rooted at basePath whose files are
// served under baseURL.
func NewFileStore(basePath, baseURL string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &FileStore{basePath: basePath, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// BasePath returns the configured root directory.
func (s *FileStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// Upload sniffs the image type, writes the file under campaigns/ with a
// random name and returns its URL. The client-supplied name is ignored.
func (s *FileStore) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	if s == nil {
		return "", errors.New("storage: no store configured")
	}
	data, ext, err := readImage(r)
	if err != nil {
		return "", err
	}
	key, err := s.Write(ctx, path.Join("campaigns", uuid.NewString()+ext), data)
	if err != nil {
		return "", err
	}
	return s.baseURL + "/" + key, nil
}

// Write persists the provided bytes at the given relative key and returns the
// canonicalized storage key. Keys are cleaned to prevent directory traversal.
func (s *FileStore) Write(ctx context.Context, key string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(cleanKey))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("storage: ensure directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	return cleanKey, nil
}

// readImage reads at most MaxImageBytes and returns the data with the file
// extension for its sniffed content type.
func readImage(r io.Reader) ([]byte, string, error) {
	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, "", fmt.Errorf("storage: read upload: %w", err)
	}
	ext, ok := imageExt[http.DetectContentType(head)]
	if !ok {
		return nil, "", ErrNotImage
	}
	data, err := io.ReadAll(io.LimitReader(br, MaxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("storage: read upload: %w", err)
	}
	if len(data) > MaxImageBytes {
		return nil, "", ErrTooLarge
	}
	return data, ext, nil
}

// sanitizeKey normalizes a key and prevents escaping the storage root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("storage: key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("storage: invalid key")
	}
	return cleaned, nil
}
