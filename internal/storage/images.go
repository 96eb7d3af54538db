package storage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidDataURL = errors.New("invalid data URL")

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageStore writes uploaded event images to the local filesystem. The
// client uploads them as data URLs, matching the original application's
// image handling.
type ImageStore struct {
	dir string
}

func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll -> %w", err)
	}

	return &ImageStore{
		dir: dir,
	}, nil
}

// SaveDataURL decodes a "data:image/...;base64,..." payload and stores
// it under a random name, returning the relative path.
func (s *ImageStore) SaveDataURL(dataURL string) (string, error) {
	mime, data, err := decodeDataURL(dataURL)
	if err != nil {
		return "", err
	}

	ext, ok := extensions[mime]
	if !ok {
		return "", fmt.Errorf("%w: unsupported media type %q", ErrInvalidDataURL, mime)
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("os.WriteFile -> %w", err)
	}

	return name, nil
}

func decodeDataURL(dataURL string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}

	meta, encoded, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}

	mime, encoding, ok := strings.Cut(meta, ";")
	if !ok || encoding != "base64" {
		return "", nil, ErrInvalidDataURL
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}

	return mime, data, nil
}
