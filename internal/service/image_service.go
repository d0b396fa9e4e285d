package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"ocrbench/internal/config"
	"ocrbench/internal/domain"
	"ocrbench/internal/port"
)

const imageKeyPrefix = "images/"

// ImageUploadInput is the DTO for image upload requests.
type ImageUploadInput struct {
	File     io.ReadSeeker
	Filename string
	Size     int64
}

// UploadedImage describes a stored image and a temporary URL that models can fetch.
type UploadedImage struct {
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	URL         string    `json:"url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ImageService stores test images and hands out presigned URLs for them.
type ImageService interface {
	Upload(ctx context.Context, input ImageUploadInput) (*UploadedImage, error)
	URL(ctx context.Context, name string) (*UploadedImage, error)
	Delete(ctx context.Context, name string) error
}

type imageService struct {
	storage port.ObjectStorage
	cfg     *config.S3Config
}

// NewImageService creates a new ImageService implementation. storage may be
// nil, in which case every call fails with domain.ErrStorageDisabled.
func NewImageService(storage port.ObjectStorage, cfg *config.S3Config) ImageService {
	return &imageService{storage: storage, cfg: cfg}
}

func (s *imageService) Upload(ctx context.Context, input ImageUploadInput) (*UploadedImage, error) {
	if s.storage == nil {
		return nil, domain.ErrStorageDisabled
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Filename), "."))
	imageType, ok := domain.AllowedImageExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}
	if s.cfg.MaxFileSizeMB > 0 && input.Size > s.cfg.MaxFileSizeMB*1024*1024 {
		return nil, domain.ErrFileTooLarge
	}

	// Magic-byte check so a renamed file cannot pass as an image.
	buf := make([]byte, 512)
	n, err := input.File.Read(buf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading file header: %w", err)
	}
	contentType := domain.AllowedImageTypes[imageType]
	if detected := http.DetectContentType(buf[:n]); detected != contentType {
		return nil, domain.ErrUnsupportedFileType
	}
	if _, err := input.File.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking file: %w", err)
	}

	name := uuid.New().String() + "." + string(imageType)
	slog.Info("imageService.Upload: uploading image", "name", name, "original", input.Filename, "size", input.Size)

	_, err = s.storage.Upload(ctx, port.UploadInput{
		Key:         imageKeyPrefix + name,
		Body:        input.File,
		ContentType: contentType,
		Size:        input.Size,
	})
	if err != nil {
		slog.Error("imageService.Upload: storage upload failed", "name", name, "error", err)
		return nil, domain.ErrUploadFailed
	}

	img, err := s.URL(ctx, name)
	if err != nil {
		return nil, err
	}
	img.ContentType = contentType
	img.Size = input.Size
	return img, nil
}

func (s *imageService) URL(ctx context.Context, name string) (*UploadedImage, error) {
	if s.storage == nil {
		return nil, domain.ErrStorageDisabled
	}
	key, err := imageKey(name)
	if err != nil {
		return nil, err
	}
	expiry := time.Duration(s.cfg.PresignExpiry) * time.Second
	url, err := s.storage.PresignGet(ctx, key, expiry)
	if err != nil {
		return nil, fmt.Errorf("presigning image url: %w", err)
	}
	return &UploadedImage{Name: name, URL: url, ExpiresAt: time.Now().UTC().Add(expiry)}, nil
}

func (s *imageService) Delete(ctx context.Context, name string) error {
	if s.storage == nil {
		return domain.ErrStorageDisabled
	}
	key, err := imageKey(name)
	if err != nil {
		return err
	}
	return s.storage.Delete(ctx, key)
}

// imageKey maps an image name to its object key, rejecting anything that is
// not a bare file name.
func imageKey(name string) (string, error) {
	if name == "" || name != path.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: invalid image name", domain.ErrInvalidRequest)
	}
	return imageKeyPrefix + name, nil
}
