package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ocrbench/internal/config"
	"ocrbench/internal/domain"
	"ocrbench/internal/port"
	"ocrbench/internal/service"
	"ocrbench/mocks"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func imageCfg() *config.S3Config {
	return &config.S3Config{Bucket: "bench", MaxFileSizeMB: 1, PresignExpiry: 600}
}

func TestImageService_Upload_Success(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	svc := service.NewImageService(storage, imageCfg())

	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return strings.HasPrefix(in.Key, "images/") && strings.HasSuffix(in.Key, ".png") &&
			in.ContentType == "image/png" && in.Size == int64(len(pngHeader))
	})).Return(&port.UploadOutput{}, nil)
	storage.On("PresignGet", mock.Anything, mock.AnythingOfType("string"), 600*time.Second).
		Return("https://bench.s3/presigned", nil)

	img, err := svc.Upload(context.Background(), service.ImageUploadInput{
		File:     bytes.NewReader(pngHeader),
		Filename: "scan.PNG",
		Size:     int64(len(pngHeader)),
	})

	require.NoError(t, err)
	assert.Equal(t, "https://bench.s3/presigned", img.URL)
	assert.Equal(t, "image/png", img.ContentType)
	assert.True(t, strings.HasSuffix(img.Name, ".png"))
	storage.AssertExpectations(t)
}

func TestImageService_Upload_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		body     []byte
		size     int64
		want     error
	}{
		{"extension", "notes.txt", []byte("hello"), 5, domain.ErrUnsupportedFileType},
		{"too large", "big.png", pngHeader, 2 * 1024 * 1024, domain.ErrFileTooLarge},
		{"content mismatch", "fake.png", []byte("plain text pretending"), 21, domain.ErrUnsupportedFileType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := new(mocks.MockObjectStorage)
			svc := service.NewImageService(storage, imageCfg())

			_, err := svc.Upload(context.Background(), service.ImageUploadInput{
				File:     bytes.NewReader(tt.body),
				Filename: tt.filename,
				Size:     tt.size,
			})

			assert.ErrorIs(t, err, tt.want)
			storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
		})
	}
}

func TestImageService_Upload_StorageFailure(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	svc := service.NewImageService(storage, imageCfg())
	storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("s3 down"))

	_, err := svc.Upload(context.Background(), service.ImageUploadInput{
		File:     bytes.NewReader(pngHeader),
		Filename: "scan.png",
		Size:     int64(len(pngHeader)),
	})

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
}

func TestImageService_Disabled(t *testing.T) {
	svc := service.NewImageService(nil, &config.S3Config{})

	_, err := svc.Upload(context.Background(), service.ImageUploadInput{Filename: "a.png"})
	assert.ErrorIs(t, err, domain.ErrStorageDisabled)
	_, err = svc.URL(context.Background(), "a.png")
	assert.ErrorIs(t, err, domain.ErrStorageDisabled)
	assert.ErrorIs(t, svc.Delete(context.Background(), "a.png"), domain.ErrStorageDisabled)
}

func TestImageService_RejectsPathNames(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	svc := service.NewImageService(storage, imageCfg())

	for _, name := range []string{"", "../secret", "a/b.png", ".hidden"} {
		_, err := svc.URL(context.Background(), name)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest, name)
	}

	storage.On("Delete", mock.Anything, "images/abc.png").Return(nil).Once()
	assert.NoError(t, svc.Delete(context.Background(), "abc.png"))
	storage.AssertExpectations(t)
}
