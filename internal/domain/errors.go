package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrTestAreaNotFound    = errors.New("test area not found")
	ErrVersionNotFound     = errors.New("version not found")
	ErrCorruptTestArea     = errors.New("stored test area could not be decoded")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrNoModels            = errors.New("at least one model is required")
	ErrMissingImage        = errors.New("image url is required")
	ErrInvalidBatchSize    = errors.New("batch size out of range")
	ErrUnknownModel        = errors.New("unknown model")
	ErrProviderUnavailable = errors.New("provider is not configured")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrStorageDisabled     = errors.New("image storage is not configured")
	ErrUnsupportedFormat   = errors.New("unsupported export format")
)
