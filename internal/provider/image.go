package provider

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

const (
	defaultImageMime = "image/jpeg"
	maxImageBytes    = 20 << 20
)

// Image is an inlined image ready for a provider request body.
type Image struct {
	MimeType string
	Data     string // base64, standard encoding
}

// IsDataURL reports whether s is a data: URL.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// ParseDataURL splits a base64 data URL into its media type and payload.
func ParseDataURL(s string) (*Image, error) {
	if !IsDataURL(s) {
		return nil, errors.New("not a data URL")
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return nil, errors.New("malformed data URL: missing payload")
	}
	mediaType, params, _ := strings.Cut(header, ";")
	if !strings.Contains(params, "base64") {
		return nil, errors.New("data URL is not base64 encoded")
	}
	if mediaType == "" {
		mediaType = defaultImageMime
	}
	return &Image{MimeType: mediaType, Data: payload}, nil
}

// LoadImage returns imageURL as an inlined image, decoding a data URL or
// downloading an http(s) URL with client.
func LoadImage(ctx context.Context, client *http.Client, imageURL string) (*Image, error) {
	if IsDataURL(imageURL) {
		return ParseDataURL(imageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch image from URL: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("failed to fetch image from URL: image exceeds %d bytes", maxImageBytes)
	}

	return &Image{
		MimeType: imageMimeType(resp.Header.Get("Content-Type"), data),
		Data:     base64.StdEncoding.EncodeToString(data),
	}, nil
}

func imageMimeType(contentType string, data []byte) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil && strings.HasPrefix(mt, "image/") {
		return mt
	}
	if sniffed := http.DetectContentType(data); strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	return defaultImageMime
}
