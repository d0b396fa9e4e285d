package s3_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocrbench/internal/config"
	"ocrbench/internal/port"
	s3store "ocrbench/internal/storage/s3"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

func fakeS3(t *testing.T) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var reqs []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		mu.Unlock()
		switch r.Method {
		case http.MethodPut:
			w.Header().Set("ETag", `"abc123"`)
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), reqs...)
	}
}

func newStore(t *testing.T, endpoint string) port.ObjectStorage {
	t.Helper()
	store, err := s3store.NewImageStore(context.Background(), &config.S3Config{
		Region:    "us-east-1",
		Bucket:    "bench",
		Endpoint:  endpoint,
		AccessKey: "test",
		SecretKey: "secret",
	})
	require.NoError(t, err)
	return store
}

func TestImageStore_PresignGet(t *testing.T) {
	store := newStore(t, "http://localhost:9000")

	url, err := store.PresignGet(context.Background(), "images/a.png", 10*time.Minute)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/bench/images/a.png?"), url)
	assert.Contains(t, url, "X-Amz-Expires=600")
	assert.Contains(t, url, "X-Amz-Signature=")
}

func TestImageStore_UploadAndDelete(t *testing.T) {
	srv, requests := fakeS3(t)
	store := newStore(t, srv.URL)
	ctx := context.Background()

	out, err := store.Upload(ctx, port.UploadInput{
		Key:         "images/a.png",
		Body:        bytes.NewReader([]byte("png-bytes")),
		ContentType: "image/png",
		Size:        9,
	})
	require.NoError(t, err)
	assert.Equal(t, "images/a.png", out.Key)
	assert.Equal(t, `"abc123"`, out.ETag)

	require.NoError(t, store.Delete(ctx, "images/a.png"))

	reqs := requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodPut, reqs[0].Method)
	assert.Equal(t, "/bench/images/a.png", reqs[0].Path)
	assert.Equal(t, http.MethodDelete, reqs[1].Method)
}
