// Package bucket implements storage.Storage against a hosted object storage
// service exposing a Supabase-compatible REST API. Objects live in a single
// public bucket; the service never proxies downloads, it only hands out the
// public URL.
package bucket

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/menstyle/storefront/internal/storage"
	apperrors "github.com/menstyle/storefront/pkg/errors"
	"github.com/menstyle/storefront/pkg/httpclient"
)

// Storage implements storage.Storage over the hosted bucket REST API.
type Storage struct {
	client   *httpclient.CircuitBreakerClient
	endpoint string
	bucket   string
	apiKey   string
}

// New creates a bucket storage client. endpoint is the storage API base URL
// without a trailing slash, bucket the bucket name, apiKey the service key
// sent as a bearer token.
func New(client *httpclient.CircuitBreakerClient, endpoint, bucket, apiKey string) *Storage {
	return &Storage{
		client:   client,
		endpoint: endpoint,
		bucket:   bucket,
		apiKey:   apiKey,
	}
}

// Upload stores an object under the given key and returns its public URL.
// An existing object under the same key is rejected by the hosted service;
// keys are timestamp-derived so collisions do not happen in practice.
func (s *Storage) Upload(ctx context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	url := fmt.Sprintf("%s/object/%s/%s", s.endpoint, s.bucket, input.Key)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, input.Data)
	if err != nil {
		return nil, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", input.ContentType)

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("upload object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("upload object: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	publicURL, err := s.GetURL(ctx, input.Key)
	if err != nil {
		return nil, err
	}

	return &storage.UploadResult{
		Key: input.Key,
		URL: publicURL,
	}, nil
}

// Delete removes an object by key.
func (s *Storage) Delete(ctx context.Context, key string) error {
	url := fmt.Sprintf("%s/object/%s/%s", s.endpoint, s.bucket, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("create delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return apperrors.NotFound("object", key)
	default:
		return fmt.Errorf("delete object: unexpected status %d", resp.StatusCode)
	}
}

// GetURL returns the public URL for a key. The bucket is public, so the URL
// is derived without a round trip.
func (s *Storage) GetURL(_ context.Context, key string) (string, error) {
	return fmt.Sprintf("%s/object/public/%s/%s", s.endpoint, s.bucket, key), nil
}
