// Package content fetches the raw material of a round: a word and photos
// matching it.
package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mcoot/fourpics/internal/model"
)

// WordSource supplies candidate words
type WordSource interface {
	RandomWord(ctx context.Context) (string, error)
}

// PhotoSource supplies up to perPage photos matching a query. Returning fewer
// than asked for is not an error.
type PhotoSource interface {
	SearchPhotos(ctx context.Context, query string, perPage int) ([]model.Photo, error)
}

// Default upstream endpoints
const (
	DefaultWordAPIURL   = "https://random-word-api.vercel.app/api"
	DefaultPexelsAPIURL = "https://api.pexels.com/v1"
)

// HTTPConfig holds settings shared by the upstream API clients
type HTTPConfig struct {
	Timeout time.Duration
}

// DefaultHTTPConfig returns the default client settings
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{Timeout: 10 * time.Second}
}

func newHTTPClient(cfg HTTPConfig) *http.Client {
	return &http.Client{Timeout: cfg.Timeout}
}

// StatusError is a non-2xx upstream response
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d: %s", e.URL, e.StatusCode, e.Body)
}

// get performs a GET and returns the response if it succeeded with 2xx.
// The caller closes the body.
func get(ctx context.Context, client *http.Client, url string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return resp, nil
}
