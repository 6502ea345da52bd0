package content

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mcoot/fourpics/internal/model"
)

// PlaceholderPhotoSource returns deterministic stock image URLs for a query,
// for playing offline or without a Pexels key
type PlaceholderPhotoSource struct {
	BaseURL string
}

// NewPlaceholderPhotoSource creates a source backed by picsum.photos
func NewPlaceholderPhotoSource() *PlaceholderPhotoSource {
	return &PlaceholderPhotoSource{BaseURL: "https://picsum.photos/seed"}
}

func (p *PlaceholderPhotoSource) SearchPhotos(ctx context.Context, query string, perPage int) ([]model.Photo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	photos := make([]model.Photo, 0, max(perPage, 0))
	for i := range perPage {
		seed := url.PathEscape(fmt.Sprintf("%s-%d", query, i+1))
		photos = append(photos, model.Photo{
			ID:  int64(i + 1),
			URL: fmt.Sprintf("%s/%s/350/350", p.BaseURL, seed),
			Alt: query,
		})
	}
	return photos, nil
}

var _ PhotoSource = (*PlaceholderPhotoSource)(nil)
