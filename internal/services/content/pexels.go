package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/mcoot/fourpics/internal/model"
)

// ErrMissingAPIKey is returned when a Pexels client is built without a key
var ErrMissingAPIKey = errors.New("pexels API key is required")

// PexelsClient searches photos on Pexels
type PexelsClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

// NewPexelsClient creates a client against baseURL, or the public API if empty
func NewPexelsClient(baseURL, apiKey string, cfg HTTPConfig, logger *slog.Logger) (*PexelsClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if baseURL == "" {
		baseURL = DefaultPexelsAPIURL
	}
	return &PexelsClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  newHTTPClient(cfg),
		logger:  logger,
	}, nil
}

type pexelsPhoto struct {
	ID           int64  `json:"id"`
	Alt          string `json:"alt"`
	Photographer string `json:"photographer"`
	Src          struct {
		Medium string `json:"medium"`
	} `json:"src"`
}

type pexelsSearchResponse struct {
	Photos []pexelsPhoto `json:"photos"`
}

// SearchPhotos returns the first page of results for query
func (c *PexelsClient) SearchPhotos(ctx context.Context, query string, perPage int) ([]model.Photo, error) {
	params := url.Values{
		"query":    {query},
		"per_page": {strconv.Itoa(perPage)},
		"page":     {"1"},
	}
	u := c.baseURL + "/search?" + params.Encode()

	resp, err := get(ctx, c.client, u, http.Header{"Authorization": {c.apiKey}})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body pexelsSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	photos := lo.FilterMap(body.Photos, func(p pexelsPhoto, _ int) (model.Photo, bool) {
		return model.Photo{
			ID:           p.ID,
			URL:          p.Src.Medium,
			Alt:          p.Alt,
			Photographer: p.Photographer,
		}, p.Src.Medium != ""
	})

	c.logger.Debug("searched photos",
		slog.String("query", query),
		slog.Int("results", len(photos)),
	)
	return photos, nil
}

var _ PhotoSource = (*PexelsClient)(nil)
