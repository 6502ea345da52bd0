package content

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// RandomWordClient fetches words from random-word-api
type RandomWordClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewRandomWordClient creates a client against baseURL, or the public API if empty
func NewRandomWordClient(baseURL string, cfg HTTPConfig, logger *slog.Logger) *RandomWordClient {
	if baseURL == "" {
		baseURL = DefaultWordAPIURL
	}
	return &RandomWordClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(cfg),
		logger:  logger,
	}
}

// RandomWord returns one word. The upstream must answer with a JSON array
// holding exactly one string.
func (c *RandomWordClient) RandomWord(ctx context.Context) (string, error) {
	u := c.baseURL + "?" + url.Values{"words": {"1"}}.Encode()

	resp, err := get(ctx, c.client, u, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var words []string
	if err := json.NewDecoder(resp.Body).Decode(&words); err != nil {
		return "", fmt.Errorf("decoding word list: %w", err)
	}
	if len(words) != 1 {
		return "", fmt.Errorf("expected 1 word, got %d", len(words))
	}

	c.logger.Debug("fetched random word", slog.String("word", words[0]))
	return words[0], nil
}

var _ WordSource = (*RandomWordClient)(nil)
