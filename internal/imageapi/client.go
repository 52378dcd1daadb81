// Package imageapi fetches stock cat pictures from a thecatapi.com style
// endpoint: GET with an x-api-key header, answering a JSON array of
// {"id", "url"} objects.
package imageapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultURL     = "https://api.thecatapi.com/v1/images/search"
	DefaultTimeout = 10 * time.Second
)

type image struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// HTTPError is returned for non-2xx answers.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("imageapi: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("imageapi: status=%d body=%s", e.StatusCode, e.Body)
}

type Client struct {
	HTTP   *http.Client
	URL    string
	APIKey string
}

func New(url, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if strings.TrimSpace(url) == "" {
		url = DefaultURL
	}
	return &Client{
		HTTP:   &http.Client{Timeout: timeout},
		URL:    url,
		APIKey: apiKey,
	}
}

// Fetch returns the url of the first image in the answer, or "" when the
// answer is an empty list.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return "", fmt.Errorf("imageapi: new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("x-api-key", c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("imageapi: do request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var images []image
	if err := json.Unmarshal(raw, &images); err != nil {
		return "", fmt.Errorf("imageapi: decode: %w", err)
	}
	if len(images) == 0 {
		return "", nil
	}
	return images[0].URL, nil
}

// ImageURL is Fetch with errors logged and swallowed.
func (c *Client) ImageURL(ctx context.Context) string {
	u, err := c.Fetch(ctx)
	if err != nil {
		log.Error().Err(err).Msg("fetch cat image")
		return ""
	}
	return u
}
