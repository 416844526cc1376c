// Package facts fetches a "fun fact" from an external service to decorate
// the home page. The fetch is best effort: any failure falls back to a
// fixed placeholder and never fails the surrounding request.
package facts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Fallback is shown when the external service is unreachable or misbehaves.
const Fallback = "Did you know? The first computer bug was an actual moth."

const defaultTimeout = 3 * time.Second

// Client fetches random facts over HTTP.
type Client struct {
	http *http.Client
	url  string
}

// NewClient returns a Client for the given endpoint. The endpoint is
// expected to answer GET with a JSON body containing a "text" field.
func NewClient(url string) *Client {
	return &Client{
		http: &http.Client{Timeout: defaultTimeout},
		url:  url,
	}
}

// Random returns a fact, or Fallback if the fetch fails in any way.
func (c *Client) Random(ctx context.Context) string {
	fact, err := c.fetch(ctx)
	if err != nil {
		log.Warn().Err(err).Str("url", c.url).Msg("fact fetch failed, using fallback")
		return Fallback
	}
	return fact
}

func (c *Client) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fact service returned %d", resp.StatusCode)
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.Text == "" {
		return "", fmt.Errorf("fact service returned empty text")
	}
	return body.Text, nil
}
