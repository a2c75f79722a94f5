// Package fetch retrieves raw file contents from upstream repositories at a
// pinned commit. Fetches are synchronous and fail-fast: there are no retries
// and no partial results.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client fetches raw repository content over HTTPS.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient returns a fetcher for the given raw-content host, e.g.
// "raw.githubusercontent.com".
func NewClient(host string) *Client {
	return &Client{
		baseURL: "https://" + host,
		client:  http.DefaultClient,
	}
}

// RawURL builds the content URL for a file at a pinned ref:
// https://<host>/<name>/<ref>/<path>, with each path segment percent-encoded.
func (c *Client) RawURL(name, ref, path string) string {
	segments := strings.Split(path, "/")
	escaped := make([]string, len(segments))
	for i, segment := range segments {
		escaped[i] = url.PathEscape(segment)
	}

	return fmt.Sprintf("%s/%s/%s/%s", c.baseURL, name, ref, strings.Join(escaped, "/"))
}

// Fetch returns the raw bytes of a repository file at a pinned ref. Any
// non-success status is an error carrying the exact URL.
func (c *Client) Fetch(ctx context.Context, name, ref, path string) ([]byte, error) {
	rawURL := c.RawURL(name, ref, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch %s: %s", rawURL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rawURL, err)
	}

	return body, nil
}
