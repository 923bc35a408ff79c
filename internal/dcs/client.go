// Package dcs is a client for DCS/Gitea-style content servers hosting
// scripture repositories. It lists repository branches and downloads raw
// documents (source books and existing TWL datasets); everything the core
// consumes from it is already-decoded UTF-8 text.
package dcs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/scripturetools/twlforge/internal/logging"
)

// DefaultBaseURL is the production Door43 content service.
const DefaultBaseURL = "https://git.door43.org"

// Branch is one named branch of a repository.
type Branch struct {
	Name string `json:"name"`
}

// HTTPError represents an HTTP error response.
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: %s", e.Status)
}

// IsNotFound returns true if this is a 404 error.
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Client provides HTTP access to a DCS content server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a client for the given server. An empty baseURL selects
// the production Door43 service.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		userAgent: "twlforge/1.0",
	}
}

// Branches lists the named branches of a repository.
func (c *Client) Branches(ctx context.Context, owner, repo string) ([]Branch, error) {
	url := fmt.Sprintf("%s/api/v1/repos/%s/%s/branches", c.baseURL, owner, repo)
	data, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var branches []Branch
	if err := json.Unmarshal(data, &branches); err != nil {
		return nil, fmt.Errorf("decoding branch list: %w", err)
	}
	return branches, nil
}

// RawDocument downloads one file from a branch of a repository and returns
// its content as text.
func (c *Client) RawDocument(ctx context.Context, owner, repo, branch, path string) (string, error) {
	url := fmt.Sprintf("%s/%s/%s/raw/branch/%s/%s", c.baseURL, owner, repo, branch, strings.TrimPrefix(path, "/"))
	data, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// RawDocuments downloads several files from the same branch concurrently.
// The result slice is ordered the same way as paths. Any single failure
// cancels the remaining fetches.
func (c *Client) RawDocuments(ctx context.Context, owner, repo, branch string, paths []string) ([]string, error) {
	docs := make([]string, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			doc, err := c.RawDocument(ctx, owner, repo, branch, path)
			if err != nil {
				return fmt.Errorf("fetching %s: %w", path, err)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// get fetches a URL and returns the response body.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	logging.Fetch(url, resp.StatusCode, len(data), time.Since(start))
	return data, nil
}
