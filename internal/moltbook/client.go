package moltbook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const DefaultBaseURL = "https://www.moltbook.com/api/v1"

const userAgent = "moltscope/0.1"

// APIError is returned for any non-2xx upstream response. The call is a hard
// failure for the current job tick; nothing retries within the tick.
type APIError struct {
	Status int
	Path   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("moltbook: GET %s returned status %d", e.Path, e.Status)
}

// Client is a read-only client for the Moltbook public API. Every request
// carries the bearer token and is bounded by the client timeout.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("moltbook: build request for %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("moltbook: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Path: path}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("moltbook: decode %s response: %w", path, err)
	}
	return nil
}

// GetPosts fetches posts. sort is one of "hot", "new", "top", "rising";
// submolt optionally filters to a single community.
func (c *Client) GetPosts(ctx context.Context, sort string, limit int, submolt string) ([]Post, error) {
	params := url.Values{}
	params.Set("sort", sort)
	params.Set("limit", strconv.Itoa(limit))
	if submolt != "" {
		params.Set("submolt", submolt)
	}

	var resp postsResponse
	if err := c.get(ctx, "/posts", params, &resp); err != nil {
		return nil, err
	}
	return resp.Posts, nil
}

// GetPost fetches a single post by ID, including its nested comment tree.
func (c *Client) GetPost(ctx context.Context, id string) (*PostDetail, error) {
	var detail PostDetail
	if err := c.get(ctx, "/posts/"+url.PathEscape(id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// GetSubmolts lists all submolts.
func (c *Client) GetSubmolts(ctx context.Context) ([]Submolt, error) {
	var resp submoltsResponse
	if err := c.get(ctx, "/submolts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Submolts, nil
}

// GetSubmolt fetches a single submolt by name.
func (c *Client) GetSubmolt(ctx context.Context, name string) (*Submolt, error) {
	var resp submoltResponse
	if err := c.get(ctx, "/submolts/"+url.PathEscape(name), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Submolt, nil
}

// GetAgentProfile fetches the public profile of an agent by name.
func (c *Client) GetAgentProfile(ctx context.Context, name string) (*AgentProfile, error) {
	params := url.Values{}
	params.Set("name", name)

	var profile AgentProfile
	if err := c.get(ctx, "/agents/profile", params, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
