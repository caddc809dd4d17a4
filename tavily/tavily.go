// Package tavily provides Tavily-backed implementations of web search and
// page content extraction.
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	edurag "github.com/Leenamgyo/EduRAG"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production Tavily API endpoint.
const DefaultBaseURL = "https://api.tavily.com"

// DefaultTimeout is the default timeout for search requests.
const DefaultTimeout = 30 * time.Second

// DefaultExtractTimeout bounds the long-running extract endpoint.
const DefaultExtractTimeout = 90 * time.Second

// DefaultRequestsPerSecond caps outbound API calls.
const DefaultRequestsPerSecond = 4.0

// Ensure Client implements the provider interfaces at compile time.
var (
	_ edurag.Searcher  = (*Client)(nil)
	_ edurag.Extractor = (*Client)(nil)
)

// Client calls the Tavily REST API.
type Client struct {
	apiKey         string
	baseURL        string
	httpClient     *http.Client
	limiter        *rate.Limiter
	extractTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithRequestsPerSecond sets the outbound rate limit. Zero or less
// disables rate limiting.
func WithRequestsPerSecond(rps float64) Option {
	return func(c *Client) {
		limit := rate.Limit(rps)
		if rps <= 0 {
			limit = rate.Inf
		}
		c.limiter = rate.NewLimiter(limit, 1)
	}
}

// WithExtractTimeout sets the timeout for extract requests.
func WithExtractTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.extractTimeout = d
	}
}

// NewClient creates a Tavily API client.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, edurag.Errorf(edurag.EINVALID, "Tavily API key is required.")
	}

	c := &Client{
		apiKey:         apiKey,
		baseURL:        DefaultBaseURL,
		limiter:        rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1),
		extractTimeout: DefaultExtractTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	return c, nil
}

type searchRequest struct {
	Query          string   `json:"query"`
	Language       string   `json:"language,omitempty"`
	IncludeDomains []string `json:"include_domains,omitempty"`
	SearchDepth    string   `json:"search_depth,omitempty"`
	MaxResults     int      `json:"max_results,omitempty"`
	IncludeAnswer  string   `json:"include_answer,omitempty"`
	AutoParameters bool     `json:"auto_parameters,omitempty"`
}

type searchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
	Snippet string `json:"snippet"`
}

// Search runs a web search through the /search endpoint. Provider extras
// beyond the result list are preserved in the response metadata.
func (c *Client) Search(ctx context.Context, query string, opts edurag.SearchOptions) (*edurag.SearchResponse, error) {
	payload, err := c.post(ctx, "/search", searchRequest{
		Query:          query,
		Language:       opts.Language,
		IncludeDomains: opts.IncludeDomains,
		SearchDepth:    opts.SearchDepth,
		MaxResults:     opts.MaxResults,
		IncludeAnswer:  opts.IncludeAnswer,
		AutoParameters: opts.AutoParameters,
	})
	if err != nil {
		return nil, err
	}

	var decoded struct {
		Results []searchResult `json:"results"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	metadata := make(map[string]any)
	if err := json.Unmarshal(payload, &metadata); err != nil {
		return nil, fmt.Errorf("decode search metadata: %w", err)
	}
	delete(metadata, "results")

	resp := &edurag.SearchResponse{Metadata: metadata}
	for _, item := range decoded.Results {
		content := item.Content
		if content == "" {
			content = item.Snippet
		}
		resp.Results = append(resp.Results, edurag.SearchResult{
			Title:   item.Title,
			URL:     item.URL,
			Content: content,
		})
	}
	return resp, nil
}

type extractRequest struct {
	URLs         []string `json:"urls"`
	ExtractDepth string   `json:"extract_depth"`
	Format       string   `json:"format"`
}

// Extract retrieves page content for the given URLs through the /extract
// endpoint.
func (c *Client) Extract(ctx context.Context, urls []string) (*edurag.ExtractResponse, error) {
	if len(urls) == 0 {
		return &edurag.ExtractResponse{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.extractTimeout)
	defer cancel()

	payload, err := c.post(ctx, "/extract", extractRequest{
		URLs:         urls,
		ExtractDepth: "advanced",
		Format:       "markdown",
	})
	if err != nil {
		return nil, err
	}

	var decoded struct {
		Results []struct {
			URL     string `json:"url"`
			Title   string `json:"title"`
			Content string `json:"content"`
		} `json:"results"`
		FailedResults []struct {
			URL   string `json:"url"`
			Error string `json:"error"`
		} `json:"failed_results"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("decode extract response: %w", err)
	}

	resp := &edurag.ExtractResponse{}
	for _, item := range decoded.Results {
		resp.Results = append(resp.Results, edurag.ExtractedPage{
			URL:     item.URL,
			Title:   item.Title,
			Content: item.Content,
		})
	}
	for _, failed := range decoded.FailedResults {
		resp.Failures = append(resp.Failures, edurag.ExtractFailure{
			URL:    failed.URL,
			Reason: failed.Error,
		})
	}
	return resp, nil
}

// post sends an authenticated JSON request and returns the response body.
func (c *Client) post(ctx context.Context, path string, body any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(payload))
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return nil, fmt.Errorf("HTTP %d for %s: %s", resp.StatusCode, path, msg)
	}

	return payload, nil
}
