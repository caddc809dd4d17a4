// Package openalex finds the most cited academic papers for a keyword
// through the OpenAlex API, optionally cross-checking citation counts with
// Semantic Scholar.
package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	edurag "github.com/Leenamgyo/EduRAG"
)

// DefaultBaseURL is the production OpenAlex works endpoint.
const DefaultBaseURL = "https://api.openalex.org/works"

// DefaultSemanticScholarURL is the Semantic Scholar paper search endpoint
// used for citation verification.
const DefaultSemanticScholarURL = "https://api.semanticscholar.org/graph/v1/paper/search"

// DefaultTimeout bounds both API requests.
const DefaultTimeout = 15 * time.Second

// Ensure Client implements edurag.PaperFinder at compile time.
var _ edurag.PaperFinder = (*Client)(nil)

// Client retrieves top cited papers from OpenAlex. When verification is
// enabled, citation counts from Semantic Scholar take precedence for
// papers whose titles match.
type Client struct {
	httpClient         *http.Client
	baseURL            string
	semanticScholarURL string

	// Verify controls the Semantic Scholar cross-check. Verification
	// failures degrade to the OpenAlex counts alone.
	Verify bool

	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the OpenAlex endpoint, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithSemanticScholarURL overrides the verification endpoint, mainly for
// tests.
func WithSemanticScholarURL(baseURL string) Option {
	return func(c *Client) {
		c.semanticScholarURL = baseURL
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithoutVerification disables the Semantic Scholar cross-check.
func WithoutVerification() Option {
	return func(c *Client) {
		c.Verify = false
	}
}

// NewClient creates a paper finder with verification enabled.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:         &http.Client{Timeout: DefaultTimeout},
		baseURL:            DefaultBaseURL,
		semanticScholarURL: DefaultSemanticScholarURL,
		Verify:             true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TopCited returns up to limit papers whose titles match the keyword,
// ordered by citation count.
func (c *Client) TopCited(ctx context.Context, keyword string, limit int) ([]edurag.Paper, error) {
	if limit <= 0 {
		return nil, edurag.Errorf(edurag.EINVALID, "Limit must be a positive integer.")
	}

	works, err := c.fetchWorks(ctx, keyword, limit)
	if err != nil {
		return nil, err
	}

	var verified map[string]int
	if c.Verify {
		verified, err = c.fetchCitations(ctx, keyword, limit)
		if err != nil {
			c.logger().Warn("citation verification failed", "keyword", keyword, "err", err)
			verified = nil
		}
	}

	papers := make([]edurag.Paper, 0, len(works))
	for _, work := range works {
		title := work.DisplayName
		if title == "" {
			title = "Untitled"
		}

		year := "-"
		if work.PublicationYear != nil {
			year = strconv.Itoa(*work.PublicationYear)
		}

		citations := "-"
		if count, ok := verified[normalizeTitle(title)]; ok {
			citations = strconv.Itoa(count)
		} else if work.CitedByCount != nil {
			citations = strconv.Itoa(*work.CitedByCount)
		}

		papers = append(papers, edurag.Paper{
			Title:     title,
			Year:      year,
			Citations: citations,
			DOIOrURL:  work.doiOrURL(),
		})
	}

	return papers, nil
}

// work is the subset of an OpenAlex work object the finder reads.
type work struct {
	ID              string `json:"id"`
	DisplayName     string `json:"display_name"`
	PublicationYear *int   `json:"publication_year"`
	CitedByCount    *int   `json:"cited_by_count"`
	DOI             string `json:"doi"`
	PrimaryLocation *struct {
		LandingPageURL string `json:"landing_page_url"`
		PDFURL         string `json:"pdf_url"`
	} `json:"primary_location"`
}

// doiOrURL picks the best available link: DOI first, then the landing
// page or PDF, then the canonical OpenAlex identifier.
func (w *work) doiOrURL() string {
	if doi := strings.TrimSpace(w.DOI); doi != "" {
		if strings.HasPrefix(doi, "http://") || strings.HasPrefix(doi, "https://") {
			return doi
		}
		return "https://doi.org/" + doi
	}
	if w.PrimaryLocation != nil {
		if w.PrimaryLocation.LandingPageURL != "" {
			return w.PrimaryLocation.LandingPageURL
		}
		if w.PrimaryLocation.PDFURL != "" {
			return w.PrimaryLocation.PDFURL
		}
	}
	return w.ID
}

func (c *Client) fetchWorks(ctx context.Context, keyword string, limit int) ([]work, error) {
	params := url.Values{}
	params.Set("filter", "title.search:"+keyword)
	params.Set("sort", "cited_by_count:desc")
	params.Set("per_page", strconv.Itoa(limit))

	var payload struct {
		Results []work `json:"results"`
	}
	if err := c.getJSON(ctx, c.baseURL+"?"+params.Encode(), &payload); err != nil {
		return nil, fmt.Errorf("openalex request failed: %w", err)
	}
	return payload.Results, nil
}

// fetchCitations returns normalized titles mapped to Semantic Scholar
// citation counts.
func (c *Client) fetchCitations(ctx context.Context, keyword string, limit int) (map[string]int, error) {
	params := url.Values{}
	params.Set("query", keyword)
	params.Set("fields", "title,year,citationCount")
	params.Set("limit", strconv.Itoa(limit))

	var payload struct {
		Data []struct {
			Title         string `json:"title"`
			CitationCount *int   `json:"citationCount"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, c.semanticScholarURL+"?"+params.Encode(), &payload); err != nil {
		return nil, err
	}

	citations := make(map[string]int, len(payload.Data))
	for _, item := range payload.Data {
		if item.Title == "" || item.CitationCount == nil {
			continue
		}
		citations[normalizeTitle(item.Title)] = *item.CitationCount
	}
	return citations, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func normalizeTitle(title string) string {
	return strings.ToLower(edurag.NormalizeText(title))
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
