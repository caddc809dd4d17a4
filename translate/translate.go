// Package translate provides a Translator backed by the public Google
// Translate web endpoint.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	edurag "github.com/Leenamgyo/EduRAG"
)

// DefaultBaseURL is the unauthenticated translate endpoint.
const DefaultBaseURL = "https://translate.googleapis.com/translate_a/single"

// DefaultTimeout bounds translation requests. Translation is a best-effort
// step, so the budget is short.
const DefaultTimeout = 10 * time.Second

// Ensure Client implements edurag.Translator at compile time.
var _ edurag.Translator = (*Client)(nil)

// Client translates text through the Google Translate web endpoint with
// automatic source-language detection.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the endpoint, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// NewClient creates a translate client.
func NewClient(opts ...Option) *Client {
	c := &Client{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return c
}

// Translate returns text translated into the target language. An empty
// target defaults to English.
func (c *Client) Translate(ctx context.Context, text, target string) (string, error) {
	if target == "" {
		target = "en"
	}

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", target)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from translate endpoint", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return parseTranslation(body)
}

// parseTranslation extracts the translated text from the endpoint's nested
// array payload: the first element holds segments whose first field is the
// translated run.
func parseTranslation(body []byte) (string, error) {
	var payload []any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode translate response: %w", err)
	}
	if len(payload) == 0 {
		return "", edurag.Errorf(edurag.EINTERNAL, "empty translate response")
	}

	segments, ok := payload[0].([]any)
	if !ok {
		return "", edurag.Errorf(edurag.EINTERNAL, "unexpected translate response shape")
	}

	var sb strings.Builder
	for _, segment := range segments {
		parts, ok := segment.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if run, ok := parts[0].(string); ok {
			sb.WriteString(run)
		}
	}
	return sb.String(), nil
}
