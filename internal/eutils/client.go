// Package eutils provides a rate-limited client for the NCBI E-utilities API.
package eutils

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the NCBI E-utilities base URL.
	BaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

	// DefaultTimeout is the per-request deadline.
	DefaultTimeout = 30 * time.Second

	// PoliteInterval is the minimum spacing between requests. NCBI allows
	// 3 requests per second without an API key; 340ms keeps us under it.
	PoliteInterval = 340 * time.Millisecond

	// MaxRetries is the number of attempts per request.
	MaxRetries = 3

	// DefaultRetryDelay is the base backoff; attempt n waits n * base.
	DefaultRetryDelay = 400 * time.Millisecond

	// MaxBatchSize is the most IDs esummary/efetch accept per call.
	MaxBatchSize = 200

	// DefaultRetMax is the default result limit per search term.
	DefaultRetMax = 200

	// Database is the only Entrez database this client queries.
	Database = "pubmed"
)

// userAgent identifies this tool to NCBI for traffic attribution.
const userAgent = "sitegen/1.0 (lab website build tooling)"

// Client is a rate-limited HTTP client for the E-utilities endpoints.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
	email      string
	retryDelay time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the NCBI API key forwarded on every request.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithEmail sets the contact email forwarded on every request.
func WithEmail(email string) ClientOption {
	return func(c *Client) {
		c.email = email
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithRetryDelay sets the base retry backoff (for testing).
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// NewClient creates a new E-utilities client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Every(PoliteInterval), 1),
		baseURL:    BaseURL,
		retryDelay: DefaultRetryDelay,
	}

	// Check for credentials in environment
	if key := os.Getenv("NCBI_API_KEY"); key != "" {
		c.apiKey = key
	}
	if email := os.Getenv("NCBI_EMAIL"); email != "" {
		c.email = email
	}

	// Apply options
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get issues one paced, retried GET against an endpoint and returns the body.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	params.Set("db", Database)
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	if c.email != "" {
		params.Set("email", c.email)
	}
	fullURL := c.baseURL + "/" + endpoint + ".fcgi?" + params.Encode()

	var lastErr error
	for attempt := 1; attempt <= MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		body, err := c.doOnce(ctx, endpoint, fullURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if attempt < MaxRetries {
			if err := sleepCtx(ctx, time.Duration(attempt)*c.retryDelay); err != nil {
				return nil, err
			}
		}
	}

	return nil, fmt.Errorf("%w: GET %s failed after %d attempts: %v", ErrNetworkError, endpoint, MaxRetries, lastErr)
}

// doOnce performs a single HTTP attempt.
func (c *Client) doOnce(ctx context.Context, endpoint, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		// Drain so the connection can be reused across retries.
		io.Copy(io.Discard, resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}

// sleepCtx waits for d or until the context is canceled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Search runs an esearch query for one term and returns matching PMIDs in
// the requested sort order (most recent publication date first).
//
// The body is parsed as JSON first and falls back to the XML IdList shape,
// since both retmodes are in use across NCBI mirrors. A body that parses as
// neither is an ErrInvalidResponse; malformed responses are not retried.
func (c *Client) Search(ctx context.Context, term string, retmax int) ([]string, error) {
	if retmax <= 0 {
		retmax = DefaultRetMax
	}

	params := url.Values{}
	params.Set("term", term)
	params.Set("retmax", strconv.Itoa(retmax))
	params.Set("retmode", "json")
	params.Set("sort", "pub+date")

	body, err := c.get(ctx, "esearch", params)
	if err != nil {
		return nil, err
	}

	var result esearchResult
	if err := json.Unmarshal(body, &result); err == nil && result.Result.IDList != nil {
		return nonEmpty(result.Result.IDList), nil
	}

	var xmlResult esearchXMLResult
	if err := xml.Unmarshal(body, &xmlResult); err == nil {
		return nonEmpty(xmlResult.IDs), nil
	}

	return nil, fmt.Errorf("%w: esearch body for term %q", ErrInvalidResponse, term)
}

// SummaryBatch fetches compact esummary records for up to MaxBatchSize IDs,
// returned in the server's uid order.
func (c *Client) SummaryBatch(ctx context.Context, ids []string) ([]DocSummary, error) {
	ids = nonEmpty(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxBatchSize {
		return nil, fmt.Errorf("%w: %d IDs (max %d)", ErrBatchTooLarge, len(ids), MaxBatchSize)
	}

	params := url.Values{}
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "json")
	params.Set("version", "2.0")

	body, err := c.get(ctx, "esummary", params)
	if err != nil {
		return nil, err
	}

	var envelope esummaryEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: esummary body: %v", ErrInvalidResponse, err)
	}

	var uids []string
	if raw, ok := envelope.Result["uids"]; ok {
		if err := json.Unmarshal(raw, &uids); err != nil {
			return nil, fmt.Errorf("%w: esummary uid list: %v", ErrInvalidResponse, err)
		}
	}

	summaries := make([]DocSummary, 0, len(uids))
	for _, uid := range uids {
		raw, ok := envelope.Result[uid]
		if !ok {
			continue
		}
		var doc DocSummary
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue // Skip records with unexpected shapes, keep the rest
		}
		if doc.UID == "" {
			doc.UID = uid
		}
		summaries = append(summaries, doc)
	}

	return summaries, nil
}

// FetchBatch fetches verbose efetch XML records for up to MaxBatchSize IDs.
func (c *Client) FetchBatch(ctx context.Context, ids []string) ([]Article, error) {
	ids = nonEmpty(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxBatchSize {
		return nil, fmt.Errorf("%w: %d IDs (max %d)", ErrBatchTooLarge, len(ids), MaxBatchSize)
	}

	params := url.Values{}
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "xml")

	body, err := c.get(ctx, "efetch", params)
	if err != nil {
		return nil, err
	}

	var set articleSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("%w: efetch body: %v", ErrInvalidResponse, err)
	}

	return set.Articles, nil
}

// nonEmpty filters out blank IDs.
func nonEmpty(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) != "" {
			out = append(out, id)
		}
	}
	return out
}
