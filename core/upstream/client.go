package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cardcommand/core/reconcile"

	"golang.org/x/time/rate"
)

const maxErrorBody = 4 << 10

// Client talks to the CardCommand REST backend.
// It serves as both the catalog and the legacy source of the reconciler.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	token        string
	limiter      *rate.Limiter
	maxRetries   int
	retryBackoff time.Duration
}

var (
	_ reconcile.CatalogSource = (*Client)(nil)
	_ reconcile.LegacySource  = (*Client)(nil)
)

// NewClient creates a reusable backend client.
func NewClient(cfg Config) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 15
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		token:        cfg.Token,
		limiter:      rate.NewLimiter(limit, max(cfg.RatePerSecond, 1)),
		maxRetries:   retries,
		retryBackoff: 500 * time.Millisecond,
	}
}

// envelope is the response wrapper used by every backend endpoint.
type envelope[T any] struct {
	Success bool                `json:"success"`
	Data    T                   `json:"data"`
	Meta    *reconcile.PageMeta `json:"meta,omitempty"`
	Message string              `json:"message,omitempty"`
	Error   *APIError           `json:"error,omitempty"`
}

// ListSets returns one page of catalog sets, newest release first.
func (c *Client) ListSets(ctx context.Context, domain string, page, perPage int) (*reconcile.SetPage, error) {
	params := url.Values{}
	params.Set("sort", "release_date_desc")
	params.Set("page", fmt.Sprint(page))
	params.Set("perPage", fmt.Sprint(perPage))

	path := fmt.Sprintf("/tcg/%s/sets", url.PathEscape(domain))
	env, err := call[[]reconcile.Set](ctx, c, http.MethodGet, path, params)
	if err != nil {
		return nil, err
	}

	return &reconcile.SetPage{Sets: env.Data, Meta: env.Meta}, nil
}

// ListSetCards returns one page of cards for a set.
func (c *Client) ListSetCards(ctx context.Context, domain, setID string, page, perPage int) (*reconcile.CardPage, error) {
	params := url.Values{}
	params.Set("page", fmt.Sprint(page))
	params.Set("perPage", fmt.Sprint(perPage))

	path := fmt.Sprintf("/tcg/%s/sets/%s/cards", url.PathEscape(domain), url.PathEscape(setID))
	env, err := call[[]reconcile.Card](ctx, c, http.MethodGet, path, params)
	if err != nil {
		return nil, err
	}

	return &reconcile.CardPage{Cards: env.Data, Meta: env.Meta}, nil
}

// ListReleaseProducts queries the legacy release products endpoint.
func (c *Client) ListReleaseProducts(ctx context.Context, query reconcile.Query) ([]reconcile.ReleaseProduct, error) {
	env, err := call[[]reconcile.ReleaseProduct](ctx, c, http.MethodGet, "/releases/products", LegacyParams(query))
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// ReleaseChange is a detected change to a release product field.
type ReleaseChange struct {
	ID          string  `json:"id"`
	Field       string  `json:"field"`
	OldValue    *string `json:"oldValue"`
	NewValue    *string `json:"newValue"`
	DetectedAt  string  `json:"detectedAt"`
	SourceURL   *string `json:"sourceUrl,omitempty"`
	ProductName string  `json:"productName"`
	ProductID   string  `json:"productId"`
	SetName     string  `json:"setName"`
	Category    string  `json:"category"`
}

// ListReleaseChanges returns the backend's most recent release changes.
// A zero limit or empty since is left for the backend to default.
func (c *Client) ListReleaseChanges(ctx context.Context, limit int, since string) ([]ReleaseChange, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", fmt.Sprint(limit))
	}
	if since != "" {
		params.Set("since", since)
	}

	env, err := call[[]ReleaseChange](ctx, c, http.MethodGet, "/releases/changes", params)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// SyncResult reports how many releases the backend refreshed per category.
type SyncResult struct {
	Message string         `json:"message"`
	Counts  map[string]int `json:"counts"`
}

// TriggerReleaseSync asks the backend to refresh release data from its providers.
func (c *Client) TriggerReleaseSync(ctx context.Context) (*SyncResult, error) {
	env, err := call[map[string]int](ctx, c, http.MethodPost, "/admin/releases/sync", nil)
	if err != nil {
		return nil, err
	}
	return &SyncResult{Message: env.Message, Counts: env.Data}, nil
}

// LegacyParams serializes a query for /releases/products.
// Empty values are omitted and categories are comma-joined.
func LegacyParams(q reconcile.Query) url.Values {
	params := url.Values{}
	set := func(key, value string) {
		if value != "" {
			params.Set(key, value)
		}
	}

	set("fromDate", q.FromDate)
	set("toDate", q.ToDate)
	if len(q.Categories) > 0 {
		params.Set("categories", strings.Join(q.Categories, ","))
	}
	set("confidence", q.Confidence)
	set("confidenceBand", q.ConfidenceBand)
	set("status", q.Status)
	set("sourceType", q.SourceType)

	return params
}

// call performs a request and decodes the response envelope.
// A 2xx response with success=false is reported as an *Error.
func call[T any](ctx context.Context, c *Client, method, path string, params url.Values) (*envelope[T], error) {
	raw, status, err := c.do(ctx, method, path, params)
	if err != nil {
		return nil, err
	}

	var env envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to decode %s %s: %w", method, path, err)
	}

	if !env.Success {
		apiErr := &Error{Method: method, Path: path, StatusCode: status, Message: "request unsuccessful"}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return nil, apiErr
	}

	return &env, nil
}

// do performs a request with rate limiting and retries and returns the raw body
// of the first 2xx response. Retries back off exponentially from retryBackoff.
func (c *Client) do(ctx context.Context, method, path string, params url.Values) ([]byte, int, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			backoff := c.retryBackoff * time.Duration(1<<uint(i-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, err
		}

		raw, status, err := c.attempt(ctx, method, path, endpoint)
		if err == nil {
			return raw, status, nil
		}
		if c.maxRetries == 0 || !retryable(ctx, err) {
			return nil, 0, err
		}
		lastErr = err
	}

	return nil, 0, fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) attempt(ctx context.Context, method, path, endpoint string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Method: method, Path: path, StatusCode: resp.StatusCode}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var env envelope[json.RawMessage]
		if json.Unmarshal(body, &env) == nil {
			if env.Error != nil {
				apiErr.Code = env.Error.Code
				apiErr.Message = env.Error.Message
			} else {
				apiErr.Message = env.Message
			}
		}
		return nil, resp.StatusCode, apiErr
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return raw, resp.StatusCode, nil
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return true
}
