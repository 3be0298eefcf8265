// Package provider talks to the transaction indexing provider that parses
// raw Solana transactions into the semantic form the classifier consumes.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"solana-whale-watch/internal/domain"
)

// Default configuration values.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1 * time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultBackoffMult = 2.0
	DefaultPageLimit   = 50
)

// Client is an HTTP client for the provider's parsed-transaction API.
type Client struct {
	endpoint    string
	apiKey      string
	client      *http.Client
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key sent on every request.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithMaxDelay sets maximum retry delay.
func WithMaxDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.maxDelay = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient creates a provider API client.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:    endpoint,
		client:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiResponse is the provider's response envelope.
type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// get performs a GET with retries and exponential backoff. Rate limiting
// (429) and server errors are retried; client errors are not.
func (c *Client) get(ctx context.Context, path string, query url.Values, result interface{}) error {
	u := c.endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("x-api-key", c.apiKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limited (429)")
			continue
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			lastErr = fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
			continue
		}
		if resp.StatusCode != http.StatusOK {
			// Client errors are not retried.
			return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
		}

		var envelope apiResponse
		if err := json.Unmarshal(body, &envelope); err != nil {
			lastErr = fmt.Errorf("unmarshal envelope: %w", err)
			continue
		}
		if !envelope.Success {
			return fmt.Errorf("provider error: %s", envelope.Message)
		}

		if result != nil && envelope.Result != nil {
			if err := json.Unmarshal(envelope.Result, result); err != nil {
				return fmt.Errorf("unmarshal result: %w", err)
			}
		}
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// GetTransaction fetches one parsed transaction by signature. Returns
// (nil, nil) when the provider does not know the signature.
func (c *Client) GetTransaction(ctx context.Context, signature string) (*domain.RawTransaction, error) {
	if signature == "" {
		return nil, fmt.Errorf("empty signature")
	}

	query := url.Values{}
	query.Set("txn_signature", signature)

	var tx domain.RawTransaction
	if err := c.get(ctx, "/transaction/parsed", query, &tx); err != nil {
		return nil, fmt.Errorf("get transaction %s: %w", signature, err)
	}
	if tx.Signature == "" {
		return nil, nil
	}
	return &tx, nil
}

// HistoryOpts paginates wallet transaction history.
type HistoryOpts struct {
	Before string // fetch transactions older than this signature
	Limit  int    // page size, DefaultPageLimit when zero
}

// GetWalletTransactions fetches the parsed transaction history of a
// wallet, newest first.
func (c *Client) GetWalletTransactions(ctx context.Context, wallet string, opts HistoryOpts) ([]*domain.RawTransaction, error) {
	if wallet == "" {
		return nil, fmt.Errorf("empty wallet")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}

	query := url.Values{}
	query.Set("account", wallet)
	query.Set("limit", strconv.Itoa(limit))
	if opts.Before != "" {
		query.Set("before_tx_signature", opts.Before)
	}

	var txs []*domain.RawTransaction
	if err := c.get(ctx, "/transaction/history", query, &txs); err != nil {
		return nil, fmt.Errorf("get wallet transactions %s: %w", wallet, err)
	}
	return txs, nil
}
