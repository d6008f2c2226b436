package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"shopbot/internal/config"
)

// APIError is returned for any non-2xx admin API response. It carries the
// HTTP status and the raw response body for the outer handler boundary.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopify: status %d: %s", e.Status, e.Body)
}

// Client is a thin Shopify admin REST client. All operations share the same
// base path, access-token header and JSON conventions.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the configured shop
func NewClient(cfg config.ShopifyConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: fmt.Sprintf("https://%s/admin/api/%s", cfg.Domain, cfg.APIVersion),
		token:   cfg.AccessToken,
		http:    &http.Client{Timeout: timeout},
	}
}

// SetBaseURL overrides the API base URL. Only call this from tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// Do performs one admin API call. path is relative to the versioned base
// path, e.g. "products.json?title=Shirt&limit=5". A non-nil out receives the
// decoded JSON response. Any non-2xx status returns an *APIError.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("shopify: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, reader)
	if err != nil {
		return fmt.Errorf("shopify: create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("shopify: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("shopify: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("shopify: decode response: %w", err)
		}
	}
	return nil
}

// Get issues a GET request
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Put issues a PUT request
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Post issues a POST request
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}
