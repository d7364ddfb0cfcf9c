package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// API is the subset of the order service this subsystem talks to. The
// coordinator depends on this interface so tests can inject fakes.
type API interface {
	GetOrder(ctx context.Context, orderID string) (*Order, error)
	UpdateOrder(ctx context.Context, orderID string, req UpdateOrderRequest) (*Order, error)
}

// RemoteError carries the order service's human-readable rejection message.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("order service returned %d: %s", e.StatusCode, e.Message)
}

// Client is an HTTP client for the order service.
//
// Timeouts are owned by the injected http.Client; this subsystem does not
// impose its own deadline on top.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client rooted at baseURL (e.g. "https://orders.internal").
// If httpClient is nil, http.DefaultClient is used.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// GetOrder fetches an order by id. Returns (nil, nil) when the order service
// reports 404.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	url := fmt.Sprintf("%s/orders/%s", c.baseURL, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, remoteErrorFrom(resp)
	}

	var o Order
	if err := json.NewDecoder(resp.Body).Decode(&o); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	return &o, nil
}

// UpdateOrder submits the finalization update and returns the updated record.
func (c *Client) UpdateOrder(ctx context.Context, orderID string, upd UpdateOrderRequest) (*Order, error) {
	body, err := json.Marshal(upd)
	if err != nil {
		return nil, fmt.Errorf("marshal update: %w", err)
	}

	url := fmt.Sprintf("%s/orders/%s", c.baseURL, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, remoteErrorFrom(resp)
	}

	var o Order
	if err := json.NewDecoder(resp.Body).Decode(&o); err != nil {
		return nil, fmt.Errorf("decode updated order: %w", err)
	}
	return &o, nil
}

// remoteErrorFrom builds a *RemoteError from a non-2xx response, preferring
// the service's own error message when the body carries one.
func remoteErrorFrom(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var er errorResponse
	msg := ""
	if err := json.Unmarshal(raw, &er); err == nil {
		if er.Message != "" {
			msg = er.Message
		} else {
			msg = er.Error
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &RemoteError{StatusCode: resp.StatusCode, Message: msg}
}
