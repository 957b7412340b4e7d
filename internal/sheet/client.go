package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Service defines the sheet API surface consumed by the sync and edit
// layers. *Client implements it; tests substitute fakes.
type Service interface {
	FetchAll(ctx context.Context) ([]Number, error)
	UpdateStatus(ctx context.Context, key Key, status Status) error
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client talks to the sheet service HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultSheetBind = "127.0.0.1:8090"
	defaultUserAgent = "numdeck/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client from the configured sheet URL or host:port.
func NewClient(sheetURL string) (*Client, error) {
	base, err := parseBaseURL(sheetURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

type numbersResponse struct {
	Numbers []Number `json:"numbers"`
}

// FetchAll retrieves the full current snapshot of the sheet. No pagination
// or delta protocol exists; each call returns every row.
func (c *Client) FetchAll(ctx context.Context) ([]Number, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload numbersResponse
	if err := c.do(ctx, http.MethodGet, "/api/numbers", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Numbers, nil
}

type statusUpdate struct {
	MSISDN     string `json:"msisdn"`
	AssignDate string `json:"assignDate"`
	Status     Status `json:"status"`
}

// UpdateStatus sets a row's reservation state. The row is addressed by its
// composite key; the service rejects keys that no longer match a row.
func (c *Client) UpdateStatus(ctx context.Context, key Key, status Status) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	body := statusUpdate{
		MSISDN:     key.MSISDN,
		AssignDate: key.AssignDate,
		Status:     status,
	}
	return c.do(ctx, http.MethodPost, "/api/numbers/status", body, nil)
}

// APIError describes a non-2xx response from the sheet service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("sheet api returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("sheet api returned status %d", e.StatusCode)
}

// Validation reports whether the service rejected the request itself, as
// opposed to failing while handling it. Rejections are not retried; the
// row usually changed remotely and the next refresh resolves the mismatch.
func (e *APIError) Validation() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

func (c *Client) do(ctx context.Context, method, path string, payload, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readErrorMessage pulls a human-readable message out of an error body,
// preferring the service's {"error": "..."} shape over raw text.
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(raw))
}

func parseBaseURL(sheetURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(sheetURL)
	if trimmed == "" {
		trimmed = defaultSheetBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse sheet_url %q: %w", sheetURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
