// Package speakupclient is the Go client for the speak-up backend. It wraps
// the wire contract (params envelopes, count arrays, opaque payload tokens)
// and layers the retrieval pipeline and action workflow on top, so UI code
// only ever sees sanitized filters and final results.
package speakupclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/openhrstack/speakup_app/internal/dto"
)

// TokenSource supplies the bearer token attached to every request.
type TokenSource func() string

// Client talks to the speak-up backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a client for the API served at baseURL.
func NewClient(baseURL string, token TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		token:      token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	// Message is the top-level "error" field of the response body.
	Message string
	// DataMessage is the nested data.message field some endpoints carry.
	DataMessage string
}

func (e *APIError) Error() string {
	if msg := e.BestMessage(); msg != "" {
		return msg
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// BestMessage picks the most specific message the server sent: the nested
// data.message first, then the top-level error, then empty.
func (e *APIError) BestMessage() string {
	if e.DataMessage != "" {
		return e.DataMessage
	}
	return e.Message
}

// ErrorMessage extracts a user-presentable message from any error returned by
// this package, falling back to a generic one.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := err.(*APIError); ok {
		if msg := apiErr.BestMessage(); msg != "" {
			return msg
		}
	}
	return "Something went wrong. Please try again."
}

// envelope wraps request parameters the way every search/state-changing
// endpoint expects them.
type envelope[T any] struct {
	Params T `json:"params"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var parsed struct {
			Error string `json:"error"`
			Data  struct {
				Message string `json:"message"`
			} `json:"data"`
		}
		if jsonErr := json.Unmarshal(raw, &parsed); jsonErr == nil {
			apiErr.Message = parsed.Error
			apiErr.DataMessage = parsed.Data.Message
		}
		return apiErr
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func pageQueryValues(page dto.PageQuery) url.Values {
	q := url.Values{}
	if page.Page > 0 {
		q.Set("page", strconv.Itoa(page.Page))
	}
	if page.Size > 0 {
		q.Set("size", strconv.Itoa(page.Size))
	}
	// Sort is only sent when explicitly chosen; its absence keeps the
	// server's default ordering.
	if page.SortBy != "" {
		q.Set("sortBy", page.SortBy)
		q.Set("sortOrder", page.SortOrder)
	}
	return q
}

// SearchMine fetches one page of the caller's own entries.
func (c *Client) SearchMine(ctx context.Context, params dto.SearchParams, page dto.PageQuery) (dto.SearchResponse, error) {
	var out dto.SearchResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/speakups/search", pageQueryValues(page), envelope[dto.SearchParams]{Params: params}, &out)
	return out, err
}

// SearchAssigned fetches one page of entries routed to the caller.
func (c *Client) SearchAssigned(ctx context.Context, params dto.SearchParams, page dto.PageQuery) (dto.SearchResponse, error) {
	var out dto.SearchResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/speakups/search-assigned", pageQueryValues(page), envelope[dto.SearchParams]{Params: params}, &out)
	return out, err
}

// GetFilters fetches the type/status dropdown vocabularies.
func (c *Client) GetFilters(ctx context.Context) (dto.FiltersResponse, error) {
	var out dto.FiltersResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/speakups/filters", nil, nil, &out)
	return out, err
}

// GetByID hydrates the editable fields of one entry from its payload token.
func (c *Client) GetByID(ctx context.Context, params dto.GetByIDParams) (dto.SpeakUpDetail, error) {
	var out dto.SpeakUpDetail
	err := c.do(ctx, http.MethodPost, "/api/v1/speakups/get-by-id", nil, envelope[dto.GetByIDParams]{Params: params}, &out)
	return out, err
}

// Save creates (AddBtn) or edits (EditBtn) a draft entry.
func (c *Client) Save(ctx context.Context, params dto.SaveParams) (dto.SpeakUpDetail, error) {
	var out dto.SpeakUpDetail
	err := c.do(ctx, http.MethodPut, "/api/v1/speakups", nil, envelope[dto.SaveParams]{Params: params}, &out)
	return out, err
}

// PostAction executes a workflow action. Business-rule rejections come back
// with a nil error inside the response envelope; use the Workflow type for
// the full soft-failure handling.
func (c *Client) PostAction(ctx context.Context, params dto.ActionParams) (dto.ActionResponse, error) {
	var out dto.ActionResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/speakups/action", nil, envelope[dto.ActionParams]{Params: params}, &out)
	return out, err
}

// History fetches the ordered audit trail of one entry.
func (c *Client) History(ctx context.Context, params dto.HistoryParams) (dto.HistoryResponse, error) {
	var out dto.HistoryResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/speakups/history", nil, envelope[dto.HistoryParams]{Params: params}, &out)
	return out, err
}

// AppendHistoryNote appends a free-text note to an entry's audit trail
// without touching its status.
func (c *Client) AppendHistoryNote(ctx context.Context, params dto.UpdateHistoryParams) error {
	return c.do(ctx, http.MethodPut, "/api/v1/speakups/history", nil, envelope[dto.UpdateHistoryParams]{Params: params}, nil)
}

// Dashboard fetches the caller's status-bucket aggregate.
func (c *Client) Dashboard(ctx context.Context) (dto.DashboardResponse, error) {
	var out dto.DashboardResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/speakups/dashboard", nil, nil, &out)
	return out, err
}
