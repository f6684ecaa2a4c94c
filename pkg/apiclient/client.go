package apiclient

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

// Client provides typed access to the portfolio API for admin tools.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// Option customises client instantiation.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithToken sets the bearer token sent on authenticated requests.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// New constructs a Client pointing at the provided API base URL.
func New(base string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = "http://localhost:8080"
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "http://" + trimmed
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	cli := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli, nil
}

// SetToken replaces the bearer token, typically after Login.
func (c *Client) SetToken(token string) {
	c.token = strings.TrimSpace(token)
}

// APIError represents an error response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api request failed with status %d", e.Status)
	}
	return fmt.Sprintf("api request failed (%d): %s", e.Status, e.Message)
}

// envelope mirrors the API's canonical response shape.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
}

func (c *Client) do(ctx context.Context, method, path string, body any) (envelope, error) {
	if c == nil {
		return envelope{}, fmt.Errorf("client is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	endpoint := c.baseURL + path
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return envelope{}, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return envelope{}, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return envelope{}, fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return envelope{}, fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if len(data) > 0 {
		if err := json.Unmarshal(data, &env); err != nil && resp.StatusCode < http.StatusBadRequest {
			return envelope{}, fmt.Errorf("decode response: %w", err)
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		msg := env.Message
		if msg == "" {
			msg = strings.TrimSpace(string(data))
		}
		return envelope{}, APIError{Status: resp.StatusCode, Message: msg}
	}
	return env, nil
}

// Login exchanges credentials for a bearer token and stores it on the client.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	env, err := c.do(ctx, http.MethodPost, "/api/auth/login", body)
	if err != nil {
		return "", err
	}
	if env.Token == "" {
		return "", fmt.Errorf("login response missing token")
	}
	c.token = env.Token
	return env.Token, nil
}

// Item is one content record of any category. Fields holds the
// category-specific payload; ID and CreatedAt come from the server.
type Item struct {
	ID        int            `json:"id"`
	Fields    map[string]any `json:"-"`
	CreatedAt time.Time      `json:"created_at"`
}

func (it *Item) UnmarshalJSON(data []byte) error {
	fields := map[string]any{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if raw, ok := fields["id"]; ok {
		if n, ok := raw.(float64); ok {
			it.ID = int(n)
		}
		delete(fields, "id")
	}
	if raw, ok := fields["created_at"]; ok {
		if s, ok := raw.(string); ok {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				it.CreatedAt = t
			}
		}
		delete(fields, "created_at")
	}
	it.Fields = fields
	return nil
}

// List returns every record in the category, in the server's display order.
func (c *Client) List(ctx context.Context, category string) ([]Item, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/"+url.PathEscape(category), nil)
	if err != nil {
		return nil, err
	}
	var items []Item
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &items); err != nil {
			return nil, fmt.Errorf("decode items: %w", err)
		}
	}
	return items, nil
}

// Get fetches one record by id.
func (c *Client) Get(ctx context.Context, category string, id int) (Item, error) {
	env, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/%s/%d", url.PathEscape(category), id), nil)
	if err != nil {
		return Item{}, err
	}
	var item Item
	if err := json.Unmarshal(env.Data, &item); err != nil {
		return Item{}, fmt.Errorf("decode item: %w", err)
	}
	return item, nil
}

// Create inserts a new record and returns the stored row.
func (c *Client) Create(ctx context.Context, category string, fields map[string]any) (Item, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/"+url.PathEscape(category), fields)
	if err != nil {
		return Item{}, err
	}
	var item Item
	if err := json.Unmarshal(env.Data, &item); err != nil {
		return Item{}, fmt.Errorf("decode item: %w", err)
	}
	return item, nil
}

// Update replaces a record's fields and returns the stored row.
func (c *Client) Update(ctx context.Context, category string, id int, fields map[string]any) (Item, error) {
	env, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/%s/%d", url.PathEscape(category), id), fields)
	if err != nil {
		return Item{}, err
	}
	var item Item
	if err := json.Unmarshal(env.Data, &item); err != nil {
		return Item{}, fmt.Errorf("decode item: %w", err)
	}
	return item, nil
}

// Delete removes a record by id.
func (c *Client) Delete(ctx context.Context, category string, id int) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/%s/%d", url.PathEscape(category), id), nil)
	return err
}
