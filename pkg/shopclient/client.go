// Package shopclient is a typed client for the storefront REST API.
package shopclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// APIError is a non-2xx reply. Message is the server's "error" field.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func IsStatus(err error, status int) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == status
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{
		Timeout: 5 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	})
}

func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: hc}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) Health(ctx context.Context) error {
	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return err
	}
	if !out.OK {
		return errors.New("server reported not ok")
	}
	return nil
}

// Register creates an account and keeps the returned token for later calls.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &out); err != nil {
		return nil, err
	}
	if err := validateAll(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SearchProducts(ctx context.Context, q string) ([]Product, error) {
	var out []Product
	path := "/api/products/search?" + url.Values{"q": {q}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if err := validateAll(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Product(ctx context.Context, id string) (*Product, error) {
	var out Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Error == "" {
		payload.Error = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: payload.Error}
}
