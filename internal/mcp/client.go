package mcp

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

	"github.com/devricklin/tg-relay-bridge/internal/biz/usecase"
)

// ErrNotFound is returned when the bridge has no record for the lookup
var ErrNotFound = errors.New("not found")

// Client is the HTTP client for communicating with the bridge admin API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new MCP client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ============ Correspondent Operations ============

// GetCorrespondent gets the current view of a correspondent
func (c *Client) GetCorrespondent(ctx context.Context, id string) (*usecase.CorrespondentView, error) {
	var view usecase.CorrespondentView
	if err := c.do(ctx, http.MethodGet, "/api/correspondents/"+url.PathEscape(id), &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// FindByThread gets the correspondent bound to a staffed-group thread
func (c *Client) FindByThread(ctx context.Context, threadID string) (*usecase.CorrespondentView, error) {
	var view usecase.CorrespondentView
	if err := c.do(ctx, http.MethodGet, "/api/threads/"+url.PathEscape(threadID), &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Block blocks a correspondent
func (c *Client) Block(ctx context.Context, id string) (*usecase.CorrespondentView, error) {
	return c.setBlocked(ctx, id, "block")
}

// Unblock unblocks a correspondent and resets their violations
func (c *Client) Unblock(ctx context.Context, id string) (*usecase.CorrespondentView, error) {
	return c.setBlocked(ctx, id, "unblock")
}

func (c *Client) setBlocked(ctx context.Context, id, action string) (*usecase.CorrespondentView, error) {
	var view usecase.CorrespondentView
	path := fmt.Sprintf("/api/correspondents/%s/%s", url.PathEscape(id), action)
	if err := c.do(ctx, http.MethodPost, path, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// ============ HTTP Helpers ============

func (c *Client) do(ctx context.Context, method, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP %s failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
