package api

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

	"scriptqa/internal/services"
)

const defaultClientTimeout = 3 * time.Minute

// Client calls a running scriptqa server.
type Client struct {
	baseURL    string
	sessionID  string
	httpClient *http.Client
}

// NewClient builds a client for the server at baseURL. A bare host:port is
// treated as http. The session ID scopes conversation history on the server.
func NewClient(baseURL, sessionID string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL != "" && !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	return &Client{
		baseURL:    baseURL,
		sessionID:  strings.TrimSpace(sessionID),
		httpClient: &http.Client{Timeout: defaultClientTimeout},
	}
}

// Ask posts a question. Answer failures still return a populated response;
// the error is non-nil only when no well-formed response arrived.
func (c *Client) Ask(ctx context.Context, title, question string) (AskResponse, error) {
	var resp AskResponse
	err := c.do(ctx, http.MethodPost, "/api/ask", AskRequest{MovieTitle: title, UserQuestion: question}, &resp)
	return resp, err
}

// ClearHistory resets the session's conversation about title.
func (c *Client) ClearHistory(ctx context.Context, title string) (ClearHistoryResponse, error) {
	var resp ClearHistoryResponse
	err := c.do(ctx, http.MethodPost, "/api/history/clear", ClearHistoryRequest{MovieTitle: title}, &resp)
	return resp, err
}

// Suggest returns title completions.
func (c *Client) Suggest(ctx context.Context, query string) ([]string, error) {
	var resp []string
	err := c.do(ctx, http.MethodGet, "/api/suggest?query="+url.QueryEscape(query), nil, &resp)
	return resp, err
}

// Status fetches server runtime information.
func (c *Client) Status(ctx context.Context) (ServerStatus, error) {
	var resp ServerStatus
	err := c.do(ctx, http.MethodGet, "/api/status", nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, path string, body any, target any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api request: encode body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return services.Wrap(services.ErrValidation, "api-client", "new request", c.baseURL, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.sessionID != "" {
		req.Header.Set(HeaderSessionID, c.sessionID)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrUpstream, "api-client", method+" "+path, "server unreachable", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr ErrorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return services.Wrap(markerForStatus(resp.StatusCode), "api-client", method+" "+path, apiErr.Error, nil)
		}
	}
	if err := json.Unmarshal(data, target); err != nil {
		return services.Wrap(services.ErrUpstream, "api-client", method+" "+path,
			fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(data))), err)
	}
	return nil
}

func markerForStatus(code int) error {
	switch {
	case code == http.StatusBadRequest:
		return services.ErrValidation
	case code == http.StatusNotFound:
		return services.ErrNotFound
	case code == http.StatusServiceUnavailable:
		return services.ErrConfiguration
	case code == http.StatusGatewayTimeout:
		return services.ErrTimeout
	default:
		return services.ErrUpstream
	}
}
