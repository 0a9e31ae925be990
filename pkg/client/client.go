// Package client provides a Go SDK for the Vale HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// APIError is a non-2xx response. Message is the server's error field when
// present.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %s %s: %s", e.Method, e.Path, e.Message)
	}
	return fmt.Sprintf("api %s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client calls the Vale HTTP API. It is safe for concurrent use.
type Client struct {
	BaseURL    string       // e.g. "http://localhost:5000"
	HTTPClient *http.Client // optional; nil uses http.DefaultClient
}

func New(baseURL string) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/")}
}

func (c *Client) client() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client().Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: errBody.Error}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Health returns the /health payload (status, version, commit).
func (c *Client) Health(ctx context.Context) (map[string]string, error) {
	var out map[string]string
	err := c.do(ctx, http.MethodGet, "/health", nil, &out)
	return out, err
}

func (c *Client) ListAgents(ctx context.Context) ([]Agent, error) {
	var out []Agent
	err := c.do(ctx, http.MethodGet, "/api/agents", nil, &out)
	return out, err
}

func (c *Client) GetAgent(ctx context.Context, id int64) (*Agent, error) {
	var out Agent
	if err := c.do(ctx, http.MethodGet, agentPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAgent creates and deploys an agent.
func (c *Client) CreateAgent(ctx context.Context, req CreateAgentRequest) (*Agent, error) {
	var out Agent
	if err := c.do(ctx, http.MethodPost, "/api/agents", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) StopAgent(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPut, agentPath(id)+"/stop", nil, nil)
}

func (c *Client) DeleteAgent(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, agentPath(id), nil, nil)
}

// ListTransactions returns all transactions, or only those of agentID when
// it is positive.
func (c *Client) ListTransactions(ctx context.Context, agentID int64) ([]Transaction, error) {
	path := "/api/transactions"
	if agentID > 0 {
		path = agentPath(agentID) + "/transactions"
	}
	var out []Transaction
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) SendPayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	var out PaymentResult
	if err := c.do(ctx, http.MethodPost, "/api/payments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListActivities returns the newest activities (limit 0 = server default).
func (c *Client) ListActivities(ctx context.Context, limit int) ([]Activity, error) {
	path := "/api/activities"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out []Activity
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) Metrics(ctx context.Context) (*Metrics, error) {
	var out Metrics
	if err := c.do(ctx, http.MethodGet, "/api/metrics", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Chat sends one message to a conversation session and returns the reply.
func (c *Client) Chat(ctx context.Context, sessionID, message string) (*ChatReply, error) {
	var out ChatReply
	body := map[string]string{"message": message, "sessionId": sessionID}
	if err := c.do(ctx, http.MethodPost, "/api/conversation/message", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) History(ctx context.Context, sessionID string) ([]Message, error) {
	var out struct {
		History []Message `json:"history"`
	}
	err := c.do(ctx, http.MethodGet, "/api/conversation/"+url.PathEscape(sessionID)+"/history", nil, &out)
	return out.History, err
}

// ClearHistory drops a session and reports whether it existed.
func (c *Client) ClearHistory(ctx context.Context, sessionID string) (bool, error) {
	var out struct {
		Cleared bool `json:"cleared"`
	}
	err := c.do(ctx, http.MethodDelete, "/api/conversation/"+url.PathEscape(sessionID), nil, &out)
	return out.Cleared, err
}

func agentPath(id int64) string {
	return "/api/agents/" + strconv.FormatInt(id, 10)
}
