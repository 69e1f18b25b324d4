package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/getmockd/fireflow/pkg/httputil"
	"github.com/getmockd/fireflow/pkg/server"
)

// ServerClient talks to the JSON API of a running "fireflow serve".
type ServerClient interface {
	// Health checks if the server is running and returns its version.
	Health() (string, error)
	// GetStats returns server and collection statistics.
	GetStats() (*server.StatsResponse, error)
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	ErrorCode  string
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// serverClient implements ServerClient using HTTP.
type serverClient struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures a server client.
type ClientOption func(*serverClient)

// WithTimeout sets the HTTP timeout for the client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *serverClient) {
		c.httpClient.Timeout = timeout
	}
}

// NewServerClient creates a client for the server at baseURL
// (e.g. "http://127.0.0.1:4380").
func NewServerClient(baseURL string, opts ...ClientOption) ServerClient {
	c := &serverClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health checks if the server is running.
func (c *serverClient) Health() (string, error) {
	resp, err := c.get("/health")
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", c.parseError(resp)
	}

	var result struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	return result.Version, nil
}

// GetStats returns server statistics.
func (c *serverClient) GetStats() (*server.StatsResponse, error) {
	resp, err := c.get("/api/stats")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var result server.StatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &result, nil
}

// get performs an HTTP GET request.
func (c *serverClient) get(path string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{
			ErrorCode: "connection_error",
			Message:   fmt.Sprintf("cannot connect to fireflow server at %s: %v", c.baseURL, err),
		}
	}
	return resp, nil
}

// parseError parses an error response from the API.
func (c *serverClient) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp httputil.ErrorBody
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			ErrorCode:  errResp.Error,
			Message:    errResp.Message,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		ErrorCode:  "unknown_error",
		Message:    fmt.Sprintf("server returned status %d: %s", resp.StatusCode, string(body)),
	}
}

// FormatConnectionError returns a user-friendly error message for connection failures.
func FormatConnectionError(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode == "connection_error" {
		return fmt.Sprintf(`%s

Suggestions:
  • Start the server: fireflow serve
  • Check the listen address with: fireflow config`, apiErr.Message)
	}
	return err.Error()
}
