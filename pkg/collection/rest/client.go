// Package rest implements collection.Collection against a remote REST
// document collection.
//
// The wire dialect matches collection.Handler:
//
//	GET    <base>        -> 200 {"data": [...], "meta": {...}} (a bare array is also accepted)
//	POST   <base>        -> 201 created document
//	PUT    <base>/{id}   -> 200 updated document
//	DELETE <base>/{id}   -> 204 (or 200)
//
// Error bodies are {"error", "resource", "id", "hint"}.
package rest

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
	"time"

	"github.com/getmockd/fireflow/pkg/collection"
)

// APIKeyHeader is the HTTP header for API key authentication.
const APIKeyHeader = "X-API-Key"

// DefaultTimeout bounds every request unless overridden.
const DefaultTimeout = 30 * time.Second

// APIError represents an error response from the remote collection.
type APIError struct {
	StatusCode int
	ErrorCode  string
	Message    string
	Hint       string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client talks to one remote collection.
type Client struct {
	baseURL    string
	name       string
	idField    string
	httpClient *http.Client
	apiKey     string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP timeout for the client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithAPIKey sets the API key sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithIDField sets the document field carrying the id (default "id").
func WithIDField(field string) Option {
	return func(c *Client) {
		if field != "" {
			c.idField = field
		}
	}
}

// New creates a client for the collection at baseURL
// (e.g. "http://localhost:4380/db/users").
func New(baseURL, name string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		name:       name,
		idField:    "id",
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchAll lists every document.
func (c *Client) FetchAll(ctx context.Context) ([]collection.Document, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "", nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp, "")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var items []map[string]any
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := decodeJSON(bytes.NewReader(trimmed), &items); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
	} else {
		var list collection.ListResponse
		if err := decodeJSON(bytes.NewReader(trimmed), &list); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
		items = list.Data
	}

	docs := make([]collection.Document, 0, len(items))
	for _, item := range items {
		docs = append(docs, collection.FromJSON(item, c.idField))
	}
	return docs, nil
}

// Insert creates a document and returns the id the server assigned.
func (c *Client) Insert(ctx context.Context, fields collection.Fields) (string, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "", body)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", c.parseError(resp, "")
	}

	var created map[string]any
	if err := decodeJSON(resp.Body, &created); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	doc := collection.FromJSON(created, c.idField)
	if doc.ID == "" {
		return "", fmt.Errorf("server response has no %q field", c.idField)
	}
	return doc.ID, nil
}

// UpdateByID replaces name and age of a document.
func (c *Client) UpdateByID(ctx context.Context, docID string, fields collection.Fields) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPut, "/"+url.PathEscape(docID), body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return c.parseError(resp, docID)
	}
	return nil
}

// DeleteByID deletes a document.
func (c *Client) DeleteByID(ctx context.Context, docID string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/"+url.PathEscape(docID), nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return c.parseError(resp, docID)
	}
	return nil
}

// doRequest performs an HTTP request against the collection.
func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &APIError{
			ErrorCode: "connection_error",
			Message:   fmt.Sprintf("cannot connect to collection at %s: %v", c.baseURL, err),
		}
	}
	return resp, nil
}

// parseError converts a non-success response into an error. 404s become
// collection.NotFoundError so callers can match them with errors.As.
func (c *Client) parseError(resp *http.Response, docID string) error {
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusNotFound && docID != "" {
		return &collection.NotFoundError{Resource: c.name, ID: docID}
	}

	var errResp collection.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		msg := errResp.Error
		if errResp.Detail != "" {
			msg += ": " + errResp.Detail
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			ErrorCode:  errResp.Error,
			Message:    msg,
			Hint:       errResp.Hint,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		ErrorCode:  "unknown_error",
		Message:    fmt.Sprintf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
	}
}

// IsConnectionError reports whether err came from failing to reach the server.
func IsConnectionError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode == "connection_error"
}

// Ensure Client implements collection.Collection.
var _ collection.Collection = (*Client)(nil)

// decodeJSON decodes with json.Number so numeric ids survive unrounded.
func decodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return dec.Decode(v)
}
