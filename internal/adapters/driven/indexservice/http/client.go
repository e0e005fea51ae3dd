// Package http provides the remote index service adapter over HTTP.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.IndexService = (*Client)(nil)

// Default configuration values.
const (
	DefaultTimeout           = 120 * time.Second
	DefaultRequestsPerSecond = 5.0
	DefaultBurstSize         = 10
)

// Config holds configuration for the index service client.
type Config struct {
	// BaseURL is the service base URL (required).
	BaseURL string

	// Timeout is the request timeout (default: 120s). Uploads and queries
	// can take a while on large documents.
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing calls (default: 5).
	RequestsPerSecond float64
}

// Client talks to the remote indexing and question-answering service.
type Client struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// uploadResponse is the /upload_pdf response format. Filename and
// UploadDate are optional; NewClient callers always receive a complete
// record because Upload fills the gaps.
type uploadResponse struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	UploadDate string `json:"upload_date"`
}

// resultResponse covers the JSON endpoints that signal failure through
// an embedded error field rather than a status code.
type resultResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
	Message  string `json:"message"`
}

// errorResponse is the body the service sends with non-2xx statuses.
type errorResponse struct {
	Detail string `json:"detail"`
}

// NewClient creates a new index service client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("indexservice: base URL is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), DefaultBurstSize),
	}, nil
}

// Upload sends raw file bytes for indexing. The service may omit the
// filename or upload date in its response; the client-observed filename
// and the current time fill those in.
func (c *Client) Upload(ctx context.Context, userID, filename string, data []byte) (*domain.DocumentRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := writer.WriteField("uid", userID); err != nil {
		return nil, fmt.Errorf("write uid field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload_pdf", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError("upload", resp.StatusCode, body)
	}

	var uploaded uploadResponse
	if err := json.Unmarshal(body, &uploaded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if uploaded.ID == "" {
		return nil, fmt.Errorf("upload: response missing document id")
	}

	record := &domain.DocumentRecord{
		ID:         uploaded.ID,
		Filename:   uploaded.Filename,
		UploadedAt: time.Now().UTC(),
	}
	if record.Filename == "" {
		record.Filename = filename
	}
	if uploaded.UploadDate != "" {
		if ts, err := time.Parse(time.RFC3339, uploaded.UploadDate); err == nil {
			record.UploadedAt = ts
		}
	}
	return record, nil
}

// LoadIndex activates a previously uploaded document's index.
func (c *Client) LoadIndex(ctx context.Context, userID, documentID string) error {
	result, err := c.postJSON(ctx, "/load_index", map[string]string{
		"uid":    userID,
		"fileid": documentID,
	})
	if err != nil {
		return fmt.Errorf("load index: %w", err)
	}
	if result.Error != "" {
		return fmt.Errorf("load index: %s", result.Error)
	}
	return nil
}

// Query asks a question against the currently loaded index.
func (c *Client) Query(ctx context.Context, userID, question string) (string, error) {
	result, err := c.postJSON(ctx, "/query", map[string]string{
		"query": question,
		"uid":   userID,
	})
	if err != nil {
		return "", fmt.Errorf("query: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("query: %s", result.Error)
	}
	return result.Response, nil
}

// DeleteFile removes an uploaded document from the service.
func (c *Client) DeleteFile(ctx context.Context, userID, documentID string) error {
	result, err := c.postJSON(ctx, "/delete_file", map[string]string{
		"uid":    userID,
		"fileid": documentID,
	})
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if result.Error != "" {
		return fmt.Errorf("delete file: %s", result.Error)
	}
	return nil
}

// ClearData removes all of the user's uploaded documents.
func (c *Client) ClearData(ctx context.Context, userID string) error {
	result, err := c.postJSON(ctx, "/clear_data", map[string]string{"uid": userID})
	if err != nil {
		return fmt.Errorf("clear data: %w", err)
	}
	if result.Error != "" {
		return fmt.Errorf("clear data: %s", result.Error)
	}
	return nil
}

// DeleteAccount removes the user's account and all associated data.
func (c *Client) DeleteAccount(ctx context.Context, userID string) error {
	result, err := c.postJSON(ctx, "/delete_account", map[string]string{"uid": userID})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if result.Error != "" {
		return fmt.Errorf("delete account: %s", result.Error)
	}
	return nil
}

// postJSON sends a JSON body to an endpoint and decodes the shared
// result shape.
func (c *Client) postJSON(ctx context.Context, path string, fields map[string]string) (*resultResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	jsonBody, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(strings.TrimPrefix(path, "/"), resp.StatusCode, body)
	}

	var result resultResponse
	if len(body) > 0 {
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}
	return &result, nil
}

// statusError turns a non-2xx response into an error, preferring the
// detail message the service embeds in error bodies.
func statusError(op string, status int, body []byte) error {
	var failure errorResponse
	if err := json.Unmarshal(body, &failure); err == nil && failure.Detail != "" {
		return fmt.Errorf("%s: %s (status %d)", op, failure.Detail, status)
	}
	return fmt.Errorf("%s: service returned status %d", op, status)
}
