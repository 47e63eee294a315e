// Package llm forwards chat requests to a hosted language-model API.
// The proxy is a pass-through: request bodies go upstream unchanged and
// successful responses come back verbatim.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the upstream messages endpoint.
	DefaultBaseURL = "https://api.anthropic.com/v1/messages"
	// DefaultAPIVersion is sent as the anthropic-version header.
	DefaultAPIVersion = "2023-06-01"

	maxResponseBytes = 1 << 20 // 1MB
)

// UpstreamError carries the human-readable message extracted from a
// non-success upstream response.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	apiKey     string
	apiVersion string
	httpc      *http.Client
}

// New creates a proxy client. Empty baseURL or apiVersion fall back to
// the defaults; the API key is required.
func New(baseURL, apiKey, apiVersion string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("missing language-model API key")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		apiVersion: apiVersion,
		httpc:      newPooledHTTPClient(),
	}, nil
}

// newPooledHTTPClient builds an HTTP client with connection pooling and
// timeouts suited to a slow generative upstream.
func newPooledHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		MaxConnsPerHost:       50,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 60 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   120 * time.Second,
	}
}

// Messages forwards the raw request body upstream. On success it returns
// the upstream JSON unchanged; on a non-2xx status it returns an
// *UpstreamError with the error message field extracted when present.
func (c *Client) Messages(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", c.apiVersion)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read upstream response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    extractErrorMessage(body),
		}
	}
	return body, nil
}

// extractErrorMessage pulls error.message out of an upstream error body,
// falling back to a generic message.
func extractErrorMessage(body []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return "language model request failed"
}

// ExtractCompletion pulls the model name and generated text out of a
// successful messages response, for recording the analysis. Returns
// ok=false when the body has no text content.
func ExtractCompletion(body []byte) (model, text string, ok bool) {
	var parsed struct {
		Model   string `json:"model"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", "", false
	}
	for _, c := range parsed.Content {
		if c.Text != "" {
			return parsed.Model, c.Text, true
		}
	}
	return parsed.Model, "", false
}
