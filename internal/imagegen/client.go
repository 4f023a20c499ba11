package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// UnreachableError reports a transport-level failure (DNS, refused
// connection, timeout) before any HTTP status was received. It carries the
// attempted base URL for diagnostics.
type UnreachableError struct {
	BaseURL string
	Err     error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("upstream unreachable (%s): %v", e.BaseURL, e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// UpstreamError reports a non-2xx response from the upstream. Status is
// propagated unchanged to the eventual caller; Message holds the error text
// extracted from the body, or "" when none could be recovered.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("upstream error %d", e.Status)
}

// ClientOptions configures a Client.
type ClientOptions struct {
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client issues chat-completion calls against an OpenAI-compatible endpoint.
// It does not retry; the only bounding control is the client timeout, sized
// for long-running generation requests.
type Client struct {
	httpClient *http.Client
}

// NewClient constructs a Client.
func NewClient(opts ClientOptions) *Client {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{httpClient: client}
}

// ChatCompletion POSTs the payload to <baseUrl>/chat/completions with bearer
// auth and returns the decoded body. Connectivity failures come back as
// *UnreachableError, non-2xx statuses as *UpstreamError. Response shape
// validation is left to the extractor.
func (c *Client) ChatCompletion(ctx context.Context, cfg UpstreamConfig, payload ChatPayload) (ChatResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return ChatResponse{}, err
	}

	endpoint := strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return ChatResponse{}, &UnreachableError{BaseURL: cfg.BaseURL, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ChatResponse{}, &UnreachableError{BaseURL: cfg.BaseURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return ChatResponse{}, &UpstreamError{Status: resp.StatusCode, Message: upstreamMessage(raw)}
	}

	var out ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ChatResponse{}, fmt.Errorf("decode upstream response: %w", err)
	}
	return out, nil
}

// upstreamMessage pulls a human-readable error out of a conventional error
// body: `error.message` first, then `detail`.
func upstreamMessage(raw []byte) string {
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Error.Message != "" {
		return body.Error.Message
	}
	return body.Detail
}
