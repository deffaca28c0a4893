// Package zhipu is a minimal client for the GLM chat-completion API.
package zhipu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/metalagman/glmprobe/internal/auth"
	"github.com/rs/zerolog/log"
)

// Client sends single chat-completion requests. It never retries.
type Client struct {
	cfg        Config
	tokens     TokenSource
	httpClient *http.Client
	now        func() time.Time
}

// NewClient constructs a client. httpClient may be nil.
func NewClient(cfg Config, tokens TokenSource, httpClient *http.Client) (*Client, error) {
	if tokens == nil {
		return nil, fmt.Errorf("zhipu token source is required")
	}

	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.TopP == 0 {
		cfg.TopP = defaultTopP
	}
	if cfg.RequestIDPrefix == "" {
		cfg.RequestIDPrefix = defaultRequestIDPrefix
	}

	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.Timeout > 0 {
		c := *httpClient
		c.Timeout = cfg.Timeout
		httpClient = &c
	}

	return &Client{
		cfg:        cfg,
		tokens:     tokens,
		httpClient: httpClient,
		now:        time.Now,
	}, nil
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Complete sends prompt as a single user message.
//
// On a non-2xx status or a malformed 2xx body the returned Response still
// carries the status code and raw body alongside the *Error.
func (c *Client) Complete(ctx context.Context, prompt string, opts ...CallOption) (*Response, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, newError(KindInvalidPrompt, "prompt must not be empty")
	}

	token, err := c.tokens.Token()
	if err != nil {
		return nil, tokenError(err)
	}
	if token == "" {
		return nil, newError(KindTokenSigning, "token source returned an empty token")
	}

	call := callConfig{
		model:       c.cfg.Model,
		temperature: c.cfg.Temperature,
		topP:        c.cfg.TopP,
	}
	for _, opt := range opts {
		opt(&call)
	}

	requestID := c.RequestID()
	body, err := json.Marshal(chatRequest{
		Model:       call.model,
		Messages:    []chatMessage{{Role: RoleUser, Content: &prompt}},
		Temperature: call.temperature,
		TopP:        call.topP,
		RequestID:   requestID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	started := c.now()
	log.Debug().
		Str("request_id", requestID).
		Str("model", call.model).
		Str("endpoint", c.cfg.Endpoint).
		Msg("sending chat completion")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "send request", Err: err}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "read response body", Err: err}
	}

	log.Debug().
		Str("request_id", requestID).
		Int("status", httpResp.StatusCode).
		Dur("elapsed", c.now().Sub(started)).
		Msg("chat completion finished")

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		RequestID:  requestID,
		Body:       raw,
	}
	if !resp.OK() {
		return resp, statusError(httpResp, raw)
	}

	if err := extract(resp, raw); err != nil {
		return resp, err
	}
	return resp, nil
}

// RequestID derives a tracing identifier from the current time.
func (c *Client) RequestID() string {
	return c.cfg.RequestIDPrefix + "_" + c.now().Format(requestIDLayout)
}

func extract(resp *Response, raw []byte) error {
	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &Error{Kind: KindUnexpectedBody, Message: "decode response", Body: raw, Err: err}
	}
	if len(parsed.Choices) == 0 {
		return &Error{Kind: KindUnexpectedBody, Message: "response has no choices", Body: raw}
	}
	msg := parsed.Choices[0].Message
	if msg == nil || msg.Content == nil {
		return &Error{Kind: KindUnexpectedBody, Message: "first choice has no message content", Body: raw}
	}

	resp.ID = parsed.ID
	resp.Model = parsed.Model
	resp.Content = *msg.Content
	resp.Usage = parsed.Usage
	return nil
}

func statusError(httpResp *http.Response, raw []byte) *Error {
	msg := httpResp.Status
	var body apiErrorBody
	if err := json.Unmarshal(raw, &body); err == nil && body.Error.Message != "" {
		msg = body.Error.Message
		if body.Error.Code != "" {
			msg = body.Error.Code + " " + msg
		}
	}
	return &Error{
		Kind:       KindUnexpectedStatus,
		Message:    msg,
		StatusCode: httpResp.StatusCode,
		Body:       raw,
	}
}

func tokenError(err error) *Error {
	if errors.Is(err, auth.ErrInvalidCredentialFormat) {
		return &Error{Kind: KindInvalidCredential, Message: "build token", Err: err}
	}
	return &Error{Kind: KindTokenSigning, Message: "build token", Err: err}
}
