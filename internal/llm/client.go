// Package llm talks to OpenAI-compatible chat-completion services.
package llm

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"sortly/internal/config"
	"sortly/internal/errors"
	"sortly/internal/log"
	"sortly/internal/restclient"
)

// Completer sends one chat-completion request and returns the decoded reply.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

var _ Completer = (*Client)(nil)

// Client is a Completer backed by HTTP.
type Client struct {
	rest     *restclient.RestClient
	endpoint string
	model    string
}

// NewWithConfig builds a client from explicit settings. An empty API key
// sends no Authorization header, which suits local servers.
func NewWithConfig(cfg config.LLMConfig) *Client {
	headers := map[string]string{}
	if cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + cfg.APIKey
	}
	endpoint := cfg.EndpointPath
	if endpoint == "" {
		endpoint = "chat/completions"
	}
	return &Client{
		rest:     restclient.NewRestClient(cfg.BaseURL, headers, time.Duration(cfg.TimeoutSeconds)*time.Second),
		endpoint: endpoint,
		model:    cfg.Model,
	}
}

// Model returns the model name sent with each request.
func (c *Client) Model() string {
	return c.model
}

// Complete performs a single round trip. There is no retry: any failure is
// returned as a *errors.TransportError.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	payload := requestPayload{
		Model:       c.model,
		Messages:    req.Messages,
		Tools:       req.Tools,
		Temperature: req.Temperature,
	}

	log.Debugf("chat completion: model=%s messages=%d tools=%d", c.model, len(req.Messages), len(req.Tools))

	body, status, err := c.rest.Post(ctx, c.endpoint, payload, nil)
	if err != nil {
		return nil, errors.NewTransportError("chat completion request failed", status, errors.TransportFailed, err)
	}
	if status/100 != 2 {
		return nil, errors.NewTransportError("chat completion rejected", status, errors.TransportFailed, errors.New(snippet(body)))
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.NewTransportError("chat completion response is not valid JSON", status, errors.ResponseInvalid, err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.NewTransportError("chat completion response has no choices", status, errors.ResponseInvalid, nil)
	}

	log.Debugf("chat completion done: finish_reason=%s tool_calls=%d total_tokens=%d",
		resp.Choices[0].FinishReason, len(resp.Choices[0].Message.ToolCalls), resp.Usage.TotalTokens)
	return &resp, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 512 {
		s = s[:512] + "..."
	}
	if s == "" {
		s = "empty response body"
	}
	return s
}
