// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai is the model invoker: a thin client for an OpenAI-compatible
// chat completions API. Every invocation performs exactly one outbound
// request with the caller's own credential; there is no caching, retrying,
// or deduplication of identical concurrent requests.
package ai

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

// Model selectors accepted from API callers. Each maps to a concrete
// upstream model identifier; anything else fails with ErrInvalidModel
// before any network I/O.
const (
	ModelFast  = "fast"
	ModelLarge = "large"
)

var modelIDs = map[string]string{
	ModelFast:  "gpt-4o-mini",
	ModelLarge: "gpt-4o",
}

// credentialPrefix is the literal prefix every API key must carry.
const credentialPrefix = "sk-"

// Models returns the accepted model selectors.
func Models() []string {
	return []string{ModelFast, ModelLarge}
}

// Client talks to an OpenAI-compatible chat completions endpoint.
// API keys are supplied per call (they belong to individual accounts),
// so a single Client is shared across all requests.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the given base URL
// (e.g., "https://api.openai.com/v1").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Complete sends a single chat completion request and returns the first
// choice's text content.
func (c *Client) Complete(ctx context.Context, apiKey, model, systemPrompt, userPrompt string) (string, error) {
	modelID, err := c.precheck(apiKey, model)
	if err != nil {
		return "", err
	}

	body := chatRequest{
		Model: modelID,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}
	return c.doChat(ctx, apiKey, body)
}

// CompleteWithImage sends a multi-part user message combining text with an
// inlined base64 image payload. Callers must pre-validate the image size;
// the invoker does not enforce a ceiling.
func (c *Client) CompleteWithImage(ctx context.Context, apiKey, model, systemPrompt, userText, imageB64, mimeType string) (string, error) {
	modelID, err := c.precheck(apiKey, model)
	if err != nil {
		return "", err
	}

	parts := []contentPart{
		{Type: "text", Text: userText},
		{Type: "image_url", ImageURL: &imageURL{
			URL: fmt.Sprintf("data:%s;base64,%s", mimeType, imageB64),
		}},
	}

	body := chatRequest{
		Model: modelID,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: parts},
		},
	}
	return c.doChat(ctx, apiKey, body)
}

// VerifyCredential performs a lightweight authenticated request (GET /models)
// to test an API key against the remote service before it is saved.
func (c *Client) VerifyCredential(ctx context.Context, apiKey string) error {
	if !strings.HasPrefix(apiKey, credentialPrefix) {
		return ErrInvalidCredential
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("ai request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("ai http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return &UpstreamError{Status: resp.StatusCode, Body: string(respBody)}
	}
	return nil
}

// precheck validates the model selector and credential format before any
// network call is attempted.
func (c *Client) precheck(apiKey, model string) (string, error) {
	modelID, ok := modelIDs[model]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidModel, model)
	}
	if !strings.HasPrefix(apiKey, credentialPrefix) {
		return "", ErrInvalidCredential
	}
	return modelID, nil
}

// doChat performs the HTTP call to the chat completions endpoint.
func (c *Client) doChat(ctx context.Context, apiKey string, body chatRequest) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("ai marshal: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("ai request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ai read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("ai unmarshal: %w", err)
	}

	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}

	return result.Choices[0].Message.Content, nil
}

// --- Chat completions request/response types ---

// chatMessage content is either a plain string or a []contentPart for
// image-bearing messages.
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
}
