// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

// newTestServer creates an httptest.Server that responds with the given
// status code and body, counting the requests it receives.
func newTestServer(t *testing.T, statusCode int, body []byte) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		w.Write(body)
	}))
	return srv, &calls
}

// successBody builds a chat completions response with a single choice
// containing the given text.
func successBody(text string) []byte {
	var resp chatResponse
	resp.Choices = []chatChoice{{}}
	resp.Choices[0].Message.Role = "assistant"
	resp.Choices[0].Message.Content = text
	b, _ := json.Marshal(resp)
	return b
}

func TestComplete_Success(t *testing.T) {
	want := "Hello from the model"
	srv, _ := newTestServer(t, http.StatusOK, successBody(want))
	defer srv.Close()

	c := NewClient(srv.URL)
	got, err := c.Complete(context.Background(), "sk-test", ModelFast, "You are helpful.", "Say hello")
	if err != nil {
		t.Fatalf("Complete: unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("Complete: got %q, want %q", got, want)
	}
}

func TestComplete_VerifiesRequest(t *testing.T) {
	var capturedHeaders http.Header
	var capturedBody []byte
	var capturedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedHeaders = r.Header.Clone()
		capturedBody, _ = io.ReadAll(r.Body)
		capturedPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write(successBody("ok"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.Complete(context.Background(), "sk-test-12345", ModelLarge, "system prompt", "user prompt"); err != nil {
		t.Fatalf("Complete: unexpected error: %v", err)
	}

	if auth := capturedHeaders.Get("Authorization"); auth != "Bearer sk-test-12345" {
		t.Errorf("Authorization header: got %q", auth)
	}
	if ct := capturedHeaders.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}
	if capturedPath != "/chat/completions" {
		t.Errorf("request path: got %q", capturedPath)
	}

	var req struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(capturedBody, &req); err != nil {
		t.Fatalf("unmarshal request body: %v", err)
	}
	// The selector must be mapped to the concrete upstream identifier.
	if req.Model != "gpt-4o" {
		t.Errorf("request model: got %q, want %q", req.Model, "gpt-4o")
	}
	if len(req.Messages) != 2 {
		t.Fatalf("messages count: got %d, want 2", len(req.Messages))
	}
	if req.Messages[0].Role != "system" || req.Messages[0].Content != "system prompt" {
		t.Errorf("system message: got %+v", req.Messages[0])
	}
	if req.Messages[1].Role != "user" || req.Messages[1].Content != "user prompt" {
		t.Errorf("user message: got %+v", req.Messages[1])
	}
}

func TestComplete_RejectsUnknownModelWithoutNetworkCall(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, successBody("ok"))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Complete(context.Background(), "sk-test", "gpt-made-up", "sys", "usr")
	if !errors.Is(err, ErrInvalidModel) {
		t.Fatalf("want ErrInvalidModel, got %v", err)
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("expected zero outbound calls, got %d", n)
	}
}

func TestComplete_RejectsBadCredentialWithoutNetworkCall(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, successBody("ok"))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Complete(context.Background(), "not-a-key", ModelFast, "sys", "usr")
	if !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("want ErrInvalidCredential, got %v", err)
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("expected zero outbound calls, got %d", n)
	}
}

func TestComplete_UpstreamErrorPreservesStatusAndBody(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusTooManyRequests, []byte(`{"error":{"message":"rate limited"}}`))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Complete(context.Background(), "sk-test", ModelFast, "sys", "usr")

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("want *UpstreamError, got %v", err)
	}
	if ue.Status != http.StatusTooManyRequests {
		t.Errorf("status: got %d, want 429", ue.Status)
	}
	if !strings.Contains(ue.Body, "rate limited") {
		t.Errorf("body should carry the remote error: got %q", ue.Body)
	}
	// No retry: exactly one request.
	if n := calls.Load(); n != 1 {
		t.Errorf("expected exactly one outbound call, got %d", n)
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	body, _ := json.Marshal(chatResponse{Choices: []chatChoice{}})
	srv, _ := newTestServer(t, http.StatusOK, body)
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Complete(context.Background(), "sk-test", ModelFast, "sys", "usr")
	if !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("want ErrEmptyCompletion, got %v", err)
	}
}

func TestComplete_EmptyContent(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, successBody(""))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Complete(context.Background(), "sk-test", ModelFast, "sys", "usr")
	if !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("want ErrEmptyCompletion, got %v", err)
	}
}

func TestComplete_MalformedJSON(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, []byte(`{not json`))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Complete(context.Background(), "sk-test", ModelFast, "sys", "usr")
	if err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
	if !strings.Contains(err.Error(), "unmarshal") {
		t.Errorf("error should mention unmarshal: got %q", err.Error())
	}
}

func TestComplete_CancelledContext(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, successBody("ok"))
	defer srv.Close()

	c := NewClient(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Complete(ctx, "sk-test", ModelFast, "sys", "usr"); err == nil {
		t.Fatal("expected error for cancelled context, got nil")
	}
}

func TestCompleteWithImage_InlinesDataURL(t *testing.T) {
	var capturedBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write(successBody("tokens"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	got, err := c.CompleteWithImage(context.Background(), "sk-test", ModelLarge,
		"extract design tokens", "Analyze this screenshot", "aW1hZ2VieXRlcw==", "image/png")
	if err != nil {
		t.Fatalf("CompleteWithImage: %v", err)
	}
	if got != "tokens" {
		t.Errorf("got %q, want %q", got, "tokens")
	}

	var req struct {
		Messages []struct {
			Role    string          `json:"role"`
			Content json.RawMessage `json:"content"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(capturedBody, &req); err != nil {
		t.Fatalf("unmarshal request body: %v", err)
	}
	if len(req.Messages) != 2 {
		t.Fatalf("messages count: got %d, want 2", len(req.Messages))
	}

	var parts []contentPart
	if err := json.Unmarshal(req.Messages[1].Content, &parts); err != nil {
		t.Fatalf("user content should be a part array: %v", err)
	}
	if len(parts) != 2 {
		t.Fatalf("parts count: got %d, want 2", len(parts))
	}
	if parts[0].Type != "text" || parts[0].Text != "Analyze this screenshot" {
		t.Errorf("text part: got %+v", parts[0])
	}
	if parts[1].Type != "image_url" || parts[1].ImageURL == nil {
		t.Fatalf("image part: got %+v", parts[1])
	}
	if parts[1].ImageURL.URL != "data:image/png;base64,aW1hZ2VieXRlcw==" {
		t.Errorf("image data URL: got %q", parts[1].ImageURL.URL)
	}
}

func TestVerifyCredential(t *testing.T) {
	t.Run("accepts a valid key", func(t *testing.T) {
		var capturedPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			capturedPath = r.URL.Path
			w.Write([]byte(`{"data":[]}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL)
		if err := c.VerifyCredential(context.Background(), "sk-good"); err != nil {
			t.Fatalf("VerifyCredential: %v", err)
		}
		if capturedPath != "/models" {
			t.Errorf("path: got %q, want /models", capturedPath)
		}
	})

	t.Run("rejects a bad prefix before any call", func(t *testing.T) {
		srv, calls := newTestServer(t, http.StatusOK, []byte(`{}`))
		defer srv.Close()

		c := NewClient(srv.URL)
		if err := c.VerifyCredential(context.Background(), "pk-wrong"); !errors.Is(err, ErrInvalidCredential) {
			t.Fatalf("want ErrInvalidCredential, got %v", err)
		}
		if n := calls.Load(); n != 0 {
			t.Errorf("expected zero outbound calls, got %d", n)
		}
	})

	t.Run("surfaces upstream rejection", func(t *testing.T) {
		srv, _ := newTestServer(t, http.StatusUnauthorized, []byte(`{"error":"invalid key"}`))
		defer srv.Close()

		c := NewClient(srv.URL)
		err := c.VerifyCredential(context.Background(), "sk-bad")
		var ue *UpstreamError
		if !errors.As(err, &ue) {
			t.Fatalf("want *UpstreamError, got %v", err)
		}
		if ue.Status != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", ue.Status)
		}
	})
}

func TestModels(t *testing.T) {
	got := Models()
	if len(got) != 2 {
		t.Fatalf("Models: got %d selectors, want 2", len(got))
	}
}
