package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/david/lead-intake/internal/models"
)

func TestClientDefaults(t *testing.T) {
	c := NewClient("", "key", "")

	if c.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("BaseURL = %q", c.BaseURL)
	}
	if c.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q", c.Model)
	}
	if c.EmbedModel != "text-embedding-3-small" {
		t.Errorf("EmbedModel = %q", c.EmbedModel)
	}
}

func TestClientConfigured(t *testing.T) {
	if (&Client{}).Configured() {
		t.Error("client without key should not be configured")
	}
	if !NewClient("", "key", "").Configured() {
		t.Error("client with key should be configured")
	}
	var nilClient *Client
	if nilClient.Configured() {
		t.Error("nil client should not be configured")
	}
}

func TestChatCompletionNotConfigured(t *testing.T) {
	c := NewClient("", "", "")

	if _, err := c.ChatCompletion(context.Background(), "sys", "user"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestChatCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		json.NewEncoder(w).Encode(chatResponse{
			Choices: []struct {
				Message chatMessage `json:"message"`
			}{
				{Message: chatMessage{Role: "assistant", Content: `{"score": 85}`}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "")
	got, err := c.ChatCompletion(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("ChatCompletion returned error: %v", err)
	}
	if got != `{"score": 85}` {
		t.Errorf("content = %q", got)
	}
}

func TestChatCompletionErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "")
	if _, err := c.ChatCompletion(context.Background(), "sys", "user"); err == nil {
		t.Error("expected error for non-200 response")
	}
}

func TestChatCompletionEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatResponse{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "")
	if _, err := c.ChatCompletion(context.Background(), "sys", "user"); err == nil {
		t.Error("expected error for empty choices")
	}
}

func TestScoreLeadEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content := "```json\n{\"score\": 91, \"reasoning\": \"strong\", \"insights\": [\"a\"], \"recommendations\": [\"b\"]}\n```"
		json.NewEncoder(w).Encode(chatResponse{
			Choices: []struct {
				Message chatMessage `json:"message"`
			}{
				{Message: chatMessage{Role: "assistant", Content: content}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "")
	result, err := c.ScoreLead(context.Background(), models.LeadProfile{Name: "Jane"})
	if err != nil {
		t.Fatalf("ScoreLead returned error: %v", err)
	}
	if result.Score != 91 {
		t.Errorf("Score = %d, want 91", result.Score)
	}
	if result.Reasoning != "strong" {
		t.Errorf("Reasoning = %q", result.Reasoning)
	}
	if len(result.Insights) != 1 || len(result.Recommendations) != 1 {
		t.Errorf("unexpected sections: %+v", result)
	}
}

func TestGenerateEmbedding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(embeddingResponse{
			Data: []struct {
				Embedding []float32 `json:"embedding"`
			}{
				{Embedding: []float32{0.1, 0.2, 0.3}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "")
	got, err := c.GenerateEmbedding(context.Background(), "Jane Doe Acme Corp")
	if err != nil {
		t.Fatalf("GenerateEmbedding returned error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("embedding length = %d, want 3", len(got))
	}
}

func TestGenerateEmbeddingNotConfigured(t *testing.T) {
	c := NewClient("", "", "")

	if _, err := c.GenerateEmbedding(context.Background(), "text"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}
