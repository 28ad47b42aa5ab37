package openai

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"referral-finder/internal/infrastructure/llm"
)

func newTestClient(baseURL string) *Client {
	return NewClient(Config{APIKey: "sk-test", BaseURL: baseURL, Model: "gpt-4o-mini", Timeout: 5 * time.Second}, nil, log.New(io.Discard, "", 0))
}

func TestClient_ChatCompletionJSONMode(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"{\"title\":\"x\"}"},"finish_reason":"stop"}],"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL + "/v1")
	resp, err := c.Complete(context.Background(), llm.Request{Prompt: "hi", JSONMode: true, Temperature: 0.1, MaxTokens: 2000})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if resp.Text != `{"title":"x"}` {
		t.Fatalf("unexpected text %q", resp.Text)
	}
	rf, _ := got["response_format"].(map[string]any)
	if rf["type"] != "json_object" {
		t.Fatalf("expected json_object response format, got %v", got["response_format"])
	}
}

func TestClient_ChatCompletionNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"message":"rate limited","type":"rate_limit"}}`)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).Complete(context.Background(), llm.Request{Prompt: "hi"}); err == nil {
		t.Fatalf("expected error on 429")
	}
}

func TestClient_ResponsesWithSearch(t *testing.T) {
	var got responsesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/responses" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"model": "gpt-4o-mini",
			"output": [
				{"type": "web_search_call", "action": {"sources": [{"url": "https://www.linkedin.com/in/a"}]}},
				{"type": "message", "content": [{"type": "output_text", "text": "{\"matches\":[]}",
					"annotations": [{"type": "url_citation", "url": "https://www.linkedin.com/in/b"}, {"type": "url_citation", "url": "https://www.linkedin.com/in/a"}]}]}
			]
		}`)
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL).Complete(context.Background(), llm.Request{
		Prompt:    "find",
		JSONMode:  true,
		MaxTokens: 8000,
		Search:    &llm.SearchOptions{AllowedDomains: []string{"linkedin.com"}},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if resp.Text != `{"matches":[]}` {
		t.Fatalf("unexpected text %q", resp.Text)
	}
	if len(resp.Sources) != 2 {
		t.Fatalf("expected 2 distinct sources, got %v", resp.Sources)
	}
	if len(got.Tools) != 1 || got.Tools[0].Type != "web_search" || got.Tools[0].Filters.AllowedDomains[0] != "linkedin.com" {
		t.Fatalf("unexpected tools %+v", got.Tools)
	}
	if got.MaxOutputTokens != 8000 || got.Text == nil || got.Text.Format.Type != "json_object" {
		t.Fatalf("unexpected request %+v", got)
	}
	if got.Temperature != nil {
		t.Fatalf("expected temperature to be omitted")
	}
}

func TestClient_ResponsesNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "upstream down")
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Complete(context.Background(), llm.Request{Prompt: "p", Search: &llm.SearchOptions{}})
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Fatalf("expected status error, got %v", err)
	}
}
