package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"referral-finder/internal/infrastructure/llm"

	"github.com/google/uuid"
)

type responsesRequest struct {
	Model           string          `json:"model"`
	Input           string          `json:"input"`
	Tools           []responsesTool `json:"tools,omitempty"`
	Include         []string        `json:"include,omitempty"`
	Text            *responsesText  `json:"text,omitempty"`
	MaxOutputTokens int             `json:"max_output_tokens,omitempty"`
	Temperature     *float32        `json:"temperature,omitempty"`
}

type responsesTool struct {
	Type    string            `json:"type"`
	Filters *responsesFilters `json:"filters,omitempty"`
}

type responsesFilters struct {
	AllowedDomains []string `json:"allowed_domains"`
}

type responsesText struct {
	Format responsesFormat `json:"format"`
}

type responsesFormat struct {
	Type string `json:"type"`
}

type responsesResponse struct {
	Model      string            `json:"model"`
	OutputText string            `json:"output_text"`
	Output     []responsesOutput `json:"output"`
	Error      *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type responsesOutput struct {
	Type    string `json:"type"`
	Content []struct {
		Type        string `json:"type"`
		Text        string `json:"text"`
		Annotations []struct {
			Type string `json:"type"`
			URL  string `json:"url"`
		} `json:"annotations"`
	} `json:"content"`
	Action *struct {
		Sources []struct {
			URL string `json:"url"`
		} `json:"sources"`
	} `json:"action"`
}

// respond calls the Responses API with the web search tool enabled.
func (c *Client) respond(ctx context.Context, req llm.Request) (llm.Completion, error) {
	body := responsesRequest{
		Model: c.cfg.SearchModel,
		Input: req.Prompt,
		Tools: []responsesTool{{
			Type:    "web_search",
			Filters: &responsesFilters{AllowedDomains: req.Search.AllowedDomains},
		}},
		Include:         []string{"web_search_call.action.sources"},
		MaxOutputTokens: req.MaxTokens,
	}
	if req.JSONMode {
		body.Text = &responsesText{Format: responsesFormat{Type: "json_object"}}
	}
	if req.Temperature > 0 {
		t := req.Temperature
		body.Temperature = &t
	}

	raw, status, err := c.sendJSON(ctx, c.cfg.BaseURL+"/responses", body)
	if err != nil {
		return llm.Completion{}, err
	}
	if status/100 != 2 {
		return llm.Completion{}, fmt.Errorf("responses status %d: %s", status, snippet(raw))
	}

	var parsed responsesResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return llm.Completion{}, fmt.Errorf("decode responses body: %w", err)
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return llm.Completion{}, fmt.Errorf("responses error: %s", parsed.Error.Message)
	}

	return llm.Completion{
		Text:    outputText(parsed),
		Sources: citedSources(parsed),
		Model:   parsed.Model,
	}, nil
}

func (c *Client) sendJSON(ctx context.Context, url string, body any) ([]byte, int, error) {
	reqID := uuid.NewString()
	start := time.Now()

	bs, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("encode json: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bs))
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Printf("[LLM] responses send failed | req_id=%s elapsed=%s err=%v", reqID, time.Since(start), err)
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}

	c.logger.Printf("[LLM] responses | req_id=%s status=%d bytes=%d elapsed=%s", reqID, resp.StatusCode, len(raw), time.Since(start))
	return raw, resp.StatusCode, nil
}

func outputText(r responsesResponse) string {
	if strings.TrimSpace(r.OutputText) != "" {
		return r.OutputText
	}
	var b strings.Builder
	for _, o := range r.Output {
		if o.Type != "message" {
			continue
		}
		for _, c := range o.Content {
			if c.Type == "output_text" {
				b.WriteString(c.Text)
			}
		}
	}
	return b.String()
}

func citedSources(r responsesResponse) []string {
	seen := map[string]struct{}{}
	var out []string
	add := func(u string) {
		u = strings.TrimSpace(u)
		if u == "" {
			return
		}
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}

	for _, o := range r.Output {
		if o.Action != nil {
			for _, s := range o.Action.Sources {
				add(s.URL)
			}
		}
		for _, c := range o.Content {
			for _, a := range c.Annotations {
				if a.Type == "url_citation" {
					add(a.URL)
				}
			}
		}
	}
	return out
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 300 {
		return s[:300]
	}
	return s
}
