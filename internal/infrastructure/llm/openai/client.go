package openai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"referral-finder/internal/gate"
	"referral-finder/internal/infrastructure/llm"

	goopenai "github.com/sashabaranov/go-openai"
)

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	SearchModel string
	Timeout     time.Duration
}

// Client serves plain completions through chat completions and search completions
// through the Responses API.
type Client struct {
	cfg    Config
	chat   *goopenai.Client
	http   *http.Client
	gate   *gate.Gate
	logger *log.Logger
}

func NewClient(cfg Config, g *gate.Gate, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.SearchModel == "" {
		cfg.SearchModel = cfg.Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}

	chatCfg := goopenai.DefaultConfig(cfg.APIKey)
	chatCfg.BaseURL = cfg.BaseURL
	chatCfg.HTTPClient = httpClient

	return &Client{
		cfg:    cfg,
		chat:   goopenai.NewClientWithConfig(chatCfg),
		http:   httpClient,
		gate:   g,
		logger: logger,
	}
}

func (c *Client) Complete(ctx context.Context, req llm.Request) (llm.Completion, error) {
	release, err := c.gate.Acquire(ctx)
	if err != nil {
		return llm.Completion{}, err
	}
	defer release()

	if req.Search != nil {
		return c.respond(ctx, req)
	}
	return c.chatComplete(ctx, req)
}

func (c *Client) chatComplete(ctx context.Context, req llm.Request) (llm.Completion, error) {
	body := goopenai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSONMode {
		body.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	start := time.Now()
	resp, err := c.chat.CreateChatCompletion(ctx, body)
	if err != nil {
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) {
			c.logger.Printf("[LLM] chat failed | model=%s status=%d elapsed=%s", c.cfg.Model, apiErr.HTTPStatusCode, time.Since(start))
			return llm.Completion{}, fmt.Errorf("chat completion status %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		c.logger.Printf("[LLM] chat failed | model=%s elapsed=%s err=%v", c.cfg.Model, time.Since(start), err)
		return llm.Completion{}, err
	}
	if len(resp.Choices) == 0 {
		return llm.Completion{}, errors.New("chat completion returned no choices")
	}

	c.logger.Printf("[LLM] chat ok | model=%s tokens=%d elapsed=%s", resp.Model, resp.Usage.TotalTokens, time.Since(start))
	return llm.Completion{Text: resp.Choices[0].Message.Content, Model: resp.Model}, nil
}
