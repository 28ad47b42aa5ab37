package gemini

import (
	"context"
	"fmt"
	"log"
	"time"

	"referral-finder/internal/gate"
	"referral-finder/internal/infrastructure/llm"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

type Config struct {
	APIKey string
	Model  string
}

// Client answers plain completions through Gemini. It has no web search tool.
type Client struct {
	model  llms.Model
	name   string
	gate   *gate.Gate
	logger *log.Logger
}

func NewClient(ctx context.Context, cfg Config, g *gate.Gate, logger *log.Logger) (*Client, error) {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}

	m, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	return &Client{model: m, name: cfg.Model, gate: g, logger: logger}, nil
}

func (c *Client) Complete(ctx context.Context, req llm.Request) (llm.Completion, error) {
	if req.Search != nil {
		return llm.Completion{}, llm.ErrSearchUnsupported
	}

	release, err := c.gate.Acquire(ctx)
	if err != nil {
		return llm.Completion{}, err
	}
	defer release()

	opts := []llms.CallOption{}
	if req.JSONMode {
		opts = append(opts, llms.WithJSONMode())
	}
	if req.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(float64(req.Temperature)))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}

	start := time.Now()
	text, err := llms.GenerateFromSinglePrompt(ctx, c.model, req.Prompt, opts...)
	if err != nil {
		c.logger.Printf("[LLM] gemini failed | model=%s elapsed=%s err=%v", c.name, time.Since(start), err)
		return llm.Completion{}, err
	}

	c.logger.Printf("[LLM] gemini ok | model=%s chars=%d elapsed=%s", c.name, len(text), time.Since(start))
	return llm.Completion{Text: text, Model: c.name}, nil
}
