package discovery

import (
	"context"
	"fmt"
	"log"
	"strings"

	"referral-finder/internal/domain"
	"referral-finder/internal/infrastructure/llm"
)

// Discoverer is the capability the orchestrator needs from a model backend.
type Discoverer interface {
	Discover(ctx context.Context, prompt string, searchEnabled bool) (llm.Completion, error)
}

type ClientConfig struct {
	SearchDomain     string
	SearchMaxTokens  int
	PlainMaxTokens   int
	PlainTemperature float32
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		SearchDomain:     "linkedin.com",
		SearchMaxTokens:  8000,
		PlainMaxTokens:   3000,
		PlainTemperature: 0.2,
	}
}

// Client turns discovery calls into model requests and classifies their failures.
type Client struct {
	model  llm.Client
	cfg    ClientConfig
	logger *log.Logger
}

func NewClient(model llm.Client, cfg ClientConfig, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	def := DefaultClientConfig()
	if cfg.SearchDomain == "" {
		cfg.SearchDomain = def.SearchDomain
	}
	if cfg.SearchMaxTokens <= 0 {
		cfg.SearchMaxTokens = def.SearchMaxTokens
	}
	if cfg.PlainMaxTokens <= 0 {
		cfg.PlainMaxTokens = def.PlainMaxTokens
	}
	if cfg.PlainTemperature <= 0 {
		cfg.PlainTemperature = def.PlainTemperature
	}
	return &Client{model: model, cfg: cfg, logger: logger}
}

func (c *Client) Discover(ctx context.Context, prompt string, searchEnabled bool) (llm.Completion, error) {
	if c == nil || c.model == nil {
		return llm.Completion{}, fmt.Errorf("%w: no model client", domain.ErrModelInvocation)
	}

	req := llm.Request{
		Prompt:      prompt,
		JSONMode:    true,
		Temperature: c.cfg.PlainTemperature,
		MaxTokens:   c.cfg.PlainMaxTokens,
	}
	if searchEnabled {
		req.Temperature = 0
		req.MaxTokens = c.cfg.SearchMaxTokens
		req.Search = &llm.SearchOptions{AllowedDomains: []string{c.cfg.SearchDomain}}
	}

	resp, err := c.model.Complete(ctx, req)
	if err != nil {
		return llm.Completion{}, fmt.Errorf("%w: %v", domain.ErrModelInvocation, err)
	}
	if strings.TrimSpace(resp.Text) == "" {
		return llm.Completion{}, fmt.Errorf("%w: empty response", domain.ErrModelInvocation)
	}

	if searchEnabled {
		c.logger.Printf("[Discovery] search citations | model=%s count=%d sources=%s", resp.Model, len(resp.Sources), strings.Join(resp.Sources, ","))
	}
	return resp, nil
}
