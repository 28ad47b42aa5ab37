package llm

import (
	"context"
	"errors"
)

var ErrSearchUnsupported = errors.New("web search not supported by provider")

type SearchOptions struct {
	AllowedDomains []string
}

// Request is one model call. A nil Search means a plain completion.
type Request struct {
	Prompt      string
	JSONMode    bool
	Temperature float32
	MaxTokens   int
	Search      *SearchOptions
}

type Completion struct {
	Text    string
	Sources []string
	Model   string
}

type Client interface {
	Complete(ctx context.Context, req Request) (Completion, error)
}
