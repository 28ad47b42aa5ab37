package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"referral-finder/internal/domain"
	"referral-finder/internal/domain/job"
	"referral-finder/internal/infrastructure/llm"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const extractionSchema = `{
	"type": "object",
	"properties": {
		"title": {"type": "string"},
		"company": {"type": "string"},
		"description": {"type": "string"}
	}
}`

// GenerativeExtractor asks a model to read the posting URL itself.
type GenerativeExtractor struct {
	client llm.Client
	schema *jsonschema.Schema
	logger *log.Logger
}

func NewGenerativeExtractor(client llm.Client, logger *log.Logger) (*GenerativeExtractor, error) {
	if logger == nil {
		logger = log.Default()
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("extraction.json", strings.NewReader(extractionSchema)); err != nil {
		return nil, err
	}
	schema, err := c.Compile("extraction.json")
	if err != nil {
		return nil, err
	}
	return &GenerativeExtractor{client: client, schema: schema, logger: logger}, nil
}

func BuildExtractionPrompt(rawURL string) string {
	var b strings.Builder
	b.WriteString("Visit this job posting URL and extract the job details: ")
	b.WriteString(rawURL)
	b.WriteString("\n\nReturn ONLY a JSON object with this exact structure:\n")
	b.WriteString("{\n  \"title\": \"job title\",\n  \"company\": \"company name\",\n  \"description\": \"job description (first 1000 characters)\"\n}\n")
	b.WriteString("\nUse empty strings for anything you cannot find. Do not include any other text.")
	return b.String()
}

func (g *GenerativeExtractor) ExtractJob(ctx context.Context, rawURL string) (job.Posting, error) {
	out := job.Posting{SourceURL: rawURL, ExtractionMethod: job.MethodGenerative}
	if g == nil || g.client == nil {
		return out, fmt.Errorf("%w: no model client", domain.ErrModelInvocation)
	}

	resp, err := g.client.Complete(ctx, llm.Request{
		Prompt:      BuildExtractionPrompt(rawURL),
		JSONMode:    true,
		Temperature: 0.1,
		MaxTokens:   2000,
	})
	if err != nil {
		g.logger.Printf("[Extract] generative call failed | host=%s err=%v", hostOf(rawURL), err)
		return out, fmt.Errorf("%w: %v", domain.ErrModelInvocation, err)
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return out, fmt.Errorf("%w: empty response", domain.ErrModelInvocation)
	}

	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		g.logger.Printf("[Extract] generative reply is not JSON | host=%s err=%v", hostOf(rawURL), err)
		return out, fmt.Errorf("%w: %v", domain.ErrResponseParse, err)
	}
	if err := g.schema.Validate(doc); err != nil {
		g.logger.Printf("[Extract] generative reply rejected by schema | host=%s err=%v", hostOf(rawURL), err)
		return out, fmt.Errorf("%w: %v", domain.ErrResponseParse, err)
	}

	fields, _ := doc.(map[string]any)
	out.Title = strings.TrimSpace(stringField(fields, "title"))
	out.Company = strings.TrimSpace(stringField(fields, "company"))
	out.Description = truncateRunes(strings.TrimSpace(stringField(fields, "description")), generativeDescriptionLimit)

	if !out.Complete() {
		return out, domain.NewLowConfidenceError(out)
	}
	return out, nil
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}
