package job

import "strings"

type ExtractionMethod string

const (
	MethodSelector   ExtractionMethod = "selector"
	MethodGeneric    ExtractionMethod = "generic"
	MethodGenerative ExtractionMethod = "generative"
)

type Posting struct {
	Title            string           `json:"title"`
	Company          string           `json:"company"`
	Description      string           `json:"description"`
	SourceURL        string           `json:"sourceUrl,omitempty"`
	ExtractionMethod ExtractionMethod `json:"extractionMethod,omitempty"`
}

// Complete reports whether both title and company are present.
func (p Posting) Complete() bool {
	return strings.TrimSpace(p.Title) != "" && strings.TrimSpace(p.Company) != ""
}
