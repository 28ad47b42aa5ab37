package discovery

import (
	"encoding/json"
	"fmt"
	"strings"

	"referral-finder/internal/domain"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const envelopeSchemaJSON = `{
	"type": "object",
	"properties": {
		"matches": {"type": ["array", "null"]}
	}
}`

var envelopeSchema = jsonschema.MustCompileString("envelope.json", envelopeSchemaJSON)

// Candidate is one untrusted entry from the model's answer.
type Candidate struct {
	Name             string
	ProfileURL       string
	Relevance        string
	Commonalities    []string
	SuggestedMessage string
	ConnectionDegree string
}

// ParseCandidates recovers the candidate list from free model text. It first tries the
// whole text as JSON, then the first embedded object carrying a "matches" key.
func ParseCandidates(text string) ([]Candidate, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty text", domain.ErrResponseParse)
	}

	var whole any
	if err := json.Unmarshal([]byte(text), &whole); err == nil {
		if env, ok := envelopeOf(whole, false); ok {
			return candidatesFrom(env), nil
		}
	}

	if !strings.Contains(text, `"matches"`) {
		return nil, fmt.Errorf("%w: no matches object found", domain.ErrResponseParse)
	}

	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		var v any
		if err := json.NewDecoder(strings.NewReader(text[i:])).Decode(&v); err != nil {
			continue
		}
		if env, ok := envelopeOf(v, true); ok {
			return candidatesFrom(env), nil
		}
	}

	return nil, fmt.Errorf("%w: no matches object found", domain.ErrResponseParse)
}

// envelopeOf accepts v when it is an object that passes the envelope schema. With
// requireKey the object must also carry "matches".
func envelopeOf(v any, requireKey bool) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	if _, has := m["matches"]; requireKey && !has {
		return nil, false
	}
	if err := envelopeSchema.Validate(v); err != nil {
		return nil, false
	}
	return m, true
}

func candidatesFrom(env map[string]any) []Candidate {
	items, _ := env["matches"].([]any)
	out := make([]Candidate, 0, len(items))
	for _, it := range items {
		out = append(out, candidateFrom(it))
	}
	return out
}

func candidateFrom(v any) Candidate {
	m, ok := v.(map[string]any)
	if !ok {
		return Candidate{}
	}

	url := str(m["profileUrl"])
	if url == "" {
		url = str(m["linkedinUrl"])
	}
	if url == "" {
		url = str(m["linkedInUrl"])
	}

	return Candidate{
		Name:             str(m["name"]),
		ProfileURL:       url,
		Relevance:        str(m["relevance"]),
		Commonalities:    strs(m["commonalities"]),
		SuggestedMessage: str(m["suggestedMessage"]),
		ConnectionDegree: str(m["connectionDegree"]),
	}
}

func str(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func strs(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s := str(it); s != "" {
			out = append(out, s)
		}
	}
	return out
}
