package discovery

import (
	"errors"
	"testing"

	"referral-finder/internal/domain"
)

func TestParseCandidates_DirectJSON(t *testing.T) {
	got, err := ParseCandidates(validMatchesJSON)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[1].Name != "Ben Ito" || got[1].ConnectionDegree != "2nd" {
		t.Fatalf("unexpected candidate %+v", got[1])
	}
}

func TestParseCandidates_ProseWrapped(t *testing.T) {
	text := "Here are the people I found {see below}:\n```json\n" + validMatchesJSON + "\n```\nGood luck!"
	got, err := ParseCandidates(text)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 || got[0].ProfileURL != "https://www.linkedin.com/in/ada-park" {
		t.Fatalf("unexpected candidates %+v", got)
	}
}

func TestParseCandidates_LenientFields(t *testing.T) {
	text := `{"matches":[{"name":"Kai","linkedinUrl":"https://linkedin.com/in/kai","relevance":5,"commonalities":["a",3,"  "]}, "junk"]}`
	got, err := ParseCandidates(text)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].ProfileURL != "https://linkedin.com/in/kai" {
		t.Fatalf("expected linkedinUrl alias to be used, got %q", got[0].ProfileURL)
	}
	if got[0].Relevance != "" {
		t.Fatalf("expected non-string relevance to be dropped")
	}
	if len(got[0].Commonalities) != 1 || got[0].Commonalities[0] != "a" {
		t.Fatalf("unexpected commonalities %v", got[0].Commonalities)
	}
	if got[1].Name != "" {
		t.Fatalf("expected non-object entry to become an empty candidate")
	}
}

func TestParseCandidates_EmptyList(t *testing.T) {
	got, err := ParseCandidates(`{"matches": []}`)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no candidates, got %d", len(got))
	}
}

func TestParseCandidates_Failures(t *testing.T) {
	cases := []string{
		"",
		"I could not find anyone, sorry.",
		`{"matches": "none"}`,
		`The answer is {"matches": [ broken`,
	}
	for _, text := range cases {
		if _, err := ParseCandidates(text); !errors.Is(err, domain.ErrResponseParse) {
			t.Fatalf("%q: expected ErrResponseParse, got %v", text, err)
		}
	}
}
