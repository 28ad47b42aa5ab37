package app

import (
	"testing"

	"referral-finder/internal/config"
	"referral-finder/internal/scraper"
)

func TestListenAddr(t *testing.T) {
	cases := map[string]string{"8080": ":8080", " :9000 ": ":9000"}
	for in, want := range cases {
		got, err := ListenAddr(in)
		if err != nil || got != want {
			t.Fatalf("ListenAddr(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ListenAddr(" "); err == nil {
		t.Fatalf("expected error for empty port")
	}
}

func TestNewExtractionBackend(t *testing.T) {
	sel, err := newExtractionBackend(config.ExtractionConfig{Backend: config.BackendSelector}, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := sel.(*scraper.SelectorBackend); !ok {
		t.Fatalf("expected selector backend, got %T", sel)
	}

	if _, err := newExtractionBackend(config.ExtractionConfig{Backend: "magic"}, nil, nil, nil); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
