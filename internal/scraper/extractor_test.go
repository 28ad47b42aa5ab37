package scraper

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"referral-finder/internal/domain"
	"referral-finder/internal/domain/job"
)

const genericPage = `<html>
<head><title>Senior Engineer | Acme Corp | JobBoard</title></head>
<body>
	<div class="company-name">Acme Corp</div>
	<p>We build things.</p>
	<p>Join us.</p>
</body>
</html>`

func TestExtractor_GenericFallback(t *testing.T) {
	e := NewExtractor()
	got, err := e.Extract(genericPage, "https://careers.acme.com/jobs/123")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Title != "Senior Engineer" {
		t.Fatalf("unexpected title %q", got.Title)
	}
	if got.Company != "Acme Corp" {
		t.Fatalf("unexpected company %q", got.Company)
	}
	if got.Description != "We build things.\nJoin us." {
		t.Fatalf("unexpected description %q", got.Description)
	}
	if got.ExtractionMethod != job.MethodGeneric {
		t.Fatalf("expected generic method, got %q", got.ExtractionMethod)
	}
	if got.SourceURL != "https://careers.acme.com/jobs/123" {
		t.Fatalf("unexpected source url %q", got.SourceURL)
	}
}

func TestExtractor_LinkedInProfile(t *testing.T) {
	page := `<html><body>
		<h1 class="top-card-layout__title">  Staff   Engineer  </h1>
		<a class="topcard__org-name-link">Globex | LinkedIn</a>
		<div class="show-more-less-html__markup">Build payment rails.</div>
	</body></html>`

	got, err := NewExtractor().Extract(page, "https://www.LinkedIn.com/jobs/view/42")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Title != "Staff Engineer" || got.Company != "Globex" {
		t.Fatalf("unexpected title/company %q / %q", got.Title, got.Company)
	}
	if got.Description != "Build payment rails." {
		t.Fatalf("unexpected description %q", got.Description)
	}
	if got.ExtractionMethod != job.MethodSelector {
		t.Fatalf("expected selector method, got %q", got.ExtractionMethod)
	}
}

func TestExtractor_ProfileOrder(t *testing.T) {
	e := NewExtractor()
	cases := map[string]string{
		"https://www.linkedin.com/jobs/view/1":        "linkedin",
		"https://www.linkedin.com/in/someone":         "generic",
		"https://uk.indeed.com/viewjob?jk=abc":        "indeed",
		"https://www.glassdoor.com/job-listing/x.htm": "glassdoor",
		"https://boards.greenhouse.io/acme/jobs/1":    "generic",
	}
	for u, want := range cases {
		if got := e.ProfileFor(u).Name; got != want {
			t.Fatalf("%s: expected profile %s, got %s", u, want, got)
		}
	}
}

func TestExtractor_MissingCompanyIsLowConfidence(t *testing.T) {
	page := `<html><body><h1>Data Scientist</h1><p>Numbers.</p></body></html>`

	got, err := NewExtractor().Extract(page, "https://example.org/job")
	if !errors.Is(err, domain.ErrExtractionLowConfidence) {
		t.Fatalf("expected low confidence, got %v", err)
	}
	partial, ok := domain.PartialPosting(err)
	if !ok {
		t.Fatalf("expected partial posting on error")
	}
	if partial.Title != "Data Scientist" || partial.Company != "" {
		t.Fatalf("unexpected partial %+v", partial)
	}
	if got.Title != "Data Scientist" {
		t.Fatalf("expected partial data to be returned, got %+v", got)
	}
}

func TestExtractor_DescriptionCapped(t *testing.T) {
	long := strings.Repeat("é", 5000)
	page := `<html><body><h1>Engineer</h1><span class="employer">Initech</span><div class="job-description">` + long + `</div></body></html>`

	got, err := NewExtractor().Extract(page, "https://jobs.initech.com/1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n := utf8.RuneCountInString(got.Description); n != descriptionLimit {
		t.Fatalf("expected %d characters, got %d", descriptionLimit, n)
	}
}

func TestExtractor_Idempotent(t *testing.T) {
	e := NewExtractor()
	a, errA := e.Extract(genericPage, "https://careers.acme.com/jobs/123")
	b, errB := e.Extract(genericPage, "https://careers.acme.com/jobs/123")
	if errA != nil || errB != nil {
		t.Fatalf("unexpected errs: %v %v", errA, errB)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical results, got %+v and %+v", a, b)
	}
}

func TestCleanField(t *testing.T) {
	cases := map[string]string{
		"Senior Engineer | Acme Corp | JobBoard": "Senior Engineer",
		"  Acme\n\tCorp  ":                       "Acme Corp",
		"| leading pipe":                         "",
		"No pipe":                                "No pipe",
	}
	for in, want := range cases {
		if got := cleanField(in); got != want {
			t.Fatalf("cleanField(%q) = %q, want %q", in, got, want)
		}
	}
}
