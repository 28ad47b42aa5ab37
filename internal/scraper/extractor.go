package scraper

import (
	"strings"

	"referral-finder/internal/domain"
	"referral-finder/internal/domain/job"

	"github.com/PuerkitoBio/goquery"
)

// Extractor turns page markup into a job posting. It is pure: the same markup and URL
// always give the same result.
type Extractor struct {
	profiles []SiteProfile
	generic  SiteProfile
}

func NewExtractor() *Extractor {
	return &Extractor{profiles: DefaultProfiles(), generic: GenericProfile()}
}

func NewExtractorWithProfiles(profiles []SiteProfile, generic SiteProfile) *Extractor {
	return &Extractor{profiles: profiles, generic: generic}
}

func (e *Extractor) ProfileFor(sourceURL string) SiteProfile {
	lower := strings.ToLower(sourceURL)
	for _, p := range e.profiles {
		if p.matches(lower) {
			return p
		}
	}
	return e.generic
}

// Extract returns a *domain.LowConfidenceError together with the partial posting when
// title or company cannot be found.
func (e *Extractor) Extract(markup, sourceURL string) (job.Posting, error) {
	profile := e.ProfileFor(sourceURL)
	out := job.Posting{SourceURL: sourceURL, ExtractionMethod: profile.Method}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return out, domain.NewLowConfidenceError(out)
	}

	out.Title = cleanField(firstValue(doc, profile.Title))
	out.Company = cleanField(firstValue(doc, profile.Company))
	out.Description = truncateRunes(cleanBlock(firstValue(doc, profile.Description)), descriptionLimit)

	if !out.Complete() {
		return out, domain.NewLowConfidenceError(out)
	}
	return out, nil
}

func firstValue(doc *goquery.Document, rules []fieldRule) string {
	for _, r := range rules {
		if v := strings.TrimSpace(readRule(doc, r)); v != "" {
			return v
		}
	}
	return ""
}

func readRule(doc *goquery.Document, r fieldRule) string {
	sel := doc.Find(r.selector)
	if sel.Length() == 0 {
		return ""
	}

	if r.take <= 1 {
		return readSelection(sel.First(), r.attr)
	}

	n := r.take
	if sel.Length() < n {
		n = sel.Length()
	}
	parts := make([]string, 0, n)
	sel.Slice(0, n).Each(func(_ int, s *goquery.Selection) {
		if v := strings.TrimSpace(readSelection(s, r.attr)); v != "" {
			parts = append(parts, v)
		}
	})
	return strings.Join(parts, "\n")
}

func readSelection(s *goquery.Selection, attrName string) string {
	if attrName == "" {
		return s.Text()
	}
	v, _ := s.Attr(attrName)
	return v
}
