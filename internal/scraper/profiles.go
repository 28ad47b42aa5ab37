package scraper

import (
	"strings"

	"referral-finder/internal/domain/job"
)

// fieldRule reads one selector. An empty attr reads the element text; take > 1 joins
// the first take matches.
type fieldRule struct {
	selector string
	attr     string
	take     int
}

type SiteProfile struct {
	Name        string
	Match       string
	Method      job.ExtractionMethod
	Title       []fieldRule
	Company     []fieldRule
	Description []fieldRule
}

// matches reports whether the profile applies to a lowercased URL.
func (p SiteProfile) matches(lowerURL string) bool {
	return p.Match != "" && strings.Contains(lowerURL, p.Match)
}

func text(sel string) fieldRule { return fieldRule{selector: sel} }
func attr(sel, name string) fieldRule { return fieldRule{selector: sel, attr: name} }
func joined(sel string, take int) fieldRule { return fieldRule{selector: sel, take: take} }

// DefaultProfiles are tried in order; the first URL match wins.
func DefaultProfiles() []SiteProfile {
	return []SiteProfile{
		{
			Name:   "linkedin",
			Match:  "linkedin.com/jobs",
			Method: job.MethodSelector,
			Title: []fieldRule{
				text(".top-card-layout__title"),
				text("h1.topcard__title"),
			},
			Company: []fieldRule{
				text(".topcard__org-name-link"),
				text(".top-card-layout__card a.topcard__org-name-link"),
			},
			Description: []fieldRule{
				text(".description__text"),
				text(".show-more-less-html__markup"),
			},
		},
		{
			Name:   "indeed",
			Match:  "indeed.com",
			Method: job.MethodSelector,
			Title: []fieldRule{
				text("h1.jobsearch-JobInfoHeader-title"),
				text(".jobsearch-JobInfoHeader-title-container h1"),
			},
			Company: []fieldRule{
				text(`[data-company-name="true"]`),
				text(".jobsearch-InlineCompanyRating-companyHeader a"),
			},
			Description: []fieldRule{
				text("#jobDescriptionText"),
			},
		},
		{
			Name:   "glassdoor",
			Match:  "glassdoor.com",
			Method: job.MethodSelector,
			Title: []fieldRule{
				text(`[data-test="job-title"]`),
			},
			Company: []fieldRule{
				text(`[data-test="employer-name"]`),
			},
			Description: []fieldRule{
				text(".jobDescriptionContent"),
			},
		},
	}
}

func GenericProfile() SiteProfile {
	return SiteProfile{
		Name:   "generic",
		Method: job.MethodGeneric,
		Title: []fieldRule{
			text("h1"),
			text("title"),
			attr(`meta[property="og:title"]`, "content"),
		},
		Company: []fieldRule{
			text(`[class*="company"]`),
			text(`[class*="employer"]`),
			attr(`meta[property="og:site_name"]`, "content"),
		},
		Description: []fieldRule{
			text(`[class*="description"]`),
			joined("p", 5),
			attr(`meta[name="description"]`, "content"),
		},
	}
}
