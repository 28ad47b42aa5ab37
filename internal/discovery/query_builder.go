package discovery

import (
	"fmt"
	"strconv"
	"strings"

	"referral-finder/internal/domain/job"
	"referral-finder/internal/domain/profile"
)

const (
	markerMissing     = "N/A"
	markerNotProvided = "Not provided"

	MinCandidates = 4
	MaxCandidates = 10
)

// CommonalitySignals is the ranking the model is asked to apply, strongest first.
var CommonalitySignals = []string{
	"Same ethnicity, race or nationality",
	"Same university or school (alma mater)",
	"Same current city or hometown / childhood location",
	"Shared interests or hobbies",
	"Shared values or personality traits",
	"Shared language",
	"Similar career path or previous employers",
}

const fallbackNote = "\n\nNote: Search the web and LinkedIn to find REAL current employees. " +
	"Web verification is expected but was not enforced for this answer, so only include people you are confident exist; " +
	"returning fewer than 4 people is acceptable."

// BuildPrompt renders the discovery instruction. Every profile field is always
// present, with a marker when the requester left it empty.
func BuildPrompt(p profile.Profile, j job.Posting) string {
	var b strings.Builder

	b.WriteString("You are an expert at finding people who can give a warm job referral.\n\n")

	b.WriteString("USER PROFILE:\n")
	line(&b, "Name", orMarker(p.Name, markerNotProvided))
	line(&b, "LinkedIn", orMarker(p.LinkedInURL, markerNotProvided))
	line(&b, "Age", intOrMarker(p.Age))
	line(&b, "Gender", orMarker(p.Gender, markerMissing))
	line(&b, "Ethnicity", orMarker(p.Ethnicity, markerMissing))
	line(&b, "Race", orMarker(p.Race, markerMissing))
	line(&b, "Nationality", orMarker(p.Nationality, markerMissing))
	line(&b, "Current location", orMarker(p.CurrentLocation, markerMissing))
	line(&b, "Childhood location", orMarker(p.ChildhoodLocation, markerMissing))
	block(&b, "Education", educationLines(p.Education))
	block(&b, "Work experience", workLines(p.WorkExperience))
	line(&b, "Hobbies", listOrMarker(p.Hobbies))
	line(&b, "Interests", listOrMarker(p.Interests))
	line(&b, "Introvert/extrovert", orMarker(p.Personality.IntrovertExtrovert, markerMissing))
	line(&b, "Values", listOrMarker(p.Personality.Values))
	line(&b, "Goals", listOrMarker(p.Personality.Goals))
	line(&b, "Strengths", listOrMarker(p.Personality.Strengths))
	line(&b, "Languages", listOrMarker(p.Languages))
	line(&b, "Volunteer work", listOrMarker(p.VolunteerWork))
	line(&b, "Awards", listOrMarker(p.UniqueAspects.Awards))
	line(&b, "Publications", listOrMarker(p.UniqueAspects.Publications))
	line(&b, "Side projects", listOrMarker(p.UniqueAspects.SideProjects))

	b.WriteString("\nTARGET JOB:\n")
	line(&b, "Title", orMarker(j.Title, markerMissing))
	line(&b, "Company", orMarker(j.Company, markerMissing))
	line(&b, "Description", orMarker(j.Description, markerMissing))

	company := orMarker(j.Company, "the target company")
	fmt.Fprintf(&b, "\nTASK:\nSearch LinkedIn for REAL people who currently work at %s and share commonalities with the user.\n", company)
	b.WriteString("Rank commonalities in this order of importance:\n")
	for i, s := range CommonalitySignals {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}

	b.WriteString("\nRULES:\n")
	b.WriteString("- Only include people whose profile URL contains \"linkedin.com/in/\".\n")
	b.WriteString("- Never invent people and never use placeholder or example URLs.\n")
	fmt.Fprintf(&b, "- Return at least %d people and at most %d.\n", MinCandidates, MaxCandidates)
	fmt.Fprintf(&b, "- Explain in \"relevance\" why the person is relevant to the %s role at %s.\n", orMarker(j.Title, "target"), company)
	b.WriteString("- Write a short, friendly \"suggestedMessage\" the user can send, mentioning the shared commonalities.\n")

	b.WriteString("\nReturn ONLY a JSON object with this exact structure:\n")
	b.WriteString(`{
  "matches": [
    {
      "name": "Full Name",
      "profileUrl": "https://www.linkedin.com/in/username",
      "relevance": "Why this person is relevant",
      "commonalities": ["Shared commonality 1", "Shared commonality 2"],
      "suggestedMessage": "Personalized outreach message",
      "connectionDegree": "2nd"
    }
  ]
}`)
	b.WriteString("\n")

	return b.String()
}

// FallbackPrompt relaxes the instruction for the non-search attempt.
func FallbackPrompt(prompt string) string {
	return prompt + fallbackNote
}

func line(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "- %s: %s\n", label, value)
}

func block(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		line(b, label, markerMissing)
		return
	}
	fmt.Fprintf(b, "- %s:\n", label)
	for _, it := range items {
		fmt.Fprintf(b, "  - %s\n", it)
	}
}

func orMarker(s, marker string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return marker
	}
	return s
}

func intOrMarker(v *int) string {
	if v == nil {
		return markerMissing
	}
	return strconv.Itoa(*v)
}

func listOrMarker(items []string) string {
	kept := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			kept = append(kept, it)
		}
	}
	if len(kept) == 0 {
		return markerMissing
	}
	return strings.Join(kept, ", ")
}

func educationLines(items []profile.Education) []string {
	out := make([]string, 0, len(items))
	for _, e := range items {
		out = append(out, fmt.Sprintf("School: %s; Degree: %s; Major: %s; Graduation year: %s",
			orMarker(e.School, markerMissing),
			orMarker(e.Degree, markerMissing),
			orMarker(e.Major, markerMissing),
			intOrMarker(e.GraduationYear),
		))
	}
	return out
}

func workLines(items []profile.WorkExperience) []string {
	out := make([]string, 0, len(items))
	for _, w := range items {
		out = append(out, fmt.Sprintf("Company: %s; Position: %s; Duration: %s; Skills: %s; Achievements: %s",
			orMarker(w.Company, markerMissing),
			orMarker(w.Position, markerMissing),
			orMarker(w.Duration, markerMissing),
			listOrMarker(w.Skills),
			listOrMarker(w.Achievements),
		))
	}
	return out
}
