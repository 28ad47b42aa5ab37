package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("profile not found")

type Education struct {
	School         string `json:"school"`
	Degree         string `json:"degree"`
	Major          string `json:"major"`
	GraduationYear *int   `json:"graduationYear,omitempty"`
}

type WorkExperience struct {
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	Duration     string   `json:"duration"`
	Skills       []string `json:"skills,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

type Personality struct {
	IntrovertExtrovert string   `json:"introvertExtrovert,omitempty"`
	Values             []string `json:"values,omitempty"`
	Goals              []string `json:"goals,omitempty"`
	Strengths          []string `json:"strengths,omitempty"`
}

type Achievements struct {
	Awards       []string `json:"awards,omitempty"`
	Publications []string `json:"publications,omitempty"`
	SideProjects []string `json:"sideProjects,omitempty"`
}

// Profile is the requester's self-description. Every field is optional.
type Profile struct {
	Name              string           `json:"name,omitempty"`
	LinkedInURL       string           `json:"linkedinUrl,omitempty"`
	Age               *int             `json:"age,omitempty"`
	Gender            string           `json:"gender,omitempty"`
	Ethnicity         string           `json:"ethnicity,omitempty"`
	Race              string           `json:"race,omitempty"`
	Nationality       string           `json:"nationality,omitempty"`
	CurrentLocation   string           `json:"currentLocation,omitempty"`
	ChildhoodLocation string           `json:"childhoodLocation,omitempty"`
	Education         []Education      `json:"educationHistory,omitempty"`
	WorkExperience    []WorkExperience `json:"workExperience,omitempty"`
	Hobbies           []string         `json:"hobbies,omitempty"`
	Interests         []string         `json:"interests,omitempty"`
	Personality       Personality      `json:"personalityTraits"`
	Languages         []string         `json:"languages,omitempty"`
	VolunteerWork     []string         `json:"volunteerWork,omitempty"`
	UniqueAspects     Achievements     `json:"uniqueAspects"`
}

type Record struct {
	UserID    uuid.UUID
	Profile   Profile
	Completed bool
}

type Repository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (Record, error)
}
