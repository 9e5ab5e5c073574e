package profile

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

type ExperienceLevel string

const (
	LevelEntry     ExperienceLevel = "entry"
	LevelJunior    ExperienceLevel = "junior"
	LevelMid       ExperienceLevel = "mid"
	LevelSenior    ExperienceLevel = "senior"
	LevelLead      ExperienceLevel = "lead"
	LevelExecutive ExperienceLevel = "executive"
)

type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

type Education struct {
	Degree       string `json:"degree"`
	Institution  string `json:"institution"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
	Location     string `json:"location,omitempty"`
}

type CandidateProfile struct {
	ID         string       `json:"id" validate:"required,max=128"`
	Name       string       `json:"name,omitempty"`
	Email      string       `json:"email,omitempty" validate:"omitempty,email"`
	Location   string       `json:"location,omitempty"`
	Summary    string       `json:"summary,omitempty"`
	Skills     []string     `json:"skills"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
}

type JobRequirements struct {
	ID              string          `json:"id" validate:"required,max=128"`
	Title           string          `json:"title,omitempty"`
	Description     string          `json:"description,omitempty"`
	RequiredSkills  []string        `json:"required_skills"`
	PreferredSkills []string        `json:"preferred_skills"`
	ExperienceLevel ExperienceLevel `json:"experience_level,omitempty" validate:"omitempty,oneof=entry junior mid senior lead executive"`
}

var validate = validator.New()

func (p CandidateProfile) Validate() error {
	return validate.Struct(p)
}

func (j JobRequirements) Validate() error {
	return validate.Struct(j)
}

func NormalizeSkill(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), " ")
}

func NormalizeSkills(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = NormalizeSkill(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func (p CandidateProfile) Normalized() CandidateProfile {
	p.ID = strings.TrimSpace(p.ID)
	p.Skills = NormalizeSkills(p.Skills)
	return p
}

func (j JobRequirements) Normalized() JobRequirements {
	j.ID = strings.TrimSpace(j.ID)
	j.RequiredSkills = NormalizeSkills(j.RequiredSkills)
	j.PreferredSkills = NormalizeSkills(j.PreferredSkills)
	j.ExperienceLevel = ExperienceLevel(strings.ToLower(strings.TrimSpace(string(j.ExperienceLevel))))
	return j
}
