package matching

import (
	"math"
	"strings"

	"skill-match/internal/domain/profile"
)

const FeatureCount = 5

type Features struct {
	SkillCount      float64 `json:"skills_count"`
	ExperienceYears float64 `json:"experience_years"`
	EducationLevel  float64 `json:"education_level"`
	SkillMatchPct   float64 `json:"skill_match_score"`
	Relevance       float64 `json:"job_relevance_score"`

	ExperienceEntries int `json:"-"`
	EducationEntries  int `json:"-"`
}

func (f Features) Vector() []float64 {
	return []float64{f.SkillCount, f.ExperienceYears, f.EducationLevel, f.SkillMatchPct, f.Relevance}
}

// ExtractFeatures derives the model features. Experience years are a crude
// two-years-per-entry estimate.
func ExtractFeatures(candidate profile.CandidateProfile, job profile.JobRequirements) Features {
	skills := profile.NormalizeSkills(candidate.Skills)
	years := float64(len(candidate.Experience) * 2)

	f := Features{
		SkillCount:        float64(len(skills)),
		ExperienceYears:   years,
		EducationLevel:    float64(HighestEducationLevel(candidate.Education)),
		SkillMatchPct:     ExactMatchPercent(skills, job.RequiredSkills),
		ExperienceEntries: len(candidate.Experience),
		EducationEntries:  len(candidate.Education),
	}
	f.Relevance = math.Min(100, f.SkillCount*5+years*10)
	return f
}

func EducationLevel(degree string) int {
	d := strings.ToLower(degree)
	switch {
	case strings.Contains(d, "phd"), strings.Contains(d, "ph.d"), strings.Contains(d, "doctorate"):
		return 4
	case strings.Contains(d, "master"):
		return 3
	case strings.Contains(d, "bachelor"):
		return 2
	case strings.Contains(d, "associate"), strings.Contains(d, "diploma"):
		return 1
	default:
		return 0
	}
}

func HighestEducationLevel(edu []profile.Education) int {
	best := 0
	for _, e := range edu {
		if lvl := EducationLevel(e.Degree); lvl > best {
			best = lvl
		}
	}
	return best
}

func ExactMatchPercent(skills, required []string) float64 {
	required = profile.NormalizeSkills(required)
	if len(required) == 0 {
		return 0
	}
	have := make(map[string]struct{}, len(skills))
	for _, s := range profile.NormalizeSkills(skills) {
		have[s] = struct{}{}
	}
	n := 0
	for _, r := range required {
		if _, ok := have[r]; ok {
			n++
		}
	}
	return float64(n) / float64(len(required)) * 100
}
