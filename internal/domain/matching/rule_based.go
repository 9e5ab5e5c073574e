package matching

import (
	"math"
	"strings"

	"skill-match/internal/domain/profile"
)

const RuleBasedConfidence = 0.8

var degreeScores = []struct {
	keyword string
	score   float64
}{
	{"phd", 100},
	{"master", 80},
	{"bachelor", 60},
	{"diploma", 40},
	{"certificate", 20},
}

type RuleScore struct {
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
	Education  float64 `json:"education"`
	Overall    float64 `json:"overall"`
}

func RuleBasedScore(candidate profile.CandidateProfile, job profile.JobRequirements) RuleScore {
	rs := RuleScore{
		Skills:     round2(ExactMatchPercent(candidate.Skills, job.RequiredSkills)),
		Experience: math.Min(100, float64(len(candidate.Experience))*20),
		Education:  educationScore(candidate.Education),
	}
	rs.Overall = round2(rs.Skills*0.4 + rs.Experience*0.4 + rs.Education*0.2)
	return rs
}

func educationScore(edu []profile.Education) float64 {
	best := 0.0
	for _, e := range edu {
		d := strings.ToLower(e.Degree)
		for _, ds := range degreeScores {
			if strings.Contains(d, ds.keyword) && ds.score > best {
				best = ds.score
			}
		}
	}
	return best
}
