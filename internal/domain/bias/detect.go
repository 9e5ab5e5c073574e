package bias

import (
	"math"
	"strings"
	"unicode"

	"skill-match/internal/domain/profile"
)

type Indicator struct {
	Detected   bool           `json:"bias_detected"`
	Confidence float64        `json:"confidence"`
	Counts     map[string]int `json:"counts"`
}

func Evaluate(c profile.CandidateProfile) map[Dimension]Indicator {
	all := map[Dimension]Indicator{
		DimensionGender:     detectGender(c),
		DimensionName:       detectName(c),
		DimensionEducation:  detectEducation(c),
		DimensionExperience: detectExperience(c),
		DimensionGeographic: detectGeographic(c),
	}
	out := make(map[Dimension]Indicator)
	for d, ind := range all {
		if ind.Detected {
			out[d] = ind
		}
	}
	return out
}

func AggregateScore(triggered map[Dimension]Indicator) float64 {
	if len(triggered) == 0 {
		return 0
	}
	var sum float64
	for _, ind := range triggered {
		sum += ind.Confidence
	}
	return math.Min(1, sum/float64(len(triggered)))
}

func detectGender(c profile.CandidateProfile) Indicator {
	text := tokenText(c.Name + " " + c.Email)
	f := countPhrases(text, femaleIndicators)
	m := countPhrases(text, maleIndicators)
	return Indicator{
		Detected:   abs(f-m) > 2,
		Confidence: math.Min(1, float64(f+m)/10),
		Counts:     map[string]int{"female_indicators": f, "male_indicators": m},
	}
}

func detectName(c profile.CandidateProfile) Indicator {
	name := strings.ToLower(strings.TrimSpace(c.Name))
	n := 0
	if name != "" {
		for _, re := range namePatterns {
			if re.MatchString(name) {
				n++
			}
		}
	}
	return Indicator{
		Detected:   n > 0,
		Confidence: math.Min(1, float64(n)/float64(len(namePatterns))),
		Counts:     map[string]int{"pattern_matches": n},
	}
}

func detectEducation(c profile.CandidateProfile) Indicator {
	if len(c.Education) == 0 {
		return Indicator{}
	}
	parts := make([]string, 0, len(c.Education))
	for _, e := range c.Education {
		parts = append(parts, e.Institution)
	}
	text := tokenText(strings.Join(parts, " "))
	p := countPhrases(text, prestigiousSchools)
	cc := countPhrases(text, communityColleges)
	return Indicator{
		Detected:   oneSided(p, cc),
		Confidence: math.Min(1, float64(p+cc)/5),
		Counts:     map[string]int{"prestigious_schools": p, "community_colleges": cc},
	}
}

func detectExperience(c profile.CandidateProfile) Indicator {
	n := len(c.Experience)
	if n == 0 {
		return Indicator{}
	}
	startup := 0
	for _, e := range c.Experience {
		if countPhrases(tokenText(e.Company), startupKeywords) > 0 {
			startup++
		}
	}
	corporate := n - startup
	diff := abs(startup - corporate)
	return Indicator{
		Detected:   float64(diff) > float64(n)*0.7,
		Confidence: math.Min(1, float64(diff)/float64(n)),
		Counts:     map[string]int{"startup_experience": startup, "corporate_experience": corporate},
	}
}

func detectGeographic(c profile.CandidateProfile) Indicator {
	parts := []string{c.Location}
	for _, e := range c.Experience {
		parts = append(parts, e.Location)
	}
	text := tokenText(strings.Join(parts, " "))
	cities := countPhrases(text, majorCities)
	rural := countPhrases(text, ruralIndicators)
	return Indicator{
		Detected:   oneSided(cities, rural),
		Confidence: math.Min(1, float64(cities+rural)/5),
		Counts:     map[string]int{"major_cities": cities, "rural_indicators": rural},
	}
}

func tokenText(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return !unicode.IsLetter(r) })
	return " " + strings.Join(fields, " ") + " "
}

func countPhrases(text string, phrases []string) int {
	n := 0
	for _, p := range phrases {
		if strings.Contains(text, " "+p+" ") {
			n++
		}
	}
	return n
}

func oneSided(a, b int) bool {
	return (a > 0 && b == 0) || (b > 0 && a == 0)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
