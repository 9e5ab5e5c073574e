package bias

import "regexp"

type Dimension string

const (
	DimensionGender     Dimension = "gender"
	DimensionName       Dimension = "name"
	DimensionEducation  Dimension = "education"
	DimensionExperience Dimension = "experience"
	DimensionGeographic Dimension = "geographic"
)

var Dimensions = []Dimension{
	DimensionGender,
	DimensionName,
	DimensionEducation,
	DimensionExperience,
	DimensionGeographic,
}

var (
	femaleIndicators = []string{
		"she", "her", "hers", "ms", "mrs", "miss", "madam",
		"sarah", "jennifer", "jessica", "amanda", "ashley", "emily", "michelle",
	}
	maleIndicators = []string{
		"he", "him", "his", "mr", "sir",
		"john", "michael", "david", "james", "robert", "william", "richard",
	}

	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`[^a-z\s]`),
		regexp.MustCompile(`\b(ahmed|mohammed|ali|hassan|ibrahim)\b`),
		regexp.MustCompile(`\b(wei|chen|li|wang|zhang)\b`),
		regexp.MustCompile(`\b(patel|sharma|singh|kumar)\b`),
	}

	prestigiousSchools = []string{
		"harvard", "stanford", "mit", "yale", "princeton", "columbia",
		"university of california", "berkeley", "carnegie mellon",
	}
	communityColleges = []string{
		"community college", "junior college", "technical college",
	}

	startupKeywords = []string{"startup", "inc", "llc", "corp"}

	majorCities = []string{
		"new york", "san francisco", "los angeles", "chicago", "boston",
		"seattle", "austin", "denver",
	}
	ruralIndicators = []string{"rural", "small town", "county", "township"}
)

var recommendations = map[Dimension]string{
	DimensionGender:     "Review evaluation criteria for gender-neutral language",
	DimensionName:       "Implement blind resume screening for initial review",
	DimensionEducation:  "Focus on skills and experience rather than institution prestige",
	DimensionExperience: "Value diverse experience backgrounds equally",
	DimensionGeographic: "Consider remote work options to reduce geographic bias",
}
