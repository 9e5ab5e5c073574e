package matching

import (
	"math"

	"skill-match/internal/domain/ontology"
	"skill-match/internal/domain/profile"
)

// Thresholds carried over from the first scoring model. They are not
// calibrated; adjust only with labelled outcomes. A prerequisite is a
// candidate skill at most one hop away from the target.
const (
	SemanticThreshold     = 0.3
	PrerequisiteThreshold = 0.5
)

const (
	gapSuggestionLimit     = 3
	recommendedRelatedSize = 5
	preferredBonus         = 5.0
)

type Kind string

const (
	KindExact    Kind = "exact"
	KindSemantic Kind = "semantic"
	KindNone     Kind = "none"
)

type Ontology interface {
	Similarity(a, b string) float64
	Neighbors(skill string, maxDepth int) []string
	Lookup(name string) (ontology.Node, error)
}

type SkillMatch struct {
	Target     string  `json:"target_skill"`
	Candidate  string  `json:"candidate_skill,omitempty"`
	Kind       Kind    `json:"match_type"`
	Similarity float64 `json:"similarity"`
}

func (m SkillMatch) Matched() bool {
	return m.Kind == KindExact || m.Kind == KindSemantic
}

type Gap struct {
	MissingSkill           string   `json:"missing_skill"`
	RelatedCandidateSkills []string `json:"related_candidate_skills"`
	LearningPath           []string `json:"learning_path"`
}

type Recommendation struct {
	TargetSkill   string   `json:"target_skill"`
	RelatedSkills []string `json:"related_skills"`
	Prerequisites []string `json:"prerequisites"`
	LearningPath  []string `json:"learning_path"`
}

type Result struct {
	Required        []SkillMatch     `json:"required"`
	Preferred       []SkillMatch     `json:"preferred"`
	MatchedSkills   []string         `json:"matched_skills"`
	MissingSkills   []string         `json:"missing_skills"`
	Gaps            []Gap            `json:"gaps"`
	Recommendations []Recommendation `json:"recommendations"`
	Score           float64          `json:"score"`
	Confidence      float64          `json:"confidence"`
}

type Matcher struct {
	onto Ontology
}

func NewMatcher(onto Ontology) *Matcher {
	return &Matcher{onto: onto}
}

func (m *Matcher) Match(candidate profile.CandidateProfile, job profile.JobRequirements) Result {
	skills := profile.NormalizeSkills(candidate.Skills)
	required := profile.NormalizeSkills(job.RequiredSkills)
	preferred := profile.NormalizeSkills(job.PreferredSkills)

	res := Result{
		Required:        make([]SkillMatch, 0, len(required)),
		Preferred:       make([]SkillMatch, 0, len(preferred)),
		MatchedSkills:   []string{},
		MissingSkills:   []string{},
		Gaps:            []Gap{},
		Recommendations: []Recommendation{},
	}

	matches := 0
	for _, target := range required {
		sm := m.bestMatch(skills, target)
		res.Required = append(res.Required, sm)
		if sm.Matched() {
			matches++
			res.MatchedSkills = append(res.MatchedSkills, target)
			continue
		}
		res.MissingSkills = append(res.MissingSkills, target)
		res.Gaps = append(res.Gaps, m.gap(skills, target))
	}

	preferredMatches := 0
	for _, target := range preferred {
		sm := m.bestMatch(skills, target)
		res.Preferred = append(res.Preferred, sm)
		if sm.Matched() {
			preferredMatches++
		}
	}

	for _, sm := range append(append([]SkillMatch{}, res.Required...), res.Preferred...) {
		if sm.Kind == KindExact {
			continue
		}
		res.Recommendations = append(res.Recommendations, m.recommend(skills, sm.Target))
	}

	ratio := float64(matches) / math.Max(1, float64(len(required)))
	res.Score = round2(math.Min(100, ratio*100+preferredBonus*float64(preferredMatches)))
	res.Confidence = clamp01(ratio)
	return res
}

func (m *Matcher) bestMatch(skills []string, target string) SkillMatch {
	best := SkillMatch{Target: target, Kind: KindNone}
	for _, s := range skills {
		if s == target {
			return SkillMatch{Target: target, Candidate: s, Kind: KindExact, Similarity: 1}
		}
		sim := m.onto.Similarity(s, target)
		if sim > best.Similarity && sim > SemanticThreshold {
			best = SkillMatch{Target: target, Candidate: s, Kind: KindSemantic, Similarity: sim}
		}
	}
	return best
}

func (m *Matcher) gap(skills []string, missing string) Gap {
	related := m.onto.Neighbors(missing, ontology.DefaultNeighborDepth)
	g := Gap{
		MissingSkill:           missing,
		RelatedCandidateSkills: intersect(skills, related),
		LearningPath:           head(related, gapSuggestionLimit),
	}
	return g
}

func (m *Matcher) recommend(skills []string, target string) Recommendation {
	related := m.onto.Neighbors(target, ontology.DefaultNeighborDepth)
	rec := Recommendation{
		TargetSkill:   target,
		RelatedSkills: head(related, recommendedRelatedSize),
		Prerequisites: []string{},
		LearningPath:  []string{},
	}
	for _, s := range skills {
		if m.onto.Similarity(s, target) >= PrerequisiteThreshold {
			rec.Prerequisites = append(rec.Prerequisites, s)
		}
	}
	if node, err := m.onto.Lookup(target); err == nil && node.Kind == ontology.KindSkill {
		rec.LearningPath = ontology.LearningSteps(node.Level)
	}
	return rec
}

func intersect(skills, related []string) []string {
	set := make(map[string]struct{}, len(related))
	for _, r := range related {
		set[r] = struct{}{}
	}
	out := []string{}
	for _, s := range skills {
		if _, ok := set[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

func head(in []string, n int) []string {
	if len(in) > n {
		in = in[:n]
	}
	return append([]string{}, in...)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
