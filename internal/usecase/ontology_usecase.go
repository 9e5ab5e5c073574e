package usecase

import (
	"errors"
	"fmt"

	"skill-match/internal/domain/ontology"
	"skill-match/internal/domain/profile"
)

const maxNeighborDepth = 4

type SkillSimilarity struct {
	SkillA     string  `json:"skill_a"`
	SkillB     string  `json:"skill_b"`
	Similarity float64 `json:"similarity"`
	PathLength int     `json:"path_length"`
}

type RelatedSkills struct {
	Skill   string   `json:"skill"`
	Depth   int      `json:"depth"`
	Related []string `json:"related"`
}

type SkillDetail struct {
	ontology.Node
	Edges []ontology.Edge `json:"edges"`
}

type OntologyUsecase struct {
	graph *ontology.Graph
}

func NewOntologyUsecase(g *ontology.Graph) *OntologyUsecase {
	return &OntologyUsecase{graph: g}
}

func (u *OntologyUsecase) Stats() ontology.Stats {
	return u.graph.Stats()
}

func (u *OntologyUsecase) Related(skill string, depth int) (RelatedSkills, error) {
	skill = profile.NormalizeSkill(skill)
	if skill == "" {
		return RelatedSkills{}, fmt.Errorf("%w: skill is required", ErrInvalidInput)
	}
	if depth == 0 {
		depth = ontology.DefaultNeighborDepth
	}
	if depth < 0 || depth > maxNeighborDepth {
		return RelatedSkills{}, fmt.Errorf("%w: depth must be within [1,%d]", ErrInvalidInput, maxNeighborDepth)
	}
	if _, err := u.graph.Lookup(skill); err != nil {
		return RelatedSkills{}, ErrNotFound
	}
	related := u.graph.Neighbors(skill, depth)
	if related == nil {
		related = []string{}
	}
	return RelatedSkills{Skill: skill, Depth: depth, Related: related}, nil
}

func (u *OntologyUsecase) Similarity(a, b string) (SkillSimilarity, error) {
	a, b = profile.NormalizeSkill(a), profile.NormalizeSkill(b)
	if a == "" || b == "" {
		return SkillSimilarity{}, fmt.Errorf("%w: both skills are required", ErrInvalidInput)
	}
	out := SkillSimilarity{SkillA: a, SkillB: b, Similarity: u.graph.Similarity(a, b), PathLength: -1}
	d, err := u.graph.PathLength(a, b)
	switch {
	case err == nil:
		out.PathLength = d
	case errors.Is(err, ontology.ErrUnknownNode), errors.Is(err, ontology.ErrNoPath):
	default:
		return SkillSimilarity{}, ErrInternal
	}
	return out, nil
}

func (u *OntologyUsecase) Skill(name string) (SkillDetail, error) {
	n, err := u.graph.Lookup(profile.NormalizeSkill(name))
	if err != nil {
		return SkillDetail{}, ErrNotFound
	}
	edges := u.graph.EdgesFrom(n.Name)
	if edges == nil {
		edges = []ontology.Edge{}
	}
	return SkillDetail{Node: n, Edges: edges}, nil
}

// Definition is the effective seed-plus-override ontology, in the same shape
// the override file accepts.
func (u *OntologyUsecase) Definition() ontology.Definition {
	return u.graph.Definition()
}
