package ontology

import "errors"

var (
	ErrUnknownNode = errors.New("ontology: unknown node")
	ErrNoPath      = errors.New("ontology: no path between nodes")
)

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

type NodeKind uint8

const (
	KindSkill NodeKind = iota + 1
	KindJob
	KindCategory
)

func (k NodeKind) String() string {
	switch k {
	case KindSkill:
		return "skill"
	case KindJob:
		return "job"
	case KindCategory:
		return "category"
	default:
		return "unknown"
	}
}

func (r Relation) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

type Relation uint8

const (
	RelRelated Relation = iota + 1
	RelBelongsTo
	RelRequires
	RelPrefers
)

func (r Relation) String() string {
	switch r {
	case RelRelated:
		return "related"
	case RelBelongsTo:
		return "belongs_to"
	case RelRequires:
		return "requires"
	case RelPrefers:
		return "prefers"
	default:
		return "unknown"
	}
}

type SkillDef struct {
	Category string   `json:"category" yaml:"category"`
	Level    Level    `json:"level" yaml:"level"`
	Related  []string `json:"related,omitempty" yaml:"related,omitempty"`
}

type JobDef struct {
	Required        []string `json:"required_skills,omitempty" yaml:"required_skills,omitempty"`
	Preferred       []string `json:"preferred_skills,omitempty" yaml:"preferred_skills,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty" yaml:"experience_level,omitempty"`
	RelatedRoles    []string `json:"related_roles,omitempty" yaml:"related_roles,omitempty"`
}

type Definition struct {
	Skills map[string]SkillDef `json:"skills" yaml:"skills"`
	Jobs   map[string]JobDef   `json:"jobs" yaml:"jobs"`
}

type Node struct {
	ID              int64    `json:"-"`
	Name            string   `json:"name"`
	Kind            NodeKind `json:"-"`
	Category        string   `json:"category,omitempty"`
	Level           Level    `json:"level,omitempty"`
	Related         []string `json:"related,omitempty"`
	Required        []string `json:"required_skills,omitempty"`
	Preferred       []string `json:"preferred_skills,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
}

type Edge struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Relation Relation `json:"relation"`
}

type Stats struct {
	TotalSkills        int      `json:"total_skills"`
	TotalJobs          int      `json:"total_jobs"`
	TotalCategories    int      `json:"total_categories"`
	TotalRelationships int      `json:"total_relationships"`
	Categories         []string `json:"categories"`
	Version            string   `json:"version"`
}
