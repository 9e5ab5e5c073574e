package ontology

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarity_SelfIsOne(t *testing.T) {
	g := Build(Seed())
	for name := range g.Definition().Skills {
		assert.Equal(t, 1.0, g.Similarity(name, name), name)
	}
}

func TestSimilarity_AbsentIsZero(t *testing.T) {
	g := Build(Seed())
	assert.Equal(t, 0.0, g.Similarity("python", "cobol"))
	assert.Equal(t, 0.0, g.Similarity("cobol", "python"))
}

func TestSimilarity_PathLength(t *testing.T) {
	g := Build(Seed())

	assert.InDelta(t, 0.5, g.Similarity("python", "django"), 1e-9)
	assert.InDelta(t, 1.0/3.0, g.Similarity("django", "postgresql"), 1e-9)
	assert.InDelta(t, 0.25, g.Similarity("python", "postgresql"), 1e-9)
	assert.InDelta(t, 0.5, g.Similarity("Django", "ORM"), 1e-9)
}

func TestSimilarity_RespectsDirection(t *testing.T) {
	g := Build(Definition{Skills: map[string]SkillDef{
		"a": {Category: "x", Related: []string{"b"}},
		"b": {Category: "x"},
	}})

	assert.InDelta(t, 0.5, g.Similarity("a", "b"), 1e-9)
	assert.Equal(t, 0.0, g.Similarity("b", "a"))

	_, err := g.PathLength("b", "a")
	assert.True(t, errors.Is(err, ErrNoPath))
	_, err = g.PathLength("b", "zzz")
	assert.True(t, errors.Is(err, ErrUnknownNode))
}

func TestBuild_SkipsSelfLoopsAndMissingTargets(t *testing.T) {
	g := Build(Definition{
		Skills: map[string]SkillDef{
			"a": {Category: "x", Related: []string{"a", "ghost", "b", "b"}},
			"b": {Category: "x"},
		},
		Jobs: map[string]JobDef{
			"dev": {Required: []string{"a", "ghost"}, Preferred: []string{"b"}},
		},
	})

	st := g.Stats()
	assert.Equal(t, 2, st.TotalSkills)
	assert.Equal(t, 1, st.TotalJobs)
	assert.Equal(t, []string{"x"}, st.Categories)
	// a->b related, a->x, b->x, dev->a, dev->b
	assert.Equal(t, 5, st.TotalRelationships)

	for _, e := range g.EdgesFrom("a") {
		assert.NotEqual(t, e.From, e.To)
	}
}

func TestNeighbors_OnlySkills(t *testing.T) {
	g := Build(Seed())

	got := g.Neighbors("django", 2)
	assert.Equal(t, []string{"orm", "python", "flask", "mysql", "postgresql", "sql"}, got)
	assert.NotContains(t, got, "backend")
	assert.NotContains(t, got, "django")

	assert.Equal(t, []string{"orm", "python"}, g.Neighbors("django", 1))
	assert.Nil(t, g.Neighbors("cobol", 2))
	assert.Nil(t, g.Neighbors("django", 0))
}

func TestNeighbors_FromJobExcludesJobsAndCategories(t *testing.T) {
	g := Build(Seed())
	got := g.Neighbors("devops_engineer", 1)
	assert.Equal(t, []string{"aws", "docker", "jenkins", "kubernetes", "terraform"}, got)
}

func TestLookup(t *testing.T) {
	g := Build(Seed())

	n, err := g.Lookup("PostgreSQL")
	require.NoError(t, err)
	assert.Equal(t, KindSkill, n.Kind)
	assert.Equal(t, "database", n.Category)

	_, err = g.Lookup("database")
	assert.True(t, errors.Is(err, ErrUnknownNode))
}

func TestLoad_OverrideWinsAndRebuilds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ontology.yaml")
	body := `skills:
  django:
    category: backend
    level: advanced
    related: [python]
  elixir:
    category: backend
    level: advanced
    related: [phoenix]
jobs:
  elixir_dev:
    required_skills: [elixir]
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	g, err := Load(path)
	require.NoError(t, err)

	n, err := g.Lookup("django")
	require.NoError(t, err)
	assert.Equal(t, LevelAdvanced, n.Level)
	// the seed's django->orm edge is gone after the rebuild
	assert.Equal(t, 0.0, g.Similarity("django", "orm"))
	_, err = g.Lookup("elixir")
	assert.NoError(t, err)
	assert.InDelta(t, 0.5, g.Similarity("elixir_dev", "elixir"), 1e-9)
	assert.NotEqual(t, Build(Seed()).Version(), g.Version())
}

func TestLoad_JSONOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ontology.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"skills":{"Go":{"category":"backend","level":"beginner"}}}`), 0o600))

	g, err := Load(path)
	require.NoError(t, err)
	n, err := g.Lookup("go")
	require.NoError(t, err)
	assert.Equal(t, LevelBeginner, n.Level)
	assert.Empty(t, n.Related)
}

func TestParseDefinition_RejectsSchemaViolations(t *testing.T) {
	_, err := ParseDefinition([]byte(`{"skills":{"go":{"level":"guru"}}}`), false)
	assert.True(t, errors.Is(err, ErrInvalidDefinition))

	_, err = ParseDefinition([]byte(`{"unknown": 1}`), false)
	assert.True(t, errors.Is(err, ErrInvalidDefinition))

	_, err = ParseDefinition([]byte("skills: [1, 2"), true)
	assert.True(t, errors.Is(err, ErrInvalidDefinition))
}

func TestLoad_EmptyPathIsSeed(t *testing.T) {
	g, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Build(Seed()).Stats(), g.Stats())
}

func TestLearningSteps(t *testing.T) {
	assert.Equal(t, "Learn basics", LearningSteps(LevelBeginner)[0])
	assert.Equal(t, "Review fundamentals", LearningSteps(LevelIntermediate)[0])
	assert.Equal(t, "Mentor others", LearningSteps(LevelAdvanced)[2])
}
