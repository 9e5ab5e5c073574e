package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSkills_DedupAndOrder(t *testing.T) {
	got := NormalizeSkills([]string{" Python ", "python", "", "Machine   Learning", "SQL"})
	assert.Equal(t, []string{"python", "machine learning", "sql"}, got)
}

func TestCandidateProfile_Validate(t *testing.T) {
	require.NoError(t, CandidateProfile{ID: "c-1", Email: "a@b.io"}.Validate())
	assert.Error(t, CandidateProfile{}.Validate())
	assert.Error(t, CandidateProfile{ID: "c-1", Email: "not-an-email"}.Validate())
}

func TestJobRequirements_Validate(t *testing.T) {
	require.NoError(t, JobRequirements{ID: "j-1", ExperienceLevel: LevelSenior}.Validate())
	assert.Error(t, JobRequirements{ID: "j-1", ExperienceLevel: "wizard"}.Validate())
	assert.Error(t, JobRequirements{}.Validate())
}

func TestJobRequirements_Normalized(t *testing.T) {
	j := JobRequirements{ID: " j ", RequiredSkills: []string{"Go", "go"}, ExperienceLevel: " Mid "}.Normalized()
	assert.Equal(t, "j", j.ID)
	assert.Equal(t, []string{"go"}, j.RequiredSkills)
	assert.Equal(t, LevelMid, j.ExperienceLevel)
}
