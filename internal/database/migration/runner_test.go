package migration

import (
	"testing"
	"testing/fstest"

	"skill-match/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_OrdersAndFilters(t *testing.T) {
	src := fstest.MapFS{
		"V2__add_index.sql":  {Data: []byte("CREATE INDEX x ON t (a);")},
		"V1__create_t.sql":   {Data: []byte("  CREATE TABLE t (a INT);\n")},
		"README.md":          {Data: []byte("ignored")},
		"V3_bad_name.sql":    {Data: []byte("SELECT 1;")},
		"sub/V9__nested.sql": {Data: []byte("SELECT 1;")},
	}

	migs, err := Load(src)
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, int64(1), migs[0].Version)
	assert.Equal(t, "create_t", migs[0].Name)
	assert.Equal(t, "CREATE TABLE t (a INT);", migs[0].SQL)
	assert.Len(t, migs[0].Checksum, 64)
	assert.Equal(t, int64(2), migs[1].Version)
}

func TestLoad_Rejects(t *testing.T) {
	_, err := Load(fstest.MapFS{"V1__empty.sql": {Data: []byte("  \n")}})
	assert.ErrorContains(t, err, "empty migration")

	_, err = Load(fstest.MapFS{
		"V1__a.sql":  {Data: []byte("SELECT 1;")},
		"V01__b.sql": {Data: []byte("SELECT 2;")},
	})
	assert.ErrorContains(t, err, "duplicate migration version")
}

func TestLoad_EmbeddedMigrations(t *testing.T) {
	migs, err := Load(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	assert.Equal(t, "create_rankings", migs[0].Name)
	assert.Contains(t, migs[0].SQL, "CREATE TABLE")
}
