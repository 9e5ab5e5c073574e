package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"skill-match/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	v.Set("store.badger_dir", filepath.Join(t.TempDir(), "rankings"))
	v.Set("models.dir", filepath.Join(t.TempDir(), "models"))
	cfg, err := config.Load(v)
	require.NoError(t, err)
	return cfg
}

func TestBootstrap_BadgerDriver(t *testing.T) {
	a, cleanup, err := Bootstrap(context.Background(), testConfig(t), nil)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, cleanup()) })

	assert.Nil(t, a.Container.DB)
	assert.False(t, a.Container.Predictor.Trained())

	resp, err := a.Fiber.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := `{"members":[{"candidate_id":"a","per_source":[{"source":"rule_based","score":50,"confidence":0.8}]}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/j1/rankings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = a.Fiber.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewContainer_BadOntologyOverride(t *testing.T) {
	cfg := testConfig(t)
	cfg.Ontology.OverrideFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := NewContainer(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "load ontology")
}

func TestListenAddr(t *testing.T) {
	addr, err := ListenAddr("8080")
	require.NoError(t, err)
	assert.Equal(t, ":8080", addr)

	addr, err = ListenAddr(":9090")
	require.NoError(t, err)
	assert.Equal(t, ":9090", addr)

	_, err = ListenAddr(" ")
	assert.Error(t, err)
}
