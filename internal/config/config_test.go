package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	BindEnv(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newViper())
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.App.HTTPPort)
	assert.Equal(t, StoreDriverBadger, cfg.Store.Driver)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 1000, cfg.Bias.LogCapacity)
	assert.Equal(t, int32(10), cfg.Database.PoolMaxConns)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SKILLMATCH_APP_HTTP_PORT", "9090")
	t.Setenv("SKILLMATCH_LLM_TIMEOUT", "750ms")
	t.Setenv("SKILLMATCH_BIAS_LOG_CAPACITY", "25")

	cfg, err := Load(newViper())
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.App.HTTPPort)
	assert.Equal(t, 750*time.Millisecond, cfg.LLM.Timeout)
	assert.Equal(t, 25, cfg.Bias.LogCapacity)
}

func TestLoad_PostgresRequiresDatabase(t *testing.T) {
	v := newViper()
	v.Set("store.driver", "postgres")

	_, err := Load(v)
	require.Error(t, err)
	assert.True(t, IsMissingRequired(err))
	assert.Contains(t, err.Error(), "database.host")
	assert.Contains(t, err.Error(), "database.name")
}

func TestLoad_LLMRequiresKey(t *testing.T) {
	v := newViper()
	v.Set("llm.enabled", true)

	_, err := Load(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.api_key")
}

func TestLoad_UnknownDriver(t *testing.T) {
	v := newViper()
	v.Set("store.driver", "sqlite")

	_, err := Load(v)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_LLMRequiresPositiveTimeout(t *testing.T) {
	for _, timeout := range []time.Duration{0, -time.Second} {
		v := newViper()
		v.Set("llm.enabled", true)
		v.Set("llm.api_key", "k")
		v.Set("llm.timeout", timeout)

		_, err := Load(v)
		require.Error(t, err, timeout)
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.Contains(t, err.Error(), "llm.timeout")
	}

	v := newViper()
	v.Set("llm.timeout", 0)
	_, err := Load(v)
	assert.NoError(t, err)
}
