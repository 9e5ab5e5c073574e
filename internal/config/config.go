package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "SKILLMATCH"

const (
	StoreDriverPostgres = "postgres"
	StoreDriverBadger   = "badger"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Store    StoreConfig    `mapstructure:"store"`
	Ontology OntologyConfig `mapstructure:"ontology"`
	Models   ModelsConfig   `mapstructure:"models"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Bias     BiasConfig     `mapstructure:"bias"`
}

type AppConfig struct {
	AppName     string `mapstructure:"name"`
	Environment string `mapstructure:"env"`
	HTTPPort    string `mapstructure:"http_port"`
	LogJSON     bool   `mapstructure:"log_json"`
	Debug       bool   `mapstructure:"debug"`
}

type DatabaseConfig struct {
	DBHost     string `mapstructure:"host"`
	DBPort     string `mapstructure:"port"`
	DBName     string `mapstructure:"name"`
	DBUser     string `mapstructure:"user"`
	DBPassword string `mapstructure:"password"`
	DBSSLMode  string `mapstructure:"ssl_mode"`

	MigrationsDir string `mapstructure:"migrations_dir"`

	ConnectTimeout        time.Duration `mapstructure:"connect_timeout"`
	PoolMaxConns          int32         `mapstructure:"pool_max_conns"`
	PoolMinConns          int32         `mapstructure:"pool_min_conns"`
	PoolMaxConnLifetime   time.Duration `mapstructure:"pool_max_conn_lifetime"`
	PoolMaxConnIdleTime   time.Duration `mapstructure:"pool_max_conn_idle_time"`
	PoolHealthCheckPeriod time.Duration `mapstructure:"pool_health_check_period"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type StoreConfig struct {
	Driver    string `mapstructure:"driver"`
	BadgerDir string `mapstructure:"badger_dir"`
}

type OntologyConfig struct {
	OverrideFile string `mapstructure:"override_file"`
}

type ModelsConfig struct {
	Dir string `mapstructure:"dir"`
}

type LLMConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
	RPS     float64       `mapstructure:"rps"`
}

type BiasConfig struct {
	LogCapacity int `mapstructure:"log_capacity"`
}

var errMissingRequired = errors.New("missing required configuration")

var ErrInvalidConfig = errors.New("invalid configuration")

// SetDefaults registers every key so environment variables are picked up by
// Unmarshal even when no config file mentions them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "skill-match")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.http_port", "8080")
	v.SetDefault("app.log_json", false)
	v.SetDefault("app.debug", false)

	v.SetDefault("database.host", "")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.migrations_dir", "")
	v.SetDefault("database.connect_timeout", 5*time.Second)
	v.SetDefault("database.pool_max_conns", 10)
	v.SetDefault("database.pool_min_conns", 0)
	v.SetDefault("database.pool_max_conn_lifetime", time.Hour)
	v.SetDefault("database.pool_max_conn_idle_time", 30*time.Minute)
	v.SetDefault("database.pool_health_check_period", time.Minute)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 10*time.Minute)

	v.SetDefault("store.driver", StoreDriverBadger)
	v.SetDefault("store.badger_dir", "data/rankings")

	v.SetDefault("ontology.override_file", "")
	v.SetDefault("models.dir", "models")

	v.SetDefault("llm.enabled", false)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gemini-2.5-flash")
	v.SetDefault("llm.timeout", 5*time.Second)
	v.SetDefault("llm.rps", 1.0)

	v.SetDefault("bias.log_capacity", 1000)
}

// BindEnv makes every key readable as SKILLMATCH_<SECTION>_<KEY>.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

func Load(v *viper.Viper) (Config, error) {
	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	var missing []string
	req := func(key, val string) {
		if strings.TrimSpace(val) == "" {
			missing = append(missing, key)
		}
	}

	req("app.name", cfg.App.AppName)
	req("app.http_port", cfg.App.HTTPPort)

	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	switch cfg.Store.Driver {
	case StoreDriverPostgres:
		req("database.host", cfg.Database.DBHost)
		req("database.port", cfg.Database.DBPort)
		req("database.name", cfg.Database.DBName)
		req("database.user", cfg.Database.DBUser)
	case StoreDriverBadger:
		req("store.badger_dir", cfg.Store.BadgerDir)
	default:
		return Config{}, fmt.Errorf("%w: store.driver must be %q or %q, got %q",
			ErrInvalidConfig, StoreDriverPostgres, StoreDriverBadger, cfg.Store.Driver)
	}

	if cfg.LLM.Enabled {
		req("llm.api_key", cfg.LLM.APIKey)
		req("llm.model", cfg.LLM.Model)
		if cfg.LLM.Timeout <= 0 {
			return Config{}, fmt.Errorf("%w: llm.timeout must be positive, got %s", ErrInvalidConfig, cfg.LLM.Timeout)
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequired, strings.Join(missing, ", "))
	}
	return cfg, nil
}

func IsMissingRequired(err error) bool {
	return errors.Is(err, errMissingRequired)
}
