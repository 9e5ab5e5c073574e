package main

import (
	"errors"
	"fmt"
	"io/fs"

	"skill-match/internal/config"
	"skill-match/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const appName = "skill-match"

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           appName,
		Short:         "skill-match scores candidates against job requirements, ranks cohorts and audits for bias",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is skill-match.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	_ = viper.BindPFlag("app.debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("app.log_json", rootCmd.PersistentFlags().Lookup("json"))
}

func loadConfig() (config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.GetViper()
	config.SetDefaults(v)
	config.BindEnv(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return config.Config{}, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(appName)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return config.Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return config.Load(v)
}

func setup() (config.Config, *zap.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return config.Config{}, nil, err
	}
	l, err := logger.New(cfg.App.LogJSON, cfg.App.Debug)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("creating a logger: %w", err)
	}
	return cfg, l.With(zap.String("app", cfg.App.AppName), zap.String("env", cfg.App.Environment)), nil
}
