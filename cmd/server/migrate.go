package main

import (
	"context"
	"fmt"
	"time"

	"skill-match/internal/app"
	"skill-match/internal/config"
	dbpostgres "skill-match/internal/database/postgres"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQL migrations to the Postgres ranking store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return migrate(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func migrate(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, l, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	if cfg.Store.Driver != config.StoreDriverPostgres {
		return fmt.Errorf("migrate needs store.driver=%s, got %q", config.StoreDriverPostgres, cfg.Store.Driver)
	}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	db, err := dbpostgres.Connect(cctx, cfg.Database, l)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer func() { _ = db.Close() }()

	n, err := app.Migrate(ctx, db, cfg.Database.MigrationsDir, l)
	if err != nil {
		return err
	}
	l.Info("migrations complete", zap.Int("applied", n))
	return nil
}
