package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skill-match/internal/app"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, l, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	bootstrap, cleanup, err := app.Bootstrap(ctx, cfg, l)
	if err != nil {
		l.Error("failed to bootstrap app", zap.Error(err))
		return err
	}
	defer func() {
		if err := cleanup(); err != nil {
			l.Warn("cleanup error", zap.Error(err))
		}
	}()

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info("http server listening", zap.String("addr", addr), zap.String("store", cfg.Store.Driver))
		errCh <- bootstrap.Fiber.Listen(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		if err != nil {
			l.Error("server error", zap.Error(err))
			return err
		}
	case sig := <-sigCh:
		l.Info("shutting down", zap.String("signal", sig.String()))
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := bootstrap.Fiber.ShutdownWithContext(sctx); err != nil && !errors.Is(err, context.Canceled) {
			l.Warn("shutdown error", zap.Error(err))
		}
	}
	return nil
}
