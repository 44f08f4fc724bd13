package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/segmentd/internal/app"
	"github.com/kailas-cloud/segmentd/internal/config"
	logpkg "github.com/kailas-cloud/segmentd/internal/logger"
	"github.com/kailas-cloud/segmentd/internal/version"
)

var (
	configFlag string
	envFlag    string
	rootCmd    = &cobra.Command{
		Use:          "segmentctl",
		Short:        "Operator CLI for the segmentd content selector",
		SilenceUsage: true,
		Version:      version.Version + " (" + version.Commit + ")",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to a config file (overrides --env)")
	rootCmd.PersistentFlags().StringVarP(&envFlag, "env", "e", config.GetEnv(), "Environment whose config/<env>.yaml is loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	if configFlag != "" {
		return config.LoadFile(configFlag) //nolint:wrapcheck // already wrapped by config
	}
	return config.Load(envFlag) //nolint:wrapcheck // already wrapped by config
}

// withApp loads config, wires the services and runs fn against them.
func withApp(cmd *cobra.Command, fn func(a *app.App) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if cfg.Logging.Level == "debug" {
		if logger, err = logpkg.NewLogger("local", "debug"); err != nil {
			return err //nolint:wrapcheck // already wrapped by logger
		}
	}

	a, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err //nolint:wrapcheck // already wrapped by app
	}
	defer a.Close()

	return fn(a)
}
