package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"giftshop.GO/app"
	"giftshop.GO/config"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:          "giftshop",
	Short:        "Gift shop catalog service and tooling",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (yaml, json or toml); env vars override it")
}

// Execute applies registered commands and runs the CLI.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads --config, falling back to GIFTSHOP_CONFIG.
func loadConfig() (*config.Config, error) {
	path := configFile
	if path == "" {
		path = config.GetEnv("GIFTSHOP_CONFIG", "")
	}
	v, err := config.NewViper(path)
	if err != nil {
		return nil, err
	}
	return config.Load(v)
}

// bootstrap builds the application for commands that need the database.
func bootstrap(ctx context.Context) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := config.NewLogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("bootstrap failed", zap.Error(err))
		return nil, err
	}
	return a, nil
}
