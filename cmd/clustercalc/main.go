// Package main provides the clustercalc command line interface.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chiefotto/clustercalculator/internal/config"
	"github.com/chiefotto/clustercalculator/internal/logger"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	logLevel   string
	cfg        *config.Config
	appLog     *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:           "clustercalc",
	Short:         "Cluster-conditioned player projections and defense-vs-position analysis",
	Long:          `Projects player stat lines against an opponent's defensive cluster and ranks defensive matchups by position.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(
		newRefreshCmd(),
		newSlateCmd(),
		newMatchupCmd(),
		newProjectCmd(),
		newDVPCmd(),
		newServeCmd(),
	)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(ctx context.Context) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.App.LogLevel = logLevel
	}

	if err := config.LoadSecretsFromAWS(ctx, cfg); err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// tables go to stdout, logs to stderr
	appLog = logger.NewLoggerWithOutput(cfg.App.LogLevel, cfg.App.Environment, os.Stderr)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"backend":     cfg.Storage.Backend,
		"version":     Version,
	}).Debug("Configuration loaded")
	return nil
}
