package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Deek-011/formbot/internal/common/config"
	"github.com/Deek-011/formbot/internal/common/logger"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:          "formbot",
	Short:        "FormBot backend",
	Long:         `FormBot serves the form builder API: accounts, folders and forms.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"overrides LOG_LEVEL (DEBUG, INFO, WARNING, ERROR, CRITICAL)")
}

func newLogger(cfg config.LogConfig, serviceName string) (*logger.Logger, error) {
	level := cfg.Level
	if logLevel != "" {
		level = logLevel
	}
	log, err := logger.New(cfg.Dir, serviceName, level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log, nil
}
