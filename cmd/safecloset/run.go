package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Canop/safecloset/config"
	"github.com/Canop/safecloset/internal/logger"
	"github.com/Canop/safecloset/session"
	"github.com/spf13/cobra"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.LoaderOptions{
		ConfigDir:   configDir,
		Environment: envName,
	})
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if closetPath != "" {
		cfg.Closet.Path = closetPath
	}
	return cfg, nil
}

func buildLogger(cfg *config.Config) (logger.Logger, error) {
	var level logger.Level
	switch strings.ToUpper(cfg.Logging.Level) {
	case "DEBUG":
		level = logger.DebugLevel
	case "WARN":
		level = logger.WarnLevel
	case "ERROR":
		level = logger.ErrorLevel
	default:
		level = logger.InfoLevel
	}

	var out io.Writer = os.Stderr
	if cfg.Logging.Output == "file" && cfg.Logging.FilePath != "" {
		f, err := os.OpenFile(cfg.Logging.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		out = f
	}

	log := logger.NewLogger(out, level)
	logger.SetDefaultLogger(log)
	return log, nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := buildLogger(cfg)
	if err != nil {
		return err
	}

	sess, err := session.Open(cfg, log)
	if err != nil {
		return fmt.Errorf("opening closet: %w", err)
	}
	if sess.JustCreated() {
		fmt.Fprintf(cmd.OutOrStdout(), "no closet found at %s, a fresh one was generated\n", cfg.Closet.Path)
	}

	repl := session.NewREPL(sess, cmd.InOrStdin(), cmd.OutOrStdout())
	return repl.Run(context.Background())
}
