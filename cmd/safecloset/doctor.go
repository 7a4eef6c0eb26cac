package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Canop/safecloset/session"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run diagnostics against the configured closet file without opening any drawer",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		report := sess.Diagnose(context.Background())
		fmt.Fprintf(cmd.OutOrStdout(), "status: %s\n", report.Status)
		for name, result := range report.Checks {
			fmt.Fprintf(cmd.OutOrStdout(), "  %-18s %-10s %s\n", name, result.Status, result.Message)
		}
		if report.Status != "healthy" {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
