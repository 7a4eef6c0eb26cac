package main

import (
	"fmt"
	"net/http"

	"github.com/Canop/safecloset/internal/metrics"
	"github.com/spf13/cobra"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics-server",
	Short: "Serve Prometheus metrics over HTTP until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.Metrics.Enabled {
			return fmt.Errorf("metrics are disabled in config, enable metrics.enabled first")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "serving metrics on %s%s\n", cfg.Metrics.Addr, cfg.Metrics.Path)
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		return http.ListenAndServe(cfg.Metrics.Addr, mux)
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}
