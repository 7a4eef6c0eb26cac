// Copyright (C) 2025 safecloset
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the operational knobs that sit around the fixed file
// format: it never configures cryptographic parameters, since §4.2/§6
// of the closet format fix those (see core.DeriveCipher).
type Config struct {
	Environment string             `yaml:"environment" json:"environment"`
	Closet      *ClosetConfig      `yaml:"closet" json:"closet"`
	Logging     *LoggingConfig     `yaml:"logging" json:"logging"`
	Metrics     *MetricsConfig     `yaml:"metrics" json:"metrics"`
	Diagnostics *DiagnosticsConfig `yaml:"diagnostics" json:"diagnostics"`
}

// ClosetConfig names the file a bare `safecloset` invocation opens, and
// the backup suffix the diagnostics backup check looks for. storage.Save
// always writes its backup to path+".old", whatever BackupSuffix says.
type ClosetConfig struct {
	Path          string `yaml:"path" json:"path"`
	BackupSuffix  string `yaml:"backup_suffix" json:"backup_suffix"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" json:"level"`
	Format   string `yaml:"format" json:"format"`
	Output   string `yaml:"output" json:"output"`
	FilePath string `yaml:"file_path" json:"file_path"`
}

// MetricsConfig represents metrics configuration
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
	Path    string `yaml:"path" json:"path"`
}

// DiagnosticsConfig selects which internal/diagnostics checks
// `safecloset doctor` runs.
type DiagnosticsConfig struct {
	Enabled bool     `yaml:"enabled" json:"enabled"`
	Checks  []string `yaml:"checks" json:"checks"`
}

// LoadFromFile loads configuration from a file, trying YAML then JSON.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file (tried YAML and JSON): %w", err)
		}
	}

	setDefaults(cfg)

	return cfg, nil
}

// SaveToFile saves configuration to a file, picking format by extension.
func SaveToFile(cfg *Config, path string) error {
	var data []byte
	var err error

	if len(path) > 5 && path[len(path)-5:] == ".json" {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setDefaults fills in every field a user might reasonably omit.
func setDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if cfg.Closet == nil {
		cfg.Closet = &ClosetConfig{}
	}
	if cfg.Closet.Path == "" {
		cfg.Closet.Path = "safecloset.sc"
	}
	if cfg.Closet.BackupSuffix == "" {
		cfg.Closet.BackupSuffix = ".old"
	}

	if cfg.Logging == nil {
		cfg.Logging = &LoggingConfig{}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Metrics == nil {
		cfg.Metrics = &MetricsConfig{}
	}
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9530"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	if cfg.Diagnostics == nil {
		cfg.Diagnostics = &DiagnosticsConfig{Enabled: true}
	}
	if len(cfg.Diagnostics.Checks) == 0 {
		cfg.Diagnostics.Checks = []string{"file_readable", "backup_present", "file_permissions"}
	}
}
