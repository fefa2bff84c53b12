// ABOUTME: Tests for CLI configuration layering and logger setup.
// ABOUTME: Covers defaults, config file, environment, and flag precedence.

package main

import (
	"os"
	"testing"
	"time"

	"github.com/jfeddern/RiskRegister/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// configEnvKeys lists every environment variable the config layer reads
var configEnvKeys = []string{
	"ASSETS_FILE", "REPORT_FILE", "OUTPUT_FILE", "ASSET_SOURCE", "REPORT_SOURCE",
	"AWS_REGION", "PORT", "REFRESH_INTERVAL", "LOG_LEVEL", "MOCK_MODE",
}

// saveConfigState snapshots environment and package state touched by loadConfig
func saveConfigState(t *testing.T) {
	originalEnv := make(map[string]string)
	for _, key := range configEnvKeys {
		originalEnv[key] = os.Getenv(key)
		os.Unsetenv(key)
	}
	originalCfgFile := cfgFile
	cfgFile = ""

	t.Cleanup(func() {
		for key, value := range originalEnv {
			if value == "" {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, value)
			}
		}
		cfgFile = originalCfgFile
	})
}

func TestLoadConfigDefaults(t *testing.T) {
	saveConfigState(t)

	cfg, err := loadConfig(&cobra.Command{})
	if err != nil {
		t.Fatalf("loadConfig() unexpected error: %v", err)
	}

	if cfg.AssetsFile != config.DefaultAssetsFile {
		t.Errorf("AssetsFile = %q, want %q", cfg.AssetsFile, config.DefaultAssetsFile)
	}
	if cfg.ReportFile != config.DefaultReportFile {
		t.Errorf("ReportFile = %q, want %q", cfg.ReportFile, config.DefaultReportFile)
	}
	if cfg.OutputFile != config.DefaultOutputFile {
		t.Errorf("OutputFile = %q, want %q", cfg.OutputFile, config.DefaultOutputFile)
	}
	if cfg.Port != config.DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, config.DefaultPort)
	}
	if cfg.RefreshInterval != config.DefaultRefreshInterval {
		t.Errorf("RefreshInterval = %v, want %v", cfg.RefreshInterval, config.DefaultRefreshInterval)
	}
}

func TestLoadConfigFile(t *testing.T) {
	saveConfigState(t)

	file, err := os.CreateTemp("", "test-config-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(file.Name())

	content := `port: 8443
assets_file: inventory.csv
refresh_interval: 90s
`
	if _, err := file.WriteString(content); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	file.Close()

	cfgFile = file.Name()

	cfg, err := loadConfig(&cobra.Command{})
	if err != nil {
		t.Fatalf("loadConfig() unexpected error: %v", err)
	}

	if cfg.Port != 8443 {
		t.Errorf("Port = %d, want 8443", cfg.Port)
	}
	if cfg.AssetsFile != "inventory.csv" {
		t.Errorf("AssetsFile = %q, want %q", cfg.AssetsFile, "inventory.csv")
	}
	if cfg.RefreshInterval != 90*time.Second {
		t.Errorf("RefreshInterval = %v, want 90s", cfg.RefreshInterval)
	}
	// Keys absent from the file keep their defaults
	if cfg.ReportFile != config.DefaultReportFile {
		t.Errorf("ReportFile = %q, want %q", cfg.ReportFile, config.DefaultReportFile)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	saveConfigState(t)

	cfgFile = "/nonexistent/riskregister.yaml"

	if _, err := loadConfig(&cobra.Command{}); err == nil {
		t.Error("loadConfig() expected error for missing config file")
	}
}

func TestLoadConfigEnvironmentOverridesFile(t *testing.T) {
	saveConfigState(t)

	file, err := os.CreateTemp("", "test-config-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(file.Name())

	if _, err := file.WriteString("port: 8443\n"); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	file.Close()

	cfgFile = file.Name()
	os.Setenv("PORT", "9000")

	cfg, err := loadConfig(&cobra.Command{})
	if err != nil {
		t.Fatalf("loadConfig() unexpected error: %v", err)
	}

	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000 (environment overrides file)", cfg.Port)
	}
}

func TestLoadConfigFlagOverridesEnvironment(t *testing.T) {
	saveConfigState(t)

	originalFlagValue := flagAssetsFile
	t.Cleanup(func() { flagAssetsFile = originalFlagValue })

	os.Setenv("ASSETS_FILE", "env-assets.csv")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&flagAssetsFile, "assets-file", config.DefaultAssetsFile, "")
	if err := cmd.Flags().Parse([]string{"--assets-file", "flag-assets.csv"}); err != nil {
		t.Fatalf("Failed to parse test flags: %v", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatalf("loadConfig() unexpected error: %v", err)
	}

	if cfg.AssetsFile != "flag-assets.csv" {
		t.Errorf("AssetsFile = %q, want %q (flag overrides environment)", cfg.AssetsFile, "flag-assets.csv")
	}
}

func TestLoadConfigInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
	}{
		{
			name:    "invalid port",
			envVars: map[string]string{"PORT": "ninety"},
		},
		{
			name:    "invalid refresh interval",
			envVars: map[string]string{"REFRESH_INTERVAL": "sometimes"},
		},
		{
			name:    "unsupported asset source",
			envVars: map[string]string{"ASSET_SOURCE": "ldap"},
		},
		{
			name:    "port out of range",
			envVars: map[string]string{"PORT": "70000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saveConfigState(t)

			for key, value := range tt.envVars {
				os.Setenv(key, value)
			}

			if _, err := loadConfig(&cobra.Command{}); err == nil {
				t.Errorf("loadConfig() expected error for %s", tt.name)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	originalDebug := debugMode
	t.Cleanup(func() { debugMode = originalDebug })

	tests := []struct {
		name     string
		logLevel string
		debug    bool
		expected logrus.Level
	}{
		{
			name:     "info level",
			logLevel: "info",
			debug:    false,
			expected: logrus.InfoLevel,
		},
		{
			name:     "warn level",
			logLevel: "warn",
			debug:    false,
			expected: logrus.WarnLevel,
		},
		{
			name:     "debug level from config",
			logLevel: "debug",
			debug:    false,
			expected: logrus.DebugLevel,
		},
		{
			name:     "invalid level falls back to info",
			logLevel: "loud",
			debug:    false,
			expected: logrus.InfoLevel,
		},
		{
			name:     "debug flag overrides config level",
			logLevel: "error",
			debug:    true,
			expected: logrus.DebugLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debugMode = tt.debug

			cfg := config.New()
			cfg.LogLevel = tt.logLevel

			logger := newLogger(cfg)
			if logger.GetLevel() != tt.expected {
				t.Errorf("newLogger() level = %v, want %v", logger.GetLevel(), tt.expected)
			}
		})
	}
}
