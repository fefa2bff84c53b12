// ABOUTME: Configuration loading and validation for the risk register service.
// ABOUTME: Layers defaults, an optional YAML file, and environment variables.

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Default file locations and service settings.
const (
	DefaultAssetsFile      = "assets.csv"
	DefaultReportFile      = "gvm_report.xml"
	DefaultOutputFile      = "risk_register.csv"
	DefaultAssetSource     = "csv"
	DefaultReportSource    = "file"
	DefaultLogLevel        = "info"
	DefaultPort            = 9390
	DefaultRefreshInterval = 5 * time.Minute
)

// Config holds the full service configuration
type Config struct {
	AssetsFile      string
	ReportFile      string
	OutputFile      string
	AssetSource     string
	ReportSource    string
	AWSRegion       string
	Port            int
	RefreshInterval time.Duration
	LogLevel        string
	MockMode        bool
}

// fileConfig mirrors Config for YAML parsing. Pointer fields distinguish
// absent keys from explicit zero values so the file only overrides what it sets.
type fileConfig struct {
	AssetsFile      *string `yaml:"assets_file"`
	ReportFile      *string `yaml:"report_file"`
	OutputFile      *string `yaml:"output_file"`
	AssetSource     *string `yaml:"asset_source"`
	ReportSource    *string `yaml:"report_source"`
	AWSRegion       *string `yaml:"aws_region"`
	Port            *int    `yaml:"port"`
	RefreshInterval *string `yaml:"refresh_interval"`
	LogLevel        *string `yaml:"log_level"`
	MockMode        *bool   `yaml:"mock_mode"`
}

// New returns a Config populated with defaults
func New() *Config {
	return &Config{
		AssetsFile:      DefaultAssetsFile,
		ReportFile:      DefaultReportFile,
		OutputFile:      DefaultOutputFile,
		AssetSource:     DefaultAssetSource,
		ReportSource:    DefaultReportSource,
		Port:            DefaultPort,
		RefreshInterval: DefaultRefreshInterval,
		LogLevel:        DefaultLogLevel,
	}
}

// LoadFile merges settings from a YAML file over the current values
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if file.AssetsFile != nil {
		c.AssetsFile = *file.AssetsFile
	}
	if file.ReportFile != nil {
		c.ReportFile = *file.ReportFile
	}
	if file.OutputFile != nil {
		c.OutputFile = *file.OutputFile
	}
	if file.AssetSource != nil {
		c.AssetSource = *file.AssetSource
	}
	if file.ReportSource != nil {
		c.ReportSource = *file.ReportSource
	}
	if file.AWSRegion != nil {
		c.AWSRegion = *file.AWSRegion
	}
	if file.Port != nil {
		c.Port = *file.Port
	}
	if file.RefreshInterval != nil {
		interval, err := time.ParseDuration(*file.RefreshInterval)
		if err != nil {
			return fmt.Errorf("invalid refresh_interval in config file: %w", err)
		}
		c.RefreshInterval = interval
	}
	if file.LogLevel != nil {
		c.LogLevel = *file.LogLevel
	}
	if file.MockMode != nil {
		c.MockMode = *file.MockMode
	}

	return nil
}

// ApplyEnv merges settings from environment variables over the current values
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("ASSETS_FILE"); v != "" {
		c.AssetsFile = v
	}
	if v := os.Getenv("REPORT_FILE"); v != "" {
		c.ReportFile = v
	}
	if v := os.Getenv("OUTPUT_FILE"); v != "" {
		c.OutputFile = v
	}
	if v := os.Getenv("ASSET_SOURCE"); v != "" {
		c.AssetSource = v
	}
	if v := os.Getenv("REPORT_SOURCE"); v != "" {
		c.ReportSource = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		c.AWSRegion = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT environment variable: %q", v)
		}
		c.Port = port
	}
	if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid REFRESH_INTERVAL environment variable: %q", v)
		}
		c.RefreshInterval = interval
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("MOCK_MODE"); v == "true" || v == "1" {
		c.MockMode = true
	}

	return nil
}

// Validate checks the configuration for unusable values
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %s", c.RefreshInterval)
	}

	// Mock mode substitutes built-in sources, so source settings are not required
	if c.MockMode {
		return nil
	}

	switch c.AssetSource {
	case "csv":
		if c.AssetsFile == "" {
			return fmt.Errorf("csv asset source requires an assets file")
		}
	case "aws-ec2":
		if c.AWSRegion == "" {
			return fmt.Errorf("aws-ec2 asset source requires a region")
		}
	case "cluster":
	default:
		return fmt.Errorf("unsupported asset source: %s", c.AssetSource)
	}

	switch c.ReportSource {
	case "file":
		if c.ReportFile == "" {
			return fmt.Errorf("file report source requires a report file")
		}
	default:
		return fmt.Errorf("unsupported report source: %s", c.ReportSource)
	}

	return nil
}
