// ABOUTME: Root command wiring for the riskregister CLI.
// ABOUTME: Handles global flags, layered configuration, and logger setup.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jfeddern/RiskRegister/internal/config"
	"github.com/jfeddern/RiskRegister/internal/engine"
	"github.com/jfeddern/RiskRegister/internal/providers"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	debugMode bool

	flagAssetsFile   string
	flagReportFile   string
	flagOutputFile   string
	flagAssetSource  string
	flagReportSource string
	flagAWSRegion    string
	flagPort         int
	flagRefresh      time.Duration
	flagMockMode     bool
)

var rootCmd = &cobra.Command{
	Use:   "riskregister",
	Short: "Builds a risk register from an asset inventory and a GVM scan report",
	Long: `RiskRegister joins vulnerability findings from a GVM/OpenVAS XML report
against an asset inventory and scores each finding as impact x likelihood.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A .env file is optional; environment overrides pick up its values
		_ = godotenv.Load()
	},
}

// Execute runs the CLI
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagAssetsFile, "assets-file", config.DefaultAssetsFile, "Path to the asset inventory CSV")
	rootCmd.PersistentFlags().StringVar(&flagReportFile, "report-file", config.DefaultReportFile, "Path to the GVM XML scan report")
	rootCmd.PersistentFlags().StringVar(&flagAssetSource, "asset-source", config.DefaultAssetSource, "Asset source: csv, aws-ec2 or cluster")
	rootCmd.PersistentFlags().StringVar(&flagReportSource, "report-source", config.DefaultReportSource, "Report source: file")
	rootCmd.PersistentFlags().StringVar(&flagAWSRegion, "aws-region", "", "AWS region for the aws-ec2 asset source")
	rootCmd.PersistentFlags().BoolVar(&flagMockMode, "mock", false, "Enable mock sources for local testing (no file or API access)")
}

// loadConfig layers defaults, the optional config file, environment
// variables, and explicitly set flags, in that order of precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.New()

	if cfgFile != "" {
		if err := cfg.LoadFile(cfgFile); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("assets-file") {
		cfg.AssetsFile = flagAssetsFile
	}
	if flags.Changed("report-file") {
		cfg.ReportFile = flagReportFile
	}
	if flags.Changed("output-file") {
		cfg.OutputFile = flagOutputFile
	}
	if flags.Changed("asset-source") {
		cfg.AssetSource = flagAssetSource
	}
	if flags.Changed("report-source") {
		cfg.ReportSource = flagReportSource
	}
	if flags.Changed("aws-region") {
		cfg.AWSRegion = flagAWSRegion
	}
	if flags.Changed("port") {
		cfg.Port = flagPort
	}
	if flags.Changed("refresh-interval") {
		cfg.RefreshInterval = flagRefresh
	}
	if flags.Changed("mock") {
		cfg.MockMode = flagMockMode
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setup resolves the configuration and builds the logger, exiting on bad config
func setup(cmd *cobra.Command) (*config.Config, *logrus.Logger) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		// Configuration failures happen before the real logger exists
		bootstrap := logrus.New()
		bootstrap.SetFormatter(&logrus.JSONFormatter{})
		bootstrap.WithError(err).Fatal("Invalid configuration")
	}

	return cfg, newLogger(cfg)
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
	}

	return logger
}

// newEngine wires the configured sources into a collection engine
func newEngine(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*engine.Engine, error) {
	sourceConfig := &providers.SourceConfig{
		AssetSource:  cfg.AssetSource,
		ReportSource: cfg.ReportSource,
		AssetsFile:   cfg.AssetsFile,
		ReportFile:   cfg.ReportFile,
		AWSRegion:    cfg.AWSRegion,
		MockMode:     cfg.MockMode,
	}

	assetSource, err := providers.CreateAssetSource(ctx, sourceConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset source: %w", err)
	}

	reportSource, err := providers.CreateReportSource(sourceConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create report source: %w", err)
	}

	return engine.NewEngine(assetSource, reportSource, cfg, logger), nil
}
