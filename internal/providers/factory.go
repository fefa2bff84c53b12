// ABOUTME: Factory for creating asset sources and vulnerability report sources.
// ABOUTME: Centralizes source instantiation and configuration logic.

package providers

import (
	"context"
	"fmt"

	"github.com/jfeddern/RiskRegister/internal/cache"
	"github.com/jfeddern/RiskRegister/internal/providers/aws"
	"github.com/jfeddern/RiskRegister/internal/providers/cluster"
	"github.com/jfeddern/RiskRegister/internal/providers/csvfile"
	"github.com/jfeddern/RiskRegister/internal/providers/gvm"
	"github.com/jfeddern/RiskRegister/internal/providers/mock"
	"github.com/sirupsen/logrus"
)

// SourceConfig holds configuration for creating sources
type SourceConfig struct {
	AssetSource  string
	ReportSource string
	AssetsFile   string
	ReportFile   string
	AWSRegion    string
	MockMode     bool // Enable mock sources for local testing
}

// CreateAssetSource creates an asset source based on configuration
func CreateAssetSource(ctx context.Context, config *SourceConfig, logger *logrus.Logger) (AssetSource, error) {
	// Check for mock mode first
	if config.MockMode {
		logger.Info("Using mock asset source for testing")
		return mock.NewMockAssetSource(logger), nil
	}

	switch config.AssetSource {
	case "csv":
		if config.AssetsFile == "" {
			return nil, fmt.Errorf("csv asset source requires an assets file")
		}
		return csvfile.NewSource(config.AssetsFile, logger), nil
	case "aws-ec2":
		if config.AWSRegion == "" {
			return nil, fmt.Errorf("aws-ec2 asset source requires a region")
		}
		return aws.NewEC2Source(ctx, config.AWSRegion, logger)
	case "cluster":
		return cluster.NewSource(logger)
	default:
		return nil, fmt.Errorf("unsupported asset source: %s", config.AssetSource)
	}
}

// CreateReportSource creates a vulnerability report source based on configuration
func CreateReportSource(config *SourceConfig, logger *logrus.Logger) (ReportSource, error) {
	// Check for mock mode first
	if config.MockMode {
		logger.Info("Using mock report source for testing")
		return mock.NewMockReportSource(logger), nil
	}

	switch config.ReportSource {
	case "file":
		if config.ReportFile == "" {
			return nil, fmt.Errorf("file report source requires a report file")
		}
		return gvm.NewSource(config.ReportFile, cache.NewReportCache(logger), logger), nil
	default:
		return nil, fmt.Errorf("unsupported report source: %s", config.ReportSource)
	}
}
