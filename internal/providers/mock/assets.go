// ABOUTME: Mock asset source for local testing and development.
// ABOUTME: Provides a realistic asset directory without file or cloud access.

package mock

import (
	"context"

	"github.com/jfeddern/RiskRegister/internal/types"
	"github.com/sirupsen/logrus"
)

// MockAssetSource implements AssetSource interface with mock data
type MockAssetSource struct {
	logger *logrus.Logger
}

// NewMockAssetSource creates a new mock asset source
func NewMockAssetSource(logger *logrus.Logger) *MockAssetSource {
	return &MockAssetSource{
		logger: logger,
	}
}

// Name returns the name of this asset source
func (m *MockAssetSource) Name() string {
	return "mock-assets"
}

// LoadAssets returns a mock asset directory simulating a small fleet
func (m *MockAssetSource) LoadAssets(ctx context.Context) (map[string]types.AssetRecord, error) {
	m.logger.Info("Loading mock asset directory")

	// Mock assets representing a typical mixed estate
	assets := []types.AssetRecord{
		{IPAddress: "10.0.0.5", Name: "web-frontend", Owner: "platform-team", Criticality: 4},
		{IPAddress: "10.0.0.6", Name: "api-backend", Owner: "platform-team", Criticality: 5},
		{IPAddress: "10.0.0.8", Name: "postgres-primary", Owner: "data-team", Criticality: 5},
		{IPAddress: "10.0.0.9", Name: "redis-cache", Owner: "platform-team", Criticality: 3},
		{IPAddress: "10.0.1.20", Name: "build-runner", Owner: "ci-team", Criticality: 2},
		{IPAddress: "10.0.1.21", Name: "monitoring-host", Owner: "ops-team", Criticality: 3},
		{IPAddress: "10.0.2.4", Name: "legacy-erp", Owner: "finance-team", Criticality: 4},
		{IPAddress: "10.0.2.7", Name: "staging-sandbox", Owner: "dev-team", Criticality: 1},
	}

	directory := make(map[string]types.AssetRecord, len(assets))
	for _, asset := range assets {
		directory[asset.IPAddress] = asset
	}

	m.logger.WithField("asset_count", len(directory)).Info("Mock asset directory loaded")
	return directory, nil
}
