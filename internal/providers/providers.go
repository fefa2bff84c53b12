// ABOUTME: Source interfaces for asset directories and vulnerability reports.
// ABOUTME: Defines contracts for supporting multiple inventory and scan report origins.

package providers

import (
	"context"

	"github.com/jfeddern/RiskRegister/internal/types"
)

// AssetSource interface abstracts asset directory origins (CSV export, EC2, cluster nodes)
type AssetSource interface {
	Name() string
	// LoadAssets returns the directory keyed by network address. For
	// duplicate addresses the record discovered last wins.
	LoadAssets(ctx context.Context) (map[string]types.AssetRecord, error)
}

// ReportSource interface abstracts vulnerability report origins
type ReportSource interface {
	Name() string
	// Observations returns the extracted results in document order.
	Observations(ctx context.Context) ([]types.VulnerabilityObservation, error)
}
