// ABOUTME: Common types shared across the RiskRegister system.
// ABOUTME: Defines data structures for assets, observations, and risk entries.

package types

import "time"

// AssetRecord represents one entry of the asset directory, keyed by network address
type AssetRecord struct {
	IPAddress   string `json:"ip_address"`
	Name        string `json:"asset_name"`
	Owner       string `json:"asset_owner"`
	Criticality int    `json:"asset_criticality"` // business impact weight, >= 1
}

// VulnerabilityObservation represents a single result extracted from a scan report
type VulnerabilityObservation struct {
	Host        string // network address of the affected host, may be empty
	Name        string // vulnerability title
	CVSS        string // raw severity text as found in the report
	Description string
}

// RiskEntry represents one row of the risk register
type RiskEntry struct {
	AssetName         string `csv:"asset_name" json:"asset_name"`
	IPAddress         string `csv:"ip_address" json:"ip_address"`
	VulnerabilityName string `csv:"vulnerability_name" json:"vulnerability_name"`
	CVSSScore         string `csv:"cvss_score" json:"cvss_score"` // original report text, not normalized
	Impact            int    `csv:"impact" json:"impact"`
	Likelihood        int    `csv:"likelihood" json:"likelihood"`
	RiskScore         int    `csv:"risk_score" json:"risk_score"` // Impact * Likelihood
	Description       string `csv:"description" json:"description"`
}

// CollectionSummary captures the counts of one pipeline run
type CollectionSummary struct {
	AssetsLoaded       int       `json:"assets_loaded"`
	ObservationsParsed int       `json:"observations_parsed"`
	EntriesBuilt       int       `json:"entries_built"`
	CollectedAt        time.Time `json:"collected_at"`
}
