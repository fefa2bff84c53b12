// ABOUTME: Prometheus metrics exposition for risk register data.
// ABOUTME: Defines metrics structure and provides HTTP handler for /metrics endpoint.

package metrics

import (
	"net/http"
	"strings"

	"github.com/jfeddern/RiskRegister/internal/scoring"
	"github.com/jfeddern/RiskRegister/internal/types"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type RegisterProvider interface {
	GetRegister() ([]types.RiskEntry, types.CollectionSummary)
}

type MetricsHandler struct {
	collector RegisterProvider
	logger    *logrus.Logger

	// Prometheus metrics
	entryScore     *prometheus.GaugeVec
	entryImpact    *prometheus.GaugeVec
	assetTopScore  *prometheus.GaugeVec
	collectionInfo *prometheus.GaugeVec
}

func NewMetricsHandler(collector RegisterProvider, logger *logrus.Logger) *MetricsHandler {
	return &MetricsHandler{
		collector: collector,
		logger:    logger,

		entryScore: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "risk_register_entry_score",
				Help: "Risk score (impact x likelihood) of register entries",
			},
			[]string{"asset_name", "ip_address", "vulnerability_name", "likelihood"},
		),

		entryImpact: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "risk_register_entry_impact",
				Help: "Asset criticality behind each register entry",
			},
			[]string{"asset_name", "ip_address", "vulnerability_name"},
		),

		assetTopScore: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "risk_register_asset_top_score",
				Help: "Highest risk score per asset",
			},
			[]string{"asset_name", "ip_address"},
		),

		collectionInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "risk_register_collection_info",
				Help: "Information about risk register collection",
			},
			[]string{"info_type"},
		),
	}
}

func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Create a new registry for this request to avoid conflicts
	registry := prometheus.NewRegistry()

	// Register our metrics
	registry.MustRegister(m.entryScore)
	registry.MustRegister(m.entryImpact)
	registry.MustRegister(m.assetTopScore)
	registry.MustRegister(m.collectionInfo)

	// Reset all metrics to avoid stale data
	m.entryScore.Reset()
	m.entryImpact.Reset()
	m.assetTopScore.Reset()
	m.collectionInfo.Reset()

	// Get the current register snapshot
	entries, summary := m.collector.GetRegister()

	type assetKey struct {
		name string
		ip   string
	}
	topScores := make(map[assetKey]int)

	// Populate metrics
	for _, entry := range entries {
		// Sanitize report- and inventory-controlled strings for Prometheus labels
		assetName := sanitizeLabelValue(entry.AssetName)
		vulnName := sanitizeLabelValue(entry.VulnerabilityName)
		likelihood := scoring.Label(entry.Likelihood)

		m.entryScore.WithLabelValues(assetName, entry.IPAddress, vulnName, likelihood).Set(float64(entry.RiskScore))
		m.entryImpact.WithLabelValues(assetName, entry.IPAddress, vulnName).Set(float64(entry.Impact))

		key := assetKey{name: assetName, ip: entry.IPAddress}
		if entry.RiskScore > topScores[key] {
			topScores[key] = entry.RiskScore
		}
	}

	for key, score := range topScores {
		m.assetTopScore.WithLabelValues(key.name, key.ip).Set(float64(score))
	}

	// Collection info
	m.collectionInfo.WithLabelValues("last_run_timestamp").Set(float64(summary.CollectedAt.Unix()))
	m.collectionInfo.WithLabelValues("assets_loaded").Set(float64(summary.AssetsLoaded))
	m.collectionInfo.WithLabelValues("observations_parsed").Set(float64(summary.ObservationsParsed))
	m.collectionInfo.WithLabelValues("entries_built").Set(float64(summary.EntriesBuilt))

	// Serve metrics
	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	handler.ServeHTTP(w, r)
}

// sanitizeLabelValue cleans strings for use as Prometheus labels
func sanitizeLabelValue(value string) string {
	if value == "" {
		return "unknown"
	}

	// Remove newlines and carriage returns
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\t", " ")

	// Limit length to prevent excessive label sizes
	if len(value) > 200 {
		value = value[:200] + "..."
	}

	// Remove any leading/trailing whitespace
	return strings.TrimSpace(value)
}

// CreateMetricsHandler creates a standard HTTP handler that can be used with http.ServeMux
func CreateMetricsHandler(dataProvider RegisterProvider, logger *logrus.Logger) http.HandlerFunc {
	metricsHandler := NewMetricsHandler(dataProvider, logger)
	return metricsHandler.ServeHTTP
}
