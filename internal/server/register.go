// ABOUTME: HTTP handler for the risk register endpoint.
// ABOUTME: Serves scored register entries with filtering and summary statistics.

package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/jfeddern/RiskRegister/internal/scoring"
	"github.com/jfeddern/RiskRegister/internal/types"

	"github.com/sirupsen/logrus"
)

type RegisterProvider interface {
	GetRegister() ([]types.RiskEntry, types.CollectionSummary)
}

type RegisterHandler struct {
	collector RegisterProvider
	logger    *logrus.Logger
}

type RegisterResponse struct {
	Entries     []types.RiskEntry `json:"entries"`
	Summary     RegisterSummary   `json:"summary"`
	LastUpdated string            `json:"last_updated"`
}

type RegisterSummary struct {
	TotalEntries        int            `json:"total_entries"`
	TotalAssets         int            `json:"total_assets"`
	LikelihoodBreakdown map[string]int `json:"likelihood_breakdown"`
	TopRisks            []RiskSummary  `json:"top_risks"`
}

type RiskSummary struct {
	AssetName         string `json:"asset_name"`
	IPAddress         string `json:"ip_address"`
	VulnerabilityName string `json:"vulnerability_name"`
	RiskScore         int    `json:"risk_score"`
}

func NewRegisterHandler(collector RegisterProvider, logger *logrus.Logger) *RegisterHandler {
	return &RegisterHandler{
		collector: collector,
		logger:    logger,
	}
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.WithField("endpoint", "/register")

	// Get the current register snapshot
	entries, collection := h.collector.GetRegister()

	// Check for query parameters for filtering
	assetFilter := strings.TrimSpace(r.URL.Query().Get("asset"))
	minScoreParam := strings.TrimSpace(r.URL.Query().Get("min_score"))
	limitParam := strings.TrimSpace(r.URL.Query().Get("limit"))

	// Validate and parse min_score parameter
	minScore := 0
	if minScoreParam != "" {
		parsed, err := strconv.Atoi(minScoreParam)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid min_score parameter. Must be a non-negative integer", http.StatusBadRequest)
			return
		}
		minScore = parsed
	}

	// Validate and parse limit parameter
	limit := 0 // No limit by default
	if limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid limit parameter. Must be a positive integer", http.StatusBadRequest)
			return
		}
		if parsed > 10000 {
			http.Error(w, "Limit parameter too large. Maximum allowed is 10000", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	// Validate asset filter length to prevent potential DoS
	if len(assetFilter) > 200 {
		http.Error(w, "Asset filter too long. Maximum allowed is 200 characters", http.StatusBadRequest)
		return
	}

	logger.WithFields(logrus.Fields{
		"asset_filter":  assetFilter,
		"min_score":     minScore,
		"limit":         limit,
		"total_entries": len(entries),
	}).Debug("Processing register request")

	// Filter entries; the register is already sorted by risk score descending
	filtered := make([]types.RiskEntry, 0, len(entries))
	for _, entry := range entries {
		if assetFilter != "" && !strings.Contains(entry.AssetName, assetFilter) && !strings.Contains(entry.IPAddress, assetFilter) {
			continue
		}
		if entry.RiskScore < minScore {
			continue
		}
		filtered = append(filtered, entry)
	}

	// Apply limit if specified
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}

	// Summary statistics come from the unfiltered register
	likelihoodBreakdown := map[string]int{"low": 0, "medium": 0, "high": 0}
	assetSet := make(map[string]struct{})
	for _, entry := range entries {
		likelihoodBreakdown[scoring.Label(entry.Likelihood)]++
		assetSet[entry.IPAddress] = struct{}{}
	}

	topRisks := make([]RiskSummary, 0, 10)
	for _, entry := range entries {
		if len(topRisks) == 10 {
			break
		}
		topRisks = append(topRisks, RiskSummary{
			AssetName:         entry.AssetName,
			IPAddress:         entry.IPAddress,
			VulnerabilityName: entry.VulnerabilityName,
			RiskScore:         entry.RiskScore,
		})
	}

	response := RegisterResponse{
		Entries: filtered,
		Summary: RegisterSummary{
			TotalEntries:        len(entries),
			TotalAssets:         len(assetSet),
			LikelihoodBreakdown: likelihoodBreakdown,
			TopRisks:            topRisks,
		},
		LastUpdated: collection.CollectedAt.Format("2006-01-02T15:04:05Z"),
	}

	w.Header().Set("Content-Type", "application/json")

	// Pretty print if requested
	if r.URL.Query().Get("pretty") != "" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			logger.WithError(err).Error("Failed to encode JSON response")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
	} else {
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.WithError(err).Error("Failed to encode JSON response")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
	}

	logger.WithFields(logrus.Fields{
		"filtered_entries": len(filtered),
		"total_entries":    len(entries),
	}).Info("Served register response")
}

// CreateRegisterHandler creates a standard HTTP handler
func CreateRegisterHandler(dataProvider RegisterProvider, logger *logrus.Logger) http.HandlerFunc {
	handler := NewRegisterHandler(dataProvider, logger)
	return handler.ServeHTTP
}
