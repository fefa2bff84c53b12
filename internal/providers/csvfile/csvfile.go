// ABOUTME: CSV file-based asset source reading asset directory exports.
// ABOUTME: Maps directory rows to asset records with criticality validation.

package csvfile

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/jfeddern/RiskRegister/internal/types"
	"github.com/sirupsen/logrus"
)

// defaultCriticality is assumed when a row does not state one.
const defaultCriticality = 1

// Source implements AssetSource for CSV asset directory exports
type Source struct {
	path   string
	logger *logrus.Logger
}

// NewSource creates a new CSV file-based asset source
func NewSource(path string, logger *logrus.Logger) *Source {
	return &Source{
		path:   path,
		logger: logger,
	}
}

// Name returns the source name
func (s *Source) Name() string {
	return "csv"
}

// assetRow mirrors one line of the directory export.
type assetRow struct {
	IPAddress   string      `csv:"ip_address"`
	Name        string      `csv:"asset_name"`
	Owner       string      `csv:"asset_owner"`
	Criticality criticality `csv:"asset_criticality"`
}

// criticality parses the asset_criticality column. A blank cell defaults
// to 1; text that is present but not numeric fails the whole load.
type criticality int

// UnmarshalCSV implements the gocsv field interface.
func (c *criticality) UnmarshalCSV(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*c = defaultCriticality
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("asset_criticality %q is not numeric", raw)
	}
	*c = criticality(v)
	return nil
}

// LoadAssets reads the directory file and returns records keyed by address
func (s *Source) LoadAssets(ctx context.Context) (map[string]types.AssetRecord, error) {
	logger := s.logger.WithField("operation", "load_assets_csv")

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open asset file '%s': %w", s.path, err)
	}
	defer f.Close()

	var rows []assetRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse asset file '%s': %w", s.path, err)
	}

	assets := make(map[string]types.AssetRecord)
	for _, row := range rows {
		address := strings.TrimSpace(row.IPAddress)
		if address == "" {
			continue
		}

		crit := int(row.Criticality)
		if crit < 1 {
			// Zero comes from an absent column or an explicit 0 and
			// defaults quietly; negative values get flagged first.
			if crit < 0 {
				logger.WithFields(logrus.Fields{
					"ip_address":  address,
					"criticality": crit,
				}).Warn("Negative asset criticality, defaulting to 1")
			}
			crit = defaultCriticality
		}

		if _, exists := assets[address]; exists {
			logger.WithField("ip_address", address).Debug("Duplicate address, keeping last record")
		}

		assets[address] = types.AssetRecord{
			IPAddress:   address,
			Name:        strings.TrimSpace(row.Name),
			Owner:       strings.TrimSpace(row.Owner),
			Criticality: crit,
		}
	}

	logger.WithField("asset_count", len(assets)).Info("Loaded asset directory")
	return assets, nil
}
