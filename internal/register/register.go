// ABOUTME: Builds the risk register by joining scan observations to the asset directory.
// ABOUTME: Applies impact and likelihood scoring and orders entries by risk.

package register

import (
	"sort"

	"github.com/jfeddern/RiskRegister/internal/scoring"
	"github.com/jfeddern/RiskRegister/internal/types"
	"github.com/sirupsen/logrus"
)

// Build joins observations against the asset directory and scores each
// match. Observations without a host, or with a host absent from the
// directory, are dropped. Entries come back sorted by risk score,
// highest first; equal scores keep report order.
func Build(assets map[string]types.AssetRecord, observations []types.VulnerabilityObservation, logger *logrus.Logger) []types.RiskEntry {
	entries := make([]types.RiskEntry, 0, len(observations))

	for _, obs := range observations {
		if obs.Host == "" {
			continue
		}

		asset, ok := assets[obs.Host]
		if !ok {
			logger.WithFields(logrus.Fields{
				"host":          obs.Host,
				"vulnerability": obs.Name,
			}).Debug("No asset for observation host, dropping")
			continue
		}

		likelihood := scoring.Likelihood(obs.CVSS)
		entries = append(entries, types.RiskEntry{
			AssetName:         asset.Name,
			IPAddress:         obs.Host,
			VulnerabilityName: obs.Name,
			CVSSScore:         obs.CVSS,
			Impact:            asset.Criticality,
			Likelihood:        likelihood,
			RiskScore:         asset.Criticality * likelihood,
			Description:       obs.Description,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].RiskScore > entries[j].RiskScore
	})

	return entries
}
