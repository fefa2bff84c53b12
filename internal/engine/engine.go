// ABOUTME: Main risk collection engine that orchestrates sources.
// ABOUTME: Joins report observations against the asset directory and holds the scored register.

package engine

import (
	"context"
	"sync"
	"time"

	"github.com/jfeddern/RiskRegister/internal/config"
	"github.com/jfeddern/RiskRegister/internal/providers"
	"github.com/jfeddern/RiskRegister/internal/register"
	"github.com/jfeddern/RiskRegister/internal/types"
	"github.com/sirupsen/logrus"
)

// Engine orchestrates risk register collection using pluggable sources
type Engine struct {
	assetSource  providers.AssetSource
	reportSource providers.ReportSource
	config       *config.Config
	logger       *logrus.Logger

	// Current register snapshot with collection metadata
	mutex   sync.RWMutex
	entries []types.RiskEntry
	summary types.CollectionSummary
}

// NewEngine creates a new risk collection engine
func NewEngine(assetSource providers.AssetSource, reportSource providers.ReportSource, config *config.Config, logger *logrus.Logger) *Engine {
	return &Engine{
		assetSource:  assetSource,
		reportSource: reportSource,
		config:       config,
		logger:       logger,
		entries:      make([]types.RiskEntry, 0),
	}
}

// Start begins the periodic risk collection process
func (e *Engine) Start(ctx context.Context) {
	logger := e.logger.WithField("component", "risk_engine")

	// Perform initial collection
	if err := e.Collect(ctx); err != nil {
		logger.WithError(err).Error("Initial risk collection failed")
	}

	// Start periodic collection
	ticker := time.NewTicker(e.config.RefreshInterval)
	defer ticker.Stop()

	logger.WithField("interval", e.config.RefreshInterval).Info("Starting periodic risk collection")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Risk engine stopping")
			return
		case <-ticker.C:
			// A failed refresh keeps the previous register snapshot
			if err := e.Collect(ctx); err != nil {
				logger.WithError(err).Error("Risk collection failed")
			}
		}
	}
}

// Collect runs one collection pass and replaces the register snapshot on success
func (e *Engine) Collect(ctx context.Context) error {
	logger := e.logger.WithField("operation", "collect_risks")
	startTime := time.Now()

	logger.Info("Starting risk register collection")

	assets, err := e.assetSource.LoadAssets(ctx)
	if err != nil {
		return err
	}

	observations, err := e.reportSource.Observations(ctx)
	if err != nil {
		return err
	}

	entries := register.Build(assets, observations, e.logger)

	e.mutex.Lock()
	e.entries = entries
	e.summary = types.CollectionSummary{
		AssetsLoaded:       len(assets),
		ObservationsParsed: len(observations),
		EntriesBuilt:       len(entries),
		CollectedAt:        time.Now(),
	}
	e.mutex.Unlock()

	logger.WithFields(logrus.Fields{
		"duration":            time.Since(startTime),
		"assets_loaded":       len(assets),
		"observations_parsed": len(observations),
		"entries_built":       len(entries),
	}).Info("Risk register collection completed")

	return nil
}

// GetRegister returns the current register entries and collection summary
func (e *Engine) GetRegister() ([]types.RiskEntry, types.CollectionSummary) {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	// Return a copy to prevent race conditions
	entries := make([]types.RiskEntry, len(e.entries))
	copy(entries, e.entries)

	return entries, e.summary
}
