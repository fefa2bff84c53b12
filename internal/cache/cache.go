// ABOUTME: In-memory caching of parsed report files to avoid redundant XML parsing.
// ABOUTME: Uses file fingerprints (mtime and size) to detect when a report changed.

package cache

import (
	"sync"
	"time"

	"github.com/jfeddern/RiskRegister/internal/types"

	"github.com/sirupsen/logrus"
)

type CacheEntry struct {
	Observations []types.VulnerabilityObservation
	ModTime      time.Time
	Size         int64
}

type ReportCache struct {
	cache  map[string]*CacheEntry
	mutex  sync.RWMutex
	logger *logrus.Logger
}

func NewReportCache(logger *logrus.Logger) *ReportCache {
	return &ReportCache{
		cache:  make(map[string]*CacheEntry),
		logger: logger,
	}
}

// Get returns the cached observations for a path when the stored
// fingerprint still matches the file on disk.
func (c *ReportCache) Get(path string, modTime time.Time, size int64) ([]types.VulnerabilityObservation, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.cache[path]
	if !exists {
		return nil, false
	}

	if !entry.ModTime.Equal(modTime) || entry.Size != size {
		// Stale entry, the next Set overwrites it
		return nil, false
	}

	c.logger.WithField("path", path).Debug("Report cache hit")
	return entry.Observations, true
}

func (c *ReportCache) Set(path string, modTime time.Time, size int64, observations []types.VulnerabilityObservation) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache[path] = &CacheEntry{
		Observations: observations,
		ModTime:      modTime,
		Size:         size,
	}

	c.logger.WithFields(logrus.Fields{
		"path":         path,
		"observations": len(observations),
	}).Debug("Cached parsed report")
}

func (c *ReportCache) Stats() (files int, observations int) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	files = len(c.cache)

	for _, entry := range c.cache {
		observations += len(entry.Observations)
	}

	return files, observations
}
