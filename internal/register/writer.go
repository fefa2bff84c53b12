// ABOUTME: Serializes the risk register to its CSV artifact form.
// ABOUTME: Writes a fixed column order with a header row even for empty registers.

package register

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/jfeddern/RiskRegister/internal/types"
	"github.com/sirupsen/logrus"
)

// Write creates the register file at path. An empty register still
// produces the header row, so downstream consumers always see the
// column contract.
func Write(path string, entries []types.RiskEntry, logger *logrus.Logger) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file '%s': %w", path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&entries, f); err != nil {
		return fmt.Errorf("failed to write risk register to '%s': %w", path, err)
	}

	logger.WithFields(logrus.Fields{
		"entry_count": len(entries),
		"path":        path,
	}).Info("Wrote risk register")
	return nil
}
