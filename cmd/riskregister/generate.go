// ABOUTME: One-shot generate subcommand that writes the risk register CSV.
// ABOUTME: Loads assets and the scan report once, scores, sorts and exits.

package main

import (
	"context"

	"github.com/jfeddern/RiskRegister/internal/config"
	"github.com/jfeddern/RiskRegister/internal/register"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the risk register CSV and exit",
	Run:   runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&flagOutputFile, "output-file", config.DefaultOutputFile, "Path for the risk register CSV output")
}

func runGenerate(cmd *cobra.Command, args []string) {
	cfg, logger := setup(cmd)
	ctx := context.Background()

	eng, err := newEngine(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create risk engine")
	}

	if err := eng.Collect(ctx); err != nil {
		logger.WithError(err).Fatal("Risk collection failed")
	}

	entries, summary := eng.GetRegister()
	if err := register.Write(cfg.OutputFile, entries, logger); err != nil {
		logger.WithError(err).Fatal("Failed to write risk register")
	}

	logger.WithFields(logrus.Fields{
		"assets_loaded":       summary.AssetsLoaded,
		"observations_parsed": summary.ObservationsParsed,
		"entries_built":       summary.EntriesBuilt,
		"output_file":         cfg.OutputFile,
	}).Info("Risk register generated")
}
