// Package cli provides the cobra command-line interface for labelscan.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/labelscan/internal/core/ports/driven"
	"github.com/custodia-labs/labelscan/internal/core/ports/driving"
	"github.com/custodia-labs/labelscan/internal/logger"
	"github.com/custodia-labs/labelscan/internal/renderers/card"
)

// version is set at build time via SetVersion.
var version = "dev"

// Services injected by main.
var (
	scanService     driving.ScanService
	historyService  driving.HistoryService
	settingsService driving.SettingsService
	visionCache     driven.VisionCache
	llmValidator    driven.LLMValidator
	renderer        = card.New(nil)
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "labelscan",
	Short: "Read barcodes, QR codes and GG labels from product photos",
	Long: `labelscan decodes product photos through a pipeline of local barcode
scanners, cloud OCR and label heuristics, and keeps a history of every
barcode it has seen.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Services holds the driving ports the commands use.
type Services struct {
	Scan     driving.ScanService
	History  driving.HistoryService
	Settings driving.SettingsService

	// Cache is the vision cache; nil when caching is disabled.
	Cache driven.VisionCache

	Validator driven.LLMValidator
}

// SetServices injects the application services.
func SetServices(s Services) {
	scanService = s.Scan
	historyService = s.History
	settingsService = s.Settings
	visionCache = s.Cache
	llmValidator = s.Validator
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx available to every command.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
