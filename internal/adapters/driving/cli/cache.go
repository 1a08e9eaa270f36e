package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var errCacheDisabled = errors.New("vision cache is disabled (cache.backend = none)")

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the vision OCR cache",
	Long: `Cloud OCR results are cached by the SHA-256 of the photo bytes, so a
repeated photo is decoded without a network call.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cache entry",
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStats(cmd *cobra.Command, _ []string) error {
	if visionCache == nil {
		return errCacheDisabled
	}

	stats := visionCache.Stats()
	cmd.Printf("Entries:  %d\n", stats.EntryCount)
	cmd.Printf("Hits:     %d\n", stats.Hits)
	cmd.Printf("Misses:   %d\n", stats.Misses)
	cmd.Printf("Hit rate: %.2f%%\n", stats.HitRate)
	return nil
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	if visionCache == nil {
		return errCacheDisabled
	}

	n, err := visionCache.Clear()
	if err != nil {
		cmd.PrintErrf("Some entries could not be removed: %v\n", err)
	}
	cmd.Printf("Removed %d cache entries.\n", n)
	return nil
}
