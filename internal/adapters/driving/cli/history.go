package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/labelscan/internal/core/domain"
)

var (
	historyLimit int
	historyJSON  bool

	annotateName     string
	annotateBrand    string
	annotateCategory string
	annotateNotes    string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recorded barcodes",
	Long:  `Every decoded code is recorded with its first and last sighting and a scan count.`,
	RunE:  runHistoryStats,
}

var historyTopCmd = &cobra.Command{
	Use:   "top",
	Short: "List the most scanned barcodes",
	RunE:  runHistoryTop,
}

var historyRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the latest scans",
	RunE:  runHistoryRecent,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [barcode]",
	Short: "Show one barcode",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyAnnotateCmd = &cobra.Command{
	Use:   "annotate [barcode]",
	Short: "Set product information on a barcode",
	Long: `Sets product information on a recorded barcode. Only the flags given
are changed.

Example:
  labelscan history annotate 4006381333931 --name "Trail Runner" --brand Acme`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryAnnotate,
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show history totals",
	RunE:  runHistoryStats,
}

func init() {
	historyTopCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "maximum number of rows (default 20)")
	historyTopCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyRecentCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "maximum number of rows (default 50)")
	historyRecentCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyShowCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")

	historyAnnotateCmd.Flags().StringVar(&annotateName, "name", "", "product name")
	historyAnnotateCmd.Flags().StringVar(&annotateBrand, "brand", "", "brand")
	historyAnnotateCmd.Flags().StringVar(&annotateCategory, "category", "", "category")
	historyAnnotateCmd.Flags().StringVar(&annotateNotes, "notes", "", "free-form notes")

	historyCmd.AddCommand(historyTopCmd)
	historyCmd.AddCommand(historyRecentCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyAnnotateCmd)
	historyCmd.AddCommand(historyStatsCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryTop(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	infos, err := historyService.Top(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list barcodes: %w", err)
	}
	if historyJSON {
		return printJSON(cmd, infos)
	}
	if len(infos) == 0 {
		cmd.Println("No barcodes recorded yet.")
		return nil
	}

	rows := make([][]string, len(infos))
	for i, info := range infos {
		rows[i] = []string{
			info.Barcode,
			info.Symbology,
			strconv.Itoa(info.ScanCount),
			info.LastSeen.Local().Format(time.DateTime),
			info.ProductName,
		}
	}
	cmd.Println(renderTable([]string{"Barcode", "Type", "Scans", "Last seen", "Product"}, rows, 2))
	return nil
}

func runHistoryRecent(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	events, err := historyService.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list scans: %w", err)
	}
	if historyJSON {
		return printJSON(cmd, events)
	}
	if len(events) == 0 {
		cmd.Println("No scans recorded yet.")
		return nil
	}

	rows := make([][]string, len(events))
	for i, ev := range events {
		rows[i] = []string{
			ev.Timestamp.Local().Format(time.DateTime),
			ev.Barcode,
			ev.Source,
			ev.BatchID,
			ev.ProductName,
		}
	}
	cmd.Println(renderTable([]string{"Time", "Barcode", "Decoder", "Batch", "Product"}, rows))
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	info, err := historyService.Get(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("barcode %s has never been scanned", args[0])
		}
		return fmt.Errorf("failed to get barcode: %w", err)
	}
	if historyJSON {
		return printJSON(cmd, info)
	}

	cmd.Printf("Barcode:    %s\n", info.Barcode)
	cmd.Printf("Type:       %s\n", info.Symbology)
	cmd.Printf("Scans:      %d\n", info.ScanCount)
	cmd.Printf("First seen: %s\n", info.FirstSeen.Local().Format(time.DateTime))
	cmd.Printf("Last seen:  %s\n", info.LastSeen.Local().Format(time.DateTime))
	printIfSet(cmd, "Product:   ", info.ProductName)
	printIfSet(cmd, "Brand:     ", info.Brand)
	printIfSet(cmd, "Category:  ", info.Category)
	printIfSet(cmd, "Notes:     ", info.Notes)
	return nil
}

func runHistoryAnnotate(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	var info domain.ProductInfo
	flags := cmd.Flags()
	if flags.Changed("name") {
		info.ProductName = &annotateName
	}
	if flags.Changed("brand") {
		info.Brand = &annotateBrand
	}
	if flags.Changed("category") {
		info.Category = &annotateCategory
	}
	if flags.Changed("notes") {
		info.Notes = &annotateNotes
	}

	if err := historyService.Annotate(cmd.Context(), args[0], info); err != nil {
		return fmt.Errorf("failed to annotate barcode: %w", err)
	}
	cmd.Printf("Updated barcode: %s\n", args[0])
	return nil
}

func runHistoryStats(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	stats, err := historyService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	cmd.Printf("Barcodes:      %d\n", stats.TotalBarcodes)
	cmd.Printf("Scans:         %d\n", stats.TotalScans)
	cmd.Printf("Scanned today: %d\n", stats.ScannedToday)
	if stats.MostScanned != nil {
		cmd.Printf("Most scanned:  %s (%d scans)\n", stats.MostScanned.Barcode, stats.MostScanned.ScanCount)
	}
	return nil
}

func printIfSet(cmd *cobra.Command, label, value string) {
	if value != "" {
		cmd.Printf("%s %s\n", label, value)
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
