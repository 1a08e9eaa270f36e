package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/labelscan/internal/core/domain"
	"github.com/custodia-labs/labelscan/internal/core/ports/driving"
	"github.com/custodia-labs/labelscan/internal/renderers/card"
)

var (
	decodePolicy   string
	decodeJSON     bool
	decodeHTML     bool
	decodeDebug    bool
	decodeSummary  bool
	decodeNoRecord bool
	decodeBatch    string
)

// Swapped in tests.
var (
	readFile   = os.ReadFile
	isTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
)

var decodeCmd = &cobra.Command{
	Use:   "decode [file...]",
	Short: "Decode codes in one or more photos",
	Long: `Runs each photo through the decoder pipeline and records the codes found.

Policies:
  smart       - Local scanners first; cloud decoders only if no product barcode was found
  parallel    - Every decoder at once
  debug       - Every decoder in order, with a timeline
  sequential  - Every decoder in order, no timeline

Use --debug to print the per-decoder timeline and --summary to compare
several photos at a glance.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().StringVarP(&decodePolicy, "policy", "p", "", "pipeline policy (default from settings)")
	decodeCmd.Flags().BoolVar(&decodeJSON, "json", false, "output results as JSON")
	decodeCmd.Flags().BoolVar(&decodeHTML, "html", false, "output Telegram HTML cards")
	decodeCmd.Flags().BoolVar(&decodeDebug, "debug", false, "print the decoder timeline")
	decodeCmd.Flags().BoolVar(&decodeSummary, "summary", false, "print a summary table over all files")
	decodeCmd.Flags().BoolVar(&decodeNoRecord, "no-record", false, "do not record codes in scan history")
	decodeCmd.Flags().StringVar(&decodeBatch, "batch", "", "batch ID grouping these scans (default: one per run)")
	rootCmd.AddCommand(decodeCmd)
}

// fileResult pairs a file with its scan outcome.
type fileResult struct {
	File   string             `json:"file"`
	Result *domain.ScanResult `json:"result,omitempty"`
	Error  string             `json:"error,omitempty"`
}

func runDecode(cmd *cobra.Command, args []string) error {
	if scanService == nil {
		return errors.New("scan service not configured")
	}

	opts := driving.ScanOptions{
		Policy:     domain.Policy(decodePolicy),
		BatchID:    decodeBatch,
		SkipRecord: decodeNoRecord,
	}
	if opts.BatchID == "" && len(args) > 1 {
		opts.BatchID = uuid.NewString()
	}

	results := make([]fileResult, 0, len(args))
	failed := 0
	for _, path := range args {
		fr := fileResult{File: path}
		res, err := scanFile(cmd, path, opts)
		if err != nil {
			if errors.Is(err, domain.ErrUnknownPolicy) {
				return err
			}
			failed++
			fr.Error = err.Error()
			cmd.PrintErrf("%s: %v\n", path, err)
		}
		fr.Result = res
		results = append(results, fr)

		if res != nil && !decodeJSON {
			if err := printResult(cmd, path, res, len(args) > 1); err != nil {
				return err
			}
		}
	}

	if decodeJSON {
		if err := printJSON(cmd, results); err != nil {
			return err
		}
	} else if decodeSummary || len(args) > 1 {
		cmd.Println(summaryTable(results))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(args))
	}
	return nil
}

func scanFile(cmd *cobra.Command, path string, opts driving.ScanOptions) (*domain.ScanResult, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return scanService.Scan(cmd.Context(), data, opts)
}

func printResult(cmd *cobra.Command, path string, res *domain.ScanResult, withName bool) error {
	if withName {
		cmd.Printf("== %s\n", filepath.Base(path))
	}

	switch {
	case decodeHTML:
		out, err := renderer.HTML(res.Codes)
		if err != nil {
			return err
		}
		cmd.Println(out)
	case isTerminal():
		cmd.Println(renderer.Terminal(res.Codes))
	default:
		for _, c := range res.Codes {
			cmd.Printf("%s\t%s\t%s\n", c.Symbology, c.Value, c.Source)
		}
	}

	for _, r := range res.Records {
		if r.IsNew {
			cmd.Printf("new barcode: %s\n", r.Barcode)
		}
	}

	if decodeDebug && len(res.Timeline) > 0 {
		cmd.Println(timelineTable(res.Timeline, res.Elapsed))
	}
	return nil
}

func timelineTable(timeline []domain.TimelineEntry, total time.Duration) string {
	rows := make([][]string, 0, len(timeline)+1)
	for _, e := range timeline {
		status := "ok"
		switch {
		case e.Skipped:
			status = "skipped"
		case e.Error != "":
			status = e.Error
		}
		rows = append(rows, []string{
			e.Decoder,
			strconv.Itoa(e.Count),
			strconv.FormatInt(e.Milliseconds(), 10),
			status,
		})
	}
	rows = append(rows, []string{"total", "", strconv.FormatInt(total.Milliseconds(), 10), ""})
	return renderTable([]string{"Decoder", "New codes", "Time (ms)", "Status"}, rows, 1, 2)
}

// summaryTable reports, per file, the time taken and codes by kind.
func summaryTable(results []fileResult) string {
	rows := make([][]string, 0, len(results))
	for _, fr := range results {
		name := filepath.Base(fr.File)
		if fr.Result == nil {
			rows = append(rows, []string{name, "error"})
			continue
		}

		counts := make(map[card.Kind]int)
		for _, c := range fr.Result.Codes {
			counts[card.KindOf(c)]++
		}
		rows = append(rows, []string{
			name,
			strconv.FormatInt(fr.Result.Elapsed.Milliseconds(), 10),
			strconv.Itoa(len(fr.Result.Codes)),
			strconv.Itoa(counts[card.KindGGLabel]),
			strconv.Itoa(counts[card.KindQCode]),
			strconv.Itoa(counts[card.KindBarcode]),
			strconv.Itoa(counts[card.KindOCR]),
		})
	}
	return renderTable(
		[]string{"File", "Time (ms)", "Codes", "GG", "Q-codes", "Barcodes", "OCR"},
		rows, 1, 2, 3, 4, 5, 6,
	)
}
