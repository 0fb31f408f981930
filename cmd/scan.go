package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"dupgroup/internal/hash"
	"dupgroup/internal/models"
	"dupgroup/internal/scan"
)

// scanFlags are shared by every command that runs a scan
type scanFlags struct {
	threshold   float64
	algorithm   string
	noRecursive bool
	minSize     int64
	maxSize     int64
	excludeDirs []string
	excludeExts []string
}

func (f *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&f.threshold, "threshold", "t", models.DefaultSimilarityThreshold, "Minimum similarity percentage (0-100) for grouping")
	cmd.Flags().StringVarP(&f.algorithm, "algorithm", "a", string(models.AlgorithmBoth), "Comparison algorithm: exact, perceptual or both")
	cmd.Flags().BoolVar(&f.noRecursive, "no-recursive", false, "Do not descend into subfolders")
	cmd.Flags().Int64Var(&f.minSize, "min-size", 0, "Ignore files smaller than this many bytes (0 = no limit)")
	cmd.Flags().Int64Var(&f.maxSize, "max-size", 0, "Ignore files larger than this many bytes (0 = no limit)")
	cmd.Flags().StringSliceVar(&f.excludeDirs, "exclude-dir", nil, "Folder to skip, with everything below it (repeatable)")
	cmd.Flags().StringSliceVar(&f.excludeExts, "exclude-ext", nil, "File extension to skip, e.g. gif (repeatable)")
}

func (f *scanFlags) config(folder string) models.ScanConfig {
	cfg := models.DefaultScanConfig(folder)
	cfg.IncludeSubdirectories = !f.noRecursive
	cfg.MinFileSize = f.minSize
	cfg.MaxFileSize = f.maxSize
	cfg.ExcludedFolders = f.excludeDirs
	cfg.ExcludedExtensions = f.excludeExts
	cfg.SimilarityThreshold = f.threshold
	cfg.Algorithm = models.Algorithm(f.algorithm)
	return cfg
}

var (
	scanOpts    scanFlags
	scanJSON    bool
	scanVerbose bool
	scanSummary bool
	scanLimit   int
)

var scanCmd = &cobra.Command{
	Use:   "scan <folder>",
	Short: "Scan a folder and show groups of similar images",
	Long: `Scan a folder for images and group duplicates.

The scan will:
1. Find all supported images (` + strings.Join(hash.SupportedExtensions(), ", ") + `;
   heic and heif are compared by content only)
2. Compute a content hash and a perceptual hash for each image
3. Group images whose similarity reaches the threshold
4. Recommend which image of each group to keep

Press Ctrl+C to cancel a running scan.

Example:
  dupgroup scan ./photos
  dupgroup scan ./photos --algorithm exact
  dupgroup scan ./photos -t 95 --exclude-dir ./photos/raw -s`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanOpts.register(scanCmd)
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Output the scan result as JSON")
	scanCmd.Flags().BoolVarP(&scanVerbose, "verbose", "v", false, "Show detailed image info")
	scanCmd.Flags().BoolVarP(&scanSummary, "summary", "s", false, "Show summary only (group counts and sizes)")
	scanCmd.Flags().IntVarP(&scanLimit, "limit", "n", 10, "Limit number of groups to display (0 = all)")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	result, err := executeScan(cmd.Context(), scanOpts.config(args[0]), !scanJSON)
	if err != nil {
		return err
	}

	if scanJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printResult(result, scanSummary, scanVerbose, scanLimit)
	if result.TotalGroups > 0 {
		fmt.Println("Run 'dupgroup clean <folder> --dry-run' to preview removals")
	}
	return nil
}

// cancelSignals stop a running scan
var cancelSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// executeScan runs one scan to completion, drawing a progress bar on stderr
// when showProgress is set. SIGINT or SIGTERM cancels the scan.
func executeScan(ctx context.Context, cfg models.ScanConfig, showProgress bool) (*models.ScanResult, error) {
	scanner := scan.NewScanner(
		scan.WithWorkers(workers),
		scan.WithLogger(log),
	)
	manager := scan.NewManager(scanner)

	var bar *progressbar.ProgressBar
	onProgress := func(p models.ScanProgress) {
		if !showProgress || p.Status != models.StatusHashing {
			return
		}
		if bar == nil {
			bar = progressbar.NewOptions(p.Total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription("Hashing images"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = bar.Set(p.Current)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, cancelSignals...)
	defer signal.Stop(interrupt)

	run := manager.Start(ctx, cfg, onProgress)
	log.WithField("scan_id", run.ID).WithField("path", cfg.ScanPath).Info("scan started")

	select {
	case <-run.Done():
	case <-interrupt:
		manager.Cancel(run.ID)
	}

	result, err := run.Wait()
	if bar != nil {
		_ = bar.Finish()
	}
	switch {
	case errors.Is(err, scan.ErrCancelled):
		return nil, errors.New("scan cancelled")
	case err != nil:
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	log.WithField("scan_id", run.ID).
		WithField("images", result.TotalImages).
		WithField("groups", result.TotalGroups).
		Info("scan completed")

	if showProgress {
		fmt.Printf("Scanned %d images in %s\n", result.TotalImages, formatDuration(result.ScanTime))
		if len(result.Skipped) > 0 {
			fmt.Printf("Skipped %d unreadable files\n", len(result.Skipped))
		}
		fmt.Printf("Found %d groups (%s reclaimable)\n\n",
			result.TotalGroups, humanize.IBytes(uint64(result.PotentialSpaceSaved)))
	}
	return result, nil
}
