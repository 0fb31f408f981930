package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"dupgroup/internal/fileutil"
)

type cleanFlags struct {
	dryRun    bool
	moveTo    string
	permanent bool
	noConfirm bool
}

var (
	cleanOpts cleanFlags
	cleanScan scanFlags
)

var cleanCmd = &cobra.Command{
	Use:   "clean <folder>",
	Short: "Scan a folder and remove duplicate images",
	Long: `Scan a folder, then remove every image of each group except the
recommended keep.

The clean command will:
1. Run the same scan as 'dupgroup scan'
2. Keep the recommended image in each group
3. Move the others to trash (default), to a folder, or delete them

Options:
  --dry-run     Preview what would be removed without actually removing
  --permanent   Delete files permanently instead of moving to trash
  --move-to     Move duplicates to a specific folder
  --yes         Skip confirmation prompt

Example:
  dupgroup clean ./photos                     # Move to trash (default)
  dupgroup clean ./photos --permanent         # Delete permanently
  dupgroup clean ./photos --move-to=./backup  # Move to specific folder
  dupgroup clean ./photos --dry-run           # Preview only`,
	Args: cobra.ExactArgs(1),
	RunE: runClean,
}

func init() {
	cleanScan.register(cleanCmd)
	cleanCmd.Flags().BoolVar(&cleanOpts.dryRun, "dry-run", false, "Preview without removing")
	cleanCmd.Flags().BoolVar(&cleanOpts.permanent, "permanent", false, "Delete permanently instead of moving to trash")
	cleanCmd.Flags().StringVar(&cleanOpts.moveTo, "move-to", "", "Move duplicates to this folder")
	cleanCmd.Flags().BoolVarP(&cleanOpts.noConfirm, "yes", "y", false, "Skip confirmation prompt")
	cleanCmd.MarkFlagsMutuallyExclusive("permanent", "move-to")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	result, err := executeScan(cmd.Context(), cleanScan.config(args[0]), true)
	if err != nil {
		return err
	}

	if result.TotalGroups == 0 {
		fmt.Println("No similar images found.")
		return nil
	}

	opts := []fileutil.DisposerOption{fileutil.WithDryRun(cleanOpts.dryRun)}
	switch {
	case cleanOpts.moveTo != "":
		opts = append(opts, fileutil.WithDestination(cleanOpts.moveTo))
	case cleanOpts.permanent:
		opts = append(opts, fileutil.WithPermanentDelete())
	}
	disposer := fileutil.NewDisposer(opts...)

	candidates := fileutil.Candidates(result.Groups)
	if len(candidates) == 0 {
		fmt.Println("No files to remove (files may have been already deleted).")
		return nil
	}

	var totalSize int64
	for _, img := range candidates {
		totalSize += img.Size
	}

	action := disposer.Action().String()
	if cleanOpts.moveTo != "" {
		action = fmt.Sprintf("move to %s", cleanOpts.moveTo)
	}
	fmt.Printf("Will %s %d files (%s)\n\n", action, len(candidates), humanize.IBytes(uint64(totalSize)))

	if cleanOpts.dryRun {
		report := disposer.Dispose(result.Groups)
		fmt.Println("Files to be removed:")
		for _, path := range report.Processed {
			fmt.Printf("  %s\n", path)
		}
		fmt.Println()
		fmt.Println("(Dry run - no files were modified)")
		fmt.Println("Run without --dry-run to actually remove files.")
		return nil
	}

	if !cleanOpts.noConfirm {
		ok, err := confirm(os.Stdin, fmt.Sprintf("Are you sure you want to %s %d files?", action, len(candidates)))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	report := disposer.Dispose(result.Groups)
	for _, f := range report.Failed {
		log.WithField("path", f.Path).WithError(f.Err).Error("failed to remove duplicate")
	}

	fmt.Println()
	switch disposer.Action() {
	case fileutil.ActionMove:
		fmt.Printf("Moved %d files to %s\n", len(report.Processed), cleanOpts.moveTo)
	case fileutil.ActionDelete:
		fmt.Printf("Permanently deleted %d files\n", len(report.Processed))
	default:
		fmt.Printf("Moved %d files to trash\n", len(report.Processed))
	}
	if len(report.Failed) > 0 {
		fmt.Printf("Failed: %d files\n", len(report.Failed))
	}
	fmt.Printf("Space reclaimed: %s\n", humanize.IBytes(uint64(report.BytesFreed)))

	return nil
}

// confirm asks a yes/no question on in. Anything but y/yes, including an
// empty or closed input, is a no.
func confirm(in io.Reader, prompt string) (bool, error) {
	fmt.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
