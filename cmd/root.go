package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	workers  int
	logLevel string

	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "dupgroup",
	Short: "Find groups of duplicate and near-duplicate images",
	Long: `dupgroup scans a folder for images and groups the ones that are
byte-identical or visually similar.

Each image gets an MD5 content hash and an 8x8 average hash. Images whose
similarity reaches the threshold are grouped, and the best copy of each
group (resolution, size, recency) is recommended for keeping.

Example usage:
  dupgroup scan ./photos                  # Show duplicate groups
  dupgroup scan ./photos --threshold 95   # Stricter matching
  dupgroup clean ./photos --dry-run       # Preview what would be removed
  dupgroup clean ./photos                 # Move duplicates to trash`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
		log.SetLevel(level)
		return nil
	},
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	rootCmd.PersistentFlags().IntVar(&workers, "workers", 8, "Number of parallel hashing workers")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
}
