package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"dupgroup/internal/models"
)

func printResult(result *models.ScanResult, summary, verbose bool, limit int) {
	if result.TotalGroups == 0 {
		fmt.Println("No similar images found.")
		return
	}

	groups := result.Groups
	if limit > 0 && limit < len(groups) {
		groups = groups[:limit]
	}

	if summary {
		printSummaryTable(groups)
	} else {
		for _, group := range groups {
			printGroup(group, verbose)
		}
	}

	if len(groups) < result.TotalGroups {
		fmt.Printf("Showing %d of %d groups (use -n 0 to show all)\n", len(groups), result.TotalGroups)
	}
}

func printSummaryTable(groups []*models.SimilarityGroup) {
	fmt.Printf("%-10s  %-8s  %-10s  %-12s  %s\n", "Group", "Images", "Similarity", "Reclaimable", "Keep")
	fmt.Println(strings.Repeat("-", 78))

	for _, group := range groups {
		keepName := ""
		if keep := group.Keep(); keep != nil {
			keepName = filepath.Base(keep.FilePath)
		}
		if len(keepName) > 30 {
			keepName = keepName[:27] + "..."
		}

		fmt.Printf("%-10s  %-8d  %-10s  %-12s  %s\n",
			group.ID, len(group.Images), fmt.Sprintf("%.2f%%", group.Similarity),
			humanize.IBytes(uint64(group.SpaceSaved())), keepName)
	}
	fmt.Println()
}

func printGroup(group *models.SimilarityGroup, verbose bool) {
	fmt.Printf("%s (%d images, %.2f%% similar)\n", group.ID, len(group.Images), group.Similarity)
	fmt.Println(strings.Repeat("-", 60))

	keep := group.Keep()
	for _, img := range group.Images {
		marker := "✗"
		if img == keep {
			marker = "✓"
		}

		if verbose {
			fmt.Printf("  %s %s\n", marker, img.FilePath)
			fmt.Printf("      Resolution: %s  Size: %s  Modified: %s\n",
				resolution(img), humanize.IBytes(uint64(img.Size)), humanize.Time(time.UnixMilli(img.ModifiedTime)))
			fmt.Printf("      MD5: %s\n", img.ContentHash)
		} else {
			fmt.Printf("  %s %-40s  %-11s  %9s\n",
				marker, shortenPath(img.FilePath, 40), resolution(img), humanize.IBytes(uint64(img.Size)))
		}
	}
	fmt.Println()
}

func resolution(img *models.ImageFingerprint) string {
	if img.Width == 0 || img.Height == 0 {
		return "?"
	}
	return fmt.Sprintf("%dx%d", img.Width, img.Height)
}

func shortenPath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}

	dir, file := filepath.Split(path)
	if len(file) >= maxLen-3 {
		return "..." + file[len(file)-(maxLen-3):]
	}

	remaining := maxLen - len(file) - 4 // 4 for ".../"
	if remaining > 0 && len(dir) > remaining {
		dir = dir[len(dir)-remaining:]
	}
	return "..." + dir + file
}

func formatDuration(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).Round(time.Millisecond).String()
}
