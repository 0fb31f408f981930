package fileutil

import (
	"fmt"
	"os"

	"dupgroup/internal/models"
)

// Action is what happens to an image that is not kept
type Action int

const (
	ActionTrash  Action = iota // move to the system trash
	ActionMove                 // move into a destination folder
	ActionDelete               // remove permanently
)

// String describes the action for prompts
func (a Action) String() string {
	switch a {
	case ActionMove:
		return "move"
	case ActionDelete:
		return "permanently delete"
	default:
		return "move to trash"
	}
}

// Disposer removes the non-kept images of similarity groups
type Disposer struct {
	action  Action
	destDir string
	home    string
	dryRun  bool
}

// DisposerOption configures a Disposer
type DisposerOption func(*Disposer)

// WithDestination makes the Disposer move files into dir
func WithDestination(dir string) DisposerOption {
	return func(d *Disposer) {
		d.action = ActionMove
		d.destDir = dir
	}
}

// WithPermanentDelete makes the Disposer delete files instead of trashing them
func WithPermanentDelete() DisposerOption {
	return func(d *Disposer) {
		d.action = ActionDelete
	}
}

// WithDryRun reports what would happen without touching any file
func WithDryRun(dryRun bool) DisposerOption {
	return func(d *Disposer) {
		d.dryRun = dryRun
	}
}

// WithHome overrides the home directory used to locate the trash
func WithHome(dir string) DisposerOption {
	return func(d *Disposer) {
		d.home = dir
	}
}

// NewDisposer creates a Disposer that moves files to the trash by default
func NewDisposer(opts ...DisposerOption) *Disposer {
	d := &Disposer{action: ActionTrash}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Action returns the configured action
func (d *Disposer) Action() Action {
	return d.action
}

// Failure records a file that could not be disposed of
type Failure struct {
	Path string
	Err  error
}

// Report summarizes a disposal run
type Report struct {
	Processed  []string
	Failed     []Failure
	BytesFreed int64
}

// Candidates lists the files that Dispose would remove, skipping files that
// no longer exist.
func Candidates(groups []*models.SimilarityGroup) []*models.ImageFingerprint {
	var out []*models.ImageFingerprint
	for _, g := range groups {
		for _, img := range g.Removable() {
			if _, err := os.Stat(img.FilePath); err == nil {
				out = append(out, img)
			}
		}
	}
	return out
}

// Dispose removes every non-kept image in groups. One failing file does not
// stop the others.
func (d *Disposer) Dispose(groups []*models.SimilarityGroup) *Report {
	report := &Report{}
	for _, img := range Candidates(groups) {
		if d.dryRun {
			report.Processed = append(report.Processed, img.FilePath)
			report.BytesFreed += img.Size
			continue
		}
		if err := d.disposeFile(img.FilePath); err != nil {
			report.Failed = append(report.Failed, Failure{Path: img.FilePath, Err: err})
			continue
		}
		report.Processed = append(report.Processed, img.FilePath)
		report.BytesFreed += img.Size
	}
	return report
}

func (d *Disposer) disposeFile(path string) error {
	switch d.action {
	case ActionMove:
		if d.destDir == "" {
			return fmt.Errorf("no destination folder for %s", path)
		}
		return MoveFile(path, d.destDir)
	case ActionDelete:
		return os.Remove(path)
	default:
		return d.moveToTrash(path)
	}
}
