package scan

import (
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"dupgroup/internal/hash"
	"dupgroup/internal/models"
)

var errStopWalk = errors.New("stop walk")

// Walker discovers candidate image files under a scan root
type Walker struct {
	fs  afero.Fs
	cfg models.ScanConfig
	log logrus.FieldLogger
}

// NewWalker creates a Walker for a normalized config
func NewWalker(fs afero.Fs, cfg models.ScanConfig, log logrus.FieldLogger) *Walker {
	return &Walker{fs: fs, cfg: cfg, log: log}
}

// Files yields the paths of candidate images in traversal order. Unreadable
// directories and files are logged and skipped. Iteration stops early when
// ctx is cancelled.
func (w *Walker) Files(ctx context.Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		root := w.cfg.ScanPath
		err := afero.Walk(w.fs, root, func(path string, info os.FileInfo, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				w.log.WithFields(logrus.Fields{"path": path, "error": err}).Warn("skipping unreadable path")
				return nil
			}

			if info.IsDir() {
				if w.cfg.IsExcludedFolder(path) {
					return filepath.SkipDir
				}
				if path != root && !w.cfg.IncludeSubdirectories {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !w.Accept(path, info.Size()) {
				return nil
			}
			if !yield(path) {
				return errStopWalk
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStopWalk) && ctx.Err() == nil {
			w.log.WithFields(logrus.Fields{"path": root, "error": err}).Warn("walk aborted")
		}
	}
}

// Collect gathers every candidate path
func (w *Walker) Collect(ctx context.Context) []string {
	var paths []string
	for path := range w.Files(ctx) {
		paths = append(paths, path)
	}
	return paths
}

// Accept applies the extension and size filters to a regular file
func (w *Walker) Accept(path string, size int64) bool {
	ext := hash.Extension(path)
	if !hash.IsSupportedExtension(ext) || w.cfg.IsExcludedExtension(ext) {
		return false
	}
	return w.cfg.SizeAllowed(size)
}
