package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"dupgroup/internal/hash"
	"dupgroup/internal/imagedecode"
	"dupgroup/internal/match"
	"dupgroup/internal/models"
)

// ProgressFunc receives progress updates. Calls for one scan are serialized
// and Current never decreases.
type ProgressFunc func(models.ScanProgress)

// Scanner finds groups of similar images under a folder
type Scanner struct {
	fs      afero.Fs
	decoder imagedecode.Decoder
	workers int
	log     logrus.FieldLogger
}

// Option configures a Scanner
type Option func(*Scanner)

// WithWorkers sets the number of parallel hashing workers
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithFs sets the file system to scan
func WithFs(fs afero.Fs) Option {
	return func(s *Scanner) {
		if fs != nil {
			s.fs = fs
		}
	}
}

// WithDecoder sets the image decoder used for metadata and perceptual hashing
func WithDecoder(d imagedecode.Decoder) Option {
	return func(s *Scanner) {
		if d != nil {
			s.decoder = d
		}
	}
}

// WithLogger sets the logger for recoverable per-file errors
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.log = l
		}
	}
}

// NewScanner creates a new Scanner
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		fs:      afero.NewOsFs(),
		decoder: imagedecode.New(),
		workers: 8,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// hashResult is the outcome for one candidate: a fingerprint or a skip
type hashResult struct {
	index       int
	path        string
	fingerprint *models.ImageFingerprint
	skip        *models.Skip
}

// Scan runs discovery, hashing and grouping for cfg. The returned error wraps
// ErrInvalidConfig for a bad config and ErrCancelled when ctx is cancelled;
// in both cases no result is returned.
func (s *Scanner) Scan(ctx context.Context, cfg models.ScanConfig, onProgress ProgressFunc) (*models.ScanResult, error) {
	start := time.Now()
	emit := func(p models.ScanProgress) {
		if onProgress != nil {
			onProgress(p)
		}
	}

	cfg, err := s.prepare(cfg)
	if err != nil {
		emit(models.ScanProgress{Status: models.StatusError})
		return nil, err
	}
	log := s.log.WithField("root", cfg.ScanPath)

	emit(models.ScanProgress{Status: models.StatusScanning})
	paths := NewWalker(s.fs, cfg, log).Collect(ctx)
	if ctx.Err() != nil {
		return nil, cancelled(ctx, emit, 0, 0)
	}
	total := len(paths)
	emit(models.ScanProgress{Status: models.StatusScanning, Total: total})
	log.WithField("files", total).Debug("discovery finished")

	if total == 0 {
		emit(models.ScanProgress{Status: models.StatusCompleted})
		return &models.ScanResult{
			Groups:   []*models.SimilarityGroup{},
			ScanTime: time.Since(start).Milliseconds(),
		}, nil
	}

	fingerprints, skipped, err := s.hashAll(ctx, cfg, paths, emit)
	if err != nil {
		return nil, cancelled(ctx, emit, len(fingerprints)+len(skipped), total)
	}

	emit(models.ScanProgress{Status: models.StatusComparing, Current: total, Total: total})
	var matcher match.Matcher = match.NewClusterer(cfg.SimilarityThreshold, cfg.Algorithm.UsesPerceptual())
	groups := matcher.FindGroups(fingerprints)
	if ctx.Err() != nil {
		return nil, cancelled(ctx, emit, total, total)
	}
	emit(models.ScanProgress{Status: models.StatusComparing, Current: total, Total: total, GroupsFound: len(groups)})

	result := &models.ScanResult{
		Groups:              groups,
		TotalImages:         len(fingerprints),
		TotalGroups:         len(groups),
		PotentialSpaceSaved: models.PotentialSpaceSaved(groups),
		Skipped:             skipped,
		ScanTime:            time.Since(start).Milliseconds(),
	}
	emit(models.ScanProgress{Status: models.StatusCompleted, Current: total, Total: total, GroupsFound: len(groups)})
	log.WithFields(logrus.Fields{
		"images":  result.TotalImages,
		"groups":  result.TotalGroups,
		"skipped": len(skipped),
	}).Debug("scan completed")

	return result, nil
}

// prepare normalizes and validates cfg and checks that the root is a directory
func (s *Scanner) prepare(cfg models.ScanConfig) (models.ScanConfig, error) {
	cfg, err := cfg.Normalize()
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	info, err := s.fs.Stat(cfg.ScanPath)
	if err != nil {
		return cfg, fmt.Errorf("%w: folder not found: %w", ErrInvalidConfig, err)
	}
	if !info.IsDir() {
		return cfg, fmt.Errorf("%w: not a directory: %s", ErrInvalidConfig, cfg.ScanPath)
	}
	return cfg, nil
}

func cancelled(ctx context.Context, emit ProgressFunc, current, total int) error {
	emit(models.ScanProgress{Status: models.StatusCancelled, Current: current, Total: total})
	return fmt.Errorf("%w: %w", ErrCancelled, context.Cause(ctx))
}

// hashAll fingerprints paths on a bounded worker pool. Results are collected
// on the calling goroutine, which emits one progress update per file and
// stores fingerprints by discovery index.
func (s *Scanner) hashAll(ctx context.Context, cfg models.ScanConfig, paths []string, emit ProgressFunc) ([]*models.ImageFingerprint, []models.Skip, error) {
	perceptual := cfg.Algorithm.UsesPerceptual()
	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan int)
	results := make(chan hashResult)

	g.Go(func() error {
		defer close(jobs)
		for i := range paths {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case jobs <- i:
			}
		}
		return nil
	})

	for w := 0; w < s.workers; w++ {
		g.Go(func() error {
			for i := range jobs {
				if err := gctx.Err(); err != nil {
					return err
				}
				res := s.hashFile(paths[i], perceptual)
				res.index = i
				select {
				case <-gctx.Done():
					return gctx.Err()
				case results <- res:
				}
			}
			return nil
		})
	}

	var waitErr error
	go func() {
		waitErr = g.Wait()
		close(results)
	}()

	ordered := make([]*models.ImageFingerprint, len(paths))
	var skipped []models.Skip
	done := 0
	for res := range results {
		done++
		if res.skip != nil {
			skipped = append(skipped, *res.skip)
		} else {
			ordered[res.index] = res.fingerprint
		}
		emit(models.ScanProgress{
			Status:      models.StatusHashing,
			Current:     done,
			Total:       len(paths),
			CurrentFile: res.path,
		})
	}

	fingerprints := make([]*models.ImageFingerprint, 0, len(paths)-len(skipped))
	for _, fp := range ordered {
		if fp != nil {
			fingerprints = append(fingerprints, fp)
		}
	}

	if waitErr != nil {
		return fingerprints, skipped, waitErr
	}
	if err := ctx.Err(); err != nil {
		return fingerprints, skipped, err
	}
	return fingerprints, skipped, nil
}

// hashFile computes the fingerprint for one file. Read failures produce a
// skip; decode failures only leave the perceptual hash and dimensions empty.
func (s *Scanner) hashFile(path string, perceptual bool) hashResult {
	log := s.log.WithField("path", path)

	info, err := s.fs.Stat(path)
	if err != nil {
		log.WithError(err).Warn("skipping file")
		return hashResult{path: path, skip: &models.Skip{Path: path, Reason: fmt.Sprintf("failed to stat file: %v", err)}}
	}
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		log.WithError(err).Warn("skipping file")
		return hashResult{path: path, skip: &models.Skip{Path: path, Reason: fmt.Sprintf("failed to read file: %v", err)}}
	}

	fp := &models.ImageFingerprint{
		FilePath:     path,
		ContentHash:  hash.ContentHash(data),
		Size:         info.Size(),
		ModifiedTime: info.ModTime().UnixMilli(),
	}

	if meta, err := s.decoder.ReadMetadata(data); err == nil {
		fp.Width, fp.Height = meta.Width, meta.Height
	} else {
		log.WithError(err).Debug("dimensions unavailable")
	}

	if perceptual {
		pixels, err := s.decoder.DecodeGreyscale(data, hash.GridSize, hash.GridSize)
		if err != nil {
			log.WithError(err).Debug("perceptual hash unavailable, comparing by content only")
		} else {
			fp.PerceptualHash = hash.PerceptualHash(pixels)
		}
	}

	return hashResult{path: path, fingerprint: fp}
}
