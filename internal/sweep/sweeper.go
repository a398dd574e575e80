package sweep

import (
	"catalog/pkg/upload"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ImageIndex lists every image path still referenced by an item.
type ImageIndex interface {
	GetImagePaths(ctx context.Context) ([]string, error)
}

// Sweeper removes uploads that no item references any more. Files younger
// than the grace period are kept so uploads of in-flight requests survive.
type Sweeper struct {
	index   ImageIndex
	backend upload.Backend
	grace   time.Duration
	now     func() time.Time
}

type Report struct {
	Scanned    int
	Referenced int
	Young      int
	Orphans    []string
	Deleted    int
	Failed     int
}

func New(index ImageIndex, backend upload.Backend, grace time.Duration) *Sweeper {
	return &Sweeper{
		index:   index,
		backend: backend,
		grace:   grace,
		now:     time.Now,
	}
}

// Run finds orphaned uploads and deletes them unless dryRun is set.
func (s *Sweeper) Run(ctx context.Context, dryRun bool) (Report, error) {
	var report Report

	paths, err := s.index.GetImagePaths(ctx)
	if err != nil {
		return report, fmt.Errorf("loading referenced images: %w", err)
	}
	referenced := make(map[string]bool, len(paths))
	for _, p := range paths {
		if name, ok := s.backend.Name(p); ok {
			referenced[name] = true
		}
	}

	objects, err := s.backend.List(ctx)
	if err != nil {
		return report, fmt.Errorf("listing uploads: %w", err)
	}

	cutoff := s.now().Add(-s.grace)
	for _, obj := range objects {
		report.Scanned++

		switch {
		case referenced[obj.Name]:
			report.Referenced++
			continue
		case obj.ModTime.After(cutoff):
			report.Young++
			continue
		}

		report.Orphans = append(report.Orphans, obj.Name)
		if dryRun {
			continue
		}

		if err := s.backend.Delete(ctx, obj.Name); err != nil {
			report.Failed++
			zap.L().Warn("Failed to delete orphaned upload", zap.String("name", obj.Name), zap.Error(err))
			continue
		}
		report.Deleted++
	}

	zap.L().Info("Upload sweep finished",
		zap.Bool("dryRun", dryRun),
		zap.Int("scanned", report.Scanned),
		zap.Int("referenced", report.Referenced),
		zap.Int("young", report.Young),
		zap.Int("orphans", len(report.Orphans)),
		zap.Int("deleted", report.Deleted),
		zap.Int("failed", report.Failed),
	)

	return report, nil
}
