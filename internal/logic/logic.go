// Package logic implements the batch driver for encryption/decryption.
package logic

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/idelchi/secfile/internal/config"
	"github.com/idelchi/secfile/internal/encryption"
	"github.com/idelchi/secfile/internal/filter"
)

// Run is the main logic of the application.
func Run(ctx context.Context, cfg *config.Config, observer encryption.Observer, logger *zap.Logger) error {
	start := time.Now()

	counts, err := resolveFiles(cfg)
	if err != nil {
		return fmt.Errorf("resolving files: %w", err)
	}

	logger.Debug("resolved input files",
		zap.Int("scanned", counts.Scanned),
		zap.Int("excluded", counts.Excluded),
		zap.String("mode", string(cfg.Mode)))

	proc, err := encryption.NewProcessor(cfg, observer, logger)
	if err != nil {
		return fmt.Errorf("creating processor: %w", err)
	}

	if cfg.Dry {
		return dryRun(cfg, proc, counts, start)
	}

	processed, errored, totalSize, err := proc.ProcessFiles(ctx, cfg.Files)

	if cfg.Stats {
		printStats(counts, processed, errored, totalSize, time.Since(start))
	}

	if err != nil {
		return fmt.Errorf("running logic: %w", err)
	}

	return nil
}

// resolveFiles expands the positional patterns and applies exclude filtering.
// Returns the scan and exclusion counts.
func resolveFiles(cfg *config.Config) (filter.Counts, error) {
	excludes, err := loadExcludes(cfg)
	if err != nil {
		return filter.Counts{}, err
	}

	files, counts, err := filter.Resolve(cfg.Files, excludes)
	if err != nil {
		return counts, fmt.Errorf("filtering files: %w", err)
	}

	cfg.Files = files

	return counts, nil
}

// loadExcludes merges CLI and file-based exclude patterns.
func loadExcludes(cfg *config.Config) ([]string, error) {
	excludes := append([]string{}, cfg.Exclude...)

	if cfg.ExcludeFrom != "" {
		patterns, err := filter.LoadPatterns(cfg.ExcludeFrom)
		if err != nil {
			return nil, fmt.Errorf("loading exclude patterns: %w", err)
		}

		excludes = append(excludes, patterns...)
	}

	return excludes, nil
}

// dryRun previews what would be processed without actually encrypting/decrypting.
func dryRun(cfg *config.Config, proc *encryption.Processor, counts filter.Counts, start time.Time) error {
	var (
		totalSize int64
		errored   int
	)

	for _, file := range cfg.Files {
		job, err := proc.Plan(file)
		if err != nil {
			errored++

			fmt.Fprintf(os.Stderr, "Error planning %q: %v\n", file, err)

			continue
		}

		if !cfg.Quiet {
			fmt.Printf("Would %s %q -> %q\n", job.Mode, file, job.Output) //nolint:forbidigo
		}

		totalSize += job.TotalBytes
	}

	if cfg.Stats {
		printStats(counts, len(cfg.Files)-errored, errored, totalSize, time.Since(start))
	}

	if errored > 0 {
		return fmt.Errorf("%d file(s) could not be planned", errored)
	}

	return nil
}

func printStats(counts filter.Counts, processed, errored int, totalSize int64, duration time.Duration) {
	fmt.Fprintf(os.Stderr, "\nStats\n")
	fmt.Fprintf(os.Stderr, "  Scanned:   %d\n", counts.Scanned)
	fmt.Fprintf(os.Stderr, "  Excluded:  %d\n", counts.Excluded)
	fmt.Fprintf(os.Stderr, "  Processed: %d\n", processed)
	fmt.Fprintf(os.Stderr, "  Errors:    %d\n", errored)
	//nolint:gosec // totalSize is always non-negative (sum of file sizes)
	fmt.Fprintf(os.Stderr, "  Size:      %s\n", humanize.IBytes(uint64(max(0, totalSize))))
	fmt.Fprintf(os.Stderr, "  Duration:  %s\n", duration.Round(time.Millisecond))
}
