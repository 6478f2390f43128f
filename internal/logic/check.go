package logic

import (
	"errors"
	"fmt"
	"io"

	"github.com/idelchi/secfile/internal/config"
	"github.com/idelchi/secfile/internal/filter"
)

// RunCheck validates that every exclude pattern matches at least one of the
// files the input patterns expand to. Counts are written to w.
func RunCheck(cfg *config.Config, w io.Writer) error {
	excludes, err := loadExcludes(cfg)
	if err != nil {
		return err
	}

	if len(excludes) == 0 {
		return errors.New("no exclude patterns to check")
	}

	candidates, _, err := filter.Resolve(cfg.Files, nil)
	if err != nil {
		return fmt.Errorf("resolving files: %w", err)
	}

	if failures := checkPatterns(w, excludes, candidates, cfg.Quiet); failures > 0 {
		return fmt.Errorf("%d pattern(s) matched no files", failures)
	}

	return nil
}

// checkPatterns tests each pattern individually against candidates.
// Returns the number of patterns that matched zero files.
func checkPatterns(w io.Writer, patterns, candidates []string, quiet bool) int {
	var failures int

	for _, pattern := range patterns {
		flt, err := filter.NewFilter([]string{pattern})
		if err != nil {
			fmt.Fprintf(w, "exclude: %s: %v\n", pattern, err)

			failures++

			continue
		}

		var count int

		for _, path := range candidates {
			if flt.Excluded(path) {
				count++
			}
		}

		switch {
		case count == 0:
			fmt.Fprintf(w, "exclude: %s: 0 files (ERROR)\n", pattern)

			failures++
		case !quiet:
			fmt.Fprintf(w, "exclude: %s: %d files\n", pattern, count)
		}
	}

	return failures
}
