// Package filter expands input patterns into files and drops excluded ones.
package filter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoMatch is returned when an input pattern matches no files.
var ErrNoMatch = errors.New("input pattern does not match any files")

// Filter drops paths matching any exclude pattern.
// Patterns use doublestar syntax, so "**" crosses directories.
type Filter struct {
	excludes []string
}

// NewFilter validates exclude patterns into a reusable filter.
func NewFilter(excludes []string) (*Filter, error) {
	excludes = normalizePatterns(excludes)

	for _, p := range excludes {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}

	return &Filter{excludes: excludes}, nil
}

// Excluded reports whether path matches an exclude pattern.
// A pattern without a slash is matched against the base name only.
func (f *Filter) Excluded(path string) bool {
	clean := filepath.ToSlash(filepath.Clean(path))

	for _, p := range f.excludes {
		target := clean
		if !strings.Contains(p, "/") {
			target = filepath.Base(path)
		}

		if ok, _ := doublestar.Match(p, target); ok {
			return true
		}
	}

	return false
}

// normalizePatterns strips leading "./" from patterns so they match cleaned paths.
func normalizePatterns(patterns []string) []string {
	out := make([]string, len(patterns))

	for i, p := range patterns {
		out[i] = strings.TrimPrefix(filepath.ToSlash(p), "./")
	}

	return out
}

// Counts summarizes a Resolve call.
type Counts struct {
	// Scanned is the number of distinct candidate files
	Scanned int
	// Excluded is the number of distinct candidates dropped by an exclude pattern
	Excluded int
}

// Resolve expands each pattern into the files it names. A pattern naming an
// existing file is taken literally, a directory is walked, and anything else
// is globbed. Every pattern must match at least one file.
// Returns the matched files, in order and without duplicates, and how many
// distinct candidates were scanned and excluded.
func Resolve(patterns, excludes []string) (files []string, counts Counts, err error) {
	flt, err := NewFilter(excludes)
	if err != nil {
		return nil, counts, err
	}

	seen := make(map[string]struct{})

	for _, pattern := range patterns {
		candidates, err := expand(pattern)
		if err != nil {
			return nil, counts, err
		}

		if len(candidates) == 0 {
			return nil, counts, fmt.Errorf("%w: %q", ErrNoMatch, pattern)
		}

		for _, path := range candidates {
			if _, ok := seen[path]; ok {
				continue
			}

			seen[path] = struct{}{}
			counts.Scanned++

			if flt.Excluded(path) {
				counts.Excluded++

				continue
			}

			files = append(files, path)
		}
	}

	if len(files) == 0 {
		return nil, counts, fmt.Errorf("%w after exclusions: %v", ErrNoMatch, patterns)
	}

	return files, counts, nil
}

// expand returns the files a single pattern refers to.
func expand(pattern string) ([]string, error) {
	clean := filepath.Clean(pattern)

	info, err := os.Stat(clean)
	switch {
	case err == nil && info.IsDir():
		return walkDir(clean)
	case err == nil:
		return []string{clean}, nil
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expanding %q: %w", pattern, err)
	}

	return matches, nil
}

// walkDir walks root recursively, returning every regular file.
func walkDir(root string) (files []string, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.Type().IsRegular() {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %q: %w", root, err)
	}

	return files, nil
}
