// Package fileutil provides shared file operation helpers.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// TempContext holds state for an atomic file write operation.
type TempContext struct {
	SrcInfo os.FileInfo
	IsExec  bool
	TmpFile *os.File
	TmpName string
}

// NewTempContext stats the source file and creates a temp file next to outPath.
// The destination directory must already exist. Caller must defer CleanupOnError.
func NewTempContext(filename, outPath string) (*TempContext, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("getting file info for %q: %w", filename, err)
	}

	const executableBits = 0o111

	tmpFile, err := os.CreateTemp(filepath.Dir(outPath), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	return &TempContext{
		SrcInfo: info,
		IsExec:  info.Mode()&executableBits != 0,
		TmpFile: tmpFile,
		TmpName: tmpFile.Name(),
	}, nil
}

// Commit sets the output permissions, closes the temp file and renames it to outPath.
func (tc *TempContext) Commit(outPath string) error {
	const ownerReadWrite = 0o600

	perm := os.FileMode(ownerReadWrite)

	if tc.IsExec {
		perm |= 0o111
	}

	if err := os.Chmod(tc.TmpName, perm); err != nil {
		return fmt.Errorf("setting file permissions: %w", err)
	}

	if err := tc.TmpFile.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(tc.TmpName, outPath); err != nil {
		return fmt.Errorf("renaming output file: %w", err)
	}

	return nil
}

// CleanupOnError closes the temp file and removes it if the write failed.
func (tc *TempContext) CleanupOnError(errp *error) {
	tc.TmpFile.Close() //nolint:errcheck,gosec // best-effort cleanup

	if *errp != nil {
		os.Remove(tc.TmpName) //nolint:errcheck,gosec // best-effort cleanup
	}
}

// FinalizeOutput applies times, if given, and returns the output file size.
func FinalizeOutput(outPath string, times *Times) (int64, error) {
	if times != nil {
		if err := times.Apply(outPath); err != nil {
			return 0, err
		}
	}

	outInfo, err := os.Stat(outPath)
	if err != nil {
		return 0, fmt.Errorf("stat output %q: %w", outPath, err)
	}

	return outInfo.Size(), nil
}
