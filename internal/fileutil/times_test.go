package fileutil_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/idelchi/secfile/internal/fileutil"
)

func TestTimesApply(t *testing.T) {
	t.Parallel()

	modified := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	created := time.Date(2023, 12, 25, 8, 30, 0, 0, time.UTC)

	tests := []struct {
		desc       string
		times      fileutil.Times
		wantAccess time.Time
	}{
		{"both", fileutil.Times{Modified: modified, Created: created}, created},
		{"modified only", fileutil.Times{Modified: modified}, modified},
	}

	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "file")
			if err := os.WriteFile(path, []byte("data"), 0o600); err != nil {
				t.Fatal(err)
			}

			if err := tc.times.Apply(path); err != nil {
				t.Fatalf("Apply: %v", err)
			}

			if atime, ok := accessTime(t, path); ok && !atime.Equal(tc.wantAccess) {
				t.Errorf("access time = %v, want %v", atime, tc.wantAccess)
			}

			got, err := fileutil.ReadTimes(path)
			if err != nil {
				t.Fatalf("ReadTimes: %v", err)
			}

			if !got.Modified.Equal(modified) {
				t.Errorf("Modified = %v, want %v", got.Modified, modified)
			}
		})
	}
}

func TestReadTimesMissing(t *testing.T) {
	t.Parallel()

	if _, err := fileutil.ReadTimes(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadTimes error = %v, want not-exist", err)
	}
}

func TestTempContextCleanup(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src")

	if err := os.WriteFile(src, []byte("data"), 0o600); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "out")

	tc, err := fileutil.NewTempContext(src, out)
	if err != nil {
		t.Fatalf("NewTempContext: %v", err)
	}

	failure := os.ErrInvalid
	tc.CleanupOnError(&failure)

	if _, err := os.Stat(tc.TmpName); !os.IsNotExist(err) {
		t.Errorf("temp file %q still present: %v", tc.TmpName, err)
	}
}

func TestTempContextCommit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src")

	if err := os.WriteFile(src, []byte("data"), 0o600); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "out")

	tc, err := fileutil.NewTempContext(src, out)
	if err != nil {
		t.Fatalf("NewTempContext: %v", err)
	}

	if _, err := tc.TmpFile.WriteString("payload"); err != nil {
		t.Fatal(err)
	}

	if err := tc.Commit(out); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	size, err := fileutil.FinalizeOutput(out, nil)
	if err != nil {
		t.Fatalf("FinalizeOutput: %v", err)
	}

	if size != int64(len("payload")) {
		t.Errorf("size = %d", size)
	}
}
