package encryption

import (
	"os"
	"syscall"
	"testing"
	"time"
)

// accessTime returns the access time of path.
func accessTime(t *testing.T, path string) (time.Time, bool) {
	t.Helper()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}

	return time.Unix(int64(stat.Atim.Sec), int64(stat.Atim.Nsec)), true //nolint:unconvert // int32 on 32-bit
}
