package fileutil

import (
	"fmt"
	"os"
	"time"
)

// Times carries the timestamps preserved across encryption.
// A zero Created means the creation time is unknown.
type Times struct {
	Modified time.Time
	Created  time.Time
}

// ReadTimes returns the modification and creation times of path.
// Where the platform or filesystem does not record a creation time,
// the modification time stands in for it.
func ReadTimes(path string) (Times, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Times{}, fmt.Errorf("getting file info for %q: %w", path, err)
	}

	times := Times{Modified: info.ModTime(), Created: info.ModTime()}

	if created, ok := birthTime(path, info); ok {
		times.Created = created
	}

	return times, nil
}

// Apply sets the times on path. Creation time cannot be set portably, so it
// is stored as the access time, falling back to the modification time.
func (t Times) Apply(path string) error {
	if t.Modified.IsZero() {
		return nil
	}

	atime := t.Created
	if atime.IsZero() {
		atime = t.Modified
	}

	if err := os.Chtimes(path, atime, t.Modified); err != nil {
		return fmt.Errorf("setting timestamps on %q: %w", path, err)
	}

	return nil
}
