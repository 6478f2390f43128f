package naming

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxNameLength is the byte budget of an encoded file name.
const MaxNameLength = 255

const (
	tagFull     = "MCF"
	tagModified = "MF"
	separator   = "."
)

// Tier identifies which shape of the fallback chain produced a name.
type Tier int

const (
	// TierFull keeps both timestamps and the name.
	TierFull Tier = iota + 1
	// TierModified drops the created timestamp.
	TierModified
	// TierName drops both timestamps.
	TierName
	// TierTruncated additionally truncates the name.
	TierTruncated
)

func (t Tier) String() string {
	switch t {
	case TierFull:
		return "full"
	case TierModified:
		return "modified"
	case TierName:
		return "name"
	case TierTruncated:
		return "truncated"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// ErrUnparseable is returned when a name has fewer than two dot-separated segments.
var ErrUnparseable = errors.New("name has no suffix segment")

// Encode builds the encrypted file name for original, a base name, with the
// given timestamps and suffix (without a leading dot).
func Encode(original string, modified, created time.Time, suffix string) (string, Tier) {
	mod := EncodeTimestamp(modified)

	candidates := []struct {
		name string
		tier Tier
	}{
		{join(tagFull, mod, EncodeTimestamp(created), original, suffix), TierFull},
		{join(tagModified, mod, original, suffix), TierModified},
		{join(original, suffix), TierName},
	}

	for _, c := range candidates {
		if len(c.name) <= MaxNameLength {
			return c.name, c.tier
		}
	}

	ext := strings.TrimPrefix(filepath.Ext(original), separator)

	if budget := MaxNameLength - len(ext) - len(suffix) - 2*len(separator); ext != "" && budget > 0 {
		return join(truncate(original, budget), ext, suffix), TierTruncated
	}

	budget := MaxNameLength - len(suffix) - len(separator)

	return join(truncate(original, budget), suffix), TierTruncated
}

// Parsed holds the components recovered from an encoded name.
// Modified and Created are zero when the name did not carry them.
type Parsed struct {
	Original string
	Modified time.Time
	Created  time.Time
	Tier     Tier
}

// HasModified reports whether a modified timestamp was recovered.
func (p Parsed) HasModified() bool {
	return !p.Modified.IsZero()
}

// HasCreated reports whether a created timestamp was recovered.
func (p Parsed) HasCreated() bool {
	return !p.Created.IsZero()
}

// Parse splits an encoded name back into its components. The final segment
// is taken to be the suffix and is not checked. Parsing is best effort: a
// tagged name lacking enough segments is read as untagged, and only a
// malformed timestamp token or a name without any dot is an error.
// TierTruncated is never reported since it cannot be told apart from TierName.
func Parse(name string) (Parsed, error) {
	parts := strings.Split(name, separator)
	if len(parts) < 2 {
		return Parsed{}, fmt.Errorf("%w: %q", ErrUnparseable, name)
	}

	last := len(parts) - 1

	switch {
	case parts[0] == tagFull && last > 3:
		modified, err := DecodeTimestamp(parts[1])
		if err != nil {
			return Parsed{}, fmt.Errorf("modified timestamp of %q: %w", name, err)
		}

		created, err := DecodeTimestamp(parts[2])
		if err != nil {
			return Parsed{}, fmt.Errorf("created timestamp of %q: %w", name, err)
		}

		return Parsed{
			Original: join(parts[3:last]...),
			Modified: modified,
			Created:  created,
			Tier:     TierFull,
		}, nil
	case parts[0] == tagModified && last > 2:
		modified, err := DecodeTimestamp(parts[1])
		if err != nil {
			return Parsed{}, fmt.Errorf("modified timestamp of %q: %w", name, err)
		}

		return Parsed{
			Original: join(parts[2:last]...),
			Modified: modified,
			Tier:     TierModified,
		}, nil
	default:
		return Parsed{
			Original: join(parts[:last]...),
			Tier:     TierName,
		}, nil
	}
}

// HasSuffix reports whether name ends in ".<suffix>".
func HasSuffix(name, suffix string) bool {
	return strings.HasSuffix(name, separator+suffix)
}

func join(parts ...string) string {
	return strings.Join(parts, separator)
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}

	if len(s) <= n {
		return s
	}

	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}

	return s[:n]
}
