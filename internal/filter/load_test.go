package filter_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/idelchi/secfile/internal/filter"
)

func TestLoadPatterns(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "exclude.jsonc")
	content := `[
  // already encrypted
  "*.secfile",
  "tmp/**", /* scratch */
]`

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	patterns, err := filter.LoadPatterns(path)
	if err != nil {
		t.Fatalf("LoadPatterns: %v", err)
	}

	if want := []string{"*.secfile", "tmp/**"}; !slices.Equal(patterns, want) {
		t.Errorf("LoadPatterns() = %v, want %v", patterns, want)
	}
}
