package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/idelchi/secfile/internal/commands"
	"github.com/idelchi/secfile/internal/config"
)

// execute runs the CLI with args and stdin, returning the error.
func execute(t *testing.T, stdin string, args ...string) (*config.Config, error) {
	t.Helper()

	cfg := &config.Config{}
	root := commands.NewRootCommand(cfg, "test")

	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	return cfg, root.Execute()
}

func TestEncryptDecrypt(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "report.docx")

	if err := os.WriteFile(input, []byte("numbers"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := execute(t, "hunter2\n", "enc", "--quiet", "--delete", input)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if cfg.Password != "hunter2" || cfg.Mode != config.ModeEncrypt {
		t.Errorf("config = %+v", cfg)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "M*.report.docx.secfile"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("encrypted files = %v, %v", matches, err)
	}

	pwFile := filepath.Join(t.TempDir(), "pw")
	if err := os.WriteFile(pwFile, []byte("hunter2\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "", "auto", "--quiet", "--delete", "--password-file", pwFile, matches[0]); err != nil {
		t.Fatalf("decrypt: %v", err)
	}

	got, err := os.ReadFile(input)
	if err != nil || string(got) != "numbers" {
		t.Errorf("decrypted = %q, %v", got, err)
	}
}

func TestPasswordErrors(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "a.txt")

	if err := os.WriteFile(input, []byte("a"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		desc  string
		stdin string
		args  []string
		want  string
	}{
		{"empty prompt", "\n", []string{"enc", "-q", input}, commands.ErrEmptyPassword.Error()},
		{"both sources", "", []string{"enc", "-q", "-p", "x", "--password-file", "pw", input}, "mutually exclusive"},
		{"no patterns", "", []string{"dec", "-q", "-p", "x"}, "requires at least 1 arg"},
	}

	for _, tc := range tests {
		_, err := execute(t, tc.stdin, tc.args...)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: error = %v, want %q", tc.desc, err, tc.want)
		}
	}
}

func TestPasswordFromEnv(t *testing.T) {
	t.Setenv("SECFILE_PASSWORD", "from-env")

	input := filepath.Join(t.TempDir(), "a.txt")
	if err := os.WriteFile(input, []byte("a"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := execute(t, "", "enc", "--dry", "-q", input)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}

	if cfg.Password != "from-env" {
		t.Errorf("password = %q", cfg.Password)
	}
}
