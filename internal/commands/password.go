package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/idelchi/secfile/internal/config"
)

// ErrEmptyPassword is returned when no usable password was provided.
var ErrEmptyPassword = errors.New("password can't be empty")

// resolvePassword fills cfg.Password from the password file or, failing
// that, from a prompt. Encrypting on a terminal asks for confirmation.
func resolvePassword(cfg *config.Config, in io.Reader, prompt io.Writer) error {
	switch {
	case cfg.Password != "":
	case cfg.PasswordFile != "":
		data, err := os.ReadFile(cfg.PasswordFile)
		if err != nil {
			return fmt.Errorf("reading password file: %w", err)
		}

		cfg.Password = firstLine(string(data))
	default:
		password, err := readPassword(in, prompt, cfg.Mode == config.ModeEncrypt)
		if err != nil {
			return err
		}

		cfg.Password = password
	}

	if cfg.Password == "" {
		return ErrEmptyPassword
	}

	return nil
}

// readPassword prompts without echo when in is a terminal, and otherwise
// reads a single line from it.
func readPassword(in io.Reader, prompt io.Writer, confirm bool) (string, error) {
	file, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) { //nolint:gosec // fd fits in int
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading password: %w", err)
		}

		return firstLine(line), nil
	}

	fd := int(file.Fd()) //nolint:gosec // fd fits in int

	fmt.Fprint(prompt, "Password: ")

	first, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)

	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	if !confirm {
		return string(first), nil
	}

	fmt.Fprint(prompt, "Confirm password: ")

	second, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)

	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}

	return string(first), nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")

	return strings.TrimSuffix(line, "\r")
}
