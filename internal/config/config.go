// Package config holds the runtime configuration of secfile.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/idelchi/secfile/internal/naming"
)

// Mode selects the operation applied to each input file.
type Mode string

const (
	// ModeEncrypt encrypts every input.
	ModeEncrypt Mode = "encrypt"
	// ModeDecrypt decrypts every input.
	ModeDecrypt Mode = "decrypt"
	// ModeAuto decrypts inputs carrying the encrypted suffix and encrypts the rest.
	ModeAuto Mode = "auto"
	// ModeCheck only verifies that the exclude patterns match input files.
	ModeCheck Mode = "check"
)

// DefaultSuffix is the final name segment of encrypted files.
const DefaultSuffix = "secfile"

// Config holds the configuration of a single run.
type Config struct {
	// Password to derive keys from
	Password string `label:"--password" mapstructure:"password" validate:"exclusive=PasswordFile"`
	// PasswordFile holds the password on its first line
	PasswordFile string `label:"--password-file" mapstructure:"password-file"`

	// Suffix marks encrypted files, without the leading dot
	Suffix string `label:"--suffix" mapstructure:"suffix" validate:"required,excludesall=./\\"`

	// Delete removes the source after a successful job
	Delete bool `mapstructure:"delete"`
	// Overwrite replaces existing outputs
	Overwrite bool `mapstructure:"overwrite"`
	// Move relocates outputs under this directory
	Move string `mapstructure:"move"`
	// KeepGoing continues the batch after a failed job
	KeepGoing bool `mapstructure:"keep-going"`

	// Exclude patterns are matched against the resolved input paths
	Exclude []string `mapstructure:"exclude"`
	// ExcludeFrom is a JSONC file holding exclude patterns
	ExcludeFrom string `mapstructure:"exclude-from"`

	// Dry only prints what would be done
	Dry bool `mapstructure:"dry"`
	// Stats prints a summary at the end
	Stats bool `mapstructure:"stats"`
	// Quiet suppresses non-error output
	Quiet bool `mapstructure:"quiet"`
	// Verbose enables debug logging
	Verbose bool `mapstructure:"verbose"`
	// NoProgress disables the progress bar
	NoProgress bool `mapstructure:"no-progress"`

	// Mode is set by the subcommand
	Mode Mode `label:"mode" mapstructure:"-" validate:"oneof=encrypt decrypt auto check"`

	// Files are the positional input patterns
	Files []string `label:"patterns" mapstructure:"-" validate:"min=1"`
}

// Validate validates the configuration against the struct tags.
func (c *Config) Validate() error {
	validate := validator.New()

	if err := registerExclusive(validate); err != nil {
		return err
	}

	if err := validate.Struct(c); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			return fmt.Errorf("validating configuration: %w", describe(errs))
		}

		return fmt.Errorf("validating configuration: %w", err)
	}

	return nil
}

// ModeFor resolves the mode to apply to path, dispatching auto mode on the suffix.
func (c *Config) ModeFor(path string) Mode {
	if c.Mode != ModeAuto {
		return c.Mode
	}

	if naming.HasSuffix(filepath.Base(path), c.Suffix) {
		return ModeDecrypt
	}

	return ModeEncrypt
}

// describe turns validation errors into a single readable error.
func describe(errs validator.ValidationErrors) error {
	messages := make([]string, 0, len(errs))

	for _, e := range errs {
		switch e.Tag() {
		case "exclusive":
			messages = append(messages, fmt.Sprintf("%s is mutually exclusive with %s", e.Field(), e.Param()))
		case "required":
			messages = append(messages, e.Field()+" is required")
		case "min":
			messages = append(messages, fmt.Sprintf("at least %s %s required", e.Param(), e.Field()))
		default:
			messages = append(messages, fmt.Sprintf("%s fails %q (%s)", e.Field(), e.Tag(), e.Param()))
		}
	}

	return errors.New(strings.Join(messages, "; "))
}
