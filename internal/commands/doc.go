// Package commands provides the command-line interface for the secfile tool.
//
// It implements commands for:
//   - encryption
//   - decryption
//   - automatic selection by file suffix
//   - checking exclude patterns against the inputs
//
// The package handles command-line parsing, configuration validation,
// password acquisition and environment variable binding through cobra and viper.
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/secfile/internal/config"
)

// envPrefix prefixes the environment variables bound to flags.
const envPrefix = "SECFILE"

// preRun returns a PreRunE handler that binds flags and environment variables
// into cfg, sets the mode and positional patterns, validates the configuration
// and acquires the password.
func preRun(cfg *config.Config, vip *viper.Viper, mode config.Mode) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := vip.BindPFlags(cmd.Flags()); err != nil {
			return fmt.Errorf("binding flags: %w", err)
		}

		vip.SetEnvPrefix(envPrefix)
		vip.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		vip.AutomaticEnv()

		if err := vip.Unmarshal(cfg); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}

		cfg.Mode = mode
		cfg.Files = args

		if err := cfg.Validate(); err != nil {
			return err
		}

		if mode == config.ModeCheck {
			return nil
		}

		return resolvePassword(cfg, cmd.InOrStdin(), cmd.ErrOrStderr())
	}
}
