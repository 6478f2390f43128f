package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/secfile/internal/config"
)

// NewAutoCommand creates a new cobra command for the auto subcommand.
func NewAutoCommand(cfg *config.Config, vip *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:     "auto [flags] patterns...",
		Short:   "Decrypt files carrying the encrypted suffix, encrypt all others",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg, vip, config.ModeAuto),
		RunE:    run(cfg),
	}
}
