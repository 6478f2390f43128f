package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/secfile/internal/config"
)

// NewEncryptCommand creates a new cobra command for the encrypt subcommand.
func NewEncryptCommand(cfg *config.Config, vip *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:     "encrypt [flags] patterns...",
		Aliases: []string{"enc"},
		Short:   "Encrypt files",
		Long: `Encrypt each matched file into <dir>/MCF.<modified>.<created>.<name>.<suffix>,
falling back to shorter names when the result would exceed 255 bytes.`,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg, vip, config.ModeEncrypt),
		RunE:    run(cfg),
	}
}
