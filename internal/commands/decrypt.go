package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/secfile/internal/config"
)

// NewDecryptCommand creates a new cobra command for the decrypt subcommand.
func NewDecryptCommand(cfg *config.Config, vip *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:     "decrypt [flags] patterns...",
		Aliases: []string{"dec"},
		Short:   "Decrypt files",
		Long:    "Decrypt each matched file, restoring its original name and timestamps.",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg, vip, config.ModeDecrypt),
		RunE:    run(cfg),
	}
}
