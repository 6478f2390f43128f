package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/secfile/internal/config"
	"github.com/idelchi/secfile/internal/logic"
)

// NewCheckCommand creates a new cobra command for the check subcommand.
func NewCheckCommand(cfg *config.Config, vip *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "check [flags] patterns...",
		Short: "Verify that every exclude pattern matches at least one input file",
		Long: `Expand the input patterns and report how many files each exclude pattern
(from --exclude and --exclude-from) matches. Fails if any pattern matches none.
No password is needed.`,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg, vip, config.ModeCheck),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.RunCheck(cfg, cmd.ErrOrStderr())
		},
	}
}
