package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/idelchi/secfile/internal/config"
	"github.com/idelchi/secfile/internal/encryption"
	"github.com/idelchi/secfile/internal/logging"
	"github.com/idelchi/secfile/internal/logic"
	"github.com/idelchi/secfile/internal/progress"
)

// NewRootCommand creates the root command with common configuration.
// It sets up environment variable binding and flag handling.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	vip := viper.New()

	root := &cobra.Command{
		Use:   "secfile [flags] command [flags]",
		Short: "Password-based file encryption utility",
		Long: `A file encryption utility that compresses and encrypts files with a password,
keeping the original name and timestamps in the name of the encrypted file.

Every flag can also be set through an environment variable, e.g. SECFILE_PASSWORD.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()

	flags.StringP("password", "p", "", "Password; prompted for when neither this nor --password-file is given")
	flags.String("password-file", "", "Path to a file holding the password on its first line")
	flags.String("suffix", config.DefaultSuffix, "Final name segment marking encrypted files")

	flags.BoolP("delete", "d", false, "Delete the original file after successful encryption/decryption")
	flags.BoolP("overwrite", "o", false, "Overwrite existing output files")
	flags.StringP("move", "m", "", "Write outputs below this directory, mirroring the input directories")
	flags.Bool("keep-going", false, "Continue with the remaining files after a failure")

	flags.StringSliceP("exclude", "e", nil, "Exclude files matching the pattern (repeatable, supports **)")
	flags.String("exclude-from", "", "Path to a JSONC file with an array of exclude patterns")

	flags.Bool("dry", false, "Show what would be done and exit")
	flags.Bool("stats", false, "Print statistics at the end")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.Bool("no-progress", false, "Log progress instead of drawing a progress bar")

	root.AddCommand(
		NewEncryptCommand(cfg, vip),
		NewDecryptCommand(cfg, vip),
		NewAutoCommand(cfg, vip),
		NewCheckCommand(cfg, vip),
	)

	return root
}

// run returns a RunE handler executing the batch for cfg.
func run(cfg *config.Config) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logger, err := logging.New(cfg.Verbose, cfg.Quiet)
		if err != nil {
			return err
		}

		defer logger.Sync() //nolint:errcheck // stderr sync errors are not actionable

		return logic.Run(cmd.Context(), cfg, newObserver(cfg, logger), logger)
	}
}

// newObserver picks how progress is shown: a bar on an interactive terminal,
// log lines otherwise, and both when verbose.
func newObserver(cfg *config.Config, logger *zap.Logger) encryption.Observer {
	switch {
	case cfg.Quiet:
		return encryption.NopObserver{}
	case cfg.NoProgress || !term.IsTerminal(int(os.Stderr.Fd())): //nolint:gosec // fd fits in int
		return progress.NewLog(logger)
	case cfg.Verbose:
		return progress.Multi{progress.NewBar(os.Stderr), progress.NewLog(logger)}
	default:
		return progress.NewBar(os.Stderr)
	}
}
