package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cerridwen-io/babyrs/internal/tui"
)

// NewTUICommand creates the tui command. The root command runs the
// same session; this exists so `babyrs tui` reads naturally next to
// the other subcommands.
func NewTUICommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive session",
		Long: `Start the interactive terminal session against the configured
database, creating it and applying pending migrations if needed.

Example:
  babyrs tui
  babyrs tui --db /tmp/test.db --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(rootOpts)
		},
	}
}

func runSession(opts *RootOptions) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	if err := tui.Run(st); err != nil {
		return WrapExitError(ExitCommandError, "session failed", err)
	}

	return nil
}
