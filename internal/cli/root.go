// Package cli defines the babyrs command-line surface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cerridwen-io/babyrs/internal/config"
	"github.com/cerridwen-io/babyrs/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Database string // --db flag, empty means resolve via config
	Verbose  bool
	Format   string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the babyrs CLI.
// Running the bare command starts the interactive session.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "babyrs",
		Short: "babyrs - log infant care events from the terminal",
		Long: `babyrs logs infant care events (feeding, diaper changes, sleep,
pumping, skin-to-skin) into a local SQLite database and lets you
browse and edit them in an interactive terminal session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			configureLogging(opts.Verbose)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(opts)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (default: resolved from config)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewTUICommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// configureLogging installs the slog default handler. Logs go to
// stderr so they never corrupt command output or the session screen.
func configureLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// openStore resolves the database path and opens the store, running
// any pending migrations. Startup failures carry ExitCommandError so
// the process exits non-zero.
func openStore(opts *RootOptions) (*store.Store, error) {
	path, err := config.ResolveDBPath(opts.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to resolve database path", err)
	}

	slog.Debug("opening database", "path", path)
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	return st, nil
}
