package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cerridwen-io/babyrs/internal/store"
)

// NewMigrateCommand creates the migrate command group.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Inspect and step schema migrations",
		Long: `Inspect the applied-migrations ledger and step the schema manually.
Opening the database already applies pending migrations; up and down
exist for verification and recovery.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "status",
		Short:         "Show the applied-migrations ledger",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, func(st *store.Store) error {
				applied, err := st.AppliedMigrations()
				if err != nil {
					return WrapExitError(ExitFailure, "failed to read ledger", err)
				}
				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return out.SuccessText(renderLedger(applied), applied)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "up",
		Short:         "Apply pending migrations",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, func(st *store.Store) error {
				// Open already migrates; MigrateUp catches anything
				// pending after a manual rollback.
				if err := st.MigrateUp(); err != nil {
					return WrapExitError(ExitFailure, "migrate up failed", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Schema up to date")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "down",
		Short:         "Roll back the most recent migration",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, func(st *store.Store) error {
				m, err := st.RollbackLast()
				if err != nil {
					return WrapExitError(ExitFailure, "migrate down failed", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d (%s)\n", m.Version, m.Name)
				return nil
			})
		},
	})

	return cmd
}

// withStore opens the store, runs fn, and closes it.
func withStore(opts *RootOptions, fn func(*store.Store) error) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	return fn(st)
}

func renderLedger(applied []store.AppliedMigration) string {
	if len(applied) == 0 {
		return "No migrations applied.\n"
	}
	var b strings.Builder
	for _, m := range applied {
		fmt.Fprintf(&b, "%d\t%s\t%s\n", m.Version, m.Name, m.AppliedAt.Format("2006-01-02 15:04:05"))
	}
	return b.String()
}
