package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import events from a CSV file",
		Long: `Import events from a headered CSV file. All rows are validated and
written in a single transaction; a bad row rejects the whole file.

Expected header:
  occurred_at,kind,source,quantity_ml,minutes,urine,stool,notes

occurred_at accepts RFC 3339 ("2024-03-01T08:00:00Z") or
"2006-01-02 15:04", which is read as local time.

Example:
  babyrs import sample/events.csv`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, args[0], cmd)
		},
	}
}

func runImport(opts *RootOptions, path string, cmd *cobra.Command) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	result, err := st.ImportCSV(cmd.Context(), path)
	if err != nil {
		return WrapExitError(ExitFailure, "import failed", err)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return out.SuccessText(
		fmt.Sprintf("Imported %d events (batch %s)\n", result.Inserted, result.Batch),
		result,
	)
}
