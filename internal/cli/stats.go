package cli

import (
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cerridwen-io/babyrs/internal/event"
	"github.com/cerridwen-io/babyrs/internal/store"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	Period string
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize logged events per day, week, or month",
		Long: `Summarize logged events: feed volume, nursing and sleep minutes,
pumped volume, and diaper counts, bucketed per day, week (Monday
start), or month.

Example:
  babyrs stats
  babyrs stats --period week --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Period, "period", "day", "bucket size (day|week|month)")

	return cmd
}

func runStats(opts *StatsOptions, cmd *cobra.Command) error {
	period := event.Period(opts.Period)
	if !period.Valid() {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid period %q: must be one of %v", opts.Period, event.Periods))
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	events, err := st.ListEvents(cmd.Context(), store.Filter{})
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list events", err)
	}

	buckets := event.Summarize(events, period)

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return out.SuccessText(renderStats(buckets, period), buckets)
}

// renderStats formats buckets as an aligned text table.
func renderStats(buckets []event.Bucket, period event.Period) string {
	if len(buckets) == 0 {
		return "No events logged.\n"
	}

	layout := "2006-01-02"
	if period == event.PeriodMonth {
		layout = "2006-01"
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "start\tfeed ml\tnursed min\tpumped ml\tsleep min\twet\tstool")
	for _, bucket := range buckets {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			bucket.Start.Format(layout),
			bucket.FeedVolumeML,
			bucket.NursedMin,
			bucket.PumpedML,
			bucket.SleepMin,
			bucket.WetDiapers,
			bucket.StoolDiapers,
		)
	}
	w.Flush()
	return b.String()
}
