package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// prefetchCmd warms the cache
var prefetchCmd = &cobra.Command{
	Use:   "prefetch",
	Short: "Download and cache price history for every ticker in the list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		report := a.container.Analysis.Prefetch(cmd.Context())
		if report.Fetched > 0 {
			if err := a.container.Cache.Checkpoint(cmd.Context()); err != nil {
				a.log.Warn().Err(err).Msg("WAL checkpoint after prefetch failed")
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Requested   : %d\n", report.Requested)
		fmt.Fprintf(out, "Cached      : %d\n", report.Cached)
		fmt.Fprintf(out, "Fetched     : %d\n", report.Fetched)
		if len(report.Unavailable) > 0 {
			fmt.Fprintf(out, "Unavailable : %s\n", strings.Join(report.Unavailable, ", "))
		}

		if report.Requested > 0 && report.Cached+report.Fetched == 0 {
			return fmt.Errorf("none of %d tickers could be fetched", report.Requested)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(prefetchCmd)
}
