package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// cacheCmd groups cache maintenance commands
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the price cache",
	Long: `Cached price tables never expire. Clearing a table is the only way to
force its history to be downloaded again.`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached price tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		tables, err := a.container.Cache.Describe(cmd.Context())
		if err != nil {
			return fmt.Errorf("describe cache: %w", err)
		}
		if len(tables) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "Cache is empty.")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TABLE\tROWS\tFIRST\tLAST")
		for _, t := range tables {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", t.Name, t.Rows, t.FirstDate, t.LastDate)
		}
		return tw.Flush()
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [table...]",
	Short: "Drop the named tables, or every table when none is named",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if len(args) == 0 {
			n, err := a.container.Cache.Clear(ctx)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dropped %d tables\n", n)
			return nil
		}

		for _, name := range args {
			if !a.container.Cache.Exists(ctx, name) {
				fmt.Fprintf(cmd.ErrOrStderr(), "No such table: %s\n", name)
				continue
			}
			if err := a.container.Cache.Drop(ctx, name); err != nil {
				return fmt.Errorf("drop %s: %w", name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dropped %s\n", name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheListCmd, cacheClearCmd)
}
