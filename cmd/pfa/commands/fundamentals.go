package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aristath/pfa/internal/domain"
)

var (
	fundamentalsFreq   string
	fundamentalsFormat string
)

// fundamentalsCmd prints the financial statements of one ticker
var fundamentalsCmd = &cobra.Command{
	Use:   "fundamentals SYMBOL",
	Short: "Income statement, balance sheet and cash flow by period",
	Long: `Downloads the income statement, balance sheet and cash flow of one ticker
and prints them combined, one entry per quarter (2024Q1) or year (2024).
Statements are not cached.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := domain.ParseFundamentalFrequency(fundamentalsFreq); err != nil {
			return err
		}

		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.container.Fundamentals.Get(cmd.Context(), args[0], fundamentalsFreq)
		if err != nil {
			return err
		}
		placeholder := fmt.Sprintf("No fundamentals available for %s.", domain.NewTickerSymbol(args[0]))
		return renderOr(cmd.OutOrStdout(), cmd.ErrOrStderr(), fundamentalsFormat, result, result.Empty(), placeholder)
	},
}

func init() {
	rootCmd.AddCommand(fundamentalsCmd)

	fundamentalsCmd.Flags().StringVar(&fundamentalsFreq, "freq", string(domain.FrequencyQuarterly), "statement frequency (quarterly, annual)")
	fundamentalsCmd.Flags().StringVar(&fundamentalsFormat, "format", formatJSON, "output format (json, msgpack)")
}
