package commands

import (
	"github.com/spf13/cobra"
)

var analyzeFormat string

// analyzeCmd groups the analysis commands
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run an analysis over the watch list",
	Long: `Runs one analysis over every ticker in the watch list and writes the
result to stdout. Missing price history is downloaded and cached first.`,
}

var analyzePCACmd = &cobra.Command{
	Use:   "pca",
	Short: "Principal component analysis of standardized log returns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		result := a.container.Analysis.PCAnalysis(cmd.Context())
		return render(cmd.OutOrStdout(), cmd.ErrOrStderr(), analyzeFormat, result, result.Empty())
	},
}

var analyzeRiskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Standard deviation, covariance and correlation of log returns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		result := a.container.Analysis.RiskAnalysis(cmd.Context())
		return render(cmd.OutOrStdout(), cmd.ErrOrStderr(), analyzeFormat, result, result.Empty())
	},
}

var analyzeReturnsCmd = &cobra.Command{
	Use:   "returns",
	Short: "Aligned log-return matrix",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		result := a.container.Analysis.Returns(cmd.Context())
		return render(cmd.OutOrStdout(), cmd.ErrOrStderr(), analyzeFormat, result, result.Empty())
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.AddCommand(analyzePCACmd, analyzeRiskCmd, analyzeReturnsCmd)

	analyzeCmd.PersistentFlags().StringVar(&analyzeFormat, "format", formatJSON, "output format (json, msgpack)")
}
