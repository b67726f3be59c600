// Package main is the entry point for pfa, a portfolio factor analysis tool.
// It downloads price history for a watch list of tickers, caches it in
// SQLite and reports principal components, volatility and covariance of the
// tickers' log returns, from the command line or over an HTTP API.
package main

import (
	"os"

	"github.com/aristath/pfa/cmd/pfa/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
