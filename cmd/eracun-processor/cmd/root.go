package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "eracun-processor",
	Short: "Parse Croatian UBL e-invoices (eRacun)",
	Long: `eRacun Processor is a CLI tool for working with Croatian UBL e-invoices.

Supports:
  - UBL Invoice and CreditNote envelopes (Fina eRacun, Moj-eRacun)
  - Flattening documents into ERP-ready records
  - Fetching documents from the Moj-eRacun exchange service

Examples:
  # Parse a single invoice
  eracun-processor parse invoice.xml

  # Parse a directory of documents into one JSON file
  eracun-processor parse invoices/ -o results.json

  # Validate a document
  eracun-processor validate invoice.xml

  # List undelivered incoming documents
  eracun-processor fetch --undelivered`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "Output format (json, csv, table)")
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
