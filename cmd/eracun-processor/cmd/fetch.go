package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rezonia/eracun-processor/internal/eracun"
)

var (
	envFile      string
	electronicID string
	undelivered  bool
	outbox       bool
	fromDate     string
	toDate       string
	notifyImport bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch documents from the exchange service",
	Long: `Query or download documents from the Moj-eRacun exchange service.

Without --id the command lists the inbox (or the outbox with
--outbox). With --id it downloads that document's UBL XML; combine
with --output to save it and --notify to confirm the import.

Credentials are read from the environment, optionally loaded from a
.env file:
  ERACUN_USERNAME, ERACUN_PASSWORD, ERACUN_COMPANY_ID,
  ERACUN_SOFTWARE_ID and optionally ERACUN_BASE_URL.

Examples:
  # List undelivered incoming documents
  eracun-processor fetch --undelivered

  # List outgoing documents for a date range
  eracun-processor fetch --outbox --from 2020-01-01 --to 2020-01-31

  # Download one document and confirm the import
  eracun-processor fetch --id 394162 -o invoice.xml --notify`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&envFile, "env-file", "", "Load credentials from a .env file")
	fetchCmd.Flags().StringVar(&electronicID, "id", "", "Electronic document id to download")
	fetchCmd.Flags().BoolVar(&undelivered, "undelivered", false, "List only undelivered documents")
	fetchCmd.Flags().BoolVar(&outbox, "outbox", false, "List outgoing instead of incoming documents")
	fetchCmd.Flags().StringVar(&fromDate, "from", "", "Filter from date (YYYY-MM-DD)")
	fetchCmd.Flags().StringVar(&toDate, "to", "", "Filter to date (YYYY-MM-DD)")
	fetchCmd.Flags().BoolVar(&notifyImport, "notify", false, "Confirm the import after a download")
	fetchCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
}

func newExchangeClient() (*eracun.Client, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	} else {
		// A .env in the working directory is picked up when present.
		_ = godotenv.Load()
	}

	creds := eracun.Credentials{
		Username:   os.Getenv("ERACUN_USERNAME"),
		Password:   os.Getenv("ERACUN_PASSWORD"),
		CompanyID:  os.Getenv("ERACUN_COMPANY_ID"),
		SoftwareID: os.Getenv("ERACUN_SOFTWARE_ID"),
	}
	if creds.Username == "" || creds.Password == "" || creds.CompanyID == "" {
		return nil, fmt.Errorf("missing credentials: set ERACUN_USERNAME, ERACUN_PASSWORD and ERACUN_COMPANY_ID")
	}

	var opts []eracun.Option
	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		opts = append(opts, eracun.WithLogger(logger))
	}

	return eracun.NewClient(eracun.Config{
		BaseURL:     os.Getenv("ERACUN_BASE_URL"),
		Credentials: creds,
	}, opts...), nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	client, err := newExchangeClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if electronicID != "" {
		return fetchDocument(ctx, client)
	}
	return listDocuments(ctx, client)
}

func fetchDocument(ctx context.Context, client *eracun.Client) error {
	data, err := client.Receive(ctx, electronicID)
	if err != nil {
		return fmt.Errorf("failed to receive document %s: %w", electronicID, err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, data, 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		printVerbose("Wrote %d bytes to %s\n", len(data), outputFile)
	} else {
		os.Stdout.Write(data)
	}

	if notifyImport {
		if err := client.NotifyImport(ctx, electronicID); err != nil {
			return fmt.Errorf("document received but import confirmation failed: %w", err)
		}
		printVerbose("Import confirmed for %s\n", electronicID)
	}

	return nil
}

func listDocuments(ctx context.Context, client *eracun.Client) error {
	var docs []eracun.DocumentInfo
	var err error

	if outbox {
		docs, err = client.QueryOutbox(ctx, eracun.OutboxQuery{From: fromDate, To: toDate})
	} else {
		docs, err = client.QueryInbox(ctx, eracun.InboxQuery{
			Undelivered: undelivered,
			From:        fromDate,
			To:          toDate,
		})
	}
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(docs)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNUMBER\tTYPE\tSTATUS\tSENT\tDELIVERED")
	for _, d := range docs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			d.ElectronicID, d.DocumentNr, d.DocumentTypeName, d.StatusName, d.Sent, d.Delivered)
	}
	return tw.Flush()
}
