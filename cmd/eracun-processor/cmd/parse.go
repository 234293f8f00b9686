package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/eracun-processor/internal/model"
	"github.com/rezonia/eracun-processor/internal/parser/ubl"
)

var (
	outputFile string
	docKind    string
	timeout    time.Duration
)

var parseCmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Parse e-invoice files",
	Long: `Parse one or more UBL documents and flatten them into structured records.

The envelope kind is detected from the root element by default. Use
--kind to force a specific walker when the source is known.

Examples:
  eracun-processor parse invoice.xml
  eracun-processor parse creditnote.xml --kind creditnote
  eracun-processor parse *.xml -o results.json
  eracun-processor parse invoices/ -f table`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	parseCmd.Flags().StringVar(&docKind, "kind", "auto", "Envelope kind (invoice, creditnote, auto)")
	parseCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Parsing timeout per file")
}

func runParse(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found to parse")
	}

	printVerbose("Found %d files to parse\n", len(files))

	parser := ubl.NewParser()
	results := make([]*ParseResult, 0, len(files))
	for _, file := range files {
		printVerbose("Parsing: %s\n", file)

		result := parseFile(parser, file)
		results = append(results, result)

		if result.Error != "" {
			printVerbose("  Error: %s\n", result.Error)
		} else {
			printVerbose("  Kind: %s, Lines: %d\n", result.Document.Kind, len(result.Document.Lines))
		}
	}

	return outputResults(results)
}

func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		// Check if it's a glob pattern
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}

		if len(matches) == 0 {
			// Check if it's a directory
			info, err := os.Stat(arg)
			if err != nil {
				return nil, fmt.Errorf("file not found: %s", arg)
			}

			if info.IsDir() {
				// Walk directory
				err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
					if err != nil {
						return err
					}
					if !info.IsDir() && isSupportedFile(path) {
						files = append(files, path)
					}
					return nil
				})
				if err != nil {
					return nil, err
				}
			} else {
				files = append(files, arg)
			}
		} else {
			for _, match := range matches {
				info, err := os.Stat(match)
				if err != nil {
					continue
				}
				if !info.IsDir() && isSupportedFile(match) {
					files = append(files, match)
				}
			}
		}
	}

	return files, nil
}

func isSupportedFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xml")
}

func parseFile(parser *ubl.Parser, filePath string) *ParseResult {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result := &ParseResult{
		File: filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Error = fmt.Sprintf("failed to read file: %v", err)
		return result
	}

	var doc *model.ParsedDocument
	switch docKind {
	case "invoice":
		doc, err = parser.ParseInvoice(ctx, strings.NewReader(string(data)))
	case "creditnote":
		doc, err = parser.ParseCreditNote(ctx, strings.NewReader(string(data)))
	case "auto":
		doc, err = parser.ParseBytes(ctx, data)
	default:
		result.Error = fmt.Sprintf("unsupported kind: %s", docKind)
		return result
	}

	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Document = doc
	return result
}

func outputResults(results []*ParseResult) error {
	var writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		writer = f
	}

	switch outputFormat {
	case "json":
		return outputJSON(writer, results)
	case "table":
		return outputTable(writer, results)
	case "csv":
		return outputCSV(writer, results)
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}

func outputJSON(w *os.File, results []*ParseResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

func outputTable(w *os.File, results []*ParseResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tKIND\tNUMBER\tSUPPLIER\tDUE DATE\tPAYABLE\tLINES")
	fmt.Fprintln(tw, "----\t----\t------\t--------\t--------\t-------\t-----")

	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(tw, "%s\tERROR: %s\t\t\t\t\t\n", r.File, r.Error)
			continue
		}

		if r.Document != nil {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
				r.File,
				r.Document.Kind,
				r.Document.Header.SupplierInvoiceID,
				r.Document.Supplier.Name,
				r.Document.Header.DueDate,
				r.Document.Header.PayableAmount,
				len(r.Document.Lines),
			)
		}
	}

	return tw.Flush()
}

func outputCSV(w *os.File, results []*ParseResult) error {
	fmt.Fprintln(w, "file,kind,number,supplier_name,supplier_company_id,customer_name,due_date,payable_amount,currency,lines,error")

	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(w, "%s,,,,,,,,,,%s\n", r.File, escapeCSV(r.Error))
			continue
		}

		if r.Document != nil {
			fmt.Fprintf(w, "%s,%s,%s,%s,%s,%s,%s,%s,%s,%d,\n",
				r.File,
				r.Document.Kind,
				escapeCSV(r.Document.Header.SupplierInvoiceID),
				escapeCSV(r.Document.Supplier.Name),
				r.Document.Supplier.CompanyID,
				escapeCSV(r.Document.Customer.Name),
				r.Document.Header.DueDate,
				r.Document.Header.PayableAmount,
				r.Document.Header.Currency,
				len(r.Document.Lines),
			)
		}
	}

	return nil
}

func escapeCSV(s string) string {
	if strings.Contains(s, ",") || strings.Contains(s, "\"") || strings.Contains(s, "\n") {
		return "\"" + strings.ReplaceAll(s, "\"", "\"\"") + "\""
	}
	return s
}

// ParseResult holds the result of parsing a single file
type ParseResult struct {
	File     string                `json:"file"`
	Document *model.ParsedDocument `json:"document,omitempty"`
	Error    string                `json:"error,omitempty"`
}
