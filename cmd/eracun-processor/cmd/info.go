package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/eracun-processor/internal/attachment"
	"github.com/rezonia/eracun-processor/internal/model"
	"github.com/rezonia/eracun-processor/internal/parser/ubl"
)

var infoCmd = &cobra.Command{
	Use:   "info [files...]",
	Short: "Show information about e-invoice files",
	Long: `Display information about UBL documents without full output.

Shows:
  - Detected envelope kind (Invoice, CreditNote)
  - Document number, supplier, payable amount
  - Embedded PDF attachment status

Examples:
  eracun-processor info invoice.xml
  eracun-processor info *.xml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found")
	}

	for _, file := range files {
		printFileInfo(file)
		fmt.Println()
	}

	return nil
}

func printFileInfo(filePath string) {
	fmt.Printf("File: %s\n", filePath)

	info, err := os.Stat(filePath)
	if err != nil {
		fmt.Printf("  Error: %v\n", err)
		return
	}

	fmt.Printf("  Size: %d bytes\n", info.Size())
	fmt.Printf("  Modified: %s\n", info.ModTime().Format("2006-01-02 15:04:05"))

	data, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Printf("  Error reading file: %v\n", err)
		return
	}

	kind, err := ubl.DetectKind(data)
	if err != nil {
		fmt.Printf("  Error: %v\n", err)
		return
	}
	fmt.Printf("  Kind: %s\n", kind)
	if kind == model.KindUnknown {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	doc, err := ubl.NewParser().ParseBytes(ctx, data)
	if err != nil {
		fmt.Printf("  Parse error: %v\n", err)
		return
	}

	fmt.Printf("  Number: %s\n", doc.Header.SupplierInvoiceID)
	fmt.Printf("  Supplier: %s\n", doc.Supplier.Name)
	fmt.Printf("  Customer: %s\n", doc.Customer.Name)
	fmt.Printf("  Due date: %s\n", doc.Header.DueDate)
	fmt.Printf("  Payable: %s %s\n", doc.Header.PayableAmount, doc.Header.Currency)
	fmt.Printf("  Lines: %d\n", len(doc.Lines))

	if len(doc.Attachment) == 0 {
		fmt.Printf("  Attachment: none\n")
		return
	}
	if raw, err := attachment.DecodeAndValidate(doc.Attachment); err != nil {
		fmt.Printf("  Attachment: present, invalid (%v)\n", err)
	} else {
		fmt.Printf("  Attachment: PDF, %d bytes\n", len(raw))
	}
}
