// Package ubllib provides a public API for parsing Croatian UBL
// e-invoices.
//
// This package exposes the core types for flattening UBL Invoice and
// CreditNote envelopes into ERP-ready records.
//
// Example usage:
//
//	parser := ubllib.NewParser()
//	doc, err := parser.Parse(ctx, reader)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(doc.Header.PayableAmount)
package ubllib

import "github.com/rezonia/eracun-processor/internal/model"

// Re-export core types for public API
type (
	ParsedDocument      = model.ParsedDocument
	PartyRecord         = model.PartyRecord
	InvoiceLineRecord   = model.InvoiceLineRecord
	InvoiceHeaderRecord = model.InvoiceHeaderRecord
	PdfAttachment       = model.PdfAttachment
	DocKind             = model.DocKind
)

// Re-export envelope kinds
const (
	KindInvoice    = model.KindInvoice
	KindCreditNote = model.KindCreditNote
	KindUnknown    = model.KindUnknown
)

// Re-export error types
type (
	ParseError      = model.ParseError
	ValidationError = model.ValidationError
)

// CheckDocument runs consistency checks over a parsed document,
// returning import-blocking errors and non-blocking warnings.
func CheckDocument(doc *ParsedDocument) (errors, warnings []string) {
	return model.CheckDocument(doc)
}
