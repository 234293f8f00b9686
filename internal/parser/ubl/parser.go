// Package ubl parses the UBL Invoice and CreditNote envelopes delivered
// by the Fina eRacun and Moj-eRacun services into flat records suitable
// for ERP import.
//
// Parsing is a single synchronous pass over the element tree with no
// shared state between calls, so independent documents may be parsed
// concurrently from separate goroutines.
package ubl

import (
	"context"
	"io"

	"github.com/beevik/etree"

	"github.com/rezonia/eracun-processor/internal/model"
)

// Parser parses eRacun UBL envelopes into ParsedDocument records.
// The zero value is ready to use.
type Parser struct{}

// NewParser creates a new envelope parser
func NewParser() *Parser {
	return &Parser{}
}

// ParseInvoice parses an Invoice envelope.
func (p *Parser) ParseInvoice(ctx context.Context, r io.Reader) (*model.ParsedDocument, error) {
	return p.parse(r, invoiceVariant)
}

// ParseCreditNote parses a CreditNote envelope. CreditNoteLine elements
// land in the same line records invoices use, to satisfy the ERP model.
func (p *Parser) ParseCreditNote(ctx context.Context, r io.Reader) (*model.ParsedDocument, error) {
	return p.parse(r, creditNoteVariant)
}

// Parse detects the envelope kind from the root element and parses
// accordingly.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (*model.ParsedDocument, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, model.NewParseError(model.KindUnknown, "xml", "failed to parse XML", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, model.NewParseError(model.KindUnknown, "xml", "empty XML document", nil)
	}
	v, err := variantFor(root)
	if err != nil {
		return nil, err
	}
	return p.run(root, v)
}

// ParseBytes is Parse over an in-memory document.
func (p *Parser) ParseBytes(ctx context.Context, content []byte) (*model.ParsedDocument, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(content); err != nil {
		return nil, model.NewParseError(model.KindUnknown, "xml", "failed to parse XML", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, model.NewParseError(model.KindUnknown, "xml", "empty XML document", nil)
	}
	v, err := variantFor(root)
	if err != nil {
		return nil, err
	}
	return p.run(root, v)
}

// DetectKind identifies the envelope kind from the root element tag.
// Returns KindUnknown for well-formed XML that is neither envelope and an
// error for content that does not parse at all.
func DetectKind(content []byte) (model.DocKind, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(content); err != nil {
		return model.KindUnknown, model.NewParseError(model.KindUnknown, "xml", "failed to parse XML", err)
	}
	root := doc.Root()
	if root == nil {
		return model.KindUnknown, model.NewParseError(model.KindUnknown, "xml", "empty XML document", nil)
	}
	switch StripTag(root.Tag) {
	case "Invoice":
		return model.KindInvoice, nil
	case "CreditNote":
		return model.KindCreditNote, nil
	default:
		return model.KindUnknown, nil
	}
}

func variantFor(root *etree.Element) (variant, error) {
	switch StripTag(root.Tag) {
	case "Invoice":
		return invoiceVariant, nil
	case "CreditNote":
		return creditNoteVariant, nil
	default:
		return variant{}, model.NewParseError(model.KindUnknown, StripTag(root.Tag), "unknown envelope, expected Invoice or CreditNote", nil)
	}
}

func (p *Parser) parse(r io.Reader, v variant) (*model.ParsedDocument, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, model.NewParseError(v.kind, "xml", "failed to parse XML", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, model.NewParseError(v.kind, "xml", "empty XML document", nil)
	}
	return p.run(root, v)
}

func (p *Parser) run(root *etree.Element, v variant) (*model.ParsedDocument, error) {
	raw, err := walk(root, v)
	if err != nil {
		return nil, err
	}
	return project(raw, v), nil
}
