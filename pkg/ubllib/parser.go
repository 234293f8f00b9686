package ubllib

import (
	"context"
	"io"

	"github.com/rezonia/eracun-processor/internal/attachment"
	"github.com/rezonia/eracun-processor/internal/parser/ubl"
)

// Parser parses UBL envelopes into flat records.
type Parser struct {
	inner *ubl.Parser
}

// NewParser creates a parser handling both Invoice and CreditNote
// envelopes.
func NewParser() *Parser {
	return &Parser{inner: ubl.NewParser()}
}

// Parse detects the envelope kind from the root element and parses
// accordingly.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (*ParsedDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Message: "failed to read input", Cause: err}
	}
	return p.inner.ParseBytes(ctx, data)
}

// ParseInvoice parses an Invoice envelope.
func (p *Parser) ParseInvoice(ctx context.Context, r io.Reader) (*ParsedDocument, error) {
	return p.inner.ParseInvoice(ctx, r)
}

// ParseCreditNote parses a CreditNote envelope.
func (p *Parser) ParseCreditNote(ctx context.Context, r io.Reader) (*ParsedDocument, error) {
	return p.inner.ParseCreditNote(ctx, r)
}

// DetectKind reports the envelope kind without a full parse.
// Well-formed XML with an unrecognized root yields KindUnknown.
func DetectKind(content []byte) (DocKind, error) {
	return ubl.DetectKind(content)
}

// DecodeAttachment unwraps a document's embedded attachment down to
// the raw PDF bytes and validates the result.
func DecodeAttachment(att PdfAttachment) ([]byte, error) {
	return attachment.DecodeAndValidate(att)
}
