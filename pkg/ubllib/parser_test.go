package ubllib_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/eracun-processor/pkg/ubllib"
)

const invoiceXML = `<?xml version="1.0" encoding="UTF-8"?>
<Invoice>
	<ID>3001-1-1</ID>
	<IssueDate>2020-01-14</IssueDate>
	<DueDate>2020-02-13</DueDate>
	<AccountingSupplierParty>
		<Party>
			<PartyName><Name>Klising d.o.o.</Name></PartyName>
			<PartyTaxScheme><CompanyID>HR65723536010</CompanyID></PartyTaxScheme>
		</Party>
	</AccountingSupplierParty>
	<TaxTotal><TaxAmount currencyID="HRK">25.00</TaxAmount></TaxTotal>
	<LegalMonetaryTotal><PayableAmount currencyID="HRK">125.00</PayableAmount></LegalMonetaryTotal>
	<InvoiceLine>
		<ID>1</ID>
		<InvoicedQuantity unitCode="KOM">1</InvoicedQuantity>
		<LineExtensionAmount currencyID="HRK">100.00</LineExtensionAmount>
		<Item><Name>Usluga</Name></Item>
	</InvoiceLine>
</Invoice>`

func TestNewParser(t *testing.T) {
	parser := ubllib.NewParser()
	require.NotNil(t, parser)
}

func TestParserParse(t *testing.T) {
	parser := ubllib.NewParser()

	doc, err := parser.Parse(context.Background(), bytes.NewReader([]byte(invoiceXML)))
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, ubllib.KindInvoice, doc.Kind)
	assert.Equal(t, "3001-1-1", doc.Header.SupplierInvoiceID)
	assert.Equal(t, "Klising d.o.o.", doc.Supplier.Name)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, "KOM", doc.Lines[0].UnitCode)
}

func TestParserParse_UnknownEnvelope(t *testing.T) {
	parser := ubllib.NewParser()

	_, err := parser.Parse(context.Background(), bytes.NewReader([]byte("<Order/>")))
	require.Error(t, err)

	var parseErr *ubllib.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestDetectKind(t *testing.T) {
	kind, err := ubllib.DetectKind([]byte(invoiceXML))
	require.NoError(t, err)
	assert.Equal(t, ubllib.KindInvoice, kind)

	kind, err = ubllib.DetectKind([]byte("<Order/>"))
	require.NoError(t, err)
	assert.Equal(t, ubllib.KindUnknown, kind)
}

func TestCheckDocument(t *testing.T) {
	parser := ubllib.NewParser()

	doc, err := parser.Parse(context.Background(), bytes.NewReader([]byte(invoiceXML)))
	require.NoError(t, err)

	errors, warnings := ubllib.CheckDocument(doc)
	assert.Empty(t, errors)
	assert.Empty(t, warnings)
}

// Test re-exported types
func TestReExportedTypes(t *testing.T) {
	var header ubllib.InvoiceHeaderRecord
	header.SupplierInvoiceID = "3001-1-1"
	assert.Equal(t, "3001-1-1", header.SupplierInvoiceID)

	var party ubllib.PartyRecord
	party.CompanyID = "HR65723536010"
	assert.Equal(t, "HR65723536010", party.CompanyID)

	var line ubllib.InvoiceLineRecord
	line.ItemName = "Usluga"
	assert.Equal(t, "Usluga", line.ItemName)

	assert.Equal(t, ubllib.DocKind("Invoice"), ubllib.KindInvoice)
	assert.Equal(t, ubllib.DocKind("CreditNote"), ubllib.KindCreditNote)
}
