package ubl_test

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/eracun-processor/internal/model"
	"github.com/rezonia/eracun-processor/internal/parser/ubl"
)

func TestStripTag(t *testing.T) {
	tests := []struct {
		name     string
		tag      string
		expected string
	}{
		{
			name:     "common basic components",
			tag:      "{urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2}ID",
			expected: "ID",
		},
		{
			name:     "common aggregate components",
			tag:      "{urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2}Party",
			expected: "Party",
		},
		{
			name:     "common extension components",
			tag:      "{urn:oasis:names:specification:ubl:schema:xsd:CommonExtensionComponents-2}UBLExtensions",
			expected: "UBLExtensions",
		},
		{
			name:     "invoice namespace",
			tag:      "{urn:oasis:names:specification:ubl:schema:xsd:Invoice-2}Invoice",
			expected: "Invoice",
		},
		{
			name:     "cbc prefix",
			tag:      "cbc:IssueDate",
			expected: "IssueDate",
		},
		{
			name:     "cac prefix",
			tag:      "cac:TaxTotal",
			expected: "TaxTotal",
		},
		{
			name:     "bare tag untouched",
			tag:      "PaymentMeans",
			expected: "PaymentMeans",
		},
		{
			name:     "unknown prefix passes through",
			tag:      "ds:Signature",
			expected: "ds:Signature",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ubl.StripTag(tt.tag))
		})
	}
}

func TestStripTag_Idempotent(t *testing.T) {
	tags := []string{
		"{urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2}DueDate",
		"cac:AccountingSupplierParty",
		"Note",
		"ds:Signature",
	}
	for _, tag := range tags {
		once := ubl.StripTag(tag)
		assert.Equal(t, once, ubl.StripTag(once), "stripping %q twice must equal stripping once", tag)
	}
}

func TestParseInvoice(t *testing.T) {
	content := readTestFile(t, "invoice.xml")

	parser := ubl.NewParser()
	doc, err := parser.ParseInvoice(context.Background(), strings.NewReader(string(content)))
	require.NoError(t, err)

	assert.Equal(t, model.KindInvoice, doc.Kind)

	// Header
	assert.Equal(t, "3001-1-1", doc.Header.SupplierInvoiceID)
	assert.Equal(t, "HRK", doc.Header.Currency)
	assert.Equal(t, "2020-02-13", doc.Header.DueDate)
	assert.Equal(t, "749.11", doc.Header.TaxAmount)
	assert.Equal(t, "25", doc.Header.TaxPercent)
	assert.Equal(t, "2996.44", doc.Header.TaxableAmount)
	assert.Equal(t, "3745.55", doc.Header.PayableAmount)
	assert.Equal(t, "HR1210010051863000160", doc.Header.IBAN)
	assert.Equal(t, "Platiti na ziro racun", doc.Header.InstructionNote)
	assert.Equal(t, "30", doc.Header.PaymentMeansCode)
	assert.Equal(t, "HR02 3001-1-1", doc.Header.PaymentID)
	assert.Equal(t, "HR02", doc.Header.PaymentModel)
	assert.Equal(t, "3001-1-1", doc.Header.PaymentReference)
	assert.Empty(t, doc.Header.DocumentReference, "invoices carry no document reference")

	// Supplier
	assert.Equal(t, "65723536010", doc.Supplier.EndpointID)
	assert.Equal(t, "HR65723536010", doc.Supplier.Identifier)
	assert.Equal(t, "Klising d.o.o.", doc.Supplier.Name)
	assert.Equal(t, "Ilica 1", doc.Supplier.Street)
	assert.Equal(t, "Zagreb", doc.Supplier.City)
	assert.Equal(t, "10000", doc.Supplier.PostalCode)
	assert.Equal(t, "HR", doc.Supplier.CountryCode)
	assert.Equal(t, "HR65723536010", doc.Supplier.CompanyID)
	assert.Equal(t, "VAT", doc.Supplier.TaxSchemeCode)
	assert.Equal(t, "Klising d.o.o. za usluge", doc.Supplier.RegistrationName)
	assert.Equal(t, "+385 1 555 0100", doc.Supplier.Telephone)
	assert.Equal(t, "racuni@klising.hr", doc.Supplier.Email)

	// Customer
	assert.Equal(t, "Osnovna skola Trnsko", doc.Customer.Name)
	assert.Equal(t, "99999999927", doc.Customer.EndpointID)

	// Lines
	require.Len(t, doc.Lines, 2)
	assert.Equal(t, "1", doc.Lines[0].LineID)
	assert.Equal(t, "Odrzavanje sustava", doc.Lines[0].ItemName)
	assert.Equal(t, "Odrzavanje sustava, prosinac 2019.", doc.Lines[0].ItemDescription)
	assert.Equal(t, "5", doc.Lines[0].InvoicedQuantity)
	assert.Equal(t, "KOM", doc.Lines[0].UnitCode)
	assert.Equal(t, "1996.44", doc.Lines[0].LineExtensionAmount)
	assert.Equal(t, "HRK", doc.Lines[0].CurrencyID)
	assert.Equal(t, "399.29", doc.Lines[0].UnitPrice)
	assert.Equal(t, "S", doc.Lines[0].TaxCategoryID)
	assert.Equal(t, "25", doc.Lines[0].TaxPercent)
	assert.Equal(t, "VAT", doc.Lines[0].TaxSchemeCode)

	assert.Equal(t, "2", doc.Lines[1].LineID)
	assert.Equal(t, "Licenca", doc.Lines[1].ItemName)
	assert.Equal(t, "H87", doc.Lines[1].UnitCode)

	// Note
	assert.Equal(t, "Racun za usluge", doc.Note)

	// Attachment: whitespace-stripped payload, re-encoded as base64
	expected := base64.StdEncoding.EncodeToString([]byte("JVBERi0xLjQKJcOkw7zDtsOf"))
	assert.Equal(t, model.PdfAttachment(expected), doc.Attachment)
}

func TestParseInvoice_Determinism(t *testing.T) {
	content := readTestFile(t, "invoice.xml")
	parser := ubl.NewParser()

	first, err := parser.ParseBytes(context.Background(), content)
	require.NoError(t, err)
	second, err := parser.ParseBytes(context.Background(), content)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParseCreditNote(t *testing.T) {
	content := readTestFile(t, "credit_note.xml")

	parser := ubl.NewParser()
	doc, err := parser.ParseCreditNote(context.Background(), strings.NewReader(string(content)))
	require.NoError(t, err)

	assert.Equal(t, model.KindCreditNote, doc.Kind)

	// Due date is overwritten with the issue date, ignoring the DueDate
	// element present in the source.
	assert.Equal(t, "2019-10-21", doc.Header.DueDate)
	assert.Equal(t, "6489/JP2/8", doc.Header.DocumentReference)
	assert.Equal(t, "6489/JP2/8", doc.Header.SupplierInvoiceID)
	assert.Equal(t, "HR02", doc.Header.PaymentModel)
	assert.Equal(t, "6489", doc.Header.PaymentReference)
	assert.Equal(t, "-250.00", doc.Header.PayableAmount)

	// CreditedQuantity lands in the invoiced-quantity field
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, "1", doc.Lines[0].InvoicedQuantity)
	assert.Equal(t, "KOM", doc.Lines[0].UnitCode)
	assert.Equal(t, "Storno usluge", doc.Lines[0].ItemName)
	assert.Equal(t, "E", doc.Lines[0].TaxCategoryID)
	assert.Equal(t, "0", doc.Lines[0].TaxPercent)
	assert.Equal(t, "Oslobodjeno PDV-a po cl. 39", doc.Lines[0].TaxExemptionReason)

	// Header tax fields come from the document TaxTotal
	assert.Equal(t, "0.00", doc.Header.TaxAmount)
	assert.Equal(t, "0", doc.Header.TaxPercent)
	assert.Equal(t, "Oslobodjeno PDV-a po cl. 39", doc.Header.TaxExemptionReason)
	assert.Equal(t, "-250.00", doc.Header.TaxableAmount)
}

func TestParse_AutoDetect(t *testing.T) {
	parser := ubl.NewParser()

	invoice, err := parser.ParseBytes(context.Background(), readTestFile(t, "invoice.xml"))
	require.NoError(t, err)
	assert.Equal(t, model.KindInvoice, invoice.Kind)

	note, err := parser.ParseBytes(context.Background(), readTestFile(t, "credit_note.xml"))
	require.NoError(t, err)
	assert.Equal(t, model.KindCreditNote, note.Kind)

	_, err = parser.ParseBytes(context.Background(), []byte("<Order><ID>1</ID></Order>"))
	require.Error(t, err)
	var parseErr *model.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestDetectKind(t *testing.T) {
	kind, err := ubl.DetectKind(readTestFile(t, "invoice.xml"))
	require.NoError(t, err)
	assert.Equal(t, model.KindInvoice, kind)

	kind, err = ubl.DetectKind(readTestFile(t, "credit_note.xml"))
	require.NoError(t, err)
	assert.Equal(t, model.KindCreditNote, kind)

	kind, err = ubl.DetectKind([]byte("<Order/>"))
	require.NoError(t, err)
	assert.Equal(t, model.KindUnknown, kind)

	_, err = ubl.DetectKind([]byte("not xml"))
	require.Error(t, err)
}

func TestNoteConcatenation(t *testing.T) {
	xml := `<Invoice>
	<ID>1</ID>
	<Note>A</Note>
	<Note></Note>
	<Note>B</Note>
</Invoice>`

	doc := parseInvoiceString(t, xml)
	assert.Equal(t, "A\nB", doc.Note, "notes join with a single newline, empty notes are skipped")
}

func TestDuplicateLeaf_LastWins(t *testing.T) {
	xml := `<Invoice>
	<ID>1</ID>
	<LegalMonetaryTotal>
		<PayableAmount currencyID="HRK">100.00</PayableAmount>
		<PayableAmount currencyID="HRK">200.00</PayableAmount>
	</LegalMonetaryTotal>
</Invoice>`

	doc := parseInvoiceString(t, xml)
	assert.Equal(t, "200.00", doc.Header.PayableAmount)
}

func TestDuplicateSupplier_LastWins(t *testing.T) {
	xml := `<Invoice>
	<ID>1</ID>
	<AccountingSupplierParty>
		<Party>
			<PartyName><Name>First d.o.o.</Name></PartyName>
			<Contact><Telephone>111</Telephone></Contact>
		</Party>
	</AccountingSupplierParty>
	<AccountingSupplierParty>
		<Party>
			<PartyName><Name>Second d.o.o.</Name></PartyName>
		</Party>
	</AccountingSupplierParty>
</Invoice>`

	doc := parseInvoiceString(t, xml)
	assert.Equal(t, "Second d.o.o.", doc.Supplier.Name)
	assert.Empty(t, doc.Supplier.Telephone, "earlier block must not leak into the surviving one")
}

func TestPaymentDerivation(t *testing.T) {
	tests := []struct {
		name      string
		paymentID string
		wantModel string
		wantRef   string
	}{
		{"model and reference", "HR02 3", "HR02", "3"},
		{"longer reference keeps trailing content", "HR02 3001-1-1 x", "HR02", "3001-1-1 x"},
		{"short id becomes model only", "HR", "HR", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xml := `<Invoice><ID>1</ID><PaymentMeans><PaymentID>` + tt.paymentID + `</PaymentID></PaymentMeans></Invoice>`
			doc := parseInvoiceString(t, xml)
			assert.Equal(t, tt.wantModel, doc.Header.PaymentModel)
			assert.Equal(t, tt.wantRef, doc.Header.PaymentReference)
		})
	}
}

func TestPaymentDerivation_AbsentID(t *testing.T) {
	xml := `<Invoice><ID>1</ID><PaymentMeans><PaymentMeansCode>30</PaymentMeansCode></PaymentMeans></Invoice>`
	doc := parseInvoiceString(t, xml)
	assert.Empty(t, doc.Header.PaymentModel)
	assert.Empty(t, doc.Header.PaymentReference)
}

func TestItemTaxShadowsLineTax(t *testing.T) {
	xml := `<Invoice>
	<ID>1</ID>
	<InvoiceLine>
		<ID>1</ID>
		<InvoicedQuantity unitCode="KOM">1</InvoicedQuantity>
		<LineExtensionAmount currencyID="HRK">100.00</LineExtensionAmount>
		<TaxTotal>
			<TaxAmount currencyID="HRK">25.00</TaxAmount>
			<TaxSubtotal>
				<TaxCategory>
					<ID>S</ID>
					<Percent>25</Percent>
				</TaxCategory>
			</TaxSubtotal>
		</TaxTotal>
		<Item>
			<Name>Roba</Name>
			<ClassifiedTaxCategory>
				<ID>E</ID>
				<Percent>0</Percent>
			</ClassifiedTaxCategory>
		</Item>
	</InvoiceLine>
</Invoice>`

	doc := parseInvoiceString(t, xml)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, "E", doc.Lines[0].TaxCategoryID)
	assert.Equal(t, "0", doc.Lines[0].TaxPercent)
}

func TestLineTaxFallback(t *testing.T) {
	xml := `<Invoice>
	<ID>1</ID>
	<InvoiceLine>
		<ID>1</ID>
		<InvoicedQuantity unitCode="KOM">1</InvoicedQuantity>
		<LineExtensionAmount currencyID="HRK">100.00</LineExtensionAmount>
		<TaxTotal>
			<TaxAmount currencyID="HRK">25.00</TaxAmount>
			<TaxSubtotal>
				<TaxCategory>
					<ID>S</ID>
					<Percent>25</Percent>
				</TaxCategory>
			</TaxSubtotal>
		</TaxTotal>
		<Item>
			<Name>Roba</Name>
		</Item>
	</InvoiceLine>
</Invoice>`

	doc := parseInvoiceString(t, xml)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, "S", doc.Lines[0].TaxCategoryID)
	assert.Equal(t, "25", doc.Lines[0].TaxPercent)
}

func TestAttachment_WhitespaceStripped(t *testing.T) {
	xml := `<Invoice>
	<ID>1</ID>
	<AdditionalDocumentReference>
		<Attachment>
			<EmbeddedDocumentBinaryObject>AB==
</EmbeddedDocumentBinaryObject>
		</Attachment>
	</AdditionalDocumentReference>
</Invoice>`

	doc := parseInvoiceString(t, xml)
	expected := base64.StdEncoding.EncodeToString([]byte("AB=="))
	assert.Equal(t, model.PdfAttachment(expected), doc.Attachment)
}

func TestAttachment_Absent(t *testing.T) {
	xml := `<Invoice>
	<ID>1</ID>
	<AdditionalDocumentReference>
		<ID>some-reference</ID>
	</AdditionalDocumentReference>
</Invoice>`

	doc := parseInvoiceString(t, xml)
	assert.Nil(t, doc.Attachment)
}

func TestMissingUnitCode(t *testing.T) {
	xml := `<Invoice>
	<ID>1</ID>
	<InvoiceLine>
		<ID>1</ID>
		<InvoicedQuantity>5</InvoicedQuantity>
		<LineExtensionAmount currencyID="HRK">100.00</LineExtensionAmount>
	</InvoiceLine>
</Invoice>`

	parser := ubl.NewParser()
	_, err := parser.ParseBytes(context.Background(), []byte(xml))
	require.Error(t, err)

	var parseErr *model.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "InvoicedQuantity", parseErr.Element)
	assert.Contains(t, parseErr.Error(), "unitCode")
}

func TestMissingCurrencyID(t *testing.T) {
	xml := `<Invoice>
	<ID>1</ID>
	<InvoiceLine>
		<ID>1</ID>
		<InvoicedQuantity unitCode="KOM">5</InvoicedQuantity>
		<LineExtensionAmount>100.00</LineExtensionAmount>
	</InvoiceLine>
</Invoice>`

	parser := ubl.NewParser()
	_, err := parser.ParseBytes(context.Background(), []byte(xml))
	require.Error(t, err)

	var parseErr *model.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "LineExtensionAmount", parseErr.Element)
}

func TestWrongVariant_SilentEmptyLines(t *testing.T) {
	// A credit-note walker over an Invoice envelope does not recognize
	// InvoiceLine, so the line sequence stays empty and no error is raised.
	content := readTestFile(t, "invoice.xml")

	parser := ubl.NewParser()
	doc, err := parser.ParseCreditNote(context.Background(), strings.NewReader(string(content)))
	require.NoError(t, err)
	assert.Empty(t, doc.Lines)
}

func TestInvoicePeriod_DoesNotAffectOutput(t *testing.T) {
	withPeriod := parseInvoiceString(t, `<Invoice><ID>1</ID><InvoicePeriod><StartDate>2019-12-01</StartDate></InvoicePeriod></Invoice>`)
	withoutPeriod := parseInvoiceString(t, `<Invoice><ID>1</ID></Invoice>`)
	assert.Equal(t, withoutPeriod, withPeriod)
}

func TestInvalidXML(t *testing.T) {
	parser := ubl.NewParser()

	_, err := parser.ParseInvoice(context.Background(), strings.NewReader("<Invoice><Unclosed>"))
	require.Error(t, err)

	var parseErr *model.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "xml", parseErr.Element)
}

// Helper functions

func readTestFile(t *testing.T, filename string) []byte {
	t.Helper()
	content, err := os.ReadFile(filepath.Join("testdata", filename))
	require.NoError(t, err, "failed to read test file: %s", filename)
	return content
}

func parseInvoiceString(t *testing.T, xml string) *model.ParsedDocument {
	t.Helper()
	parser := ubl.NewParser()
	doc, err := parser.ParseInvoice(context.Background(), strings.NewReader(xml))
	require.NoError(t, err)
	return doc
}
