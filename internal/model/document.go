package model

import "encoding/json"

// DocKind identifies the UBL envelope variant
type DocKind string

const (
	KindInvoice    DocKind = "Invoice"
	KindCreditNote DocKind = "CreditNote"
	KindUnknown    DocKind = "Unknown"
)

// PartyRecord holds the flattened supplier or customer block of an envelope.
// Every field is optional: an absent source element leaves the field empty.
type PartyRecord struct {
	EndpointID       string `json:"endpoint_id,omitempty"`
	Identifier       string `json:"identifier,omitempty"`
	Name             string `json:"name,omitempty"`
	Street           string `json:"street,omitempty"`
	City             string `json:"city,omitempty"`
	PostalCode       string `json:"postal_code,omitempty"`
	CountryCode      string `json:"country_code,omitempty"`
	CompanyID        string `json:"company_id,omitempty"`
	TaxSchemeCode    string `json:"tax_scheme_code,omitempty"`
	RegistrationName string `json:"registration_name,omitempty"`
	Telephone        string `json:"telephone,omitempty"`
	Email            string `json:"email,omitempty"`
}

// InvoiceLineRecord is one flattened invoice or credit-note line.
// Quantity and amount carry the unit/currency code taken from the source
// element's attribute, not from element text.
type InvoiceLineRecord struct {
	LineID              string `json:"line_id,omitempty"`
	ItemName            string `json:"name,omitempty"`
	ItemDescription     string `json:"description,omitempty"`
	InvoicedQuantity    string `json:"invoiced_quantity,omitempty"`
	UnitCode            string `json:"unit_code,omitempty"`
	LineExtensionAmount string `json:"line_extension_amount,omitempty"`
	CurrencyID          string `json:"currency_id,omitempty"`
	UnitPrice           string `json:"unit_price,omitempty"`
	TaxCategoryID       string `json:"tax_category_id,omitempty"`
	TaxPercent          string `json:"tax_percent,omitempty"`
	TaxExemptionReason  string `json:"tax_exemption_reason,omitempty"`
	TaxSchemeCode       string `json:"tax_scheme_code,omitempty"`
}

// InvoiceHeaderRecord holds the flattened document-level fields.
// PaymentModel and PaymentReference are derived from PaymentID, never
// parsed directly; both stay empty when PaymentID is absent.
type InvoiceHeaderRecord struct {
	DocumentReference  string `json:"document_reference,omitempty"` // credit notes only
	Currency           string `json:"currency,omitempty"`
	DueDate            string `json:"due_date,omitempty"`
	CustomizationID    string `json:"customization_id,omitempty"`
	SupplierInvoiceID  string `json:"edi_supplier_invoice_id,omitempty"`
	TaxAmount          string `json:"tax_amount,omitempty"`
	TaxPercent         string `json:"tax_percent,omitempty"`
	TaxExemptionReason string `json:"tax_exemption_reason,omitempty"`
	TaxableAmount      string `json:"taxable_amount,omitempty"`
	IBAN               string `json:"iban,omitempty"`
	InstructionNote    string `json:"instruction_note,omitempty"`
	PaymentMeansCode   string `json:"payment_means_code,omitempty"`
	PaymentID          string `json:"payment_id,omitempty"`
	PayableAmount      string `json:"payable_amount,omitempty"`
	PaymentModel       string `json:"payment_model,omitempty"`
	PaymentReference   string `json:"payment_reference,omitempty"`
}

// PdfAttachment is the base64-encoded embedded binary object recovered
// from an AdditionalDocumentReference block, nil when the document
// carries no attachment.
type PdfAttachment []byte

// MarshalJSON emits the payload as a plain string. The bytes are
// already base64 text, so the default []byte encoding would wrap them
// in a second base64 layer.
func (a PdfAttachment) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(a))
}

func (a *PdfAttachment) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*a = PdfAttachment(s)
	return nil
}

// ParsedDocument is the flat record produced from one UBL envelope.
// It is immutable after construction; ownership passes to the caller.
type ParsedDocument struct {
	Kind       DocKind             `json:"kind"`
	Supplier   PartyRecord         `json:"supplier"`
	Customer   PartyRecord         `json:"customer"`
	Header     InvoiceHeaderRecord `json:"invoice_header"`
	Lines      []InvoiceLineRecord `json:"invoice_lines"`
	Note       string              `json:"note,omitempty"`
	Attachment PdfAttachment       `json:"pdf_document,omitempty"`
}
