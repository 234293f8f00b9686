package ubl

import (
	"strings"

	"github.com/rezonia/eracun-processor/internal/model"
)

// project builds the final flat record from the walker's accumulator.
func project(raw *rawDocument, v variant) *model.ParsedDocument {
	header := model.InvoiceHeaderRecord{
		Currency:           raw.scalars["TaxCurrencyCode"],
		DueDate:            raw.scalars["DueDate"],
		CustomizationID:    raw.scalars["CustomizationID"],
		SupplierInvoiceID:  raw.scalars["ID"],
		TaxAmount:          raw.tax.TaxAmount,
		TaxPercent:         raw.tax.Percent,
		TaxExemptionReason: raw.tax.TaxExemptionReason,
		TaxableAmount:      raw.tax.TaxableAmount,
		IBAN:               raw.payment.AccountID,
		InstructionNote:    raw.payment.InstructionNote,
		PaymentMeansCode:   raw.payment.PaymentMeansCode,
		PaymentID:          raw.payment.PaymentID,
		PayableAmount:      raw.monetary.text("PayableAmount"),
	}
	header.PaymentModel, header.PaymentReference = splitPaymentID(raw.payment.PaymentID)

	if v.headerOverride != nil {
		v.headerOverride(raw, &header)
	}

	return &model.ParsedDocument{
		Kind:       v.kind,
		Supplier:   projectParty(raw.supplier),
		Customer:   projectParty(raw.customer),
		Header:     header,
		Lines:      raw.lines,
		Note:       raw.note,
		Attachment: raw.attachment,
	}
}

func projectParty(p partySection) model.PartyRecord {
	return model.PartyRecord{
		EndpointID:       p.EndpointID,
		Identifier:       p.Identifier,
		Name:             p.Name,
		Street:           p.Street,
		City:             p.City,
		PostalCode:       p.PostalZone,
		CountryCode:      p.CountryCode,
		CompanyID:        p.CompanyID,
		TaxSchemeCode:    p.TaxSchemeCode,
		RegistrationName: p.RegistrationName,
		Telephone:        p.Telephone,
		Email:            p.Email,
	}
}

// splitPaymentID derives the payment model and reference from a PaymentID
// such as "HR02 3": the model is the first 4 characters, the reference is
// the remainder with leading whitespace removed. An absent id leaves both
// empty.
func splitPaymentID(id string) (paymentModel, reference string) {
	if id == "" {
		return "", ""
	}
	if len(id) <= 4 {
		return id, ""
	}
	return id[:4], strings.TrimLeft(id[4:], " \t\r\n")
}
