package ubl

import (
	"encoding/base64"
	"strings"

	"github.com/beevik/etree"

	"github.com/rezonia/eracun-processor/internal/model"
)

// partySection holds the fields pulled out of an AccountingSupplierParty
// or AccountingCustomerParty block.
type partySection struct {
	EndpointID       string
	Identifier       string
	Name             string
	Street           string
	City             string
	PostalZone       string
	CountryCode      string
	CompanyID        string
	TaxSchemeCode    string
	RegistrationName string
	Telephone        string
	Email            string
}

// parseParty handles both supplier and customer blocks. Only the Party
// wrapper is descended into; some government sources attach more than one
// Party wrapper, in which case fields of later wrappers overwrite earlier
// ones.
func parseParty(el *etree.Element) partySection {
	var p partySection
	for _, wrapper := range el.ChildElements() {
		if StripTag(wrapper.Tag) != "Party" {
			continue
		}
		for _, sub := range wrapper.ChildElements() {
			switch StripTag(sub.Tag) {
			case "EndpointID":
				p.EndpointID = sub.Text()
			case "PartyIdentification":
				p.Identifier = childText(sub, "ID")
			case "PartyName":
				p.Name = childText(sub, "Name")
			case "PartyLegalEntity":
				p.RegistrationName = childText(sub, "RegistrationName")
			case "Contact":
				p.Telephone = childText(sub, "Telephone")
				p.Email = childText(sub, "ElectronicMail")
			case "PostalAddress":
				p.Street = childText(sub, "StreetName")
				p.City = childText(sub, "CityName")
				p.PostalZone = childText(sub, "PostalZone")
				if country := findChild(sub, "Country"); country != nil {
					p.CountryCode = childText(country, "IdentificationCode")
				}
			case "PartyTaxScheme":
				p.CompanyID = childText(sub, "CompanyID")
				if scheme := findChild(sub, "TaxScheme"); scheme != nil {
					p.TaxSchemeCode = childText(scheme, "ID")
				}
			}
		}
	}
	return p
}

// paymentSection holds the PaymentMeans block. The payee financial account
// nests one level, its institution branch one more.
type paymentSection struct {
	PaymentMeansCode string
	PaymentID        string
	InstructionNote  string
	AccountID        string
	AccountName      string
	BranchID         string
}

func parsePaymentMeans(el *etree.Element) paymentSection {
	var p paymentSection
	for _, child := range el.ChildElements() {
		switch StripTag(child.Tag) {
		case "PaymentMeansCode":
			p.PaymentMeansCode = child.Text()
		case "PaymentID":
			p.PaymentID = child.Text()
		case "InstructionNote":
			p.InstructionNote = child.Text()
		case "PayeeFinancialAccount":
			p.AccountID = childText(child, "ID")
			p.AccountName = childText(child, "Name")
			if branch := findChild(child, "FinancialInstitutionBranch"); branch != nil {
				p.BranchID = childText(branch, "ID")
			}
		}
	}
	return p
}

// taxSection holds the document-level TaxTotal block: the subtotal child
// is expanded, within it the tax category, and within that the tax scheme.
type taxSection struct {
	TaxAmount          string
	TaxableAmount      string
	SubtotalTaxAmount  string
	CategoryID         string
	Percent            string
	TaxExemptionReason string
	SchemeID           string
}

func parseTaxTotal(el *etree.Element) taxSection {
	var t taxSection
	for _, child := range el.ChildElements() {
		switch StripTag(child.Tag) {
		case "TaxAmount":
			t.TaxAmount = child.Text()
		case "TaxSubtotal":
			t.TaxableAmount = childText(child, "TaxableAmount")
			t.SubtotalTaxAmount = childText(child, "TaxAmount")
			if cat := findChild(child, "TaxCategory"); cat != nil {
				t.CategoryID = childText(cat, "ID")
				t.Percent = childText(cat, "Percent")
				t.TaxExemptionReason = childText(cat, "TaxExemptionReason")
				if scheme := findChild(cat, "TaxScheme"); scheme != nil {
					t.SchemeID = childText(scheme, "ID")
				}
			}
		}
	}
	return t
}

// lineItem holds the Item aggregate nested inside a line.
type lineItem struct {
	Name               string
	Description        string
	SellerItemID       string
	TaxCategoryID      string
	TaxPercent         string
	TaxExemptionReason string
	TaxSchemeID        string
}

func parseLineItem(el *etree.Element) lineItem {
	var item lineItem
	for _, child := range el.ChildElements() {
		switch StripTag(child.Tag) {
		case "Name":
			item.Name = child.Text()
		case "Description":
			item.Description = child.Text()
		case "SellersItemIdentification":
			item.SellerItemID = childText(child, "ID")
		case "ClassifiedTaxCategory":
			item.TaxCategoryID = childText(child, "ID")
			item.TaxPercent = childText(child, "Percent")
			item.TaxExemptionReason = childText(child, "TaxExemptionReason")
			if scheme := findChild(child, "TaxScheme"); scheme != nil {
				item.TaxSchemeID = childText(scheme, "ID")
			}
		}
	}
	return item
}

// parseLine handles one InvoiceLine or CreditNoteLine element. The variant
// supplies the quantity tag (InvoicedQuantity vs CreditedQuantity) and
// whether the line carries its own shallow TaxTotal (Invoice only; credit
// lines read tax fields from the item's classified tax category).
//
// Tax category fields prefer the item-level block; the line-level block
// fills in only fields the item leaves empty.
func parseLine(el *etree.Element, v variant) (model.InvoiceLineRecord, error) {
	var line model.InvoiceLineRecord
	var item lineItem
	var lineTaxID, lineTaxPercent, lineTaxExempt string

	for _, child := range el.ChildElements() {
		switch tag := StripTag(child.Tag); tag {
		case "ID":
			line.LineID = child.Text()
		case "Item":
			item = parseLineItem(child)
		case "Price":
			line.UnitPrice = childText(child, "PriceAmount")
		case v.quantityTag:
			line.InvoicedQuantity = child.Text()
			attr := child.SelectAttr("unitCode")
			if attr == nil {
				return line, model.NewParseError(v.kind, tag, "missing required unitCode attribute", nil)
			}
			line.UnitCode = attr.Value
		case "LineExtensionAmount":
			line.LineExtensionAmount = child.Text()
			attr := child.SelectAttr("currencyID")
			if attr == nil {
				return line, model.NewParseError(v.kind, tag, "missing required currencyID attribute", nil)
			}
			line.CurrencyID = attr.Value
		case "TaxTotal":
			if !v.lineTaxTotal {
				continue
			}
			// At line level the schema is shallower than the document
			// TaxTotal, so the category fields are unpacked directly.
			if sub := findChild(child, "TaxSubtotal"); sub != nil {
				if cat := findChild(sub, "TaxCategory"); cat != nil {
					lineTaxID = childText(cat, "ID")
					lineTaxPercent = childText(cat, "Percent")
					lineTaxExempt = childText(cat, "TaxExemptionReason")
				}
			}
		}
	}

	line.ItemName = item.Name
	line.ItemDescription = item.Description
	line.TaxCategoryID = fallback(item.TaxCategoryID, lineTaxID)
	line.TaxPercent = fallback(item.TaxPercent, lineTaxPercent)
	line.TaxExemptionReason = fallback(item.TaxExemptionReason, lineTaxExempt)
	line.TaxSchemeCode = item.TaxSchemeID
	return line, nil
}

func fallback(primary, secondary string) string {
	if primary != "" {
		return primary
	}
	return secondary
}

// parseAttachment descends AdditionalDocumentReference/Attachment/
// EmbeddedDocumentBinaryObject and re-encodes the whitespace-stripped
// payload as base64 bytes. Stripping is required because chunked payloads
// arrive with injected line breaks around the text. Returns nil when the
// block carries no embedded object.
func parseAttachment(el *etree.Element) model.PdfAttachment {
	var pdf model.PdfAttachment
	for _, child := range el.ChildElements() {
		if StripTag(child.Tag) != "Attachment" {
			continue
		}
		for _, obj := range child.ChildElements() {
			if StripTag(obj.Tag) != "EmbeddedDocumentBinaryObject" {
				continue
			}
			text := strings.TrimSpace(obj.Text())
			if text == "" {
				continue
			}
			pdf = model.PdfAttachment(base64.StdEncoding.EncodeToString([]byte(text)))
		}
	}
	return pdf
}
