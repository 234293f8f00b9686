package ubl

import (
	"github.com/beevik/etree"

	"github.com/rezonia/eracun-processor/internal/model"
)

// variant describes how the shared walker handles one envelope kind.
// Invoice and CreditNote envelopes share the traversal skeleton and
// diverge only in the line element tag, the quantity source tag, and a
// header override applied during projection.
type variant struct {
	kind           model.DocKind
	lineTag        string
	quantityTag    string
	lineTaxTotal   bool
	headerOverride func(raw *rawDocument, h *model.InvoiceHeaderRecord)
}

var invoiceVariant = variant{
	kind:         model.KindInvoice,
	lineTag:      "InvoiceLine",
	quantityTag:  "InvoicedQuantity",
	lineTaxTotal: true,
}

var creditNoteVariant = variant{
	kind:        model.KindCreditNote,
	lineTag:     "CreditNoteLine",
	quantityTag: "CreditedQuantity",
	headerOverride: func(raw *rawDocument, h *model.InvoiceHeaderRecord) {
		// Credit notes carry no independent due date in this schema.
		h.DueDate = raw.scalars["IssueDate"]
		h.DocumentReference = raw.docRef
	},
}

// rawDocument is the walker's accumulator. It is owned by a single
// traversal, handed to the projector, then discarded.
type rawDocument struct {
	note       string
	lines      []model.InvoiceLineRecord
	supplier   partySection
	customer   partySection
	payment    paymentSection
	tax        taxSection
	monetary   Section
	period     Section
	attachment model.PdfAttachment
	docRef     string
	scalars    map[string]string
}

// walk makes a single pass over the envelope's direct children, routing
// each to its section handler. Supplier and customer blocks overwrite any
// earlier occurrence (last wins, a documented quirk of some government
// sources). Unrecognized children are stored as scalar leaves.
func walk(root *etree.Element, v variant) (*rawDocument, error) {
	raw := &rawDocument{
		lines:   []model.InvoiceLineRecord{},
		scalars: map[string]string{},
	}
	for _, el := range root.ChildElements() {
		switch tag := StripTag(el.Tag); tag {
		case "UBLExtensions":
			// signature payload, not needed downstream
		case v.lineTag:
			line, err := parseLine(el, v)
			if err != nil {
				return nil, err
			}
			raw.lines = append(raw.lines, line)
		case "LegalMonetaryTotal":
			// per-line currency codes are already captured on each line,
			// so the plain flatten is enough here
			raw.monetary = flatten(el)
		case "TaxTotal":
			raw.tax = parseTaxTotal(el)
		case "PaymentMeans":
			raw.payment = parsePaymentMeans(el)
		case "AccountingSupplierParty":
			raw.supplier = parseParty(el)
		case "AccountingCustomerParty":
			raw.customer = parseParty(el)
		case "InvoicePeriod":
			raw.period = flatten(el)
		case "AdditionalDocumentReference":
			raw.attachment = parseAttachment(el)
		case "BillingReference":
			if v.kind == model.KindCreditNote {
				if ref := findChild(el, "InvoiceDocumentReference"); ref != nil {
					raw.docRef = childText(ref, "ID")
				}
			} else {
				raw.scalars[tag] = el.Text()
			}
		case "Note":
			if text := el.Text(); text != "" {
				if raw.note == "" {
					raw.note = text
				} else {
					raw.note += "\n" + text
				}
			}
		default:
			raw.scalars[tag] = el.Text()
		}
	}
	return raw, nil
}
