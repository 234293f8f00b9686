package model

import (
	idec "github.com/rezonia/eracun-processor/internal/decimal"
)

// CheckDocument runs consistency checks over a parsed document and returns
// errors (fields an ERP import cannot do without) and warnings (suspicious
// but importable data). This is not UBL schema validation.
func CheckDocument(doc *ParsedDocument) (errors, warnings []string) {
	if doc == nil {
		return []string{"no document data"}, nil
	}

	if doc.Header.SupplierInvoiceID == "" {
		errors = append(errors, "missing supplier invoice id")
	}
	if doc.Supplier.CompanyID == "" && doc.Supplier.EndpointID == "" {
		errors = append(errors, "missing supplier company id")
	}
	if doc.Header.DueDate == "" {
		warnings = append(warnings, "missing due date")
	}
	if doc.Header.PayableAmount == "" {
		warnings = append(warnings, "missing payable amount")
	}
	if len(doc.Lines) == 0 {
		warnings = append(warnings, "document has no lines")
	}

	warnings = append(warnings, checkAmounts(doc)...)
	return errors, warnings
}

// checkAmounts cross-checks the document totals. Checks are skipped
// whenever an involved amount fails to parse; string fields stay
// exactly as the source wrote them.
func checkAmounts(doc *ParsedDocument) []string {
	var warnings []string

	// Payable = sum of line extension amounts + document tax amount.
	payable, err := idec.FromString(doc.Header.PayableAmount)
	if err == nil {
		amounts := make([]string, 0, len(doc.Lines))
		for _, line := range doc.Lines {
			amounts = append(amounts, line.LineExtensionAmount)
		}
		sum, ok := idec.SumStrings(amounts)
		if ok && doc.Header.TaxAmount != "" {
			tax, terr := idec.FromString(doc.Header.TaxAmount)
			if terr != nil {
				ok = false
			} else {
				sum = sum.Add(tax)
			}
		}
		if ok && !sum.Equal(payable) {
			warnings = append(warnings, "amount calculation mismatch")
		}
	}

	// Tax amount should follow from the taxable amount and rate.
	if doc.Header.TaxableAmount != "" && doc.Header.TaxPercent != "" && doc.Header.TaxAmount != "" {
		base, berr := idec.FromString(doc.Header.TaxableAmount)
		percent, perr := idec.FromString(doc.Header.TaxPercent)
		tax, terr := idec.FromString(doc.Header.TaxAmount)
		if berr == nil && perr == nil && terr == nil {
			if !idec.CalculateVAT(base, percent).Equal(tax.Round(2)) {
				warnings = append(warnings, "tax calculation mismatch")
			}
		}
	}

	return warnings
}
