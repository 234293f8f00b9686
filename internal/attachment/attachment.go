// Package attachment recovers embedded PDF documents from parsed
// envelopes. Clearinghouses deliver the PDF as a base64 payload inside
// the XML; the parser re-encodes that payload once more, so recovering
// the raw file means unwrapping two base64 layers.
package attachment

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/rezonia/eracun-processor/internal/model"
)

const pdfMagic = "%PDF"

// Decode unwraps a parsed attachment down to the raw PDF bytes.
// Interior whitespace in the inner payload is tolerated, as some
// issuers line-wrap the embedded binary object.
func Decode(att model.PdfAttachment) ([]byte, error) {
	if len(att) == 0 {
		return nil, fmt.Errorf("no attachment data")
	}

	inner, err := base64.StdEncoding.DecodeString(string(att))
	if err != nil {
		return nil, fmt.Errorf("failed to decode attachment wrapper: %w", err)
	}

	payload := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, string(inner))

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode embedded document: %w", err)
	}
	return raw, nil
}

// ValidatePDF checks that data is a structurally sound PDF file.
func ValidatePDF(data []byte) error {
	if len(data) < len(pdfMagic) || string(data[:len(pdfMagic)]) != pdfMagic {
		return fmt.Errorf("data is not a PDF file")
	}
	if err := api.Validate(bytes.NewReader(data), nil); err != nil {
		return fmt.Errorf("PDF validation failed: %w", err)
	}
	return nil
}

// DecodeAndValidate is the common fetch-side path: unwrap the
// attachment and confirm the result is a usable PDF.
func DecodeAndValidate(att model.PdfAttachment) ([]byte, error) {
	raw, err := Decode(att)
	if err != nil {
		return nil, err
	}
	if err := ValidatePDF(raw); err != nil {
		return nil, err
	}
	return raw, nil
}
