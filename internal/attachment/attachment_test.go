package attachment_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/eracun-processor/internal/attachment"
	"github.com/rezonia/eracun-processor/internal/model"
)

// wrap builds the double-encoded form produced by the parser: the raw
// bytes base64-encoded once by the issuer, then once more on extraction.
func wrap(raw []byte) model.PdfAttachment {
	inner := base64.StdEncoding.EncodeToString(raw)
	return model.PdfAttachment(base64.StdEncoding.EncodeToString([]byte(inner)))
}

func TestDecode(t *testing.T) {
	raw := []byte("%PDF-1.4 test content")

	decoded, err := attachment.Decode(wrap(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestDecode_LineWrappedPayload(t *testing.T) {
	raw := []byte("%PDF-1.4 test content")
	inner := base64.StdEncoding.EncodeToString(raw)
	wrapped := inner[:8] + "\r\n" + inner[8:16] + "\n" + inner[16:]
	att := model.PdfAttachment(base64.StdEncoding.EncodeToString([]byte(wrapped)))

	decoded, err := attachment.Decode(att)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestDecode_Empty(t *testing.T) {
	_, err := attachment.Decode(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no attachment data")
}

func TestDecode_InvalidWrapper(t *testing.T) {
	_, err := attachment.Decode(model.PdfAttachment("!!! not base64 !!!"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wrapper")
}

func TestDecode_InvalidInnerPayload(t *testing.T) {
	att := model.PdfAttachment(base64.StdEncoding.EncodeToString([]byte("!!! not base64 !!!")))
	_, err := attachment.Decode(att)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedded document")
}

func TestValidatePDF_NotAPDF(t *testing.T) {
	err := attachment.ValidatePDF([]byte("plain text"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a PDF")
}

func TestValidatePDF_TooShort(t *testing.T) {
	err := attachment.ValidatePDF([]byte("%P"))
	require.Error(t, err)
}

func TestDecodeAndValidate_RejectsNonPDFPayload(t *testing.T) {
	_, err := attachment.DecodeAndValidate(wrap([]byte("hello world")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a PDF")
}
