package server

import (
	"github.com/rezonia/eracun-processor/internal/model"
)

// ParseResponse is the response for parse endpoints
type ParseResponse struct {
	Document *model.ParsedDocument `json:"document"`
	Kind     string                `json:"kind"`
}

// ValidationResponse is the response for the validate endpoint
type ValidationResponse struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// InfoResponse is the response for the info endpoint
type InfoResponse struct {
	Kind          string `json:"kind"`
	SupplierName  string `json:"supplier_name,omitempty"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
	PayableAmount string `json:"payable_amount,omitempty"`
	Lines         int    `json:"lines"`
	HasAttachment bool   `json:"has_attachment"`
	Size          int    `json:"size"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
