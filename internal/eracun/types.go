package eracun

// Credentials authenticate every document-exchange call. The service
// has no session concept; the four fields ride along in each request
// body.
type Credentials struct {
	Username   string `json:"Username"`
	Password   string `json:"Password"`
	CompanyID  string `json:"CompanyID"`
	SoftwareID string `json:"SoftwareId"`
}

// OutboxStatuses maps transport status ids to their service names.
// Transport status tracks delivery, not what the recipient did with
// the document.
var OutboxStatuses = map[string]string{
	"10": "Created",
	"20": "Queued",
	"30": "Sent",
	"40": "Delivered",
	"45": "Downloaded",
	"50": "Unsuccessful",
	"60": "Canceled",
}

// ProcessStatuses maps processing status ids reported by the
// recipient's ERP back to the sender.
var ProcessStatuses = map[string]string{
	"0":  "APPROVED",
	"1":  "REJECTED",
	"2":  "PAYMENT_FULFILLED",
	"3":  "PAYMENT_PARTIALLY_FULFILLED",
	"4":  "RECEIVING_CONFIRMED",
	"99": "RECEIVED",
}

// DocumentInfo is one row of an inbox or outbox listing. Timestamps
// stay strings: the service mixes timezone-suffixed and bare ISO
// formats between endpoints.
type DocumentInfo struct {
	ElectronicID            int    `json:"ElectronicId"`
	DocumentNr              string `json:"DocumentNr"`
	DocumentTypeID          int    `json:"DocumentTypeId"`
	DocumentTypeName        string `json:"DocumentTypeName"`
	StatusID                int    `json:"StatusId"`
	StatusName              string `json:"StatusName"`
	SenderBusinessNumber    string `json:"SenderBusinessNumber,omitempty"`
	SenderBusinessUnit      string `json:"SenderBusinessUnit,omitempty"`
	SenderBusinessName      string `json:"SenderBusinessName,omitempty"`
	RecipientBusinessNumber string `json:"RecipientBusinessNumber,omitempty"`
	RecipientBusinessUnit   string `json:"RecipientBusinessUnit,omitempty"`
	RecipientBusinessName   string `json:"RecipientBusinessName,omitempty"`
	Created                 string `json:"Created,omitempty"`
	Sent                    string `json:"Sent,omitempty"`
	Modified                string `json:"Modified,omitempty"`
	Delivered               string `json:"Delivered,omitempty"`

	// Processing-query endpoints return these on top of the listing
	// fields; plain inbox/outbox queries leave them zero.
	IssueDate                 string `json:"IssueDate,omitempty"`
	DocumentProcessStatusID   *int   `json:"DocumentProcessStatusId,omitempty"`
	DocumentProcessStatusName string `json:"DocumentProcessStatusName,omitempty"`
	RejectReason              string `json:"RejectReason,omitempty"`
}

// InboxQuery filters an incoming-document listing. ElectronicID wins
// over every other filter when set.
type InboxQuery struct {
	ElectronicID string
	Undelivered  bool
	From         string
	To           string
}

// OutboxQuery filters an outgoing-document listing. ElectronicID wins
// over every other filter when set.
type OutboxQuery struct {
	ElectronicID string
	StatusID     string
	From         string
	To           string
}

// ProcessingQuery filters the processing-status listings.
type ProcessingQuery struct {
	ElectronicID string
	StatusID     string
	Year         string
	From         string
	To           string
}

// SendResult is the service's acknowledgment of an accepted outgoing
// document.
type SendResult struct {
	ElectronicID            int    `json:"ElectronicId"`
	DocumentNr              string `json:"DocumentNr"`
	DocumentTypeID          int    `json:"DocumentTypeId"`
	DocumentTypeName        string `json:"DocumentTypeName"`
	StatusID                int    `json:"StatusId"`
	StatusName              string `json:"StatusName"`
	RecipientBusinessNumber string `json:"RecipientBusinessNumber"`
	RecipientBusinessName   string `json:"RecipientBusinessName"`
	Created                 string `json:"Created"`
	Sent                    string `json:"Sent"`
}

// StatusUpdate is returned after a processing-status change.
type StatusUpdate struct {
	ElectronicID          int    `json:"ElectronicId"`
	DokumentProcessStatus int    `json:"DokumentProcessStatus"`
	UpdateDate            string `json:"UpdateDate"`
}

// PaidConfirmation is returned by the mark-paid endpoint.
type PaidConfirmation struct {
	ElectronicID int    `json:"ElectronicId"`
	InvoiceDate  string `json:"InvoiceDate"`
	Paid         string `json:"Paid"`
}

// PingStatus reports service availability.
type PingStatus struct {
	Status  string `json:"Status"`
	Message string `json:"Message"`
}
