// Package eracun is a client for the Moj-eRacun document exchange
// service. Every call authenticates with the same credential block in
// the request body; there is no token exchange.
package eracun

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultBaseURL is the production service endpoint. The demo
	// environment lives at http://demo.moj-eracun.hr.
	DefaultBaseURL = "https://www.moj-eracun.hr"

	// DefaultAPIVersion is the path prefix of the current REST API.
	DefaultAPIVersion = "/apis/v2"
)

// Endpoint paths relative to the API version prefix. notifyImport
// carries the electronic id in the URL, everything else in the body.
const (
	epQueryInbox            = "/queryInbox"
	epQueryOutbox           = "/queryOutbox"
	epReceive               = "/receive"
	epNotifyImport          = "/notifyimport/%s"
	epMarkPaid              = "/markPaid"
	epDocumentAction        = "/documentAction"
	epSend                  = "/send"
	epUpdateDocumentStatus  = "/updateDocumentStatus"
	epQueryProcessingInbox  = "/queryProcessingInbox"
	epQueryProcessingOutbox = "/queryProcessingOutbox"
	epPing                  = "/ping"
)

// RemoteError is a structured rejection from the service. The body is
// a map of field name to value plus messages, e.g. a receive call for
// an unknown id returns {"ElectronicId": {"Value": "...", "Messages":
// [...]}} with HTTP 200.
type RemoteError struct {
	Fields map[string]FieldError
}

// FieldError is one rejected request field.
type FieldError struct {
	Value    string   `json:"Value"`
	Messages []string `json:"Messages"`
}

func (e *RemoteError) Error() string {
	var parts []string
	for field, fe := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(fe.Messages, "; ")))
	}
	return "service rejected request: " + strings.Join(parts, ", ")
}

// Config carries the connection settings for a Client.
type Config struct {
	BaseURL     string
	APIVersion  string
	Credentials Credentials
	Timeout     time.Duration
}

// Client talks to the document exchange service. Safe for concurrent
// use.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a service client. Zero-value config fields fall
// back to the production defaults.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) url(endpoint string) string {
	return c.cfg.BaseURL + c.cfg.APIVersion + endpoint
}

// request builds the common body: credentials plus call-specific
// fields.
func (c *Client) request(extra map[string]any) map[string]any {
	req := map[string]any{
		"Username":   c.cfg.Credentials.Username,
		"Password":   c.cfg.Credentials.Password,
		"CompanyID":  c.cfg.Credentials.CompanyID,
		"SoftwareId": c.cfg.Credentials.SoftwareID,
	}
	for k, v := range extra {
		req[k] = v
	}
	return req
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Charset", "utf-8")

	c.logger.Debug("posting request", zap.String("url", url))
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// postJSON posts the body and decodes the JSON response into out.
func (c *Client) postJSON(ctx context.Context, url string, body map[string]any, out any) error {
	resp, err := c.post(ctx, url, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Ping checks service availability.
func (c *Client) Ping(ctx context.Context) (*PingStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(epPing), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ping failed: %w", err)
	}
	defer resp.Body.Close()

	var status PingStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode ping response: %w", err)
	}
	return &status, nil
}

// QueryInbox lists documents addressed to the configured company. When
// q.ElectronicID is set all other filters are ignored.
func (c *Client) QueryInbox(ctx context.Context, q InboxQuery) ([]DocumentInfo, error) {
	extra := map[string]any{}
	if q.ElectronicID != "" {
		extra["ElectronicId"] = q.ElectronicID
	} else {
		if q.Undelivered {
			extra["Filter"] = "Undelivered"
		}
		if q.From != "" {
			extra["From"] = q.From
		}
		if q.To != "" {
			extra["To"] = q.To
		}
	}

	var docs []DocumentInfo
	if err := c.postJSON(ctx, c.url(epQueryInbox), c.request(extra), &docs); err != nil {
		return nil, err
	}
	c.logger.Debug("inbox query done", zap.Int("documents", len(docs)))
	return docs, nil
}

// QueryOutbox lists documents sent by the configured company. When
// q.ElectronicID is set all other filters are ignored.
func (c *Client) QueryOutbox(ctx context.Context, q OutboxQuery) ([]DocumentInfo, error) {
	extra := map[string]any{}
	if q.ElectronicID != "" {
		extra["ElectronicId"] = q.ElectronicID
	} else {
		if q.StatusID != "" {
			if _, ok := OutboxStatuses[q.StatusID]; !ok {
				return nil, fmt.Errorf("invalid document status: %s", q.StatusID)
			}
			extra["StatusId"] = q.StatusID
		}
		if q.From != "" {
			extra["From"] = q.From
		}
		if q.To != "" {
			extra["To"] = q.To
		}
	}

	var docs []DocumentInfo
	if err := c.postJSON(ctx, c.url(epQueryOutbox), c.request(extra), &docs); err != nil {
		return nil, err
	}
	c.logger.Debug("outbox query done", zap.Int("documents", len(docs)))
	return docs, nil
}

// Receive downloads one document by electronic id. A successful call
// answers with the raw UBL XML; failures come back as HTTP 200 with a
// JSON body, surfaced here as *RemoteError.
func (c *Client) Receive(ctx context.Context, electronicID string) ([]byte, error) {
	resp, err := c.post(ctx, c.url(epReceive), c.request(map[string]any{
		"ElectronicId": electronicID,
	}))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "text/xml") || strings.HasPrefix(contentType, "application/xml") {
		c.logger.Debug("received document", zap.String("electronic_id", electronicID), zap.Int("bytes", len(data)))
		return data, nil
	}

	remote := &RemoteError{}
	if err := json.Unmarshal(data, &remote.Fields); err != nil {
		return nil, fmt.Errorf("unexpected response (content-type %q): %s", contentType, strings.TrimSpace(string(data)))
	}
	return nil, remote
}

// NotifyImport reports that a received document was imported into the
// ERP. The electronic id travels in the URL.
func (c *Client) NotifyImport(ctx context.Context, electronicID string) error {
	url := c.url(fmt.Sprintf(epNotifyImport, electronicID))
	var status PingStatus
	if err := c.postJSON(ctx, url, c.request(nil), &status); err != nil {
		return err
	}
	if !strings.EqualFold(status.Status, "ok") {
		return fmt.Errorf("notify import rejected: %s", status.Message)
	}
	return nil
}

// MarkPaid reports a payment date for a document.
func (c *Client) MarkPaid(ctx context.Context, electronicID, paidDate string) (*PaidConfirmation, error) {
	var conf PaidConfirmation
	err := c.postJSON(ctx, c.url(epMarkPaid), c.request(map[string]any{
		"ElectronicId": electronicID,
		"PaidDate":     paidDate,
	}), &conf)
	if err != nil {
		return nil, err
	}
	return &conf, nil
}

// Resend re-dispatches a document stuck in status 30 (Sent) or 50
// (Unsuccessful).
func (c *Client) Resend(ctx context.Context, electronicID string) error {
	return c.documentAction(ctx, electronicID, "resend")
}

// Cancel withdraws a previously sent document.
func (c *Client) Cancel(ctx context.Context, electronicID string) error {
	return c.documentAction(ctx, electronicID, "cancel")
}

func (c *Client) documentAction(ctx context.Context, electronicID, action string) error {
	var out map[string]any
	err := c.postJSON(ctx, c.url(epDocumentAction), c.request(map[string]any{
		"ElectronicId": electronicID,
		"Apply":        action,
	}), &out)
	if err != nil {
		return err
	}
	c.logger.Info("document action applied", zap.String("electronic_id", electronicID), zap.String("action", action))
	return nil
}

// Send submits an outgoing UBL document.
func (c *Client) Send(ctx context.Context, xml []byte, highImportance bool) (*SendResult, error) {
	var result SendResult
	err := c.postJSON(ctx, c.url(epSend), c.request(map[string]any{
		"File":                  string(xml),
		"HighImportanceReceive": highImportance,
	}), &result)
	if err != nil {
		return nil, err
	}
	if result.ElectronicID == 0 {
		return nil, fmt.Errorf("send rejected by service")
	}
	c.logger.Info("document sent",
		zap.Int("electronic_id", result.ElectronicID),
		zap.String("status", result.StatusName))
	return &result, nil
}

// UpdateProcessingStatus reports what the receiving ERP did with an
// incoming document. Status REJECTED requires a reason.
func (c *Client) UpdateProcessingStatus(ctx context.Context, electronicID, statusID, rejectReason string) (*StatusUpdate, error) {
	if _, ok := ProcessStatuses[statusID]; !ok {
		return nil, fmt.Errorf("unsupported document process status: %s", statusID)
	}
	if statusID == "1" && rejectReason == "" {
		return nil, fmt.Errorf("status REJECTED requires a reject reason")
	}

	extra := map[string]any{
		"ElectronicId": electronicID,
		"StatusId":     statusID,
	}
	if statusID == "1" {
		extra["RejectReason"] = rejectReason
	}

	var update StatusUpdate
	if err := c.postJSON(ctx, c.url(epUpdateDocumentStatus), c.request(extra), &update); err != nil {
		return nil, err
	}
	return &update, nil
}

// QueryProcessingInbox lists incoming documents with their processing
// status fields.
func (c *Client) QueryProcessingInbox(ctx context.Context, q ProcessingQuery) ([]DocumentInfo, error) {
	return c.queryProcessing(ctx, epQueryProcessingInbox, q)
}

// QueryProcessingOutbox lists outgoing documents with their processing
// status fields.
func (c *Client) QueryProcessingOutbox(ctx context.Context, q ProcessingQuery) ([]DocumentInfo, error) {
	return c.queryProcessing(ctx, epQueryProcessingOutbox, q)
}

func (c *Client) queryProcessing(ctx context.Context, endpoint string, q ProcessingQuery) ([]DocumentInfo, error) {
	extra := map[string]any{}
	if q.ElectronicID != "" {
		extra["ElectronicId"] = q.ElectronicID
	} else {
		if q.StatusID != "" {
			if _, ok := ProcessStatuses[q.StatusID]; !ok {
				return nil, fmt.Errorf("unsupported document process status: %s", q.StatusID)
			}
			extra["StatusId"] = q.StatusID
		}
		if q.Year != "" {
			extra["InvoiceYear"] = q.Year
		}
		if q.From != "" {
			extra["From"] = q.From
		}
		if q.To != "" {
			extra["To"] = q.To
		}
	}

	var docs []DocumentInfo
	if err := c.postJSON(ctx, c.url(endpoint), c.request(extra), &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
