// Package model defines the core data structures for the paper application.
package model

import (
	"strconv"
	"strings"
	"time"
)

// DefaultCurrency is the currency assigned to records when the source does not
// specify one.
const DefaultCurrency = "ILS"

// Status represents the processing state of a record.
type Status string

// Record status constants.
const (
	StatusPending   Status = "Pending"
	StatusProcessed Status = "Processed"
	StatusCancelled Status = "Cancelled"
)

// ParseStatus validates a status string arriving from an untyped boundary.
// The second return value is false for unknown statuses.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusProcessed, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

// Record represents one scanned or manually entered invoice.
// The ID is the source document's identity and is stable across re-scans.
type Record struct {
	CreatedAt   time.Time
	UpdatedAt   time.Time
	InvoiceDate *time.Time
	TotalAmount *float64
	VATAmount   *float64
	ID          string
	Filename    string
	SenderEmail string
	Subject     string
	VendorName  string
	Currency    string
	DownloadURL string
	Comments    string
	Status      Status
	Labels      []string
}

// HasLabel reports whether the record already carries the given label.
func (r *Record) HasLabel(label string) bool {
	for _, l := range r.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// AddLabel appends a label if not already present, preserving insertion order.
// Returns true if the label was added.
func (r *Record) AddLabel(label string) bool {
	if label == "" || r.HasLabel(label) {
		return false
	}
	r.Labels = append(r.Labels, label)
	return true
}

// FieldValue resolves a rule condition field name to its string value.
// The mapping is a closed set; unknown field names resolve to the empty
// string by contract. Absent optional fields also resolve to "".
func (r *Record) FieldValue(name string) string {
	switch name {
	case "id":
		return r.ID
	case "filename":
		return r.Filename
	case "sender_email":
		return r.SenderEmail
	case "subject":
		return r.Subject
	case "vendor_name":
		return r.VendorName
	case "currency":
		return r.Currency
	case "status":
		return string(r.Status)
	case "download_url":
		return r.DownloadURL
	case "comments":
		return r.Comments
	case "labels":
		return strings.Join(r.Labels, ",")
	case "invoice_date":
		if r.InvoiceDate == nil {
			return ""
		}
		return r.InvoiceDate.Format("2006-01-02")
	case "total_amount":
		return formatOptionalAmount(r.TotalAmount)
	case "vat_amount":
		return formatOptionalAmount(r.VATAmount)
	}
	return ""
}

func formatOptionalAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
