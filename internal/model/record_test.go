package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input string
		want  Status
		ok    bool
	}{
		{"Pending", StatusPending, true},
		{"Processed", StatusProcessed, true},
		{"Cancelled", StatusCancelled, true},
		{"pending", "", false}, // case sensitive
		{"Archived", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseStatus(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestRecord_AddLabel(t *testing.T) {
	r := &Record{}

	assert.True(t, r.AddLabel("Business"))
	assert.False(t, r.AddLabel("Business"))
	assert.True(t, r.AddLabel("Software"))
	assert.False(t, r.AddLabel(""))

	assert.Equal(t, []string{"Business", "Software"}, r.Labels)
	assert.True(t, r.HasLabel("Business"))
	assert.False(t, r.HasLabel("Travel"))
}

func TestRecord_FieldValue(t *testing.T) {
	date := time.Date(2025, 10, 26, 0, 0, 0, 0, time.UTC)
	total := 149.9
	r := &Record{
		ID:          "doc1",
		Filename:    "invoice.txt",
		SenderEmail: "billing@vendor.example",
		Subject:     "Invoice October",
		VendorName:  "Vendor Ltd",
		Currency:    DefaultCurrency,
		Status:      StatusProcessed,
		DownloadURL: "file:///doc1.txt",
		Comments:    "hello",
		Labels:      []string{"Business", "Software"},
		InvoiceDate: &date,
		TotalAmount: &total,
	}

	tests := []struct {
		field string
		want  string
	}{
		{"id", "doc1"},
		{"filename", "invoice.txt"},
		{"sender_email", "billing@vendor.example"},
		{"subject", "Invoice October"},
		{"vendor_name", "Vendor Ltd"},
		{"currency", "ILS"},
		{"status", "Processed"},
		{"download_url", "file:///doc1.txt"},
		{"comments", "hello"},
		{"labels", "Business,Software"},
		{"invoice_date", "2025-10-26"},
		{"total_amount", "149.9"},
		{"vat_amount", ""},         // absent optional field
		{"no_such_field", ""},      // unknown names resolve to ""
		{"TotalAmount", ""},        // struct names are not field names
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, r.FieldValue(tt.field), "field %q", tt.field)
	}
}
