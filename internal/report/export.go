package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/joshsymonds/paper-trail/internal/model"
)

// exportRow is the flattened CSV shape of a record.
type exportRow struct {
	ID          string `csv:"id"`
	InvoiceDate string `csv:"invoice_date"`
	Vendor      string `csv:"vendor"`
	Subject     string `csv:"subject"`
	SenderEmail string `csv:"sender_email"`
	Filename    string `csv:"filename"`
	TotalAmount string `csv:"total_amount"`
	VATAmount   string `csv:"vat_amount"`
	Currency    string `csv:"currency"`
	Status      string `csv:"status"`
	Labels      string `csv:"labels"`
	Comments    string `csv:"comments"`
}

// WriteCSV renders the record set as CSV. Absent optional fields become
// empty cells, never zeros.
func WriteCSV(w io.Writer, records []model.Record) error {
	rows := make([]exportRow, 0, len(records))
	for _, r := range records {
		row := exportRow{
			ID:          r.ID,
			Vendor:      r.VendorName,
			Subject:     r.Subject,
			SenderEmail: r.SenderEmail,
			Filename:    r.Filename,
			Currency:    r.Currency,
			Status:      string(r.Status),
			Labels:      strings.Join(r.Labels, "; "),
			Comments:    r.Comments,
		}
		if r.InvoiceDate != nil {
			row.InvoiceDate = r.InvoiceDate.Format("2006-01-02")
		}
		if r.TotalAmount != nil {
			row.TotalAmount = fmt.Sprintf("%.2f", *r.TotalAmount)
		}
		if r.VATAmount != nil {
			row.VATAmount = fmt.Sprintf("%.2f", *r.VATAmount)
		}
		rows = append(rows, row)
	}

	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
