package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/joshsymonds/paper-trail/internal/common"
	"github.com/joshsymonds/paper-trail/internal/model"
	"github.com/joshsymonds/paper-trail/internal/service"
)

const recordColumns = `id, filename, sender_email, subject, invoice_date,
	vendor_name, total_amount, vat_amount, currency, status, labels,
	download_url, comments, created_at, updated_at`

// GetRecordByID retrieves a record by its identity. Returns nil (not an
// error) when no record exists, so callers can treat absence as a normal
// reconciliation input.
func (s *SQLiteStorage) GetRecordByID(ctx context.Context, id string) (*model.Record, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM records WHERE id = ?", recordColumns), id)

	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return record, nil
}

// UpsertRecord inserts or replaces a record by identity.
func (s *SQLiteStorage) UpsertRecord(ctx context.Context, record *model.Record) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecord(record); err != nil {
		return err
	}

	labelsJSON, err := json.Marshal(record.Labels)
	if err != nil {
		return fmt.Errorf("failed to encode labels: %w", err)
	}

	query := `
		INSERT INTO records (
			id, filename, sender_email, subject, invoice_date, vendor_name,
			total_amount, vat_amount, currency, status, labels, download_url, comments
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			sender_email = excluded.sender_email,
			subject = excluded.subject,
			invoice_date = excluded.invoice_date,
			vendor_name = excluded.vendor_name,
			total_amount = excluded.total_amount,
			vat_amount = excluded.vat_amount,
			currency = excluded.currency,
			status = excluded.status,
			labels = excluded.labels,
			download_url = excluded.download_url,
			comments = excluded.comments,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err = s.db.ExecContext(ctx, query,
		record.ID, record.Filename, record.SenderEmail, record.Subject,
		dateToNullString(record.InvoiceDate), record.VendorName,
		floatToNull(record.TotalAmount), floatToNull(record.VATAmount),
		record.Currency, string(record.Status), string(labelsJSON),
		record.DownloadURL, record.Comments,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert record: %w", err)
	}
	return nil
}

// ListRecords returns records matching the filter, newest identity first.
func (s *SQLiteStorage) ListRecords(ctx context.Context, filter service.RecordFilter) ([]model.Record, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM records WHERE 1=1", recordColumns)
	var args []any

	if filter.StartDate != nil {
		query += " AND invoice_date >= ?"
		args = append(args, filter.StartDate.Format("2006-01-02"))
	}
	if filter.EndDate != nil {
		query += " AND invoice_date <= ?"
		args = append(args, filter.EndDate.Format("2006-01-02"))
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.Label != "" {
		// Labels are stored as a JSON array of strings.
		query += " AND labels LIKE ?"
		args = append(args, `%"`+filter.Label+`"%`)
	}

	query += " ORDER BY id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.Record
	for rows.Next() {
		record, scanErr := scanRecord(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan record: %w", scanErr)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// UpdateRecordStatus sets the status of an existing record.
func (s *SQLiteStorage) UpdateRecordStatus(ctx context.Context, id string, status model.Status) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if _, ok := model.ParseStatus(string(status)); !ok {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidRecord, status)
	}

	return s.execOnRecord(ctx, id,
		"UPDATE records SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		string(status), id)
}

// AddRecordLabel adds a label to a record's label set, idempotently.
func (s *SQLiteStorage) AddRecordLabel(ctx context.Context, id, label string) error {
	if err := validateString(label, "label"); err != nil {
		return err
	}
	return s.mutateLabels(ctx, id, func(record *model.Record) {
		record.AddLabel(label)
	})
}

// RemoveRecordLabel removes a label from a record's label set.
func (s *SQLiteStorage) RemoveRecordLabel(ctx context.Context, id, label string) error {
	if err := validateString(label, "label"); err != nil {
		return err
	}
	return s.mutateLabels(ctx, id, func(record *model.Record) {
		labels := record.Labels[:0]
		for _, l := range record.Labels {
			if l != label {
				labels = append(labels, l)
			}
		}
		record.Labels = labels
	})
}

// UpdateRecordComments sets the free-text comments on a record.
func (s *SQLiteStorage) UpdateRecordComments(ctx context.Context, id, comments string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return s.execOnRecord(ctx, id,
		"UPDATE records SET comments = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		comments, id)
}

// DeleteRecord removes a record permanently.
func (s *SQLiteStorage) DeleteRecord(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return s.execOnRecord(ctx, id, "DELETE FROM records WHERE id = ?", id)
}

func (s *SQLiteStorage) mutateLabels(ctx context.Context, id string, mutate func(*model.Record)) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	record, err := s.GetRecordByID(ctx, id)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("record %s: %w", id, common.ErrNotFound)
	}

	mutate(record)

	labelsJSON, err := json.Marshal(record.Labels)
	if err != nil {
		return fmt.Errorf("failed to encode labels: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE records SET labels = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		string(labelsJSON), id)
	if err != nil {
		return fmt.Errorf("failed to update labels: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) execOnRecord(ctx context.Context, id, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("record %s: %w", id, common.ErrNotFound)
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*model.Record, error) {
	var (
		record      model.Record
		invoiceDate sql.NullString
		sender      sql.NullString
		subject     sql.NullString
		vendor      sql.NullString
		total       sql.NullFloat64
		vat         sql.NullFloat64
		labelsJSON  string
		downloadURL sql.NullString
		comments    sql.NullString
		status      string
	)

	err := row.Scan(
		&record.ID, &record.Filename, &sender, &subject, &invoiceDate,
		&vendor, &total, &vat, &record.Currency, &status, &labelsJSON,
		&downloadURL, &comments, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.SenderEmail = sender.String
	record.Subject = subject.String
	record.VendorName = vendor.String
	record.DownloadURL = downloadURL.String
	record.Comments = comments.String
	record.Status = model.Status(status)

	if invoiceDate.Valid && invoiceDate.String != "" {
		dt, parseErr := time.Parse("2006-01-02", invoiceDate.String)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid invoice date %q: %w", invoiceDate.String, parseErr)
		}
		record.InvoiceDate = &dt
	}
	if total.Valid {
		record.TotalAmount = &total.Float64
	}
	if vat.Valid {
		record.VATAmount = &vat.Float64
	}
	if labelsJSON != "" {
		if unmarshalErr := json.Unmarshal([]byte(labelsJSON), &record.Labels); unmarshalErr != nil {
			return nil, fmt.Errorf("invalid labels payload: %w", unmarshalErr)
		}
	}

	return &record, nil
}

func dateToNullString(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format("2006-01-02"), Valid: true}
}

func floatToNull(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
