// Package scanner drives a document source through field extraction, rule
// evaluation, and reconciliation against the record store.
package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/joshsymonds/paper-trail/internal/common"
	"github.com/joshsymonds/paper-trail/internal/extract"
	"github.com/joshsymonds/paper-trail/internal/model"
	"github.com/joshsymonds/paper-trail/internal/reconcile"
	"github.com/joshsymonds/paper-trail/internal/service"
)

// Scanner coordinates one scan run. It processes documents one at a time,
// so the store sees a serialized view per identity.
type Scanner struct {
	source       service.DocumentSource
	records      service.RecordStore
	rules        service.RuleStore
	showProgress bool
}

// Result summarizes a completed scan run.
type Result struct {
	Records          []model.Record
	DocumentsScanned int
	NewRecords       int
	Backfilled       int
	Discarded        int
}

// New creates a scanner over the given source and stores.
func New(source service.DocumentSource, records service.RecordStore, rules service.RuleStore) *Scanner {
	return &Scanner{
		source:       source,
		records:      records,
		rules:        rules,
		showProgress: true,
	}
}

// WithProgress controls terminal progress output (disabled in tests).
func (s *Scanner) WithProgress(show bool) *Scanner {
	s.showProgress = show
	return s
}

// Scan lists documents in the date range, extracts candidate fields from
// each, reconciles against history, and persists what reconciliation flags.
func (s *Scanner) Scan(ctx context.Context, start, end time.Time) (*Result, error) {
	ruleset, err := s.rules.ListActiveRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	var docs []service.Document
	err = common.WithRetry(ctx, func() error {
		var listErr error
		docs, listErr = s.source.List(ctx, start, end)
		return listErr
	}, service.RetryOptions{MaxAttempts: 3})
	if err != nil {
		return nil, fmt.Errorf("failed to list documents from %s: %w", s.source.Name(), err)
	}

	slog.Info("Starting scan",
		"source", s.source.Name(),
		"documents", len(docs),
		"active_rules", len(ruleset),
		"from", start.Format("2006-01-02"),
		"to", end.Format("2006-01-02"))

	var bar *progressbar.ProgressBar
	if s.showProgress {
		bar = progressbar.NewOptions(len(docs),
			progressbar.OptionSetDescription("Scanning documents..."),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	result := &Result{DocumentsScanned: len(docs)}

	for _, doc := range docs {
		if bar != nil {
			_ = bar.Add(1)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fresh := s.buildRecord(doc)

		existing, err := s.records.GetRecordByID(ctx, doc.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up record %s: %w", doc.ID, err)
		}

		merged := reconcile.Reconcile(fresh, existing, ruleset)
		if merged.Discarded {
			result.Discarded++
			continue
		}

		if merged.Persist {
			if err := s.records.UpsertRecord(ctx, merged.Record); err != nil {
				return nil, fmt.Errorf("failed to persist record %s: %w", merged.Record.ID, err)
			}
			if existing == nil {
				result.NewRecords++
			} else {
				result.Backfilled++
			}
		}

		result.Records = append(result.Records, *merged.Record)
	}

	slog.Info("Scan complete",
		"documents", result.DocumentsScanned,
		"records", len(result.Records),
		"new", result.NewRecords,
		"backfilled", result.Backfilled,
		"discarded", result.Discarded)

	return result, nil
}

// buildRecord assembles a candidate record from a raw document. Vendor
// identity falls back to the sender header when extraction yields nothing;
// a record with no recovered total starts out Pending.
func (s *Scanner) buildRecord(doc service.Document) *model.Record {
	fields := extract.FromText(doc.Text, doc.Filename)

	vendor := fields.VendorName
	if vendor == "" {
		vendor = vendorFromSender(doc.SenderEmail)
	}

	status := model.StatusPending
	if fields.TotalAmount != nil {
		status = model.StatusProcessed
	}

	return &model.Record{
		ID:          doc.ID,
		Filename:    doc.Filename,
		SenderEmail: doc.SenderEmail,
		Subject:     doc.Subject,
		InvoiceDate: fields.InvoiceDate,
		VendorName:  vendor,
		TotalAmount: fields.TotalAmount,
		VATAmount:   fields.VATAmount,
		Currency:    model.DefaultCurrency,
		DownloadURL: doc.DownloadURL,
		Status:      status,
	}
}

// vendorFromSender derives a vendor name from a "Display Name <addr>"
// sender header.
func vendorFromSender(sender string) string {
	name := sender
	if idx := strings.Index(name, "<"); idx >= 0 {
		name = name[:idx]
	}
	return strings.Trim(strings.TrimSpace(name), `"`)
}
