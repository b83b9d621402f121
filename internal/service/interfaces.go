// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/joshsymonds/paper-trail/internal/model"
)

// RecordFilter defines filtering options for record queries.
type RecordFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    string
	Label     string
	Limit     int
	Offset    int
}

// RecordStore defines the persistence contract for invoice records.
type RecordStore interface {
	// GetRecordByID returns nil (not an error) when no record exists.
	GetRecordByID(ctx context.Context, id string) (*model.Record, error)
	UpsertRecord(ctx context.Context, record *model.Record) error
	ListRecords(ctx context.Context, filter RecordFilter) ([]model.Record, error)
	UpdateRecordStatus(ctx context.Context, id string, status model.Status) error
	AddRecordLabel(ctx context.Context, id, label string) error
	RemoveRecordLabel(ctx context.Context, id, label string) error
	UpdateRecordComments(ctx context.Context, id, comments string) error
	DeleteRecord(ctx context.Context, id string) error
}

// RuleStore defines the persistence contract for user-defined rules.
type RuleStore interface {
	CreateRule(ctx context.Context, rule *model.Rule) error
	GetRule(ctx context.Context, id string) (*model.Rule, error)
	ListRules(ctx context.Context) ([]model.Rule, error)
	// ListActiveRules returns only active rules, in evaluation order.
	ListActiveRules(ctx context.Context) ([]model.Rule, error)
	DeleteRule(ctx context.Context, id string) error
	SetRuleActive(ctx context.Context, id string, active bool) error
}

// LabelStore defines the persistence contract for the label vocabulary.
type LabelStore interface {
	GetLabels(ctx context.Context) ([]string, error)
	AddLabel(ctx context.Context, label string) error
	DeleteLabel(ctx context.Context, label string) error
}

// Storage is the full persistence contract implemented by the SQLite layer.
type Storage interface {
	RecordStore
	RuleStore
	LabelStore

	Migrate(ctx context.Context) error
	Close() error
}

// Document is one raw item produced by a document source: decoded plain
// text plus the metadata the scanner needs to build a record.
type Document struct {
	ID          string
	Filename    string
	SenderEmail string
	Subject     string
	Text        string
	DownloadURL string
}

// DocumentSource supplies documents for a date range. Implementations own
// all transport concerns; the scanner only sees text.
type DocumentSource interface {
	Name() string
	List(ctx context.Context, start, end time.Time) ([]Document, error)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
