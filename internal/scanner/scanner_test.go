package scanner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshsymonds/paper-trail/internal/model"
	"github.com/joshsymonds/paper-trail/internal/service"
)

type fakeSource struct {
	docs []service.Document
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) List(_ context.Context, _, _ time.Time) ([]service.Document, error) {
	return f.docs, nil
}

// memoryRecordStore implements service.RecordStore over a map, enough for
// exercising the scan loop.
type memoryRecordStore struct {
	records map[string]*model.Record
	upserts int
}

func newMemoryRecordStore() *memoryRecordStore {
	return &memoryRecordStore{records: make(map[string]*model.Record)}
}

func (m *memoryRecordStore) GetRecordByID(_ context.Context, id string) (*model.Record, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	clone := *rec
	return &clone, nil
}

func (m *memoryRecordStore) UpsertRecord(_ context.Context, record *model.Record) error {
	clone := *record
	m.records[record.ID] = &clone
	m.upserts++
	return nil
}

func (m *memoryRecordStore) ListRecords(_ context.Context, _ service.RecordFilter) ([]model.Record, error) {
	out := make([]model.Record, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, *rec)
	}
	return out, nil
}

func (m *memoryRecordStore) UpdateRecordStatus(_ context.Context, _ string, _ model.Status) error {
	return nil
}
func (m *memoryRecordStore) AddRecordLabel(_ context.Context, _, _ string) error    { return nil }
func (m *memoryRecordStore) RemoveRecordLabel(_ context.Context, _, _ string) error { return nil }
func (m *memoryRecordStore) UpdateRecordComments(_ context.Context, _, _ string) error {
	return nil
}
func (m *memoryRecordStore) DeleteRecord(_ context.Context, _ string) error { return nil }

type fakeRuleStore struct {
	active []model.Rule
}

func (f *fakeRuleStore) CreateRule(_ context.Context, _ *model.Rule) error     { return nil }
func (f *fakeRuleStore) GetRule(_ context.Context, _ string) (*model.Rule, error) { return nil, nil }
func (f *fakeRuleStore) ListRules(_ context.Context) ([]model.Rule, error)     { return f.active, nil }
func (f *fakeRuleStore) ListActiveRules(_ context.Context) ([]model.Rule, error) {
	return f.active, nil
}
func (f *fakeRuleStore) DeleteRule(_ context.Context, _ string) error { return nil }
func (f *fakeRuleStore) SetRuleActive(_ context.Context, _ string, _ bool) error {
	return nil
}

func newTestScanner(source service.DocumentSource, records service.RecordStore, rules service.RuleStore) *Scanner {
	return New(source, records, rules).WithProgress(false)
}

func scanWindow() (time.Time, time.Time) {
	end := time.Date(2025, 10, 31, 23, 59, 59, 0, time.UTC)
	return end.AddDate(0, -1, 0), end
}

func TestScan_PersistsNewRecords(t *testing.T) {
	source := &fakeSource{docs: []service.Document{
		{
			ID:          "doc1",
			Filename:    "invoice.txt",
			SenderEmail: `"Cloud Hosting Ltd" <billing@cloudhosting.example>`,
			Subject:     "Invoice October",
			Text:        "Invoice date: 26/10/2025\nTotal: 118.00",
			DownloadURL: "file:///invoices/doc1.txt",
		},
	}}
	records := newMemoryRecordStore()

	start, end := scanWindow()
	result, err := newTestScanner(source, records, &fakeRuleStore{}).Scan(context.Background(), start, end)
	require.NoError(t, err)

	assert.Equal(t, 1, result.DocumentsScanned)
	assert.Equal(t, 1, result.NewRecords)
	assert.Equal(t, 0, result.Backfilled)
	require.Len(t, result.Records, 1)

	stored := records.records["doc1"]
	require.NotNil(t, stored)
	assert.Equal(t, "Cloud Hosting Ltd", stored.VendorName)
	assert.Equal(t, model.StatusProcessed, stored.Status)
	assert.Equal(t, model.DefaultCurrency, stored.Currency)
	require.NotNil(t, stored.TotalAmount)
	assert.InDelta(t, 118.00, *stored.TotalAmount, 0.001)
	require.NotNil(t, stored.VATAmount)
	assert.InDelta(t, 18.00, *stored.VATAmount, 0.001)
	require.NotNil(t, stored.InvoiceDate)
	assert.Equal(t, "2025-10-26", stored.InvoiceDate.Format("2006-01-02"))
}

func TestScan_RecordWithoutTotalStartsPending(t *testing.T) {
	source := &fakeSource{docs: []service.Document{
		{ID: "doc1", SenderEmail: "hello@example.com", Text: "thanks for your order"},
	}}
	records := newMemoryRecordStore()

	start, end := scanWindow()
	_, err := newTestScanner(source, records, &fakeRuleStore{}).Scan(context.Background(), start, end)
	require.NoError(t, err)

	stored := records.records["doc1"]
	require.NotNil(t, stored)
	assert.Equal(t, model.StatusPending, stored.Status)
	assert.Nil(t, stored.TotalAmount)
}

func TestScan_RescanIsIdempotent(t *testing.T) {
	source := &fakeSource{docs: []service.Document{
		{
			ID:          "doc1",
			Text:        "Total: 50.00",
			DownloadURL: "file:///doc1.txt",
		},
	}}
	records := newMemoryRecordStore()
	sc := newTestScanner(source, records, &fakeRuleStore{})

	start, end := scanWindow()
	first, err := sc.Scan(context.Background(), start, end)
	require.NoError(t, err)
	assert.Equal(t, 1, first.NewRecords)

	second, err := sc.Scan(context.Background(), start, end)
	require.NoError(t, err)
	assert.Equal(t, 0, second.NewRecords)
	assert.Equal(t, 0, second.Backfilled)
	assert.Len(t, second.Records, 1)
	assert.Equal(t, 1, records.upserts, "no second write for an unchanged document")
}

func TestScan_ExistingRecordSurvivesDivergentRescan(t *testing.T) {
	source := &fakeSource{docs: []service.Document{
		{ID: "doc1", Text: "Total: 999.00", DownloadURL: "file:///doc1.txt"},
	}}
	records := newMemoryRecordStore()
	total := 50.0
	records.records["doc1"] = &model.Record{
		ID:          "doc1",
		TotalAmount: &total,
		Status:      model.StatusCancelled,
		DownloadURL: "file:///doc1.txt",
	}

	start, end := scanWindow()
	result, err := newTestScanner(source, records, &fakeRuleStore{}).Scan(context.Background(), start, end)
	require.NoError(t, err)

	assert.Equal(t, 0, result.NewRecords)
	stored := records.records["doc1"]
	assert.Equal(t, model.StatusCancelled, stored.Status)
	assert.InDelta(t, 50.0, *stored.TotalAmount, 0.001)
}

func TestScan_BackfillsDownloadURL(t *testing.T) {
	source := &fakeSource{docs: []service.Document{
		{ID: "doc1", Text: "Total: 50.00", DownloadURL: "file:///doc1.txt"},
	}}
	records := newMemoryRecordStore()
	records.records["doc1"] = &model.Record{ID: "doc1", Status: model.StatusProcessed}

	start, end := scanWindow()
	result, err := newTestScanner(source, records, &fakeRuleStore{}).Scan(context.Background(), start, end)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Backfilled)
	assert.Equal(t, "file:///doc1.txt", records.records["doc1"].DownloadURL)
	assert.Equal(t, model.StatusProcessed, records.records["doc1"].Status)
}

func TestScan_DiscardsByRule(t *testing.T) {
	source := &fakeSource{docs: []service.Document{
		{ID: "doc1", SenderEmail: "noreply@newsletter.example", Text: "weekly digest"},
		{ID: "doc2", SenderEmail: "billing@vendor.example", Text: "Total: 35.00"},
	}}
	records := newMemoryRecordStore()
	rules := &fakeRuleStore{active: []model.Rule{
		{
			ID: "r1", Name: "drop newsletters", IsActive: true,
			Conditions: []model.Condition{
				{Field: "sender_email", Operator: model.OpContains, Value: "newsletter"},
			},
			Actions: []model.Action{{Type: model.ActionDeleteRecord}},
		},
	}}

	start, end := scanWindow()
	result, err := newTestScanner(source, records, rules).Scan(context.Background(), start, end)
	require.NoError(t, err)

	assert.Equal(t, 2, result.DocumentsScanned)
	assert.Equal(t, 1, result.Discarded)
	assert.Equal(t, 1, result.NewRecords)
	assert.NotContains(t, records.records, "doc1")
	assert.Contains(t, records.records, "doc2")
}

func TestScan_RulesLabelNewRecords(t *testing.T) {
	source := &fakeSource{docs: []service.Document{
		{ID: "doc1", SenderEmail: "billing@cloudhosting.example", Text: "Total: 118.00"},
	}}
	records := newMemoryRecordStore()
	rules := &fakeRuleStore{active: []model.Rule{
		{
			ID: "r1", Name: "hosting", IsActive: true,
			Conditions: []model.Condition{
				{Field: "sender_email", Operator: model.OpContains, Value: "cloudhosting"},
			},
			Actions: []model.Action{{Type: model.ActionAddLabel, Value: "Software"}},
		},
	}}

	start, end := scanWindow()
	_, err := newTestScanner(source, records, rules).Scan(context.Background(), start, end)
	require.NoError(t, err)

	assert.Equal(t, []string{"Software"}, records.records["doc1"].Labels)
}

func TestVendorFromSender(t *testing.T) {
	tests := []struct {
		sender string
		want   string
	}{
		{`"Cloud Hosting Ltd" <billing@cloudhosting.example>`, "Cloud Hosting Ltd"},
		{`Amazon <no-reply@amazon.com>`, "Amazon"},
		{`plain@example.com`, "plain@example.com"},
		{``, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, vendorFromSender(tt.sender), "sender %q", tt.sender)
	}
}
