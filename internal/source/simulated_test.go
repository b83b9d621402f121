package source

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshsymonds/paper-trail/internal/extract"
)

func TestSimulated_DeterministicForSameRange(t *testing.T) {
	start := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC)

	src := NewSimulated()
	first, err := src.List(context.Background(), start, end)
	require.NoError(t, err)

	second, err := src.List(context.Background(), start, end)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.GreaterOrEqual(t, len(first), 5)
	assert.LessOrEqual(t, len(first), 15)
}

func TestSimulated_DocumentsAreExtractable(t *testing.T) {
	start := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC)

	docs, err := NewSimulated().List(context.Background(), start, end)
	require.NoError(t, err)

	for _, doc := range docs {
		fields := extract.FromText(doc.Text, doc.Filename)
		require.NotNil(t, fields.InvoiceDate, "document %s should carry a date", doc.ID)
		assert.False(t, fields.InvoiceDate.Before(start), "document %s dated before range", doc.ID)
		assert.False(t, fields.InvoiceDate.After(end), "document %s dated after range", doc.ID)
		require.NotNil(t, fields.TotalAmount, "document %s should carry a total", doc.ID)
		assert.Greater(t, *fields.TotalAmount, 0.0)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{50.0, "50.00"},
		{999.99, "999.99"},
		{1234.56, "1,234.56"},
		{1000000.0, "1,000,000.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatAmount(tt.value))
	}
}
