// Package report aggregates scanned records into summaries and exports.
package report

import (
	"math"
	"sort"
	"time"

	"github.com/joshsymonds/paper-trail/internal/model"
)

// UncategorizedLabel is the bucket for records carrying no labels.
const UncategorizedLabel = "Uncategorized"

// MonthTotal is the summed expense for one calendar month.
type MonthTotal struct {
	Month  string
	Amount float64
}

// LabelTotal is the summed expense attributed to one label.
type LabelTotal struct {
	Name  string
	Value float64
}

// Summary aggregates a record set over a date range.
type Summary struct {
	Monthly     []MonthTotal
	ByLabel     []LabelTotal
	TotalCount  int
	TotalAmount float64
	TotalVAT    float64
}

// Summarize aggregates the records whose invoice date falls inside the
// inclusive range. Records with no invoice date are excluded: there is no
// month to attribute them to.
func Summarize(records []model.Record, start, end time.Time) Summary {
	var relevant []model.Record
	for _, r := range records {
		if r.InvoiceDate == nil {
			continue
		}
		d := *r.InvoiceDate
		if d.Before(start) || d.After(end) {
			continue
		}
		relevant = append(relevant, r)
	}

	summary := Summary{
		Monthly:    monthlyBreakdown(relevant),
		ByLabel:    labelBreakdown(relevant),
		TotalCount: len(relevant),
	}
	for _, r := range relevant {
		if r.TotalAmount != nil {
			summary.TotalAmount += *r.TotalAmount
		}
		if r.VATAmount != nil {
			summary.TotalVAT += *r.VATAmount
		}
	}
	return summary
}

// monthlyBreakdown groups expenses by YYYY-MM, sorted chronologically.
func monthlyBreakdown(records []model.Record) []MonthTotal {
	byMonth := make(map[string]float64)
	for _, r := range records {
		if r.InvoiceDate == nil || r.TotalAmount == nil {
			continue
		}
		byMonth[r.InvoiceDate.Format("2006-01")] += *r.TotalAmount
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	result := make([]MonthTotal, 0, len(months))
	for _, m := range months {
		result = append(result, MonthTotal{Month: m, Amount: round2(byMonth[m])})
	}
	return result
}

// labelBreakdown groups expenses by label. A record carrying several labels
// has its amount split evenly across them so the breakdown still sums to
// the overall total; unlabeled records land in the Uncategorized bucket.
func labelBreakdown(records []model.Record) []LabelTotal {
	byLabel := make(map[string]float64)
	for _, r := range records {
		var amount float64
		if r.TotalAmount != nil {
			amount = *r.TotalAmount
		}
		if len(r.Labels) == 0 {
			byLabel[UncategorizedLabel] += amount
			continue
		}
		share := amount / float64(len(r.Labels))
		for _, label := range r.Labels {
			byLabel[label] += share
		}
	}

	names := make([]string, 0, len(byLabel))
	for name := range byLabel {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]LabelTotal, 0, len(names))
	for _, name := range names {
		if val := round2(byLabel[name]); val > 0 {
			result = append(result, LabelTotal{Name: name, Value: val})
		}
	}
	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
