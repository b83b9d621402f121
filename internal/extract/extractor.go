// Package extract implements heuristic extraction of structured invoice
// fields from unstructured text. Extraction is best-effort: every field is
// optional and a text yielding nothing is a normal outcome, not an error.
package extract

import (
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Fields holds the candidate values recovered from a single document's text.
type Fields struct {
	InvoiceDate *time.Time
	TotalAmount *float64
	VATAmount   *float64
	// VendorName is never populated from text; callers fall back to the
	// sender identity of the source message.
	VendorName string
}

const (
	// Years outside this open range are rejected as OCR noise or typos.
	minYear = 2000
	maxYear = 2030

	// Amounts at or above this are assumed to be IDs or reference numbers.
	maxAmount = 50000

	// Plausible band for an explicit VAT component relative to a
	// VAT-inclusive total at common regional rates.
	vatRatioLow  = 0.14
	vatRatioHigh = 0.19

	// FallbackVATRate is the gross-inclusive percentage used to compute a
	// VAT component when no explicit VAT figure is present. The legal
	// regional rate has moved between 17 and 18; 18 is kept for
	// compatibility with existing invoices.
	FallbackVATRate = 18.0
)

// Date shapes scanned in priority order. RTL layouts can shuffle label and
// value visually, so we match bare number sequences rather than anchors.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{2}[/.]\d{2}[/.]\d{4}`),   // 26/10/2025
	regexp.MustCompile(`\d{1,2}[/.]\d{1,2}[/.]\d{4}`), // 1/1/2025
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),         // 2025-10-26
	regexp.MustCompile(`\d{2}[/.]\d{2}[/.]\d{2}`),   // 26/10/25
}

// Format families tried per match, in order. Lenient layouts accept both
// padded and unpadded day/month.
var dateLayouts = []string{"2/1/2006", "2006-1-2", "2/1/06"}

// Currency-shaped tokens: up to three leading digits, optional thousands
// groups, exactly two decimals.
var amountPattern = regexp.MustCompile(`\d{1,3}(?:,\d{3})*\.\d{2}`)

// Calendar years that occasionally appear with a decimal artifact and must
// not be misread as amounts.
var yearLikeAmounts = map[float64]struct{}{
	2023: {}, 2024: {}, 2025: {}, 2026: {},
}

// FromText extracts candidate invoice fields from plain text. It never
// fails; any unparseable candidate is skipped and scanning continues. The
// filename is used only for diagnostics.
func FromText(text, filename string) Fields {
	var fields Fields

	fields.InvoiceDate = extractDate(text)

	amounts := extractAmounts(text)
	if len(amounts) > 0 {
		// Invoices print the grand total as the largest currency-shaped
		// figure on the page.
		total := amounts[0]
		for _, v := range amounts[1:] {
			if v > total {
				total = v
			}
		}
		fields.TotalAmount = &total
		fields.VATAmount = extractVAT(amounts, total)
	}

	slog.Debug("extracted candidate fields",
		"filename", filename,
		"date_found", fields.InvoiceDate != nil,
		"total_found", fields.TotalAmount != nil,
		"vat_found", fields.VATAmount != nil)

	return fields
}

// extractDate returns the first pattern match that parses to a valid
// calendar date with a plausible year. Earliest match wins; no attempt is
// made to disambiguate multiple valid dates.
func extractDate(text string) *time.Time {
	for _, pattern := range datePatterns {
		for _, match := range pattern.FindAllString(text, -1) {
			candidate := strings.ReplaceAll(match, ".", "/")
			for _, layout := range dateLayouts {
				dt, err := time.Parse(layout, candidate)
				if err != nil {
					continue
				}
				if dt.Year() <= minYear || dt.Year() >= maxYear {
					continue
				}
				return &dt
			}
		}
	}
	return nil
}

// extractAmounts collects every currency-shaped value in scan order,
// keeping only plausible amounts.
func extractAmounts(text string) []float64 {
	// Normalize the shekel sign so it does not abut number tokens.
	clean := strings.ReplaceAll(text, "₪", "NIS ")

	var amounts []float64
	for _, match := range amountPattern.FindAllString(clean, -1) {
		val, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
		if err != nil {
			continue
		}
		if val <= 0 || val >= maxAmount {
			continue
		}
		if _, ok := yearLikeAmounts[val]; ok {
			continue
		}
		amounts = append(amounts, val)
	}
	return amounts
}

// extractVAT first looks for an explicit VAT-like figure among the
// candidates (ratio to total within the plausible band, first hit in scan
// order wins). Only when none exists does it fall back to computing the tax
// component of a gross total at the fallback rate.
func extractVAT(amounts []float64, total float64) *float64 {
	for _, v := range amounts {
		if v == total {
			continue
		}
		ratio := v / total
		if ratio >= vatRatioLow && ratio < vatRatioHigh {
			vat := v
			return &vat
		}
	}

	vat := math.Round(total*FallbackVATRate/(100+FallbackVATRate)*100) / 100
	return &vat
}
