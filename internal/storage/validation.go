package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/joshsymonds/paper-trail/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidRecord = errors.New("invalid record")
	ErrInvalidRule   = errors.New("invalid rule")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRecord validates a single record before it is written.
func validateRecord(record *model.Record) error {
	if record == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if record.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidRecord)
	}
	if record.TotalAmount != nil && *record.TotalAmount < 0 {
		return fmt.Errorf("%w: negative total amount", ErrInvalidRecord)
	}
	if record.VATAmount != nil && *record.VATAmount < 0 {
		return fmt.Errorf("%w: negative VAT amount", ErrInvalidRecord)
	}
	if record.TotalAmount != nil && record.VATAmount != nil && *record.VATAmount > *record.TotalAmount {
		return fmt.Errorf("%w: VAT exceeds total", ErrInvalidRecord)
	}
	if record.Status != "" {
		if _, ok := model.ParseStatus(string(record.Status)); !ok {
			return fmt.Errorf("%w: unknown status %q", ErrInvalidRecord, record.Status)
		}
	}
	return nil
}

// validateRule validates a single rule before it is written.
func validateRule(rule *model.Rule) error {
	if rule == nil {
		return fmt.Errorf("%w: rule", ErrNilParameter)
	}
	if strings.TrimSpace(rule.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidRule)
	}
	return nil
}
