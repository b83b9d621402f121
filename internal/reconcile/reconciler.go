// Package reconcile merges freshly scanned records against stored history
// so that manual edits are never silently overwritten by a re-scan.
package reconcile

import (
	"log/slog"

	"github.com/joshsymonds/paper-trail/internal/model"
	"github.com/joshsymonds/paper-trail/internal/rules"
)

// Result describes the outcome of reconciling one record.
type Result struct {
	// Record is the record to return to the caller; nil when discarded.
	Record *model.Record
	// Persist indicates the caller must write Record to the store.
	Persist bool
	// Discarded indicates a rule deleted the record; nothing is persisted
	// or returned.
	Discarded bool
}

// Reconcile merges a fresh record against the existing record with the same
// identity, if any.
//
// A record with no history is newly discovered: rules run against it first,
// and a delete verdict drops it entirely. Otherwise it is persisted with
// the status computed by extraction and rules (Pending if nothing assigned).
//
// When history exists it always wins, with one exception: a download URL
// carried by the fresh scan backfills an empty one on the existing record.
// The patched existing record, never the fresh one, is what gets returned.
// Re-running against unchanged input converges after the first backfill.
func Reconcile(fresh, existing *model.Record, ruleset []model.Rule) Result {
	if existing == nil {
		verdict := rules.Apply(fresh, ruleset)
		if verdict.Discard {
			slog.Info("record discarded by rule", "record_id", fresh.ID)
			return Result{Discarded: true}
		}
		if fresh.Status == "" {
			fresh.Status = model.StatusPending
		}
		return Result{Record: fresh, Persist: true}
	}

	if fresh.DownloadURL != "" && existing.DownloadURL == "" {
		existing.DownloadURL = fresh.DownloadURL
		slog.Debug("backfilled download url", "record_id", existing.ID)
		return Result{Record: existing, Persist: true}
	}

	return Result{Record: existing, Persist: false}
}
