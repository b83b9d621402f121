// Package rules implements the ordered rule evaluation engine. The engine
// is a pure function of (record, rules): it holds no state between calls
// and never fails on malformed rule data.
package rules

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/joshsymonds/paper-trail/internal/model"
)

// Verdict is the outcome of applying a rule set to a record.
type Verdict struct {
	// Matched lists the names of rules that matched, in evaluation order.
	Matched []string
	// Discard signals that the record must not be persisted or returned.
	Discard bool
}

// Apply evaluates all active rules against the record in order, mutating it
// in place. Every active rule is evaluated, not just the first match, unless
// a delete action fires: deletion short-circuits evaluation entirely and the
// verdict carries the discard signal.
func Apply(record *model.Record, ruleset []model.Rule) Verdict {
	var verdict Verdict

	for i := range ruleset {
		rule := &ruleset[i]
		if !rule.IsActive {
			continue
		}
		if !matches(record, rule) {
			continue
		}

		slog.Debug("rule matched", "rule", rule.Name, "record_id", record.ID)
		verdict.Matched = append(verdict.Matched, rule.Name)

		if applyActions(record, rule) {
			verdict.Discard = true
			return verdict
		}
	}

	return verdict
}

// matches evaluates a rule's conditions under its logic mode. A rule with
// zero conditions matches vacuously.
func matches(record *model.Record, rule *model.Rule) bool {
	if len(rule.Conditions) == 0 {
		return true
	}

	if model.ParseLogicMode(string(rule.Logic)) == model.LogicOr {
		for _, cond := range rule.Conditions {
			if conditionMatches(record, cond) {
				return true
			}
		}
		return false
	}

	for _, cond := range rule.Conditions {
		if !conditionMatches(record, cond) {
			return false
		}
	}
	return true
}

// conditionMatches compares one record field against a condition. Unknown
// fields resolve to the empty string; unknown operators and non-numeric
// operands for ordering operators degrade to "does not match".
func conditionMatches(record *model.Record, cond model.Condition) bool {
	fieldValue := record.FieldValue(cond.Field)

	switch cond.Operator {
	case model.OpContains:
		return strings.Contains(strings.ToLower(fieldValue), strings.ToLower(cond.Value))
	case model.OpEquals:
		return strings.EqualFold(fieldValue, cond.Value)
	case model.OpStartsWith:
		return strings.HasPrefix(strings.ToLower(fieldValue), strings.ToLower(cond.Value))
	case model.OpEndsWith:
		return strings.HasSuffix(strings.ToLower(fieldValue), strings.ToLower(cond.Value))
	case model.OpGreaterThan, model.OpLessThan:
		fv, err := strconv.ParseFloat(fieldValue, 64)
		if err != nil {
			return false
		}
		cv, err := strconv.ParseFloat(cond.Value, 64)
		if err != nil {
			return false
		}
		if cond.Operator == model.OpGreaterThan {
			return fv > cv
		}
		return fv < cv
	}

	slog.Warn("unknown condition operator, treating as non-match",
		"operator", string(cond.Operator), "field", cond.Field)
	return false
}

// applyActions runs a matched rule's actions in order. Returns true when a
// delete action fired; no further actions run after a delete.
func applyActions(record *model.Record, rule *model.Rule) bool {
	for _, action := range rule.Actions {
		switch action.Type {
		case model.ActionSetStatus:
			status, ok := model.ParseStatus(action.Value)
			if !ok {
				slog.Warn("rule action has invalid status, skipping",
					"rule", rule.Name, "value", action.Value)
				continue
			}
			record.Status = status

		case model.ActionAddLabel:
			for _, label := range strings.Split(action.Value, ",") {
				record.AddLabel(strings.TrimSpace(label))
			}

		case model.ActionDeleteRecord:
			return true

		default:
			slog.Warn("unknown rule action, skipping",
				"rule", rule.Name, "action_type", string(action.Type))
		}
	}
	return false
}
