package model

import (
	"strings"
	"time"
)

// Operator identifies how a condition compares a record field to its value.
type Operator string

// Condition operator constants. The first four compare lowercased strings,
// the last two compare parsed numbers.
const (
	OpContains    Operator = "contains"
	OpEquals      Operator = "equals"
	OpStartsWith  Operator = "starts_with"
	OpEndsWith    Operator = "ends_with"
	OpGreaterThan Operator = "gt"
	OpLessThan    Operator = "lt"
)

// ParseOperator validates an operator string from an untyped boundary.
func ParseOperator(s string) (Operator, bool) {
	switch Operator(s) {
	case OpContains, OpEquals, OpStartsWith, OpEndsWith, OpGreaterThan, OpLessThan:
		return Operator(s), true
	}
	return "", false
}

// ActionType identifies what a rule action does to a matched record.
type ActionType string

// Rule action constants.
const (
	ActionSetStatus    ActionType = "set_status"
	ActionAddLabel     ActionType = "add_label"
	ActionDeleteRecord ActionType = "delete_record"
)

// ParseActionType validates an action type string from an untyped boundary.
func ParseActionType(s string) (ActionType, bool) {
	switch ActionType(s) {
	case ActionSetStatus, ActionAddLabel, ActionDeleteRecord:
		return ActionType(s), true
	}
	return "", false
}

// LogicMode controls how a rule combines multiple conditions.
type LogicMode string

// Logic mode constants.
const (
	LogicAnd LogicMode = "and"
	LogicOr  LogicMode = "or"
)

// ParseLogicMode normalizes a logic mode string, defaulting to AND.
func ParseLogicMode(s string) LogicMode {
	if strings.EqualFold(s, string(LogicOr)) {
		return LogicOr
	}
	return LogicAnd
}

// Condition is a single field comparison within a rule.
type Condition struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    string   `json:"value"`
}

// Action is a single mutation a rule applies to a matched record.
type Action struct {
	Type  ActionType `json:"action_type"`
	Value string     `json:"value"`
}

// Rule matches records by its conditions and applies its actions in order.
type Rule struct {
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Conditions []Condition `json:"conditions"`
	Actions    []Action    `json:"actions"`
	Logic      LogicMode   `json:"logic"`
	IsActive   bool        `json:"is_active"`
}
