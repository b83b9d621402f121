package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshsymonds/paper-trail/internal/common"
	"github.com/joshsymonds/paper-trail/internal/model"
)

func sampleRule(name string) *model.Rule {
	return &model.Rule{
		Name: name,
		Conditions: []model.Condition{
			{Field: "sender_email", Operator: model.OpContains, Value: "amazon"},
		},
		Actions: []model.Action{
			{Type: model.ActionAddLabel, Value: "Business"},
		},
		Logic:    model.LogicAnd,
		IsActive: true,
	}
}

func TestCreateRule_AssignsIDAndRoundTrips(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	rule := sampleRule("tag amazon")
	require.NoError(t, store.CreateRule(ctx, rule))
	require.NotEmpty(t, rule.ID)

	got, err := store.GetRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, "tag amazon", got.Name)
	assert.Equal(t, rule.Conditions, got.Conditions)
	assert.Equal(t, rule.Actions, got.Actions)
	assert.Equal(t, model.LogicAnd, got.Logic)
	assert.True(t, got.IsActive)
}

func TestCreateRule_DuplicateID(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	rule := sampleRule("original")
	require.NoError(t, store.CreateRule(ctx, rule))

	clash := sampleRule("pretender")
	clash.ID = rule.ID
	assert.ErrorIs(t, store.CreateRule(ctx, clash), common.ErrDuplicateEntry)
}

func TestCreateRule_RejectsMissingName(t *testing.T) {
	store := newTestStorage(t)

	err := store.CreateRule(context.Background(), &model.Rule{Name: "  "})
	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestListRules_PreservesCreationOrder(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, store.CreateRule(ctx, sampleRule(fmt.Sprintf("rule %d", i))))
	}

	ruleset, err := store.ListRules(ctx)
	require.NoError(t, err)
	require.Len(t, ruleset, 3)
	assert.Equal(t, "rule 1", ruleset[0].Name)
	assert.Equal(t, "rule 2", ruleset[1].Name)
	assert.Equal(t, "rule 3", ruleset[2].Name)
}

func TestListActiveRules_SkipsDisabled(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	active := sampleRule("active")
	dormant := sampleRule("dormant")
	require.NoError(t, store.CreateRule(ctx, active))
	require.NoError(t, store.CreateRule(ctx, dormant))
	require.NoError(t, store.SetRuleActive(ctx, dormant.ID, false))

	ruleset, err := store.ListActiveRules(ctx)
	require.NoError(t, err)
	require.Len(t, ruleset, 1)
	assert.Equal(t, "active", ruleset[0].Name)

	all, err := store.ListRules(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSetRuleActive_ReEnables(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	rule := sampleRule("toggled")
	require.NoError(t, store.CreateRule(ctx, rule))
	require.NoError(t, store.SetRuleActive(ctx, rule.ID, false))
	require.NoError(t, store.SetRuleActive(ctx, rule.ID, true))

	got, err := store.GetRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestDeleteRule(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	rule := sampleRule("short lived")
	require.NoError(t, store.CreateRule(ctx, rule))
	require.NoError(t, store.DeleteRule(ctx, rule.ID))

	_, err := store.GetRule(ctx, rule.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, store.DeleteRule(ctx, rule.ID), common.ErrNotFound)
}

func TestCreateRule_NormalizesLogic(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	rule := sampleRule("defaulted logic")
	rule.Logic = ""
	require.NoError(t, store.CreateRule(ctx, rule))

	got, err := store.GetRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LogicAnd, got.Logic)
}
