// api/builder/builder_test.go
package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conditioncraft/composer/api/builder"
	"github.com/conditioncraft/composer/api/model"
)

func TestAddDefaults(t *testing.T) {
	b := builder.New()
	cond := b.Add()

	assert.NotEmpty(t, cond.ID)
	assert.Equal(t, model.CategoryWho, cond.Category)
	assert.Equal(t, "", cond.Attribute)
	assert.Equal(t, "equals", cond.Operator)
	assert.Equal(t, model.StringValue(""), cond.Value)
	assert.True(t, b.Dirty())
}

func TestSetCategoryResetsEverything(t *testing.T) {
	b := builder.New()
	cond := b.Add()
	b.SetAttribute(cond.ID, "user_email")
	b.SetValue(cond.ID, model.StringValue("a@b.co"))

	b.SetCategory(cond.ID, model.CategoryWhen)

	got := b.Snapshot().Conditions[0]
	assert.Equal(t, model.CategoryWhen, got.Category)
	assert.Equal(t, "", got.Attribute)
	assert.Equal(t, "equals", got.Operator)
	assert.Equal(t, model.StringValue(""), got.Value)
}

func TestSetAttributeResetsOperatorAndValue(t *testing.T) {
	b := builder.New()
	cond := b.Add()
	b.SetOperator(cond.ID, "not_equals")
	b.SetValue(cond.ID, model.StringValue("stale"))

	b.SetAttribute(cond.ID, "time_hours")

	got := b.Snapshot().Conditions[0]
	assert.Equal(t, "time_hours", got.Attribute)
	// First operator applicable to time ranges.
	assert.Equal(t, "between", got.Operator)
	assert.Equal(t, model.StringValue(""), got.Value)
}

func TestSetAttributeBooleanDefaultsFalse(t *testing.T) {
	b := builder.New()
	cond := b.Add()

	b.SetAttribute(cond.ID, "user_mfa")

	got := b.Snapshot().Conditions[0]
	assert.Equal(t, model.BoolValue(false), got.Value)
}

func TestSetOperatorLeavesValueAlone(t *testing.T) {
	b := builder.New()
	cond := b.Add()
	b.SetAttribute(cond.ID, "user_email")
	b.SetValue(cond.ID, model.StringValue("a@b.co"))

	b.SetOperator(cond.ID, "not_equals")

	got := b.Snapshot().Conditions[0]
	assert.Equal(t, "not_equals", got.Operator)
	assert.Equal(t, model.StringValue("a@b.co"), got.Value)
}

func TestAbsentIDIsSilentNoOp(t *testing.T) {
	b := builder.New()
	b.Add()

	notified := 0
	b.Subscribe(func(model.ConditionGroup) { notified++ })

	b.Remove("missing")
	b.SetCategory("missing", model.CategoryWhere)
	b.SetAttribute("missing", "user_email")
	b.SetOperator("missing", "in")
	b.SetValue("missing", model.StringValue("x"))

	assert.Equal(t, 0, notified)
	assert.Len(t, b.Snapshot().Conditions, 1)
}

func TestSubscribeIsSilentUntilMutation(t *testing.T) {
	b := builder.New()
	notified := 0
	b.Subscribe(func(model.ConditionGroup) { notified++ })
	assert.Equal(t, 0, notified)

	cond := b.Add()
	assert.Equal(t, 1, notified)
	b.SetAttribute(cond.ID, "user_role")
	assert.Equal(t, 2, notified)
	b.Remove(cond.ID)
	assert.Equal(t, 3, notified)
}

func TestNewFromGroupIsNotDirty(t *testing.T) {
	group := model.ConditionGroup{
		Logic: model.LogicAny,
		Conditions: []model.PolicyCondition{
			{ID: "c1", Category: model.CategoryWho, Attribute: "user_email", Operator: "equals", Value: model.StringValue("a@b.co")},
		},
	}
	b := builder.NewFromGroup(group)

	assert.False(t, b.Dirty())
	assert.Equal(t, model.LogicAny, b.Snapshot().Logic)

	b.SetLogic(model.LogicAll)
	assert.True(t, b.Dirty())
}

func TestApplyTemplateAppends(t *testing.T) {
	b := builder.New()
	existing := b.Add()

	require.NoError(t, b.ApplyTemplate("business-hours"))

	conds := b.Snapshot().Conditions
	require.Len(t, conds, 2)
	assert.Equal(t, existing.ID, conds[0].ID)

	seeded := conds[1]
	assert.NotEmpty(t, seeded.ID)
	assert.NotEqual(t, existing.ID, seeded.ID)
	assert.Equal(t, model.CategoryWhen, seeded.Category)
	assert.Equal(t, "time_hours", seeded.Attribute)
	assert.Equal(t, "between", seeded.Operator)

	tr, ok := seeded.Value.(model.TimeRangeValue)
	require.True(t, ok)
	assert.Equal(t, 9, tr.StartHour)
	assert.Equal(t, 17, tr.EndHour)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, tr.Days)
}

func TestApplyTemplateUnknownID(t *testing.T) {
	b := builder.New()
	err := b.ApplyTemplate("no-such-template")
	assert.Error(t, err)
	assert.Empty(t, b.Snapshot().Conditions)
}

func TestApplyTemplateCommitsOnce(t *testing.T) {
	b := builder.New()
	notified := 0
	b.Subscribe(func(model.ConditionGroup) { notified++ })

	// production-lockdown seeds two conditions.
	require.NoError(t, b.ApplyTemplate("production-lockdown"))

	assert.Equal(t, 1, notified)
	assert.Len(t, b.Snapshot().Conditions, 2)
}

func TestClearAndReplaceAll(t *testing.T) {
	b := builder.New()
	b.Add()
	b.Add()

	b.Clear()
	assert.Empty(t, b.Snapshot().Conditions)

	replacement := []model.PolicyCondition{
		{ID: "keep-me", Category: model.CategoryWhat, Attribute: "resource_status", Operator: "equals", Value: model.StringValue("active")},
	}
	b.ReplaceAll(replacement)

	conds := b.Snapshot().Conditions
	require.Len(t, conds, 1)
	assert.Equal(t, "keep-me", conds[0].ID)
}

func TestReplaceAllRoundTripsSnapshot(t *testing.T) {
	b := builder.New()
	cond := b.Add()
	b.SetAttribute(cond.ID, "user_email")
	b.SetValue(cond.ID, model.StringValue("john@company.com"))
	require.NoError(t, b.ApplyTemplate("business-hours"))

	before := b.Snapshot()

	b.ReplaceAll(before.Conditions)

	after := b.Snapshot()
	assert.Equal(t, before.Logic, after.Logic)
	require.Len(t, after.Conditions, len(before.Conditions))
	for i, want := range before.Conditions {
		assert.Equal(t, want, after.Conditions[i])
	}
	assert.Contains(t, b.TranslateGroup(), "User's email is john@company.com")
}

func TestSnapshotIsACopy(t *testing.T) {
	b := builder.New()
	cond := b.Add()

	snap := b.Snapshot()
	snap.Conditions[0].Attribute = "mutated"

	assert.Equal(t, "", b.Snapshot().Conditions[0].Attribute)
	b.Remove(cond.ID)
	assert.Len(t, snap.Conditions, 1)
}
