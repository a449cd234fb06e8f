// api/validation/validator_test.go
package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conditioncraft/composer/api/model"
	"github.com/conditioncraft/composer/api/validation"
)

func condWith(attribute, operator string, value model.ConditionValue) model.PolicyCondition {
	return model.PolicyCondition{
		ID:        "c1",
		Category:  model.CategoryWho,
		Attribute: attribute,
		Operator:  operator,
		Value:     value,
	}
}

func TestMissingAttribute(t *testing.T) {
	result := validation.ValidateCondition(condWith("", "equals", model.StringValue("x")))
	assert.False(t, result.IsValid)
	assert.Equal(t, []string{validation.MsgSelectAttribute}, result.Errors)
}

func TestUnknownAttribute(t *testing.T) {
	result := validation.ValidateCondition(condWith("nope", "equals", model.StringValue("x")))
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "nope")
}

func TestEmptyValueMessages(t *testing.T) {
	tests := []struct {
		name string
		cond model.PolicyCondition
		want string
	}{
		{"scalar", condWith("user_email", "equals", model.StringValue("")), validation.MsgEnterValue},
		{"list", condWith("user_email", "in", model.StringListValue{}), validation.MsgSelectValues},
		{"days", condWith("time_days", "in", model.NumberListValue{}), validation.MsgSelectValues},
		{"resource", condWith("resource_project", "equals", model.StringValue("")), validation.MsgSelectResource},
		{"resource no selection", condWith("resource_datasets", "in", model.NewResourceReference("dataset", model.ResourceSelector{})), validation.MsgSelectResource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validation.ValidateCondition(tt.cond)
			assert.False(t, result.IsValid)
			assert.Equal(t, []string{tt.want}, result.Errors)
		})
	}
}

func TestPresenceOperatorSkipsValueChecks(t *testing.T) {
	result := validation.ValidateCondition(condWith("resource_tag", "exists", nil))
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)

	result = validation.ValidateCondition(condWith("resource_tag", "not_exists", model.StringValue("")))
	assert.True(t, result.IsValid)
}

func TestOperatorMismatchIsWarningOnly(t *testing.T) {
	result := validation.ValidateCondition(condWith("user_email", "greater_than", model.StringValue("a@b.co")))
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "greater_than")
}

func TestEmailValidation(t *testing.T) {
	valid := []string{"a@b.co", "first.last@sub.example.com"}
	for _, s := range valid {
		result := validation.ValidateCondition(condWith("user_email", "equals", model.StringValue(s)))
		assert.True(t, result.IsValid, s)
	}

	invalid := []string{"not-an-email", "a@b", "a b@c.co", "@example.com"}
	for _, s := range invalid {
		result := validation.ValidateCondition(condWith("user_email", "equals", model.StringValue(s)))
		assert.False(t, result.IsValid, s)
	}
}

func TestEmailListFailsOnFirstBadEntry(t *testing.T) {
	result := validation.ValidateCondition(condWith("user_email", "in",
		model.StringListValue{"good@example.com", "bad", "also-bad"}))
	assert.False(t, result.IsValid)
	assert.Len(t, result.Errors, 1)
}

func TestEmailDomainValidation(t *testing.T) {
	result := validation.ValidateCondition(condWith("user_email_domain", "equals", model.StringValue("@example.com")))
	assert.True(t, result.IsValid)

	for _, s := range []string{"example.com", "@example", "@.com"} {
		result := validation.ValidateCondition(condWith("user_email_domain", "equals", model.StringValue(s)))
		assert.False(t, result.IsValid, s)
	}
}

func TestIPRangeValidation(t *testing.T) {
	valid := []string{"10.0.0.1", "10.0.0.0/8", "255.255.255.255", "192.168.1.0/24", "0.0.0.0/0"}
	for _, s := range valid {
		assert.True(t, validation.ValidIPv4Range(s), s)
	}

	invalid := []string{"256.0.0.1", "10.0.0", "10.0.0.0.0", "10.00.0.1", "10.0.0.0/33", "10.0.0.0/", "a.b.c.d"}
	for _, s := range invalid {
		assert.False(t, validation.ValidIPv4Range(s), s)
	}

	result := validation.ValidateCondition(condWith("location_ip", "in_range", model.StringValue("10.0.0.0/8")))
	assert.True(t, result.IsValid)
	result = validation.ValidateCondition(condWith("location_ip", "in_range", model.StringListValue{"10.0.0.0/8", "999.0.0.1"}))
	assert.False(t, result.IsValid)
}

func TestTimeRangeValidation(t *testing.T) {
	good := model.TimeRangeValue{StartHour: 9, EndHour: 17, Days: []int{1, 2, 3}}
	result := validation.ValidateCondition(condWith("time_hours", "between", good))
	assert.True(t, result.IsValid)

	badHour := model.TimeRangeValue{StartHour: 24, EndHour: 17, Days: []int{1}}
	result = validation.ValidateCondition(condWith("time_hours", "between", badHour))
	assert.False(t, result.IsValid)

	noDays := model.TimeRangeValue{StartHour: 9, EndHour: 17}
	result = validation.ValidateCondition(condWith("time_hours", "between", noDays))
	assert.False(t, result.IsValid)

	badDay := model.TimeRangeValue{StartHour: 9, EndHour: 17, Days: []int{7}}
	result = validation.ValidateCondition(condWith("time_hours", "between", badDay))
	assert.False(t, result.IsValid)
}

func TestHourOfDayBounds(t *testing.T) {
	result := validation.ValidateCondition(condWith("time_hour", "equals", model.NumberValue(23)))
	assert.True(t, result.IsValid)

	result = validation.ValidateCondition(condWith("time_hour", "equals", model.NumberValue(24)))
	assert.False(t, result.IsValid)

	// Numeric strings are tolerated.
	result = validation.ValidateCondition(condWith("time_hour", "equals", model.StringValue("9")))
	assert.True(t, result.IsValid)

	result = validation.ValidateCondition(condWith("time_hour", "equals", model.StringValue("noon")))
	assert.False(t, result.IsValid)
}

func TestDaysValidation(t *testing.T) {
	result := validation.ValidateCondition(condWith("time_days", "in", model.NumberListValue{0, 6}))
	assert.True(t, result.IsValid)

	result = validation.ValidateCondition(condWith("time_days", "in", model.NumberListValue{1, 9}))
	assert.False(t, result.IsValid)
}

func TestCountryPattern(t *testing.T) {
	result := validation.ValidateCondition(condWith("location_country", "equals", model.StringValue("DE")))
	assert.True(t, result.IsValid)

	result = validation.ValidateCondition(condWith("location_country", "equals", model.StringValue("Germany")))
	assert.False(t, result.IsValid)
	assert.Equal(t, []string{"Enter a two-letter country code"}, result.Errors)
}

func TestStaleResourceDisplayWarns(t *testing.T) {
	ref := model.NewResourceReference("project", model.ResourceSelector{ID: "p-1"})
	ref.Display = &model.ResourceDisplay{Name: "Old name", Status: "orphaned"}

	result := validation.ValidateCondition(condWith("resource_project", "equals", ref))
	assert.True(t, result.IsValid)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "no longer exists")
}

func TestValidateGroupAggregatesByID(t *testing.T) {
	group := model.ConditionGroup{
		Logic: model.LogicAll,
		Conditions: []model.PolicyCondition{
			{ID: "ok", Category: model.CategoryWho, Attribute: "user_email", Operator: "equals", Value: model.StringValue("a@b.co")},
			{ID: "bad", Category: model.CategoryWho, Attribute: "", Operator: "equals", Value: model.StringValue("")},
			{ID: "warn", Category: model.CategoryWho, Attribute: "user_email", Operator: "greater_than", Value: model.StringValue("a@b.co")},
		},
	}

	result := validation.ValidateGroup(group)
	assert.False(t, result.IsValid)
	assert.NotContains(t, result.ErrorsByID, "ok")
	assert.Equal(t, []string{validation.MsgSelectAttribute}, result.ErrorsByID["bad"])
	assert.NotContains(t, result.ErrorsByID, "warn")
	assert.Len(t, result.WarningsByID["warn"], 1)
}
