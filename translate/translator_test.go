// api/translate/translator_test.go
package translate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/conditioncraft/composer/api/model"
	"github.com/conditioncraft/composer/api/translate"
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

func TestPhraseTable(t *testing.T) {
	tests := []struct {
		name string
		cond model.PolicyCondition
		want string
	}{
		{
			"email equals",
			condWith("user_email", "equals", model.StringValue("jane@acme.io")),
			"User's email is jane@acme.io",
		},
		{
			"email list",
			condWith("user_email", "in", model.StringListValue{"a@b.co", "c@d.co"}),
			"User's email is one of a@b.co, c@d.co",
		},
		{
			"role enum label",
			condWith("user_role", "equals", model.StringValue("service_account")),
			"User's role is Service account",
		},
		{
			"time range",
			condWith("time_hours", "between", model.TimeRangeValue{StartHour: 9, EndHour: 17, Days: []int{1, 2, 3, 4, 5}}),
			"Access time is 9 AM to 5 PM on weekdays",
		},
		{
			"days",
			condWith("time_days", "in", model.NumberListValue{0, 6}),
			"Access is allowed on weekends",
		},
		{
			"empty value placeholder",
			condWith("user_email", "equals", model.StringValue("")),
			"User's email is [not set]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, translate.TranslateCondition(tt.cond))
		})
	}
}

func TestFallbackSentence(t *testing.T) {
	// No phrase entry for this pair; labels are composed instead.
	got := translate.TranslateCondition(condWith("resource_tag", "not_exists", nil))
	assert.Equal(t, "Resource tag is not set", got)

	got = translate.TranslateCondition(condWith("location_network", "equals", model.StringValue("vpn")))
	assert.Equal(t, "Request comes from VPN", got)
}

func TestIncompleteCondition(t *testing.T) {
	got := translate.TranslateCondition(condWith("", "equals", model.StringValue("")))
	assert.Equal(t, "(incomplete condition)", got)
}

func TestTranslateGroupEmpty(t *testing.T) {
	got := translate.TranslateGroup(model.ConditionGroup{Logic: model.LogicAll})
	assert.Equal(t, "This policy applies to everyone, at any time, from anywhere.", got)
}

func TestTranslateGroupSingle(t *testing.T) {
	group := model.ConditionGroup{
		Logic: model.LogicAll,
		Conditions: []model.PolicyCondition{
			condWith("user_email", "equals", model.StringValue("jane@acme.io")),
		},
	}
	assert.Equal(t, "Access is granted when: User's email is jane@acme.io", translate.TranslateGroup(group))
}

func TestTranslateGroupBullets(t *testing.T) {
	group := model.ConditionGroup{
		Logic: model.LogicAny,
		Conditions: []model.PolicyCondition{
			condWith("user_role", "equals", model.StringValue("admin")),
			condWith("user_mfa", "equals", model.BoolValue(true)),
		},
	}
	want := "Access is granted when ANY of these are true:\n" +
		"• User's role is Administrator\n" +
		"• Multi-factor enrollment is true"
	assert.Equal(t, want, translate.TranslateGroup(group))
}

func TestTranslationIsPure(t *testing.T) {
	cond := condWith("time_hours", "between", model.TimeRangeValue{StartHour: 0, EndHour: 12, Days: []int{1}})
	first := translate.TranslateCondition(cond)
	second := translate.TranslateCondition(cond)
	assert.Equal(t, first, second)
	assert.Equal(t, "Access time is 12 AM to 12 PM on Monday", first)
}

func TestFormatDays(t *testing.T) {
	tests := []struct {
		days []int
		want string
	}{
		{[]int{0, 1, 2, 3, 4, 5, 6}, "every day"},
		{[]int{1, 2, 3, 4, 5}, "weekdays"},
		{[]int{5, 4, 3, 2, 1}, "weekdays"},
		{[]int{0, 6}, "weekends"},
		{[]int{1, 3, 5}, "Monday, Wednesday, Friday"},
		{[]int{2, 2, 2}, "Tuesday"},
		{nil, "no days"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, translate.FormatDays(tt.days))
	}
}

func TestFormatResource(t *testing.T) {
	ref := model.NewResourceReference("project", model.ResourceSelector{ID: "p-1"})
	assert.Equal(t, "p-1", translate.FormatValue(nil, ref))

	ref.Display = &model.ResourceDisplay{Name: "Apollo"}
	assert.Equal(t, "Apollo", translate.FormatValue(nil, ref))

	multi := model.NewResourceReference("dataset", model.ResourceSelector{IDs: []string{"d1", "d2", "d3"}})
	assert.Equal(t, "3 selected", translate.FormatValue(nil, multi))

	empty := model.NewResourceReference("project", model.ResourceSelector{})
	assert.Equal(t, "[select resource]", translate.FormatValue(nil, empty))
}
