// api/translate/translator.go

// Package translate renders conditions and groups as plain-English
// sentences. Translation is pure: the same condition always yields
// the same text.
package translate

import (
	"fmt"
	"strings"

	"github.com/conditioncraft/composer/api/catalog"
	"github.com/conditioncraft/composer/api/model"
)

// EmptyGroupSentence is what an unconstrained policy reads as.
const EmptyGroupSentence = "This policy applies to everyone, at any time, from anywhere."

// phrases maps "{attributeId}:{operatorId}" to a sentence template
// with a single {value} placeholder. Pairs without an entry fall back
// to "{attributeLabel} {operatorLabel} {formattedValue}".
var phrases = map[string]string{
	"user_email:equals":     "User's email is {value}",
	"user_email:not_equals": "User's email is not {value}",
	"user_email:in":         "User's email is one of {value}",
	"user_email:not_in":     "User's email is none of {value}",

	"user_email_domain:equals":     "User's email domain is {value}",
	"user_email_domain:not_equals": "User's email domain is not {value}",
	"user_email_domain:in":         "User's email domain is one of {value}",

	"user_role:equals":     "User's role is {value}",
	"user_role:not_equals": "User's role is not {value}",
	"user_role:in":         "User's role is one of {value}",
	"user_role:not_in":     "User's role is none of {value}",

	"user_teams:in":     "User belongs to {value}",
	"user_teams:not_in": "User does not belong to {value}",

	"user_mfa:equals": "Multi-factor enrollment is {value}",

	"resource_project:equals":     "Project is {value}",
	"resource_project:not_equals": "Project is not {value}",

	"resource_datasets:in":     "Dataset is one of {value}",
	"resource_datasets:not_in": "Dataset is none of {value}",

	"resource_environment:equals":     "Environment is {value}",
	"resource_environment:not_equals": "Environment is not {value}",
	"resource_environment:in":         "Environment is one of {value}",

	"resource_status:equals":     "Resource status is {value}",
	"resource_status:not_equals": "Resource status is not {value}",

	"resource_tag:equals":   "Resource tag is {value}",
	"resource_tag:contains": "Resource tag contains {value}",

	"time_hours:between":     "Access time is {value}",
	"time_hours:not_between": "Access time is outside {value}",

	"time_hour:equals":       "Hour of day is {value}",
	"time_hour:greater_than": "Hour of day is after {value}",
	"time_hour:less_than":    "Hour of day is before {value}",

	"time_days:in":     "Access is allowed on {value}",
	"time_days:not_in": "Access is not allowed on {value}",

	"location_ip:in_range":     "Request IP is within {value}",
	"location_ip:not_in_range": "Request IP is outside {value}",

	"location_country:equals":     "Request country is {value}",
	"location_country:not_equals": "Request country is not {value}",
	"location_country:in":         "Request country is one of {value}",

	"location_network:equals":     "Request comes from {value}",
	"location_network:not_equals": "Request does not come from {value}",
}

// TranslateCondition renders one condition as a sentence.
func TranslateCondition(cond model.PolicyCondition) string {
	if cond.Attribute == "" {
		return "(incomplete condition)"
	}

	var attrPtr *catalog.AttributeDefinition
	attrLabel := cond.Attribute
	if attr, ok := catalog.AttributeByID(cond.Attribute); ok {
		attrPtr = &attr
		attrLabel = attr.Label
	}

	opLabel := cond.Operator
	if op, ok := catalog.OperatorByID(cond.Operator); ok {
		opLabel = op.Label
	}

	if phrase, ok := phrases[cond.Attribute+":"+cond.Operator]; ok {
		return strings.ReplaceAll(phrase, "{value}", FormatValue(attrPtr, cond.Value))
	}

	// Presence operators carry no value worth printing.
	if catalog.IsPresenceOperator(cond.Operator) {
		return fmt.Sprintf("%s %s", attrLabel, opLabel)
	}

	return fmt.Sprintf("%s %s %s", attrLabel, opLabel, FormatValue(attrPtr, cond.Value))
}

// TranslateGroup renders a whole group: a fixed sentence when empty,
// a single inline sentence for one condition, and an ALL/ANY header
// with bullets when there are several. Condition order is preserved.
func TranslateGroup(group model.ConditionGroup) string {
	switch len(group.Conditions) {
	case 0:
		return EmptyGroupSentence
	case 1:
		return "Access is granted when: " + TranslateCondition(group.Conditions[0])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Access is granted when %s of these are true:",
		strings.ToUpper(string(group.Logic)))
	for _, cond := range group.Conditions {
		b.WriteString("\n• ")
		b.WriteString(TranslateCondition(cond))
	}
	return b.String()
}
