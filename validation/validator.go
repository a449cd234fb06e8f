// api/validation/validator.go

// Package validation checks composed conditions for correctness.
// Structural rules run first; the first blocking failure for a
// condition short-circuits everything after it. Warnings are advisory
// and never block.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/conditioncraft/composer/api/catalog"
	"github.com/conditioncraft/composer/api/model"
)

const (
	MsgSelectAttribute = "Select an attribute"
	MsgEnterValue      = "Enter a value"
	MsgSelectValues    = "Select at least one value"
	MsgSelectResource  = "Select a resource"
)

var (
	emailPattern       = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	emailDomainPattern = regexp.MustCompile(`^@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// ValidateCondition runs structural then type-specific checks on one
// condition.
func ValidateCondition(cond model.PolicyCondition) model.ConditionValidation {
	result := model.ConditionValidation{IsValid: true}

	if cond.Attribute == "" {
		return fail(result, MsgSelectAttribute)
	}

	attr, known := catalog.AttributeByID(cond.Attribute)
	if !known {
		return fail(result, fmt.Sprintf("Unknown attribute %q", cond.Attribute))
	}

	// A mismatched operator is questionable, not fatal: templates and
	// operator changes can leave one behind and the decision engine
	// still accepts it.
	if cond.Operator != "" && !attr.AllowsOperator(cond.Operator) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Operator %q is unusual for %s", cond.Operator, attr.Label))
	}

	if catalog.IsPresenceOperator(cond.Operator) {
		return result
	}

	if model.IsValueEmpty(cond.Value) {
		switch {
		case isResourceType(attr.ValueType):
			return fail(result, MsgSelectResource)
		case isListValue(cond.Value) || attr.ValueType == catalog.TypeDaysOfWeek:
			return fail(result, MsgSelectValues)
		default:
			return fail(result, MsgEnterValue)
		}
	}

	return validateByType(attr, cond.Value, result)
}

// ValidateGroup validates every condition and aggregates the results
// by condition id.
func ValidateGroup(group model.ConditionGroup) model.GroupValidation {
	out := model.GroupValidation{
		IsValid:      true,
		ErrorsByID:   make(map[string][]string),
		WarningsByID: make(map[string][]string),
	}
	for _, cond := range group.Conditions {
		cv := ValidateCondition(cond)
		if len(cv.Errors) > 0 {
			out.ErrorsByID[cond.ID] = cv.Errors
			out.IsValid = false
		}
		if len(cv.Warnings) > 0 {
			out.WarningsByID[cond.ID] = cv.Warnings
		}
	}
	return out
}

func fail(result model.ConditionValidation, msg string) model.ConditionValidation {
	result.IsValid = false
	result.Errors = append(result.Errors, msg)
	return result
}

func isListValue(v model.ConditionValue) bool {
	switch v.(type) {
	case model.StringListValue, model.NumberListValue:
		return true
	default:
		return false
	}
}

func isResourceType(vt catalog.ValueType) bool {
	switch vt {
	case catalog.TypeResourceID, catalog.TypeResourceIDs, catalog.TypeTeamIDs:
		return true
	default:
		return false
	}
}

// validateByType runs the per-value-type layer. The value is known to
// be present at this point.
func validateByType(attr catalog.AttributeDefinition, value model.ConditionValue, result model.ConditionValidation) model.ConditionValidation {
	switch attr.ValueType {
	case catalog.TypeEmail:
		return validateStrings(value, result, func(s string) (string, bool) {
			if !emailPattern.MatchString(s) {
				return fmt.Sprintf("%q is not a valid email address", s), false
			}
			return "", true
		})

	case catalog.TypeEmailDomain:
		return validateStrings(value, result, func(s string) (string, bool) {
			if !emailDomainPattern.MatchString(s) {
				return fmt.Sprintf("%q is not a valid email domain (expected e.g. @example.com)", s), false
			}
			return "", true
		})

	case catalog.TypeIPRange:
		return validateStrings(value, result, func(s string) (string, bool) {
			if !ValidIPv4Range(s) {
				return fmt.Sprintf("%q is not a valid IPv4 address or CIDR range", s), false
			}
			return "", true
		})

	case catalog.TypeTimeRange:
		return validateTimeRange(value, result)

	case catalog.TypeResourceID, catalog.TypeResourceIDs, catalog.TypeTeamIDs:
		return validateResource(value, result)

	case catalog.TypeNumber:
		return validateNumber(attr, value, result)

	case catalog.TypeDaysOfWeek:
		return validateDays(value, result)

	default:
		if attr.Pattern != nil {
			if s, ok := value.(model.StringValue); ok && !attr.Pattern.MatchString(string(s)) {
				msg := attr.PatternHint
				if msg == "" {
					msg = fmt.Sprintf("%q does not match the expected format", string(s))
				}
				return fail(result, msg)
			}
		}
		return result
	}
}

// validateStrings applies a scalar check to a string value or to each
// entry of a string list, failing on the first bad entry.
func validateStrings(value model.ConditionValue, result model.ConditionValidation, check func(string) (string, bool)) model.ConditionValidation {
	switch v := value.(type) {
	case model.StringValue:
		if msg, ok := check(string(v)); !ok {
			return fail(result, msg)
		}
	case model.StringListValue:
		for _, entry := range v {
			if msg, ok := check(entry); !ok {
				return fail(result, msg)
			}
		}
	}
	return result
}

func validateTimeRange(value model.ConditionValue, result model.ConditionValidation) model.ConditionValidation {
	tr, ok := value.(model.TimeRangeValue)
	if !ok {
		return fail(result, "Select a time range")
	}
	if tr.StartHour < 0 || tr.StartHour > 23 || tr.EndHour < 0 || tr.EndHour > 23 {
		return fail(result, "Hours must be between 0 and 23")
	}
	if tr.StartMinute < 0 || tr.StartMinute > 59 || tr.EndMinute < 0 || tr.EndMinute > 59 {
		return fail(result, "Minutes must be between 0 and 59")
	}
	if len(tr.Days) == 0 {
		return fail(result, "Select at least one day")
	}
	for _, day := range tr.Days {
		if day < 0 || day > 6 {
			return fail(result, "Days must be between 0 (Sunday) and 6 (Saturday)")
		}
	}
	return result
}

func validateResource(value model.ConditionValue, result model.ConditionValidation) model.ConditionValidation {
	ref, ok := value.(model.ResourceReference)
	if !ok {
		// A raw id string is tolerated; presence was already checked.
		return result
	}
	if !ref.HasSelection() {
		return fail(result, MsgSelectResource)
	}
	if ref.Display != nil {
		switch model.ReferenceState(ref.Display.Status) {
		case model.ReferenceOrphaned:
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Referenced %s no longer exists", ref.Type))
		case model.ReferenceChanged:
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Referenced %s changed since it was selected", ref.Type))
		}
	}
	return result
}

func validateNumber(attr catalog.AttributeDefinition, value model.ConditionValue, result model.ConditionValidation) model.ConditionValidation {
	var n float64
	switch v := value.(type) {
	case model.NumberValue:
		n = float64(v)
	case model.StringValue:
		parsed, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return fail(result, "Enter a number")
		}
		n = parsed
	default:
		return fail(result, "Enter a number")
	}

	// Hour-of-day attributes constrain the numeric range.
	if attr.Path == "time.hour" && (n < 0 || n > 23) {
		return fail(result, "Enter an hour between 0 and 23")
	}
	return result
}

func validateDays(value model.ConditionValue, result model.ConditionValidation) model.ConditionValidation {
	days, ok := value.(model.NumberListValue)
	if !ok {
		return fail(result, MsgSelectValues)
	}
	if len(days) == 0 {
		return fail(result, MsgSelectValues)
	}
	for _, day := range days {
		if day < 0 || day > 6 {
			return fail(result, "Days must be between 0 (Sunday) and 6 (Saturday)")
		}
	}
	return result
}

// ValidIPv4Range reports whether s is a dotted-quad IPv4 address with
// canonical decimal octets, optionally suffixed with a /0-/32 prefix
// length.
func ValidIPv4Range(s string) bool {
	host, prefix, hasPrefix := strings.Cut(s, "/")

	octets := strings.Split(host, ".")
	if len(octets) != 4 {
		return false
	}
	for _, octet := range octets {
		if !canonicalDecimal(octet, 255) {
			return false
		}
	}

	if hasPrefix && !canonicalDecimal(prefix, 32) {
		return false
	}
	return true
}

// canonicalDecimal accepts decimal strings without leading zeros (a
// lone "0" is fine) up to max.
func canonicalDecimal(s string, max int) bool {
	if s == "" || len(s) > 3 {
		return false
	}
	if len(s) > 1 && s[0] == '0' {
		return false
	}
	n := 0
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
		n = n*10 + int(ch-'0')
	}
	return n <= max
}
