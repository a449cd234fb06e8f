// api/translate/format.go
package translate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/conditioncraft/composer/api/catalog"
	"github.com/conditioncraft/composer/api/model"
)

const (
	notSet         = "[not set]"
	noneSelected   = "[none selected]"
	selectResource = "[select resource]"
)

var dayNames = []string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// FormatValue renders a condition value for a sentence. The attribute
// definition supplies enum labels and the days-of-week treatment; it
// may be nil for attributes outside the catalog.
func FormatValue(attr *catalog.AttributeDefinition, value model.ConditionValue) string {
	switch v := value.(type) {
	case nil:
		return notSet

	case model.StringValue:
		if v == "" {
			return notSet
		}
		if attr != nil && len(attr.EnumValues) > 0 {
			return attr.EnumLabel(string(v))
		}
		return string(v)

	case model.NumberValue:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)

	case model.BoolValue:
		return strconv.FormatBool(bool(v))

	case model.StringListValue:
		if len(v) == 0 {
			return noneSelected
		}
		if attr != nil && len(attr.EnumValues) > 0 {
			labels := make([]string, len(v))
			for i, entry := range v {
				labels[i] = attr.EnumLabel(entry)
			}
			return strings.Join(labels, ", ")
		}
		return strings.Join(v, ", ")

	case model.NumberListValue:
		if len(v) == 0 {
			return noneSelected
		}
		if attr != nil && attr.ValueType == catalog.TypeDaysOfWeek {
			return FormatDays(v)
		}
		parts := make([]string, len(v))
		for i, n := range v {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, ", ")

	case model.TimeRangeValue:
		return fmt.Sprintf("%s to %s on %s",
			formatClock(v.StartHour, v.StartMinute),
			formatClock(v.EndHour, v.EndMinute),
			FormatDays(v.Days))

	case model.ResourceReference:
		return formatResource(v)

	default:
		return notSet
	}
}

func formatResource(ref model.ResourceReference) string {
	if ref.Display != nil {
		if len(ref.Display.Names) > 0 {
			return strings.Join(ref.Display.Names, ", ")
		}
		if ref.Display.Name != "" {
			return ref.Display.Name
		}
	}
	if n := len(ref.Selector.IDs); n > 0 {
		return fmt.Sprintf("%d selected", n)
	}
	if ref.Selector.ID != "" {
		return ref.Selector.ID
	}
	return selectResource
}

// formatClock renders a 12-hour time; minutes are omitted on the
// hour, midnight is 12 AM and noon 12 PM.
func formatClock(hour, minute int) string {
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	if minute == 0 {
		return fmt.Sprintf("%d %s", display, suffix)
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, suffix)
}

// FormatDays collapses a weekday set into its common name when one
// exists, otherwise joins full day names in ascending order.
func FormatDays(days []int) string {
	if len(days) == 0 {
		return "no days"
	}

	seen := make(map[int]bool, len(days))
	sorted := make([]int, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 || seen[d] {
			continue
		}
		seen[d] = true
		sorted = append(sorted, d)
	}
	sort.Ints(sorted)

	switch {
	case len(sorted) == 7:
		return "every day"
	case len(sorted) == 5 && sorted[0] == 1 && sorted[4] == 5:
		return "weekdays"
	case len(sorted) == 2 && sorted[0] == 0 && sorted[1] == 6:
		return "weekends"
	case len(sorted) == 0:
		return "no days"
	}

	names := make([]string, len(sorted))
	for i, d := range sorted {
		names[i] = dayNames[d]
	}
	return strings.Join(names, ", ")
}
