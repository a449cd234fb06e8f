// api/model/value.go
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ValueKind tags the concrete shape of a condition value.
type ValueKind string

const (
	KindString     ValueKind = "string"
	KindNumber     ValueKind = "number"
	KindBool       ValueKind = "bool"
	KindStringList ValueKind = "string_list"
	KindNumberList ValueKind = "number_list"
	KindTimeRange  ValueKind = "time_range"
	KindResource   ValueKind = "resource"
)

// ConditionValue is the polymorphic value carried by a PolicyCondition.
// It is a sealed sum: scalar, list, time range, or resource reference.
// Matching on Kind() keeps handling exhaustive instead of duck-typing
// on the underlying JSON shape.
type ConditionValue interface {
	Kind() ValueKind
	isConditionValue()
}

type StringValue string

func (StringValue) Kind() ValueKind   { return KindString }
func (StringValue) isConditionValue() {}

type NumberValue float64

func (NumberValue) Kind() ValueKind   { return KindNumber }
func (NumberValue) isConditionValue() {}

type BoolValue bool

func (BoolValue) Kind() ValueKind   { return KindBool }
func (BoolValue) isConditionValue() {}

type StringListValue []string

func (StringListValue) Kind() ValueKind   { return KindStringList }
func (StringListValue) isConditionValue() {}

// NumberListValue holds numeric multi-selects, e.g. weekday indices
// for a days_of_week attribute.
type NumberListValue []int

func (NumberListValue) Kind() ValueKind   { return KindNumberList }
func (NumberListValue) isConditionValue() {}

// TimeRangeValue is a recurring daily window. Hours are 0-23, minutes
// 0-59, days are weekday indices 0-6 with 0 = Sunday.
type TimeRangeValue struct {
	StartHour   int   `json:"startHour"`
	StartMinute int   `json:"startMinute"`
	EndHour     int   `json:"endHour"`
	EndMinute   int   `json:"endMinute"`
	Days        []int `json:"days"`
}

func (TimeRangeValue) Kind() ValueKind   { return KindTimeRange }
func (TimeRangeValue) isConditionValue() {}

// ResourceSelector is the authoritative identity of a resource
// reference. Exactly one of ID, IDs or Filter is normally set.
type ResourceSelector struct {
	ID     string            `json:"id,omitempty"`
	IDs    []string          `json:"ids,omitempty"`
	Filter map[string]string `json:"filter,omitempty"`
}

// ResourceDisplay is a cached, possibly stale resolution of a
// selector. It is never used to decide whether a resource is
// selected; only the selector is.
type ResourceDisplay struct {
	Name        string    `json:"name,omitempty"`
	Names       []string  `json:"names,omitempty"`
	Status      string    `json:"status,omitempty"`
	ValidatedAt time.Time `json:"validatedAt,omitempty"`
}

// ResourceReference points at external entities by id, carrying an
// optional display snapshot for rendering without a directory round
// trip.
type ResourceReference struct {
	RefKind  string           `json:"kind"`
	Type     string           `json:"type"`
	Selector ResourceSelector `json:"selector"`
	Display  *ResourceDisplay `json:"display,omitempty"`
}

func (ResourceReference) Kind() ValueKind   { return KindResource }
func (ResourceReference) isConditionValue() {}

const resourceRefKind = "resource"

// NewResourceReference builds a reference with the kind tag set.
func NewResourceReference(resourceType string, selector ResourceSelector) ResourceReference {
	return ResourceReference{
		RefKind:  resourceRefKind,
		Type:     resourceType,
		Selector: selector,
	}
}

// HasSelection reports whether the selector actually points at
// something: a single id or a non-empty id list. The display snapshot
// is deliberately ignored.
func (r ResourceReference) HasSelection() bool {
	return r.Selector.ID != "" || len(r.Selector.IDs) > 0
}

// IsValueEmpty reports whether a value counts as "missing" for
// structural validation: nil, empty string, empty list, or a resource
// reference with nothing selected.
func IsValueEmpty(v ConditionValue) bool {
	switch val := v.(type) {
	case nil:
		return true
	case StringValue:
		return val == ""
	case StringListValue:
		return len(val) == 0
	case NumberListValue:
		return len(val) == 0
	case ResourceReference:
		return !val.HasSelection()
	default:
		return false
	}
}

// DecodeValue parses the wire form of a condition value: bare JSON
// scalars and arrays, a time-range object, or a kind-tagged resource
// reference object.
func DecodeValue(raw json.RawMessage) (ConditionValue, error) {
	data := bytes.TrimSpace(raw)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to decode string value: %w", err)
		}
		return StringValue(s), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("failed to decode boolean value: %w", err)
		}
		return BoolValue(b), nil
	case '[':
		return decodeListValue(data)
	case '{':
		return decodeObjectValue(data)
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, fmt.Errorf("failed to decode numeric value: %w", err)
		}
		return NumberValue(n), nil
	}
}

func decodeListValue(data []byte) (ConditionValue, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("failed to decode list value: %w", err)
	}
	if len(elems) == 0 {
		return StringListValue{}, nil
	}

	first := bytes.TrimSpace(elems[0])
	if len(first) > 0 && (first[0] == '-' || (first[0] >= '0' && first[0] <= '9')) {
		var nums []int
		if err := json.Unmarshal(data, &nums); err != nil {
			return nil, fmt.Errorf("failed to decode numeric list value: %w", err)
		}
		return NumberListValue(nums), nil
	}

	var strs []string
	if err := json.Unmarshal(data, &strs); err != nil {
		return nil, fmt.Errorf("failed to decode string list value: %w", err)
	}
	return StringListValue(strs), nil
}

func decodeObjectValue(data []byte) (ConditionValue, error) {
	var probe struct {
		Kind      *string `json:"kind"`
		StartHour *int    `json:"startHour"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to probe object value: %w", err)
	}

	if probe.Kind != nil {
		if *probe.Kind != resourceRefKind {
			return nil, fmt.Errorf("unknown value kind: %s", *probe.Kind)
		}
		var ref ResourceReference
		if err := json.Unmarshal(data, &ref); err != nil {
			return nil, fmt.Errorf("failed to decode resource reference: %w", err)
		}
		return ref, nil
	}

	if probe.StartHour != nil {
		var tr TimeRangeValue
		if err := json.Unmarshal(data, &tr); err != nil {
			return nil, fmt.Errorf("failed to decode time range: %w", err)
		}
		return tr, nil
	}

	return nil, fmt.Errorf("unrecognized value object: %s", data)
}
