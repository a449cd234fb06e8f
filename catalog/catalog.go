// api/catalog/catalog.go

// Package catalog holds the compiled-in attribute and operator
// registries. The data is immutable; changing it means shipping a new
// build. Lookups go through precomputed indexes built once at init.
package catalog

import (
	"regexp"

	"github.com/conditioncraft/composer/api/model"
)

// ValueType classifies the value shape an attribute accepts.
type ValueType string

const (
	TypeString      ValueType = "string"
	TypeNumber      ValueType = "number"
	TypeBoolean     ValueType = "boolean"
	TypeEmail       ValueType = "email"
	TypeEmailDomain ValueType = "email_domain"
	TypeIPRange     ValueType = "ip_range"
	TypeTimeRange   ValueType = "time_range"
	TypeResourceID  ValueType = "resource_id"
	TypeResourceIDs ValueType = "resource_ids"
	TypeTeamIDs     ValueType = "team_ids"
	TypeRole        ValueType = "role"
	TypeEnvironment ValueType = "environment"
	TypeStatus      ValueType = "status"
	TypeDaysOfWeek  ValueType = "days_of_week"
)

// EnumValue is one allowed value of an enumerated attribute, with the
// label the translator renders.
type EnumValue struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// AttributeDefinition describes one attribute administrators can
// build conditions on.
type AttributeDefinition struct {
	ID           string         `json:"id"`
	Path         string         `json:"path"` // dotted attribute path, e.g. "user.email"
	Label        string         `json:"label"`
	Description  string         `json:"description"`
	Category     model.Category `json:"category"`
	ValueType    ValueType      `json:"value_type"`
	Operators    []string       `json:"operators"`
	ResourceType string         `json:"resource_type,omitempty"`
	EnumValues   []EnumValue    `json:"enum_values,omitempty"`
	Pattern      *regexp.Regexp `json:"-"`
	PatternHint  string         `json:"pattern_hint,omitempty"`
}

// AllowsOperator reports whether the attribute declares the operator.
func (a AttributeDefinition) AllowsOperator(operatorID string) bool {
	for _, op := range a.Operators {
		if op == operatorID {
			return true
		}
	}
	return false
}

// EnumLabel resolves an enum value to its label, falling back to the
// raw value for anything not declared.
func (a AttributeDefinition) EnumLabel(value string) string {
	for _, ev := range a.EnumValues {
		if ev.Value == value {
			return ev.Label
		}
	}
	return value
}

// OperatorDefinition describes one comparison operator and the value
// types it applies to.
type OperatorDefinition struct {
	ID         string      `json:"id"`
	Label      string      `json:"label"`
	ValueTypes []ValueType `json:"value_types"`
}

func (o OperatorDefinition) appliesTo(vt ValueType) bool {
	for _, t := range o.ValueTypes {
		if t == vt {
			return true
		}
	}
	return false
}

var (
	attributesByID       map[string]AttributeDefinition
	attributesByCategory map[model.Category][]AttributeDefinition
	operatorsByID        map[string]OperatorDefinition
	operatorsByType      map[ValueType][]OperatorDefinition
)

func init() {
	attributesByID = make(map[string]AttributeDefinition, len(attributes))
	attributesByCategory = make(map[model.Category][]AttributeDefinition)
	for _, attr := range attributes {
		attributesByID[attr.ID] = attr
		attributesByCategory[attr.Category] = append(attributesByCategory[attr.Category], attr)
	}

	operatorsByID = make(map[string]OperatorDefinition, len(operators))
	operatorsByType = make(map[ValueType][]OperatorDefinition)
	for _, op := range operators {
		operatorsByID[op.ID] = op
		for _, vt := range op.ValueTypes {
			operatorsByType[vt] = append(operatorsByType[vt], op)
		}
	}
}

// AttributeByID looks up a single attribute definition.
func AttributeByID(id string) (AttributeDefinition, bool) {
	attr, ok := attributesByID[id]
	return attr, ok
}

// AttributesByCategory returns the attributes of one category in
// declaration order. The returned slice is a copy.
func AttributesByCategory(category model.Category) []AttributeDefinition {
	defs := attributesByCategory[category]
	out := make([]AttributeDefinition, len(defs))
	copy(out, defs)
	return out
}

// Attributes returns every attribute definition in declaration order.
func Attributes() []AttributeDefinition {
	out := make([]AttributeDefinition, len(attributes))
	copy(out, attributes)
	return out
}

// Operators returns every operator definition in declaration order.
func Operators() []OperatorDefinition {
	out := make([]OperatorDefinition, len(operators))
	copy(out, operators)
	return out
}

// OperatorByID looks up a single operator definition.
func OperatorByID(id string) (OperatorDefinition, bool) {
	op, ok := operatorsByID[id]
	return op, ok
}

// OperatorsForType returns the operators applicable to a value type,
// in declaration order. The first entry is the default operator a
// builder assigns when the attribute changes.
func OperatorsForType(vt ValueType) []OperatorDefinition {
	defs := operatorsByType[vt]
	out := make([]OperatorDefinition, len(defs))
	copy(out, defs)
	return out
}

// DefaultOperatorForType returns the operator a freshly selected
// attribute of the given type starts with.
func DefaultOperatorForType(vt ValueType) string {
	defs := operatorsByType[vt]
	if len(defs) == 0 {
		return OperatorEquals
	}
	return defs[0].ID
}
