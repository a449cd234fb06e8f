// api/model/condition.go
package model

import (
	"encoding/json"
)

// Category buckets attributes by the question they answer about an
// access request.
type Category string

const (
	CategoryWho   Category = "who"
	CategoryWhat  Category = "what"
	CategoryWhen  Category = "when"
	CategoryWhere Category = "where"
)

// Categories lists all condition categories in display order.
func Categories() []Category {
	return []Category{CategoryWho, CategoryWhat, CategoryWhen, CategoryWhere}
}

// GroupLogic combines the conditions of a group.
type GroupLogic string

const (
	LogicAll GroupLogic = "all" // conjunction
	LogicAny GroupLogic = "any" // disjunction
)

// PolicyCondition is a single attribute test inside a policy. The
// attribute is a catalog id or empty while the condition is being
// composed.
type PolicyCondition struct {
	ID        string         `json:"id"`
	Category  Category       `json:"category"`
	Attribute string         `json:"attribute"`
	Operator  string         `json:"operator"`
	Value     ConditionValue `json:"value"`
}

func (c *PolicyCondition) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        string          `json:"id"`
		Category  Category        `json:"category"`
		Attribute string          `json:"attribute"`
		Operator  string          `json:"operator"`
		Value     json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	value, err := DecodeValue(raw.Value)
	if err != nil {
		return err
	}
	c.ID = raw.ID
	c.Category = raw.Category
	c.Attribute = raw.Attribute
	c.Operator = raw.Operator
	c.Value = value
	return nil
}

// ConditionGroup is an ordered list of conditions combined with ALL
// or ANY. Order is meaningful for translation and review.
type ConditionGroup struct {
	Logic      GroupLogic        `json:"logic"`
	Conditions []PolicyCondition `json:"conditions"`
}

// Clone returns a deep-enough copy: the slice is copied so the caller
// can hold the result across further mutations.
func (g ConditionGroup) Clone() ConditionGroup {
	out := ConditionGroup{Logic: g.Logic}
	if g.Conditions != nil {
		out.Conditions = make([]PolicyCondition, len(g.Conditions))
		copy(out.Conditions, g.Conditions)
	}
	return out
}

// ConditionPayload is the serialization of a condition at the
// validation and persistence boundaries: id and category are
// stripped, those boundaries are category-agnostic.
type ConditionPayload struct {
	Attribute string         `json:"attribute"`
	Operator  string         `json:"operator"`
	Value     ConditionValue `json:"value"`
}

func (p *ConditionPayload) UnmarshalJSON(data []byte) error {
	var raw struct {
		Attribute string          `json:"attribute"`
		Operator  string          `json:"operator"`
		Value     json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	value, err := DecodeValue(raw.Value)
	if err != nil {
		return err
	}
	p.Attribute = raw.Attribute
	p.Operator = raw.Operator
	p.Value = value
	return nil
}

// SerializeConditions strips ids and categories for the persistence
// and reference-validation payloads.
func SerializeConditions(conditions []PolicyCondition) []ConditionPayload {
	payloads := make([]ConditionPayload, 0, len(conditions))
	for _, c := range conditions {
		payloads = append(payloads, ConditionPayload{
			Attribute: c.Attribute,
			Operator:  c.Operator,
			Value:     c.Value,
		})
	}
	return payloads
}

// ConditionValidation is the per-condition check result. Warnings are
// purely advisory and never affect IsValid.
type ConditionValidation struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// GroupValidation aggregates validation across a group, keyed by
// condition id.
type GroupValidation struct {
	IsValid      bool                `json:"is_valid"`
	ErrorsByID   map[string][]string `json:"errors_by_id"`
	WarningsByID map[string][]string `json:"warnings_by_id"`
}
