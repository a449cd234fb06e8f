// api/builder/builder.go

// Package builder owns the live condition group of an editing
// session. All mutation goes through its transition methods; each
// cascades the resets that keep attribute, operator and value
// meaningful together, and each commits exactly one change
// notification to the subscriber.
package builder

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/conditioncraft/composer/api/catalog"
	"github.com/conditioncraft/composer/api/model"
	"github.com/conditioncraft/composer/api/template"
	"github.com/conditioncraft/composer/api/translate"
	"github.com/conditioncraft/composer/api/validation"
)

// Subscriber receives a snapshot after every committed mutation.
// Attaching a subscriber never emits by itself; only mutations do.
type Subscriber func(model.ConditionGroup)

// Builder holds one ConditionGroup and mutates it through total
// transitions. It is meant for a single editing session and is not
// safe for concurrent use.
type Builder struct {
	group      model.ConditionGroup
	subscriber Subscriber
	committed  bool
}

// New starts with an empty ALL group.
func New() *Builder {
	return &Builder{group: model.ConditionGroup{Logic: model.LogicAll}}
}

// NewFromGroup starts from an existing group, e.g. when editing a
// saved policy. Loading does not count as a commit.
func NewFromGroup(group model.ConditionGroup) *Builder {
	b := &Builder{group: group.Clone()}
	if b.group.Logic == "" {
		b.group.Logic = model.LogicAll
	}
	return b
}

// Subscribe attaches the change listener. The attach itself is
// silent; the first notification comes with the first mutation.
func (b *Builder) Subscribe(fn Subscriber) {
	b.subscriber = fn
}

// Dirty reports whether any mutation has committed since the builder
// was created or loaded.
func (b *Builder) Dirty() bool {
	return b.committed
}

func (b *Builder) commit() {
	b.committed = true
	if b.subscriber != nil {
		b.subscriber(b.group.Clone())
	}
}

func (b *Builder) indexOf(id string) int {
	for i := range b.group.Conditions {
		if b.group.Conditions[i].ID == id {
			return i
		}
	}
	return -1
}

// Add appends a fresh, empty condition: category "who", no attribute,
// operator "equals", empty value.
func (b *Builder) Add() model.PolicyCondition {
	cond := model.PolicyCondition{
		ID:       uuid.New().String(),
		Category: model.CategoryWho,
		Operator: catalog.OperatorEquals,
		Value:    model.StringValue(""),
	}
	b.group.Conditions = append(b.group.Conditions, cond)
	b.commit()
	return cond
}

// Remove drops a condition. An absent id is a no-op, not an error,
// and commits nothing.
func (b *Builder) Remove(id string) {
	i := b.indexOf(id)
	if i < 0 {
		return
	}
	b.group.Conditions = append(b.group.Conditions[:i], b.group.Conditions[i+1:]...)
	b.commit()
}

// SetCategory switches the category and unconditionally resets
// attribute, operator and value so they can never refer to the
// previous category.
func (b *Builder) SetCategory(id string, category model.Category) {
	i := b.indexOf(id)
	if i < 0 {
		return
	}
	cond := &b.group.Conditions[i]
	cond.Category = category
	cond.Attribute = ""
	cond.Operator = catalog.OperatorEquals
	cond.Value = model.StringValue("")
	b.commit()
}

// SetAttribute switches the attribute, resets the operator to the
// first one applicable to the attribute's value type, and resets the
// value to false for booleans and "" for everything else.
func (b *Builder) SetAttribute(id, attributeID string) {
	i := b.indexOf(id)
	if i < 0 {
		return
	}
	cond := &b.group.Conditions[i]
	cond.Attribute = attributeID
	cond.Operator = catalog.OperatorEquals
	cond.Value = model.StringValue("")

	if attr, ok := catalog.AttributeByID(attributeID); ok {
		cond.Operator = catalog.DefaultOperatorForType(attr.ValueType)
		if attr.ValueType == catalog.TypeBoolean {
			cond.Value = model.BoolValue(false)
		}
	}
	b.commit()
}

// SetOperator changes only the operator. The value stays put even if
// it no longer fits; validation reports that.
func (b *Builder) SetOperator(id, operator string) {
	i := b.indexOf(id)
	if i < 0 {
		return
	}
	b.group.Conditions[i].Operator = operator
	b.commit()
}

// SetValue changes only the value.
func (b *Builder) SetValue(id string, value model.ConditionValue) {
	i := b.indexOf(id)
	if i < 0 {
		return
	}
	b.group.Conditions[i].Value = value
	b.commit()
}

// SetLogic switches the group between ALL and ANY.
func (b *Builder) SetLogic(logic model.GroupLogic) {
	b.group.Logic = logic
	b.commit()
}

// ApplyTemplate materializes every seed of the template into a full
// condition with a fresh id and appends them. Templates never replace
// what is already there.
func (b *Builder) ApplyTemplate(templateID string) error {
	tmpl, ok := template.ByID(templateID)
	if !ok {
		return fmt.Errorf("unknown template: %s", templateID)
	}

	for _, seed := range tmpl.Seeds {
		cond := model.PolicyCondition{
			ID:        uuid.New().String(),
			Category:  seed.Category,
			Attribute: seed.Attribute,
			Operator:  seed.Operator,
			Value:     seed.Value,
		}
		if cond.Category == "" {
			cond.Category = model.CategoryWho
		}
		if cond.Operator == "" {
			cond.Operator = catalog.OperatorEquals
		}
		if cond.Value == nil {
			cond.Value = model.StringValue("")
		}
		b.group.Conditions = append(b.group.Conditions, cond)
	}
	b.commit()
	return nil
}

// Clear drops every condition, e.g. on cancel.
func (b *Builder) Clear() {
	b.group.Conditions = nil
	b.commit()
}

// ReplaceAll swaps in a full condition list, preserving the incoming
// ids, e.g. when loading a saved policy into an open editor.
func (b *Builder) ReplaceAll(conditions []model.PolicyCondition) {
	b.group.Conditions = make([]model.PolicyCondition, len(conditions))
	copy(b.group.Conditions, conditions)
	b.commit()
}

// ValidateOne validates a single condition.
func (b *Builder) ValidateOne(cond model.PolicyCondition) model.ConditionValidation {
	return validation.ValidateCondition(cond)
}

// ValidateAll validates the whole group.
func (b *Builder) ValidateAll() model.GroupValidation {
	return validation.ValidateGroup(b.group)
}

// TranslateOne renders a single condition as a sentence.
func (b *Builder) TranslateOne(cond model.PolicyCondition) string {
	return translate.TranslateCondition(cond)
}

// TranslateGroup renders the whole group.
func (b *Builder) TranslateGroup() string {
	return translate.TranslateGroup(b.group)
}

// Snapshot returns a copy of the current group for persistence or
// reference checking.
func (b *Builder) Snapshot() model.ConditionGroup {
	return b.group.Clone()
}
