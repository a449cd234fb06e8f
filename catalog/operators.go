// api/catalog/operators.go
package catalog

// Operator ids referenced across the builder, validator and
// translator.
const (
	OperatorEquals      = "equals"
	OperatorNotEquals   = "not_equals"
	OperatorIn          = "in"
	OperatorNotIn       = "not_in"
	OperatorContains    = "contains"
	OperatorBetween     = "between"
	OperatorNotBetween  = "not_between"
	OperatorGreaterThan = "greater_than"
	OperatorLessThan    = "less_than"
	OperatorInRange     = "in_range"
	OperatorNotInRange  = "not_in_range"
	OperatorExists      = "exists"
	OperatorNotExists   = "not_exists"
)

// IsPresenceOperator reports whether the operator tests presence only
// and therefore takes no value.
func IsPresenceOperator(operatorID string) bool {
	return operatorID == OperatorExists || operatorID == OperatorNotExists
}

// Declaration order matters: OperatorsForType keeps it, and the first
// applicable operator per value type is the builder's reset default.
var operators = []OperatorDefinition{
	{
		ID:    OperatorEquals,
		Label: "is",
		ValueTypes: []ValueType{
			TypeString, TypeNumber, TypeBoolean, TypeEmail, TypeEmailDomain,
			TypeRole, TypeEnvironment, TypeStatus, TypeResourceID,
		},
	},
	{
		ID:    OperatorNotEquals,
		Label: "is not",
		ValueTypes: []ValueType{
			TypeString, TypeNumber, TypeEmail, TypeEmailDomain,
			TypeRole, TypeEnvironment, TypeStatus, TypeResourceID,
		},
	},
	{
		ID:    OperatorIn,
		Label: "is any of",
		ValueTypes: []ValueType{
			TypeString, TypeEmail, TypeEmailDomain, TypeRole, TypeEnvironment,
			TypeResourceIDs, TypeTeamIDs, TypeDaysOfWeek,
		},
	},
	{
		ID:    OperatorNotIn,
		Label: "is none of",
		ValueTypes: []ValueType{
			TypeString, TypeEmail, TypeEmailDomain, TypeRole, TypeEnvironment,
			TypeResourceIDs, TypeTeamIDs, TypeDaysOfWeek,
		},
	},
	{
		ID:         OperatorContains,
		Label:      "contains",
		ValueTypes: []ValueType{TypeString},
	},
	{
		ID:         OperatorBetween,
		Label:      "is between",
		ValueTypes: []ValueType{TypeTimeRange, TypeNumber},
	},
	{
		ID:         OperatorNotBetween,
		Label:      "is outside",
		ValueTypes: []ValueType{TypeTimeRange},
	},
	{
		ID:         OperatorGreaterThan,
		Label:      "is greater than",
		ValueTypes: []ValueType{TypeNumber},
	},
	{
		ID:         OperatorLessThan,
		Label:      "is less than",
		ValueTypes: []ValueType{TypeNumber},
	},
	{
		ID:         OperatorInRange,
		Label:      "is within",
		ValueTypes: []ValueType{TypeIPRange},
	},
	{
		ID:         OperatorNotInRange,
		Label:      "is outside of",
		ValueTypes: []ValueType{TypeIPRange},
	},
	{
		ID:    OperatorExists,
		Label: "is set",
		ValueTypes: []ValueType{
			TypeString, TypeNumber, TypeBoolean, TypeEmail, TypeEmailDomain,
			TypeIPRange, TypeTimeRange, TypeResourceID, TypeResourceIDs,
			TypeTeamIDs, TypeRole, TypeEnvironment, TypeStatus, TypeDaysOfWeek,
		},
	},
	{
		ID:    OperatorNotExists,
		Label: "is not set",
		ValueTypes: []ValueType{
			TypeString, TypeNumber, TypeBoolean, TypeEmail, TypeEmailDomain,
			TypeIPRange, TypeTimeRange, TypeResourceID, TypeResourceIDs,
			TypeTeamIDs, TypeRole, TypeEnvironment, TypeStatus, TypeDaysOfWeek,
		},
	},
}
