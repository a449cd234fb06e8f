// api/catalog/attributes.go
package catalog

import (
	"regexp"

	"github.com/conditioncraft/composer/api/model"
)

var attributes = []AttributeDefinition{
	// who
	{
		ID:          "user_email",
		Path:        "user.email",
		Label:       "User's email",
		Description: "Email address of the user requesting access",
		Category:    model.CategoryWho,
		ValueType:   TypeEmail,
		Operators: []string{
			OperatorEquals, OperatorNotEquals, OperatorIn, OperatorNotIn,
			OperatorExists, OperatorNotExists,
		},
	},
	{
		ID:          "user_email_domain",
		Path:        "user.email_domain",
		Label:       "User's email domain",
		Description: "Domain part of the requesting user's email",
		Category:    model.CategoryWho,
		ValueType:   TypeEmailDomain,
		Operators:   []string{OperatorEquals, OperatorNotEquals, OperatorIn, OperatorNotIn},
	},
	{
		ID:          "user_role",
		Path:        "user.role",
		Label:       "User's role",
		Description: "Role assigned to the user in the workspace",
		Category:    model.CategoryWho,
		ValueType:   TypeRole,
		Operators:   []string{OperatorEquals, OperatorNotEquals, OperatorIn, OperatorNotIn},
		EnumValues: []EnumValue{
			{Value: "admin", Label: "Administrator"},
			{Value: "editor", Label: "Editor"},
			{Value: "viewer", Label: "Viewer"},
			{Value: "service_account", Label: "Service account"},
		},
	},
	{
		ID:           "user_teams",
		Path:         "user.teams",
		Label:        "User's teams",
		Description:  "Teams the user belongs to",
		Category:     model.CategoryWho,
		ValueType:    TypeTeamIDs,
		Operators:    []string{OperatorIn, OperatorNotIn},
		ResourceType: "team",
	},
	{
		ID:          "user_mfa",
		Path:        "user.mfa_enrolled",
		Label:       "User has MFA enrolled",
		Description: "Whether the user completed multi-factor enrollment",
		Category:    model.CategoryWho,
		ValueType:   TypeBoolean,
		Operators:   []string{OperatorEquals},
	},

	// what
	{
		ID:           "resource_project",
		Path:         "resource.project",
		Label:        "Project",
		Description:  "Project the requested resource belongs to",
		Category:     model.CategoryWhat,
		ValueType:    TypeResourceID,
		Operators:    []string{OperatorEquals, OperatorNotEquals},
		ResourceType: "project",
	},
	{
		ID:           "resource_datasets",
		Path:         "resource.datasets",
		Label:        "Datasets",
		Description:  "Datasets covered by the policy",
		Category:     model.CategoryWhat,
		ValueType:    TypeResourceIDs,
		Operators:    []string{OperatorIn, OperatorNotIn},
		ResourceType: "dataset",
	},
	{
		ID:          "resource_environment",
		Path:        "resource.environment",
		Label:       "Environment",
		Description: "Deployment environment of the resource",
		Category:    model.CategoryWhat,
		ValueType:   TypeEnvironment,
		Operators:   []string{OperatorEquals, OperatorNotEquals, OperatorIn},
		EnumValues: []EnumValue{
			{Value: "production", Label: "Production"},
			{Value: "staging", Label: "Staging"},
			{Value: "development", Label: "Development"},
		},
	},
	{
		ID:          "resource_status",
		Path:        "resource.status",
		Label:       "Resource status",
		Description: "Lifecycle status of the resource",
		Category:    model.CategoryWhat,
		ValueType:   TypeStatus,
		Operators:   []string{OperatorEquals, OperatorNotEquals},
		EnumValues: []EnumValue{
			{Value: "active", Label: "Active"},
			{Value: "archived", Label: "Archived"},
		},
	},
	{
		ID:          "resource_tag",
		Path:        "resource.tag",
		Label:       "Resource tag",
		Description: "Free-form tag attached to the resource",
		Category:    model.CategoryWhat,
		ValueType:   TypeString,
		Operators:   []string{OperatorEquals, OperatorContains, OperatorExists, OperatorNotExists},
	},

	// when
	{
		ID:          "time_hours",
		Path:        "time.hours",
		Label:       "Time of day",
		Description: "Recurring daily window the request falls into",
		Category:    model.CategoryWhen,
		ValueType:   TypeTimeRange,
		Operators:   []string{OperatorBetween, OperatorNotBetween},
	},
	{
		ID:          "time_hour",
		Path:        "time.hour",
		Label:       "Hour of day",
		Description: "Hour of the request in 24-hour form",
		Category:    model.CategoryWhen,
		ValueType:   TypeNumber,
		Operators:   []string{OperatorEquals, OperatorGreaterThan, OperatorLessThan},
	},
	{
		ID:          "time_days",
		Path:        "time.days",
		Label:       "Days of week",
		Description: "Weekdays the policy applies on",
		Category:    model.CategoryWhen,
		ValueType:   TypeDaysOfWeek,
		Operators:   []string{OperatorIn, OperatorNotIn},
	},

	// where
	{
		ID:          "location_ip",
		Path:        "location.ip",
		Label:       "IP address",
		Description: "Source address or CIDR ranges of the request",
		Category:    model.CategoryWhere,
		ValueType:   TypeIPRange,
		Operators:   []string{OperatorInRange, OperatorNotInRange},
	},
	{
		ID:          "location_country",
		Path:        "location.country",
		Label:       "Country code",
		Description: "ISO country code the request originates from",
		Category:    model.CategoryWhere,
		ValueType:   TypeString,
		Operators:   []string{OperatorEquals, OperatorNotEquals, OperatorIn},
		Pattern:     regexp.MustCompile(`^[A-Z]{2}$`),
		PatternHint: "Enter a two-letter country code",
	},
	{
		ID:          "location_network",
		Path:        "location.network",
		Label:       "Network zone",
		Description: "Named network the request comes from",
		Category:    model.CategoryWhere,
		ValueType:   TypeString,
		Operators:   []string{OperatorEquals, OperatorNotEquals},
		EnumValues: []EnumValue{
			{Value: "corp", Label: "Corporate network"},
			{Value: "vpn", Label: "VPN"},
			{Value: "public", Label: "Public internet"},
		},
	},
}
