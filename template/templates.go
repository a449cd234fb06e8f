// api/template/templates.go
package template

import (
	"github.com/conditioncraft/composer/api/model"
)

// Template categories shown in the browser's filter bar.
const (
	CategoryAccess      = "access"
	CategoryTime        = "time"
	CategorySecurity    = "security"
	CategoryEnvironment = "environment"
)

// Seed is a partially filled condition inside a template. Empty
// fields are defaulted when the builder materializes it: category to
// "who", operator to "equals", value to "".
type Seed struct {
	Category  model.Category       `json:"category,omitempty"`
	Attribute string               `json:"attribute"`
	Operator  string               `json:"operator,omitempty"`
	Value     model.ConditionValue `json:"value,omitempty"`
}

// ConditionTemplate is a predefined bundle of seeds for quick
// insertion. Applying one is always additive.
type ConditionTemplate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Common      bool   `json:"common"`
	Seeds       []Seed `json:"seeds"`
}

var templates = []ConditionTemplate{
	{
		ID:          "business-hours",
		Name:        "Business hours",
		Description: "Allow access between 9 AM and 5 PM on weekdays",
		Category:    CategoryTime,
		Common:      true,
		Seeds: []Seed{
			{
				Category:  model.CategoryWhen,
				Attribute: "time_hours",
				Operator:  "between",
				Value: model.TimeRangeValue{
					StartHour: 9, StartMinute: 0,
					EndHour: 17, EndMinute: 0,
					Days: []int{1, 2, 3, 4, 5},
				},
			},
		},
	},
	{
		ID:          "weekdays-only",
		Name:        "Weekdays only",
		Description: "Allow access Monday through Friday",
		Category:    CategoryTime,
		Seeds: []Seed{
			{
				Category:  model.CategoryWhen,
				Attribute: "time_days",
				Operator:  "in",
				Value:     model.NumberListValue{1, 2, 3, 4, 5},
			},
		},
	},
	{
		ID:          "admins-only",
		Name:        "Administrators only",
		Description: "Restrict access to workspace administrators",
		Category:    CategoryAccess,
		Common:      true,
		Seeds: []Seed{
			{
				Attribute: "user_role",
				Operator:  "equals",
				Value:     model.StringValue("admin"),
			},
		},
	},
	{
		ID:          "company-email",
		Name:        "Company email",
		Description: "Require a company email domain",
		Category:    CategoryAccess,
		Common:      true,
		Seeds: []Seed{
			{
				Attribute: "user_email_domain",
				Operator:  "equals",
				Value:     model.StringValue("@company.com"),
			},
		},
	},
	{
		ID:          "mfa-required",
		Name:        "MFA required",
		Description: "Require multi-factor enrollment",
		Category:    CategorySecurity,
		Seeds: []Seed{
			{
				Attribute: "user_mfa",
				Operator:  "equals",
				Value:     model.BoolValue(true),
			},
		},
	},
	{
		ID:          "corporate-network",
		Name:        "Corporate network",
		Description: "Allow access only from the office IP ranges",
		Category:    CategorySecurity,
		Seeds: []Seed{
			{
				Category:  model.CategoryWhere,
				Attribute: "location_ip",
				Operator:  "in_range",
				Value:     model.StringListValue{"10.0.0.0/8", "192.168.0.0/16"},
			},
		},
	},
	{
		ID:          "production-lockdown",
		Name:        "Production lockdown",
		Description: "Scope the policy to production resources for administrators",
		Category:    CategoryEnvironment,
		Seeds: []Seed{
			{
				Category:  model.CategoryWhat,
				Attribute: "resource_environment",
				Operator:  "equals",
				Value:     model.StringValue("production"),
			},
			{
				Attribute: "user_role",
				Operator:  "equals",
				Value:     model.StringValue("admin"),
			},
		},
	},
	{
		ID:          "active-resources",
		Name:        "Active resources",
		Description: "Exclude archived resources from the policy",
		Category:    CategoryEnvironment,
		Seeds: []Seed{
			{
				Category:  model.CategoryWhat,
				Attribute: "resource_status",
				Operator:  "equals",
				Value:     model.StringValue("active"),
			},
		},
	},
}
