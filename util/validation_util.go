// api/util/validation_util.go

package util

import (
	"fmt"

	"github.com/conditioncraft/composer/api/model"
)

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

func (v *ValidationUtil) ValidateLogic(logic model.GroupLogic) error {
	if logic != model.LogicAll && logic != model.LogicAny {
		return fmt.Errorf("group logic must be either 'all' or 'any'")
	}
	return nil
}

func (v *ValidationUtil) ValidateCategory(category model.Category) error {
	for _, c := range model.Categories() {
		if category == c {
			return nil
		}
	}
	return fmt.Errorf("unknown condition category: %s", category)
}

func (v *ValidationUtil) ValidateDirectoryCriteria(criteria model.DirectorySearchCriteria) error {
	if criteria.ResourceType == "" {
		return fmt.Errorf("resource type cannot be empty")
	}
	if criteria.Limit < 0 {
		return fmt.Errorf("limit cannot be negative")
	}
	if criteria.Offset < 0 {
		return fmt.Errorf("offset cannot be negative")
	}
	// Add more validation rules as needed
	return nil
}
