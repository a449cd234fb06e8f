// test/mock/checker.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/conditioncraft/composer/api/model"
)

// MockChecker is a mock implementation of refcheck.Checker
type MockChecker struct {
	mock.Mock
}

func (m *MockChecker) CheckConditions(ctx context.Context, conditions []model.ConditionPayload) (*model.CheckResult, error) {
	args := m.Called(ctx, conditions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckResult), args.Error(1)
}
