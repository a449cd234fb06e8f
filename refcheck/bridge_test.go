// api/refcheck/bridge_test.go
package refcheck_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	testify_mock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	logger "github.com/conditioncraft/composer/api/logging"
	"github.com/conditioncraft/composer/api/model"
	"github.com/conditioncraft/composer/api/refcheck"
	"github.com/conditioncraft/composer/api/test/mock"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "refcheck-logs")
	if err != nil {
		panic(err)
	}
	logger.InitLogger(dir)
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func completeCondition(id string) model.PolicyCondition {
	return model.PolicyCondition{
		ID:        id,
		Category:  model.CategoryWhat,
		Attribute: "resource_project",
		Operator:  "equals",
		Value:     model.NewResourceReference("project", model.ResourceSelector{ID: "p-" + id}),
	}
}

func TestEligiblePayloadsStripsIDAndCategory(t *testing.T) {
	conditions := []model.PolicyCondition{
		completeCondition("1"),
		{ID: "2", Category: model.CategoryWho, Attribute: "", Operator: "equals", Value: model.StringValue("x")},
		{ID: "3", Category: model.CategoryWho, Attribute: "user_email", Operator: "equals", Value: model.StringValue("")},
	}

	payloads := refcheck.EligiblePayloads(conditions)
	require.Len(t, payloads, 1)
	assert.Equal(t, "resource_project", payloads[0].Attribute)
	assert.Equal(t, "equals", payloads[0].Operator)
}

func TestSubmitEmptyIsCleanWithoutCalling(t *testing.T) {
	checker := new(mock.MockChecker)
	bridge := refcheck.NewBridge(checker)

	outcome := bridge.Submit(context.Background(), nil)

	assert.Equal(t, refcheck.OutcomeClean, outcome.Status)
	assert.Empty(t, outcome.Warnings)
	checker.AssertNotCalled(t, "CheckConditions")
}

func TestSubmitMergesWarnings(t *testing.T) {
	checker := new(mock.MockChecker)
	checker.On("CheckConditions", testify_mock.Anything, testify_mock.Anything).Return(&model.CheckResult{
		IsValid: true,
		References: []model.ResourceReferenceStatus{
			{Type: "project", ID: "p-1", Name: "Apollo", Status: model.ReferenceOrphaned, ValidatedAt: time.Now()},
			{Type: "dataset", ID: "d-1", Status: model.ReferenceChanged, ValidatedAt: time.Now()},
			{Type: "dataset", ID: "d-2", Status: model.ReferenceValid, ValidatedAt: time.Now()},
		},
	}, nil)

	bridge := refcheck.NewBridge(checker)
	outcome := bridge.Submit(context.Background(), []model.PolicyCondition{completeCondition("1")})

	assert.Equal(t, refcheck.OutcomeIssues, outcome.Status)
	require.Len(t, outcome.Warnings, 2)
	assert.Equal(t, `project "Apollo" no longer exists`, outcome.Warnings[0].Message)
	assert.Equal(t, `dataset "d-1" changed since it was selected`, outcome.Warnings[1].Message)

	// The advisory list sticks around until dismissed or resubmitted.
	assert.Len(t, bridge.Warnings(), 2)
}

func TestSubmitFailOpen(t *testing.T) {
	checker := new(mock.MockChecker)
	checker.On("CheckConditions", testify_mock.Anything, testify_mock.Anything).Return(nil, errors.New("connection refused"))

	bridge := refcheck.NewBridge(checker)
	outcome := bridge.Submit(context.Background(), []model.PolicyCondition{completeCondition("1")})

	assert.Equal(t, refcheck.OutcomeUnavailable, outcome.Status)
}

func TestFailureKeepsPriorWarnings(t *testing.T) {
	checker := new(mock.MockChecker)
	checker.On("CheckConditions", testify_mock.Anything, testify_mock.Anything).Return(&model.CheckResult{
		References: []model.ResourceReferenceStatus{
			{Type: "project", ID: "p-1", Status: model.ReferenceOrphaned},
		},
	}, nil).Once()
	checker.On("CheckConditions", testify_mock.Anything, testify_mock.Anything).Return(nil, errors.New("boom"))

	bridge := refcheck.NewBridge(checker)
	bridge.Submit(context.Background(), []model.PolicyCondition{completeCondition("1")})
	outcome := bridge.Submit(context.Background(), []model.PolicyCondition{completeCondition("1")})

	assert.Equal(t, refcheck.OutcomeUnavailable, outcome.Status)
	assert.Len(t, outcome.Warnings, 1)
}

func TestDismissClearsUntilNextSubmission(t *testing.T) {
	checker := new(mock.MockChecker)
	checker.On("CheckConditions", testify_mock.Anything, testify_mock.Anything).Return(&model.CheckResult{
		References: []model.ResourceReferenceStatus{
			{Type: "project", ID: "p-1", Status: model.ReferenceOrphaned},
		},
	}, nil)

	bridge := refcheck.NewBridge(checker)
	bridge.Submit(context.Background(), []model.PolicyCondition{completeCondition("1")})
	require.Len(t, bridge.Warnings(), 1)

	bridge.Dismiss()
	assert.Empty(t, bridge.Warnings())

	bridge.Submit(context.Background(), []model.PolicyCondition{completeCondition("1")})
	assert.Len(t, bridge.Warnings(), 1)
}

func TestRefreshResubmitsLastConditions(t *testing.T) {
	checker := new(mock.MockChecker)
	checker.On("CheckConditions", testify_mock.Anything, testify_mock.Anything).Return(&model.CheckResult{}, nil)

	bridge := refcheck.NewBridge(checker)
	bridge.Submit(context.Background(), []model.PolicyCondition{completeCondition("1")})
	outcome := bridge.Refresh(context.Background())

	assert.Equal(t, refcheck.OutcomeClean, outcome.Status)
	checker.AssertNumberOfCalls(t, "CheckConditions", 2)
}
