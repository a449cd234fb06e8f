// api/refcheck/bridge.go

// Package refcheck submits composed conditions to a reference
// validator and merges the verdicts into advisory warnings. It owns
// no retry or backoff; a transport failure is fail-open because
// authoritative enforcement lives server-side.
package refcheck

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	logger "github.com/conditioncraft/composer/api/logging"
	"github.com/conditioncraft/composer/api/model"
)

// Checker performs the actual validate-conditions call.
type Checker interface {
	CheckConditions(ctx context.Context, conditions []model.ConditionPayload) (*model.CheckResult, error)
}

// OutcomeStatus is the explicit three-way result of a submission.
// "Unavailable" is deliberately distinct from "clean" so callers can
// tell fail-open from verified-good.
type OutcomeStatus string

const (
	OutcomeClean       OutcomeStatus = "clean"
	OutcomeIssues      OutcomeStatus = "issues"
	OutcomeUnavailable OutcomeStatus = "unavailable"
)

// Warning is one advisory finding about a referenced resource. It
// never blocks saving on its own.
type Warning struct {
	Type        string               `json:"type"`
	ID          string               `json:"id"`
	Name        string               `json:"name,omitempty"`
	Status      model.ReferenceState `json:"status"`
	Message     string               `json:"message"`
	ValidatedAt time.Time            `json:"validated_at"`
}

// Outcome is what a submission produced.
type Outcome struct {
	Status   OutcomeStatus `json:"status"`
	Warnings []Warning     `json:"warnings"`
	Messages []string      `json:"messages,omitempty"`
}

// Bridge holds the current advisory warning list for one editing
// session and talks to the checker. A newer submission supersedes an
// older in-flight one: stale responses are discarded instead of
// overwriting fresher state.
type Bridge struct {
	checker Checker

	generation atomic.Int64

	mu       sync.Mutex
	warnings []Warning
	last     []model.PolicyCondition
}

func NewBridge(checker Checker) *Bridge {
	return &Bridge{checker: checker}
}

// EligiblePayloads filters to conditions that can be checked — a
// chosen attribute and a present value — and strips id and category;
// the validation boundary is category-agnostic.
func EligiblePayloads(conditions []model.PolicyCondition) []model.ConditionPayload {
	var eligible []model.PolicyCondition
	for _, cond := range conditions {
		if cond.Attribute == "" || model.IsValueEmpty(cond.Value) {
			continue
		}
		eligible = append(eligible, cond)
	}
	return model.SerializeConditions(eligible)
}

// Submit sends the current conditions for validation and merges the
// result into the warning list. Transport or backend failures are
// logged and reported as unavailable, never returned as errors.
func (b *Bridge) Submit(ctx context.Context, conditions []model.PolicyCondition) Outcome {
	gen := b.generation.Add(1)

	b.mu.Lock()
	b.last = make([]model.PolicyCondition, len(conditions))
	copy(b.last, conditions)
	b.mu.Unlock()

	payloads := EligiblePayloads(conditions)
	if len(payloads) == 0 {
		b.store(gen, nil)
		return Outcome{Status: OutcomeClean}
	}

	result, err := b.checker.CheckConditions(ctx, payloads)
	if err != nil {
		logger.Warn("Reference validation unavailable, proceeding without it",
			zap.Error(err),
			zap.Int("conditions", len(payloads)))
		return Outcome{Status: OutcomeUnavailable, Warnings: b.Warnings()}
	}

	warnings := mergeWarnings(result.References)
	if !b.store(gen, warnings) {
		// A newer submission superseded this one while it was in
		// flight; its result stands, ours is discarded.
		return Outcome{Status: OutcomeClean, Warnings: b.Warnings()}
	}

	outcome := Outcome{Status: OutcomeClean, Warnings: warnings, Messages: result.Warnings}
	if len(warnings) > 0 {
		outcome.Status = OutcomeIssues
	}
	return outcome
}

// Refresh re-submits the most recently submitted conditions.
func (b *Bridge) Refresh(ctx context.Context) Outcome {
	b.mu.Lock()
	last := make([]model.PolicyCondition, len(b.last))
	copy(last, b.last)
	b.mu.Unlock()
	return b.Submit(ctx, last)
}

// Warnings returns a copy of the current advisory list.
func (b *Bridge) Warnings() []Warning {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Warning, len(b.warnings))
	copy(out, b.warnings)
	return out
}

// Dismiss clears the advisory list until the next submission.
func (b *Bridge) Dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.warnings = nil
}

// store keeps the warnings only if gen is still the newest
// submission. It reports whether the result was kept.
func (b *Bridge) store(gen int64, warnings []Warning) bool {
	if gen != b.generation.Load() {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.warnings = warnings
	return true
}

func mergeWarnings(statuses []model.ResourceReferenceStatus) []Warning {
	var warnings []Warning
	for _, status := range statuses {
		switch status.Status {
		case model.ReferenceOrphaned:
			warnings = append(warnings, Warning{
				Type:        status.Type,
				ID:          status.ID,
				Name:        status.Name,
				Status:      status.Status,
				Message:     fmt.Sprintf("%s %q no longer exists", status.Type, displayName(status)),
				ValidatedAt: status.ValidatedAt,
			})
		case model.ReferenceChanged:
			warnings = append(warnings, Warning{
				Type:        status.Type,
				ID:          status.ID,
				Name:        status.Name,
				Status:      status.Status,
				Message:     fmt.Sprintf("%s %q changed since it was selected", status.Type, displayName(status)),
				ValidatedAt: status.ValidatedAt,
			})
		}
	}
	return warnings
}

func displayName(status model.ResourceReferenceStatus) string {
	if status.Name != "" {
		return status.Name
	}
	return status.ID
}
