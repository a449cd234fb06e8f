// api/model/reference.go
package model

import (
	"time"
)

// ReferenceState is the directory's verdict on a referenced resource.
type ReferenceState string

const (
	ReferenceValid    ReferenceState = "valid"
	ReferenceOrphaned ReferenceState = "orphaned" // target no longer exists
	ReferenceChanged  ReferenceState = "changed"  // target modified since last validated
)

// ResourceReferenceStatus reports the state of one referenced
// resource after a reference check.
type ResourceReferenceStatus struct {
	Type        string         `json:"type"`
	ID          string         `json:"id"`
	Name        string         `json:"name,omitempty"`
	Status      ReferenceState `json:"status"`
	ValidatedAt time.Time      `json:"validated_at"`
}

// CheckResult is the validate-conditions response shape.
type CheckResult struct {
	IsValid    bool                      `json:"is_valid"`
	Errors     []string                  `json:"errors"`
	Warnings   []string                  `json:"warnings"`
	References []ResourceReferenceStatus `json:"references"`
}

// CheckRequest is the validate-conditions request shape.
type CheckRequest struct {
	Conditions []ConditionPayload `json:"conditions"`
}
