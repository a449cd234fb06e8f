// api/audit/model.go
package audit

import (
	"encoding/json"
	"time"
)

type AuditLog struct {
	Timestamp     time.Time       `json:"timestamp"`
	UserID        string          `json:"user_id"`
	Action        string          `json:"action"`
	SessionID     string          `json:"session_id"`
	ConditionID   string          `json:"condition_id,omitempty"`
	ChangeDetails json.RawMessage `json:"change_details,omitempty"`
}
