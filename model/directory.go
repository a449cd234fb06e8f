// api/model/directory.go
package model

import (
	"time"
)

// DirectoryEntry is what resource pickers see: an opaque read-only
// row from the resource directory.
type DirectoryEntry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// DirectorySearchCriteria filters directory lookups for pickers.
type DirectorySearchCriteria struct {
	ResourceType string `json:"resource_type"`
	Query        string `json:"query,omitempty"`
	Limit        int    `json:"limit,omitempty"`
	Offset       int    `json:"offset,omitempty"`
}
