// api/model/neo4j/schema.go
package composer_neo4j

// Node Labels
const (
	// LabelResource represents a directory resource pickers can reference
	LabelResource = "Resource"

	// LabelResourceType represents a directory resource type
	LabelResourceType = "ResourceType"
)

// Relationship Types
const (
	// RelHasType links a resource to its resource type
	RelHasType = "HAS_TYPE"
)

// Common property keys on directory nodes
const (
	PropID          = "id"
	PropName        = "name"
	PropDescription = "description"
	PropStatus      = "status"
	PropUpdatedAt   = "updated_at"
)
