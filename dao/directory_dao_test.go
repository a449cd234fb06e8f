// api/dao/directory_dao_test.go
package dao

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	composer_neo4j "github.com/conditioncraft/composer/api/model/neo4j"
)

func TestDirectoryReturnProjectsSchemaProperties(t *testing.T) {
	props := []string{
		composer_neo4j.PropID,
		composer_neo4j.PropName,
		composer_neo4j.PropDescription,
		composer_neo4j.PropStatus,
		composer_neo4j.PropUpdatedAt,
	}
	for _, prop := range props {
		assert.Contains(t, directoryReturn, fmt.Sprintf("r.%s AS %s", prop, prop))
	}
}
