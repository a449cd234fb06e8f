// api/dao/directory_dao.go
package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	composer_errors "github.com/conditioncraft/composer/api/errors"
	logger "github.com/conditioncraft/composer/api/logging"
	"github.com/conditioncraft/composer/api/model"
	composer_neo4j "github.com/conditioncraft/composer/api/model/neo4j"
	helper_util "github.com/conditioncraft/composer/api/util/helper"
)

// DirectoryDAO reads the resource directory. The builder never writes
// here; resources are owned by the surrounding platform.
type DirectoryDAO struct {
	Driver neo4j.Driver
}

func NewDirectoryDAO(driver neo4j.Driver) *DirectoryDAO {
	return &DirectoryDAO{Driver: driver}
}

// directoryReturn projects the directory properties every read uses.
var directoryReturn = fmt.Sprintf(`
            RETURN r.%[1]s AS %[1]s, r.%[2]s AS %[2]s, r.%[3]s AS %[3]s,
                   r.%[4]s AS %[4]s, r.%[5]s AS %[5]s
        `,
	composer_neo4j.PropID,
	composer_neo4j.PropName,
	composer_neo4j.PropDescription,
	composer_neo4j.PropStatus,
	composer_neo4j.PropUpdatedAt)

// SearchResources lists directory entries of one resource type for a
// picker, optionally filtered by a name substring.
func (dao *DirectoryDAO) SearchResources(ctx context.Context, criteria model.DirectorySearchCriteria) ([]model.DirectoryEntry, error) {
	start := time.Now()
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	limit := criteria.Limit
	if limit <= 0 {
		limit = 50
	}

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
            MATCH (r:` + composer_neo4j.LabelResource + `)-[:` + composer_neo4j.RelHasType + `]->(rt:` + composer_neo4j.LabelResourceType + ` {id: $resourceType})
        `
		params := map[string]interface{}{
			"resourceType": criteria.ResourceType,
			"limit":        limit,
			"offset":       criteria.Offset,
		}
		if criteria.Query != "" {
			query += `
            WHERE toLower(r.` + composer_neo4j.PropName + `) CONTAINS toLower($query)
            `
			params["query"] = criteria.Query
		}
		query += directoryReturn + `
            ORDER BY r.` + composer_neo4j.PropName + `
            SKIP $offset LIMIT $limit
        `

		records, err := transaction.Run(query, params)
		if err != nil {
			return nil, err
		}

		var entries []model.DirectoryEntry
		for records.Next() {
			entries = append(entries, recordToEntry(records.Record()))
		}
		return entries, records.Err()
	})

	if err != nil {
		logger.Error("Failed to search directory",
			zap.Error(err),
			zap.String("resourceType", criteria.ResourceType))
		return nil, fmt.Errorf("%w: %v", composer_errors.ErrDatabaseOperation, err)
	}

	entries := result.([]model.DirectoryEntry)
	logger.Debug("Directory search completed",
		zap.String("resourceType", criteria.ResourceType),
		zap.Int("count", len(entries)),
		zap.Duration("duration", time.Since(start)))
	return entries, nil
}

// GetResource fetches one directory entry by id.
func (dao *DirectoryDAO) GetResource(ctx context.Context, resourceType, id string) (*model.DirectoryEntry, error) {
	entries, err := dao.GetResourcesByIDs(ctx, resourceType, []string{id})
	if err != nil {
		return nil, err
	}
	entry, ok := entries[id]
	if !ok {
		return nil, composer_errors.ErrResourceNotFound
	}
	return &entry, nil
}

// GetResourcesByIDs fetches directory entries in bulk, keyed by id.
// Missing ids are simply absent from the result; the caller decides
// whether that means orphaned.
func (dao *DirectoryDAO) GetResourcesByIDs(ctx context.Context, resourceType string, ids []string) (map[string]model.DirectoryEntry, error) {
	start := time.Now()
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
            MATCH (r:` + composer_neo4j.LabelResource + `)-[:` + composer_neo4j.RelHasType + `]->(rt:` + composer_neo4j.LabelResourceType + ` {id: $resourceType})
            WHERE r.` + composer_neo4j.PropID + ` IN $ids
        ` + directoryReturn
		records, err := transaction.Run(query, map[string]interface{}{
			"resourceType": resourceType,
			"ids":          ids,
		})
		if err != nil {
			return nil, err
		}

		entries := make(map[string]model.DirectoryEntry)
		for records.Next() {
			entry := recordToEntry(records.Record())
			entries[entry.ID] = entry
		}
		return entries, records.Err()
	})

	if err != nil {
		logger.Error("Failed to fetch directory entries",
			zap.Error(err),
			zap.String("resourceType", resourceType),
			zap.Int("requested", len(ids)))
		return nil, fmt.Errorf("%w: %v", composer_errors.ErrDatabaseOperation, err)
	}

	entries := result.(map[string]model.DirectoryEntry)
	logger.Debug("Directory bulk fetch completed",
		zap.String("resourceType", resourceType),
		zap.Int("requested", len(ids)),
		zap.Int("found", len(entries)),
		zap.Duration("duration", time.Since(start)))
	return entries, nil
}

func recordToEntry(record *neo4j.Record) model.DirectoryEntry {
	entry := model.DirectoryEntry{}
	if v, ok := record.Get(composer_neo4j.PropID); ok && v != nil {
		entry.ID = v.(string)
	}
	if v, ok := record.Get(composer_neo4j.PropName); ok && v != nil {
		entry.Name = v.(string)
	}
	if v, ok := record.Get(composer_neo4j.PropDescription); ok && v != nil {
		entry.Description = v.(string)
	}
	if v, ok := record.Get(composer_neo4j.PropStatus); ok && v != nil {
		entry.Status = v.(string)
	}
	if v, ok := record.Get(composer_neo4j.PropUpdatedAt); ok && v != nil {
		if t, err := helper_util.ParseNullableTime(v); err == nil && t != nil {
			entry.UpdatedAt = *t
		}
	}
	return entry
}
