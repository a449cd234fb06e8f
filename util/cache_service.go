// api/util/cache_service.go

package util

import (
	"context"
	"time"

	"github.com/conditioncraft/composer/api/db"
	"github.com/conditioncraft/composer/api/model"
)

type CacheService struct{}

func NewCacheService() *CacheService {
	return &CacheService{}
}

func (c *CacheService) GetSnapshot(ctx context.Context, sessionID string) (*model.ConditionGroup, error) {
	return db.GetCachedSnapshot(ctx, sessionID)
}

func (c *CacheService) SetSnapshot(ctx context.Context, sessionID string, group model.ConditionGroup) error {
	return db.CacheSnapshot(ctx, sessionID, group)
}

func (c *CacheService) DeleteSnapshot(ctx context.Context, sessionID string) error {
	return db.DeleteCachedSnapshot(ctx, sessionID)
}

func (c *CacheService) LockSession(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	return db.LockSession(ctx, sessionID, ttl)
}

func (c *CacheService) UnlockSession(ctx context.Context, sessionID string) error {
	return db.UnlockSession(ctx, sessionID)
}

func (c *CacheService) GetDirectoryEntries(ctx context.Context, cacheKey string) ([]model.DirectoryEntry, error) {
	return db.GetCachedDirectoryEntries(ctx, cacheKey)
}

func (c *CacheService) SetDirectoryEntries(ctx context.Context, cacheKey string, entries []model.DirectoryEntry) error {
	return db.CacheDirectoryEntries(ctx, cacheKey, entries)
}
