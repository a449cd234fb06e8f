// api/service/directory_service.go
package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/conditioncraft/composer/api/dao"
	composer_errors "github.com/conditioncraft/composer/api/errors"
	logger "github.com/conditioncraft/composer/api/logging"
	"github.com/conditioncraft/composer/api/model"
	"github.com/conditioncraft/composer/api/util"
)

// IDirectoryService reads the resource directory for pickers and
// verifies resource references against it.
type IDirectoryService interface {
	SearchResources(ctx context.Context, criteria model.DirectorySearchCriteria) ([]model.DirectoryEntry, error)
	GetResource(ctx context.Context, resourceType, id string) (*model.DirectoryEntry, error)
	CheckConditions(ctx context.Context, conditions []model.ConditionPayload) (*model.CheckResult, error)
}

// DirectoryService handles business logic for directory lookups. It
// doubles as the reference checker when no external validator is
// configured.
type DirectoryService struct {
	directoryDAO   *dao.DirectoryDAO
	validationUtil *util.ValidationUtil
	cacheService   *util.CacheService
}

// NewDirectoryService creates a new instance of DirectoryService
func NewDirectoryService(directoryDAO *dao.DirectoryDAO, validationUtil *util.ValidationUtil, cacheService *util.CacheService) *DirectoryService {
	return &DirectoryService{
		directoryDAO:   directoryDAO,
		validationUtil: validationUtil,
		cacheService:   cacheService,
	}
}

func (s *DirectoryService) SearchResources(ctx context.Context, criteria model.DirectorySearchCriteria) ([]model.DirectoryEntry, error) {
	if err := s.validationUtil.ValidateDirectoryCriteria(criteria); err != nil {
		return nil, fmt.Errorf("%w: %v", composer_errors.ErrInvalidSearchCriteria, err)
	}

	cacheKey := fmt.Sprintf("%s:%s:%d:%d", criteria.ResourceType, criteria.Query, criteria.Limit, criteria.Offset)
	if s.cacheService != nil {
		if entries, err := s.cacheService.GetDirectoryEntries(ctx, cacheKey); err == nil && entries != nil {
			return entries, nil
		}
	}

	entries, err := s.directoryDAO.SearchResources(ctx, criteria)
	if err != nil {
		return nil, err
	}

	if s.cacheService != nil {
		if err := s.cacheService.SetDirectoryEntries(ctx, cacheKey, entries); err != nil {
			logger.Warn("Failed to cache directory entries",
				zap.Error(err),
				zap.String("resourceType", criteria.ResourceType))
		}
	}
	return entries, nil
}

func (s *DirectoryService) GetResource(ctx context.Context, resourceType, id string) (*model.DirectoryEntry, error) {
	return s.directoryDAO.GetResource(ctx, resourceType, id)
}

// CheckConditions verifies every resource reference among the given
// condition payloads against the directory. Missing targets come back
// orphaned; targets renamed or touched since the reference was last
// validated come back changed.
func (s *DirectoryService) CheckConditions(ctx context.Context, conditions []model.ConditionPayload) (*model.CheckResult, error) {
	refsByType := make(map[string][]model.ResourceReference)
	for _, payload := range conditions {
		ref, ok := payload.Value.(model.ResourceReference)
		if !ok || !ref.HasSelection() {
			continue
		}
		refsByType[ref.Type] = append(refsByType[ref.Type], ref)
	}

	result := &model.CheckResult{IsValid: true}
	if len(refsByType) == 0 {
		return result, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for resourceType, refs := range refsByType {
		resourceType, refs := resourceType, refs
		g.Go(func() error {
			ids := collectIDs(refs)
			entries, err := s.directoryDAO.GetResourcesByIDs(gctx, resourceType, ids)
			if err != nil {
				return err
			}
			statuses := referenceStatuses(resourceType, refs, entries)
			mu.Lock()
			result.References = append(result.References, statuses...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Reference check failed", zap.Error(err))
		return nil, err
	}

	sort.Slice(result.References, func(i, j int) bool {
		if result.References[i].Type != result.References[j].Type {
			return result.References[i].Type < result.References[j].Type
		}
		return result.References[i].ID < result.References[j].ID
	})

	for _, ref := range result.References {
		switch ref.Status {
		case model.ReferenceOrphaned:
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s %q no longer exists", ref.Type, ref.ID))
		case model.ReferenceChanged:
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s %q has changed since it was selected", ref.Type, displayOrID(ref)))
		}
	}
	return result, nil
}

func collectIDs(refs []model.ResourceReference) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, ref := range refs {
		for _, id := range refIDs(ref) {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func refIDs(ref model.ResourceReference) []string {
	if ref.Selector.ID != "" {
		return []string{ref.Selector.ID}
	}
	return ref.Selector.IDs
}

func referenceStatuses(resourceType string, refs []model.ResourceReference, entries map[string]model.DirectoryEntry) []model.ResourceReferenceStatus {
	now := time.Now().UTC()
	seen := make(map[string]bool)
	var statuses []model.ResourceReferenceStatus
	for _, ref := range refs {
		for _, id := range refIDs(ref) {
			if seen[id] {
				continue
			}
			seen[id] = true

			status := model.ResourceReferenceStatus{
				Type:        resourceType,
				ID:          id,
				Status:      model.ReferenceValid,
				ValidatedAt: now,
			}
			entry, found := entries[id]
			if !found {
				status.Status = model.ReferenceOrphaned
				if ref.Display != nil {
					status.Name = ref.Display.Name
				}
				statuses = append(statuses, status)
				continue
			}

			status.Name = entry.Name
			if ref.Display != nil {
				renamed := ref.Display.Name != "" && ref.Display.Name != entry.Name
				touched := !ref.Display.ValidatedAt.IsZero() && entry.UpdatedAt.After(ref.Display.ValidatedAt)
				if renamed || touched {
					status.Status = model.ReferenceChanged
				}
			}
			statuses = append(statuses, status)
		}
	}
	return statuses
}

func displayOrID(ref model.ResourceReferenceStatus) string {
	if ref.Name != "" {
		return ref.Name
	}
	return ref.ID
}
