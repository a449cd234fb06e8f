// api/service/session_service_test.go
package service_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	composer_errors "github.com/conditioncraft/composer/api/errors"
	logger "github.com/conditioncraft/composer/api/logging"
	"github.com/conditioncraft/composer/api/model"
	"github.com/conditioncraft/composer/api/refcheck"
	"github.com/conditioncraft/composer/api/service"
	"github.com/conditioncraft/composer/api/util"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "service-logs")
	if err != nil {
		panic(err)
	}
	logger.InitLogger(dir)
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

// fakeSessionCache is an in-memory stand-in for the redis-backed
// session cache.
type fakeSessionCache struct {
	mu        sync.Mutex
	snapshots map[string]model.ConditionGroup
	locks     map[string]bool
}

func newFakeSessionCache() *fakeSessionCache {
	return &fakeSessionCache{
		snapshots: make(map[string]model.ConditionGroup),
		locks:     make(map[string]bool),
	}
}

func (f *fakeSessionCache) GetSnapshot(ctx context.Context, sessionID string) (*model.ConditionGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	group, ok := f.snapshots[sessionID]
	if !ok {
		return nil, nil
	}
	clone := group.Clone()
	return &clone, nil
}

func (f *fakeSessionCache) SetSnapshot(ctx context.Context, sessionID string, group model.ConditionGroup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots[sessionID] = group.Clone()
	return nil
}

func (f *fakeSessionCache) DeleteSnapshot(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.snapshots, sessionID)
	return nil
}

func (f *fakeSessionCache) LockSession(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.locks[sessionID] {
		return false, nil
	}
	f.locks[sessionID] = true
	return true, nil
}

func (f *fakeSessionCache) UnlockSession(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.locks, sessionID)
	return nil
}

func (f *fakeSessionCache) holdLock(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locks[sessionID] = true
}

func (f *fakeSessionCache) releaseLock(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.locks, sessionID)
}

func (f *fakeSessionCache) lockHeld(sessionID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.locks[sessionID]
}

func TestCommitMirrorsSnapshotToCache(t *testing.T) {
	cache := newFakeSessionCache()
	svc := service.NewSessionService(nil, nil, util.NewValidationUtil(), cache, nil, nil)
	ctx := context.Background()

	view, err := svc.CreateSession(ctx, "u-1")
	require.NoError(t, err)

	_, err = svc.AddCondition(ctx, "u-1", view.ID)
	require.NoError(t, err)

	snap, err := cache.GetSnapshot(ctx, view.ID)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Len(t, snap.Conditions, 1)

	require.NoError(t, svc.DeleteSession(ctx, "u-1", view.ID))
	snap, err = cache.GetSnapshot(ctx, view.ID)
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestGetSessionRecoversFromCachedSnapshot(t *testing.T) {
	cache := newFakeSessionCache()
	svc := service.NewSessionService(nil, nil, util.NewValidationUtil(), cache, nil, nil)
	ctx := context.Background()

	view, err := svc.CreateSession(ctx, "u-1")
	require.NoError(t, err)
	cond, err := svc.AddCondition(ctx, "u-1", view.ID)
	require.NoError(t, err)
	require.NoError(t, svc.SetAttribute(ctx, "u-1", view.ID, cond.ID, "user_email"))
	require.NoError(t, svc.SetValue(ctx, "u-1", view.ID, cond.ID, model.StringValue("jane@acme.io")))

	// A fresh instance only has what the cache kept.
	restarted := service.NewSessionService(nil, nil, util.NewValidationUtil(), cache, nil, nil)
	recovered, err := restarted.GetSession(ctx, view.ID)
	require.NoError(t, err)
	require.Len(t, recovered.Group.Conditions, 1)
	assert.Equal(t, "user_email", recovered.Group.Conditions[0].Attribute)
	assert.Equal(t, model.StringValue("jane@acme.io"), recovered.Group.Conditions[0].Value)
	assert.False(t, recovered.Dirty)
	assert.Contains(t, recovered.Sentence, "User's email is jane@acme.io")

	// Recovered sessions keep committing to the cache.
	_, err = restarted.AddCondition(ctx, "u-1", view.ID)
	require.NoError(t, err)
	snap, err := cache.GetSnapshot(ctx, view.ID)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Len(t, snap.Conditions, 2)

	_, err = restarted.GetSession(ctx, "no-such-session")
	assert.ErrorIs(t, err, composer_errors.ErrSessionNotFound)
}

func TestCheckReferencesRequiresSessionLock(t *testing.T) {
	cache := newFakeSessionCache()
	svc := service.NewSessionService(nil, nil, util.NewValidationUtil(), cache, nil, nil)
	ctx := context.Background()

	view, err := svc.CreateSession(ctx, "u-1")
	require.NoError(t, err)

	cache.holdLock(view.ID)
	_, err = svc.CheckReferences(ctx, view.ID)
	assert.ErrorIs(t, err, composer_errors.ErrCheckInProgress)
	_, err = svc.RefreshReferences(ctx, view.ID)
	assert.ErrorIs(t, err, composer_errors.ErrCheckInProgress)

	cache.releaseLock(view.ID)
	outcome, err := svc.CheckReferences(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, refcheck.OutcomeClean, outcome.Status)
	assert.False(t, cache.lockHeld(view.ID))
}

func TestCommitPublishesSessionEvent(t *testing.T) {
	bus := util.NewEventBus()
	received := make(chan string, 1)
	bus.Subscribe("session.committed", func(ctx context.Context, event util.Event) error {
		id, _ := event.Payload.(string)
		received <- id
		return nil
	})

	svc := service.NewSessionService(nil, nil, util.NewValidationUtil(), nil, util.NewNotificationService(), bus)
	ctx := context.Background()

	view, err := svc.CreateSession(ctx, "u-1")
	require.NoError(t, err)
	_, err = svc.AddCondition(ctx, "u-1", view.ID)
	require.NoError(t, err)

	select {
	case id := <-received:
		assert.Equal(t, view.ID, id)
	case <-time.After(time.Second):
		t.Fatal("no commit event received")
	}
}
