// api/service/session_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/conditioncraft/composer/api/audit"
	"github.com/conditioncraft/composer/api/builder"
	"github.com/conditioncraft/composer/api/catalog"
	composer_errors "github.com/conditioncraft/composer/api/errors"
	logger "github.com/conditioncraft/composer/api/logging"
	"github.com/conditioncraft/composer/api/model"
	"github.com/conditioncraft/composer/api/refcheck"
	"github.com/conditioncraft/composer/api/util"
)

// SessionView is the API-facing shape of a builder session.
type SessionView struct {
	ID       string               `json:"id"`
	Group    model.ConditionGroup `json:"group"`
	Dirty    bool                 `json:"dirty"`
	Sentence string               `json:"sentence"`
}

// SessionCache mirrors committed builder state to redis and holds the
// per-session reference check lock.
type SessionCache interface {
	GetSnapshot(ctx context.Context, sessionID string) (*model.ConditionGroup, error)
	SetSnapshot(ctx context.Context, sessionID string, group model.ConditionGroup) error
	DeleteSnapshot(ctx context.Context, sessionID string) error
	LockSession(ctx context.Context, sessionID string, ttl time.Duration) (bool, error)
	UnlockSession(ctx context.Context, sessionID string) error
}

// referenceCheckLockTTL bounds how long a crashed check can hold the
// session lock.
const referenceCheckLockTTL = 10 * time.Second

// ISessionService drives builder sessions: one in-memory condition
// group per session, mutated through cascading operations.
type ISessionService interface {
	CreateSession(ctx context.Context, userID string) (*SessionView, error)
	GetSession(ctx context.Context, sessionID string) (*SessionView, error)
	DeleteSession(ctx context.Context, userID, sessionID string) error

	AddCondition(ctx context.Context, userID, sessionID string) (*model.PolicyCondition, error)
	RemoveCondition(ctx context.Context, userID, sessionID, conditionID string) error
	SetCategory(ctx context.Context, userID, sessionID, conditionID string, category model.Category) error
	SetAttribute(ctx context.Context, userID, sessionID, conditionID, attributeID string) error
	SetOperator(ctx context.Context, userID, sessionID, conditionID, operatorID string) error
	SetValue(ctx context.Context, userID, sessionID, conditionID string, value model.ConditionValue) error
	SetLogic(ctx context.Context, userID, sessionID string, logic model.GroupLogic) error
	ApplyTemplate(ctx context.Context, userID, sessionID, templateID string) error
	ClearConditions(ctx context.Context, userID, sessionID string) error
	ReplaceConditions(ctx context.Context, userID, sessionID string, conditions []model.PolicyCondition) error

	Validate(ctx context.Context, sessionID string) (model.GroupValidation, error)
	Translate(ctx context.Context, sessionID string) (string, error)
	Snapshot(ctx context.Context, sessionID string) (model.ConditionGroup, error)

	CheckReferences(ctx context.Context, sessionID string) (refcheck.Outcome, error)
	RefreshReferences(ctx context.Context, sessionID string) (refcheck.Outcome, error)
	ReferenceWarnings(ctx context.Context, sessionID string) ([]refcheck.Warning, error)
	DismissReferenceWarnings(ctx context.Context, sessionID string) error
}

type session struct {
	mu      sync.Mutex
	builder *builder.Builder
	bridge  *refcheck.Bridge
	ownerID string
	created time.Time
}

// SessionService holds builder sessions in memory. Snapshots are
// mirrored to the cache on every commit so a restarted instance can
// offer recovery, but the in-memory builder is authoritative.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*session

	checker         refcheck.Checker
	auditService    audit.Service
	validationUtil  *util.ValidationUtil
	cacheService    SessionCache
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

// NewSessionService creates a new instance of SessionService
func NewSessionService(checker refcheck.Checker, auditService audit.Service, validationUtil *util.ValidationUtil, cacheService SessionCache, notificationSvc *util.NotificationService, eventBus *util.EventBus) *SessionService {
	service := &SessionService{
		sessions:        make(map[string]*session),
		checker:         checker,
		auditService:    auditService,
		validationUtil:  validationUtil,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}

	// Set up event subscriptions
	if eventBus != nil {
		eventBus.Subscribe("session.committed", service.handleSessionCommitted)
	}

	return service
}

func (s *SessionService) handleSessionCommitted(ctx context.Context, event util.Event) error {
	sessionID, ok := event.Payload.(string)
	if !ok {
		return fmt.Errorf("invalid event payload type: %T", event.Payload)
	}
	if s.notificationSvc == nil {
		return nil
	}
	return s.notificationSvc.NotifySessionChange(ctx, "committed", sessionID)
}

func (s *SessionService) CreateSession(ctx context.Context, userID string) (*SessionView, error) {
	sessionID := uuid.New().String()
	sess := &session{
		builder: builder.New(),
		bridge:  refcheck.NewBridge(s.checker),
		ownerID: userID,
		created: time.Now().UTC(),
	}
	sess.builder.Subscribe(func(group model.ConditionGroup) {
		s.onCommit(sessionID, group)
	})

	s.mu.Lock()
	s.sessions[sessionID] = sess
	s.mu.Unlock()

	logger.Info("Builder session created",
		zap.String("sessionID", sessionID),
		zap.String("userID", userID))
	s.recordChange(ctx, userID, sessionID, "session.created", "", nil)
	if s.notificationSvc != nil {
		s.notificationSvc.NotifySessionChange(ctx, "created", sessionID)
	}

	return s.view(sessionID, sess), nil
}

func (s *SessionService) GetSession(ctx context.Context, sessionID string) (*SessionView, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		sess, err = s.recoverSession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
	}
	return s.view(sessionID, sess), nil
}

// recoverSession rebuilds a session from its cached snapshot. Only the
// committed group survives a restart; ownership and pending reference
// warnings do not.
func (s *SessionService) recoverSession(ctx context.Context, sessionID string) (*session, error) {
	if s.cacheService == nil {
		return nil, composer_errors.ErrSessionNotFound
	}

	group, err := s.cacheService.GetSnapshot(ctx, sessionID)
	if err != nil {
		logger.Warn("Failed to read cached snapshot",
			zap.Error(err),
			zap.String("sessionID", sessionID))
		return nil, composer_errors.ErrSessionNotFound
	}
	if group == nil {
		return nil, composer_errors.ErrSessionNotFound
	}

	sess := &session{
		builder: builder.NewFromGroup(*group),
		bridge:  refcheck.NewBridge(s.checker),
		created: time.Now().UTC(),
	}
	sess.builder.Subscribe(func(g model.ConditionGroup) {
		s.onCommit(sessionID, g)
	})

	s.mu.Lock()
	if existing, ok := s.sessions[sessionID]; ok {
		s.mu.Unlock()
		return existing, nil
	}
	s.sessions[sessionID] = sess
	s.mu.Unlock()

	logger.Info("Builder session recovered from cache", zap.String("sessionID", sessionID))
	return sess, nil
}

func (s *SessionService) DeleteSession(ctx context.Context, userID, sessionID string) error {
	s.mu.Lock()
	_, exists := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if !exists {
		return composer_errors.ErrSessionNotFound
	}

	if s.cacheService != nil {
		if err := s.cacheService.DeleteSnapshot(ctx, sessionID); err != nil {
			logger.Warn("Failed to delete cached snapshot", zap.Error(err), zap.String("sessionID", sessionID))
		}
	}
	s.recordChange(ctx, userID, sessionID, "session.deleted", "", nil)
	if s.notificationSvc != nil {
		s.notificationSvc.NotifySessionChange(ctx, "deleted", sessionID)
	}
	return nil
}

func (s *SessionService) AddCondition(ctx context.Context, userID, sessionID string) (*model.PolicyCondition, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	cond := sess.builder.Add()
	sess.mu.Unlock()

	s.recordChange(ctx, userID, sessionID, "condition.added", cond.ID, nil)
	return &cond, nil
}

func (s *SessionService) RemoveCondition(ctx context.Context, userID, sessionID, conditionID string) error {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	sess.builder.Remove(conditionID)
	sess.mu.Unlock()

	s.recordChange(ctx, userID, sessionID, "condition.removed", conditionID, nil)
	return nil
}

func (s *SessionService) SetCategory(ctx context.Context, userID, sessionID, conditionID string, category model.Category) error {
	if err := s.validationUtil.ValidateCategory(category); err != nil {
		return fmt.Errorf("%w: %v", composer_errors.ErrInvalidCategory, err)
	}

	sess, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	sess.builder.SetCategory(conditionID, category)
	sess.mu.Unlock()

	s.recordChange(ctx, userID, sessionID, "condition.category", conditionID, map[string]interface{}{"category": category})
	return nil
}

func (s *SessionService) SetAttribute(ctx context.Context, userID, sessionID, conditionID, attributeID string) error {
	if _, ok := catalog.AttributeByID(attributeID); !ok {
		return composer_errors.ErrUnknownAttribute
	}

	sess, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	sess.builder.SetAttribute(conditionID, attributeID)
	sess.mu.Unlock()

	s.recordChange(ctx, userID, sessionID, "condition.attribute", conditionID, map[string]interface{}{"attribute": attributeID})
	return nil
}

func (s *SessionService) SetOperator(ctx context.Context, userID, sessionID, conditionID, operatorID string) error {
	if _, ok := catalog.OperatorByID(operatorID); !ok {
		return fmt.Errorf("%w: unknown operator %s", composer_errors.ErrInvalidConditionData, operatorID)
	}

	sess, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	sess.builder.SetOperator(conditionID, operatorID)
	sess.mu.Unlock()

	s.recordChange(ctx, userID, sessionID, "condition.operator", conditionID, map[string]interface{}{"operator": operatorID})
	return nil
}

func (s *SessionService) SetValue(ctx context.Context, userID, sessionID, conditionID string, value model.ConditionValue) error {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	sess.builder.SetValue(conditionID, value)
	sess.mu.Unlock()

	s.recordChange(ctx, userID, sessionID, "condition.value", conditionID, nil)
	return nil
}

func (s *SessionService) SetLogic(ctx context.Context, userID, sessionID string, logic model.GroupLogic) error {
	if err := s.validationUtil.ValidateLogic(logic); err != nil {
		return fmt.Errorf("%w: %v", composer_errors.ErrInvalidLogic, err)
	}

	sess, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	sess.builder.SetLogic(logic)
	sess.mu.Unlock()

	s.recordChange(ctx, userID, sessionID, "group.logic", "", map[string]interface{}{"logic": logic})
	return nil
}

func (s *SessionService) ApplyTemplate(ctx context.Context, userID, sessionID, templateID string) error {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	err = sess.builder.ApplyTemplate(templateID)
	sess.mu.Unlock()
	if err != nil {
		return fmt.Errorf("%w: %s", composer_errors.ErrTemplateNotFound, templateID)
	}

	s.recordChange(ctx, userID, sessionID, "template.applied", "", map[string]interface{}{"template": templateID})
	return nil
}

func (s *SessionService) ClearConditions(ctx context.Context, userID, sessionID string) error {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	sess.builder.Clear()
	sess.mu.Unlock()

	s.recordChange(ctx, userID, sessionID, "conditions.cleared", "", nil)
	return nil
}

func (s *SessionService) ReplaceConditions(ctx context.Context, userID, sessionID string, conditions []model.PolicyCondition) error {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	sess.builder.ReplaceAll(conditions)
	sess.mu.Unlock()

	s.recordChange(ctx, userID, sessionID, "conditions.replaced", "", map[string]interface{}{"count": len(conditions)})
	return nil
}

func (s *SessionService) Validate(ctx context.Context, sessionID string) (model.GroupValidation, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return model.GroupValidation{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.builder.ValidateAll(), nil
}

func (s *SessionService) Translate(ctx context.Context, sessionID string) (string, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return "", err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.builder.TranslateGroup(), nil
}

func (s *SessionService) Snapshot(ctx context.Context, sessionID string) (model.ConditionGroup, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return model.ConditionGroup{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.builder.Snapshot(), nil
}

func (s *SessionService) CheckReferences(ctx context.Context, sessionID string) (refcheck.Outcome, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return refcheck.Outcome{}, err
	}

	release, err := s.acquireCheckLock(ctx, sessionID)
	if err != nil {
		return refcheck.Outcome{}, err
	}
	defer release()

	sess.mu.Lock()
	conditions := sess.builder.Snapshot().Conditions
	sess.mu.Unlock()

	outcome := sess.bridge.Submit(ctx, conditions)
	if s.notificationSvc != nil && outcome.Status == refcheck.OutcomeIssues {
		s.notificationSvc.NotifyReferenceIssues(ctx, sessionID, len(outcome.Warnings))
	}
	return outcome, nil
}

func (s *SessionService) RefreshReferences(ctx context.Context, sessionID string) (refcheck.Outcome, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return refcheck.Outcome{}, err
	}

	release, err := s.acquireCheckLock(ctx, sessionID)
	if err != nil {
		return refcheck.Outcome{}, err
	}
	defer release()

	return sess.bridge.Refresh(ctx), nil
}

// acquireCheckLock serializes reference checks for one session across
// instances. A cache failure falls through to an unserialized check
// rather than blocking the caller.
func (s *SessionService) acquireCheckLock(ctx context.Context, sessionID string) (func(), error) {
	if s.cacheService == nil {
		return func() {}, nil
	}

	locked, err := s.cacheService.LockSession(ctx, sessionID, referenceCheckLockTTL)
	if err != nil {
		logger.Warn("Failed to acquire reference check lock",
			zap.Error(err),
			zap.String("sessionID", sessionID))
		return func() {}, nil
	}
	if !locked {
		return nil, composer_errors.ErrCheckInProgress
	}

	return func() {
		if err := s.cacheService.UnlockSession(ctx, sessionID); err != nil {
			logger.Warn("Failed to release reference check lock",
				zap.Error(err),
				zap.String("sessionID", sessionID))
		}
	}, nil
}

func (s *SessionService) ReferenceWarnings(ctx context.Context, sessionID string) ([]refcheck.Warning, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.bridge.Warnings(), nil
}

func (s *SessionService) DismissReferenceWarnings(ctx context.Context, sessionID string) error {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return err
	}
	sess.bridge.Dismiss()
	return nil
}

func (s *SessionService) lookup(sessionID string) (*session, error) {
	s.mu.RLock()
	sess, exists := s.sessions[sessionID]
	s.mu.RUnlock()
	if !exists {
		return nil, composer_errors.ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionService) view(sessionID string, sess *session) *SessionView {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return &SessionView{
		ID:       sessionID,
		Group:    sess.builder.Snapshot(),
		Dirty:    sess.builder.Dirty(),
		Sentence: sess.builder.TranslateGroup(),
	}
}

// onCommit runs synchronously inside every successful mutation. It
// mirrors the snapshot to the cache and fans the commit out on the
// event bus.
func (s *SessionService) onCommit(sessionID string, group model.ConditionGroup) {
	ctx := context.Background()
	if s.cacheService != nil {
		if err := s.cacheService.SetSnapshot(ctx, sessionID, group); err != nil {
			logger.Warn("Failed to cache session snapshot",
				zap.Error(err),
				zap.String("sessionID", sessionID))
		}
	}
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, "session.committed", sessionID)
	}
}

func (s *SessionService) recordChange(ctx context.Context, userID, sessionID, action, conditionID string, details map[string]interface{}) {
	if s.auditService == nil {
		return
	}

	var raw json.RawMessage
	if details != nil {
		if data, err := json.Marshal(details); err == nil {
			raw = data
		}
	}

	entry := audit.AuditLog{
		Timestamp:     time.Now().UTC(),
		UserID:        userID,
		Action:        action,
		SessionID:     sessionID,
		ConditionID:   conditionID,
		ChangeDetails: raw,
	}
	if err := s.auditService.LogChange(ctx, entry); err != nil {
		logger.Warn("Failed to record audit log",
			zap.Error(err),
			zap.String("sessionID", sessionID),
			zap.String("action", action))
	}
}
