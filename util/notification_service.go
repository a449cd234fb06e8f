// api/util/notification_service.go

package util

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	logger "github.com/conditioncraft/composer/api/logging"
)

type NotificationService struct {
	// You might want to add dependencies here, such as a message queue client
}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (n *NotificationService) NotifySessionChange(ctx context.Context, changeType string, sessionID string) error {
	// In a real implementation, you might send this to a message queue or external notification service
	switch changeType {
	case "created":
		logger.Info("NOTIFICATION: Builder session created",
			zap.String("sessionID", sessionID))
	case "committed":
		logger.Info("NOTIFICATION: Builder session committed",
			zap.String("sessionID", sessionID))
	case "deleted":
		logger.Info("NOTIFICATION: Builder session deleted",
			zap.String("sessionID", sessionID))
	default:
		return fmt.Errorf("unknown change type: %s", changeType)
	}

	return nil
}

func (n *NotificationService) NotifyReferenceIssues(ctx context.Context, sessionID string, warningCount int) error {
	logger.Warn("NOTIFICATION: Reference issues detected",
		zap.String("sessionID", sessionID),
		zap.Int("warnings", warningCount))
	return nil
}
