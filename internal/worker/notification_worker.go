package worker

import (
	"go.uber.org/zap"

	"github.com/taskhub/task-service/internal/service"
)

// StartNotificationWorker subscribes the notification service to task
// events. Delivery is synchronous today; the worker is the single
// attachment point if a queue-backed transport is added later.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	if logger != nil {
		logger.Info("notification worker started")
	}
}
