package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fixdesk/workorder-service/internal/events"
	"github.com/fixdesk/workorder-service/internal/service"
)

// StartNotificationWorker subscribes the notification service to the
// dispatcher.
func StartNotificationWorker(dispatcher events.Dispatcher, notifications *service.NotificationService) {
	if notifications == nil {
		return
	}
	notifications.Register(dispatcher)
}

// StartHistoryRefresher rebuilds the archive snapshot on an interval until the
// context is cancelled. An initial reload runs immediately so the snapshot is
// populated before the first request.
func StartHistoryRefresher(ctx context.Context, board *service.BoardService, interval time.Duration, logger *zap.Logger) {
	if board == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	if err := board.ReloadHistory(ctx); err != nil {
		logger.Warn("initial history reload", zap.Error(err))
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := board.ReloadHistory(ctx); err != nil {
					logger.Warn("history reload", zap.Error(err))
				}
			}
		}
	}()
}
