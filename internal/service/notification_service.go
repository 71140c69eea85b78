package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/fixdesk/workorder-service/internal/events"
	"github.com/fixdesk/workorder-service/internal/observability"
)

// NotificationService reacts to work-order lifecycle events: it records them,
// emits structured log lines, and drops the cached dashboard summary so the
// next read reflects the change.
type NotificationService struct {
	analytics *AnalyticsService
	board     *BoardService
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewNotificationService builds the service.
func NewNotificationService(analytics *AnalyticsService, board *BoardService, metrics *observability.Metrics, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{analytics: analytics, board: board, metrics: metrics, logger: logger}
}

// Register subscribes the service to all work-order events.
func (s *NotificationService) Register(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventWorkOrderCreated, s.handle)
	dispatcher.Subscribe(events.EventWorkOrderStatusChanged, s.handle)
	dispatcher.Subscribe(events.EventWorkOrderAssigned, s.handle)
	dispatcher.Subscribe(events.EventWorkOrderDeleted, s.handle)
}

func (s *NotificationService) handle(ctx context.Context, event events.Event) error {
	s.metrics.RecordWorkOrderEvent(string(event.Type))
	s.logger.Info("work order event",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("work_order_id", event.WorkOrderID),
	)

	if s.analytics != nil {
		s.analytics.InvalidateSummary(ctx)
	}
	// A completion moves the order toward history; refresh the snapshot so
	// the archive view picks it up without waiting for a manual reload.
	if event.Type == events.EventWorkOrderStatusChanged && s.board != nil {
		if err := s.board.ReloadHistory(ctx); err != nil {
			s.logger.Warn("reload history after status change", zap.Error(err))
		}
	}
	return nil
}
