package service

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fixdesk/workorder-service/internal/domain"
	"github.com/fixdesk/workorder-service/internal/events"
	"github.com/fixdesk/workorder-service/internal/repository"
	apperrors "github.com/fixdesk/workorder-service/pkg/util"
)

// TransitionPolicy decides whether a status change is allowed. The default
// policy accepts every transition, including jumps such as Completed back to
// Pending; a stricter allowed-transition table can be swapped in without
// touching callers.
type TransitionPolicy func(current, next domain.WorkOrderStatus) bool

// AllowAllTransitions is the default permissive policy.
func AllowAllTransitions(current, next domain.WorkOrderStatus) bool {
	return true
}

// WorkOrderService owns creation, status transitions, technician assignment
// and deletion for work orders.
type WorkOrderService struct {
	orders     repository.WorkOrderRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	transition TransitionPolicy

	// Work-order display numbers come from this in-process counter. It is
	// seeded at 1000 and resets on every restart, so numbers are NOT unique
	// across restarts or instances; the UUID identity is the unique handle.
	counter atomic.Int64

	now func() time.Time
}

// WorkOrderDependencies bundles collaborators for the lifecycle engine.
type WorkOrderDependencies struct {
	OrderRepo  repository.WorkOrderRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Transition TransitionPolicy
}

// NewWorkOrderService constructs the service.
func NewWorkOrderService(deps WorkOrderDependencies) *WorkOrderService {
	s := &WorkOrderService{
		orders:     deps.OrderRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		transition: deps.Transition,
		now:        time.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.transition == nil {
		s.transition = AllowAllTransitions
	}
	s.counter.Store(1000)
	return s
}

// WorkOrderCreateInput describes the work-order creation payload.
type WorkOrderCreateInput struct {
	CustomerID       string
	DeviceID         string
	TechnicianID     *string
	IssueDescription string
	PartsRequired    string
	LaborCost        decimal.Decimal
	PartsCost        decimal.Decimal
}

// DeviceIntakeInput describes the device registered together with a new work
// order.
type DeviceIntakeInput struct {
	DeviceType   string
	Brand        string
	SerialNumber string
}

func (in WorkOrderCreateInput) validate(requireDevice bool) error {
	if strings.TrimSpace(in.CustomerID) == "" {
		return apperrors.NewValidationError("customer_id required", nil)
	}
	if requireDevice && strings.TrimSpace(in.DeviceID) == "" {
		return apperrors.NewValidationError("device_id required", nil)
	}
	if strings.TrimSpace(in.IssueDescription) == "" {
		return apperrors.NewValidationError("issue_description required", nil)
	}
	if in.LaborCost.IsNegative() || in.PartsCost.IsNegative() {
		return apperrors.NewValidationError("costs must be non-negative", nil)
	}
	return nil
}

// CreateWorkOrder creates a work order against an existing device. The order
// starts Pending with createdAt set to now.
func (s *WorkOrderService) CreateWorkOrder(ctx context.Context, input WorkOrderCreateInput) (*domain.WorkOrder, error) {
	if err := input.validate(true); err != nil {
		return nil, err
	}
	order := s.buildOrder(input, input.DeviceID)
	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error("create work order", zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	s.publishCreated(ctx, order)
	return order, nil
}

// CreateIntake registers the customer's device and opens a work order for it
// in a single transaction, so a failure never leaves an orphaned device.
func (s *WorkOrderService) CreateIntake(ctx context.Context, input WorkOrderCreateInput, deviceInput DeviceIntakeInput) (*domain.WorkOrder, *domain.Device, error) {
	if err := input.validate(false); err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(deviceInput.DeviceType) == "" {
		return nil, nil, apperrors.NewValidationError("device_type required", nil)
	}

	now := s.now().UTC()
	device := &domain.Device{
		ID:           uuid.NewString(),
		CustomerID:   input.CustomerID,
		DeviceType:   strings.TrimSpace(deviceInput.DeviceType),
		Brand:        strings.TrimSpace(deviceInput.Brand),
		SerialNumber: strings.TrimSpace(deviceInput.SerialNumber),
		CreatedAt:    now,
		LastModified: now,
	}
	order := s.buildOrder(input, device.ID)

	if err := s.orders.CreateWithDevice(ctx, device, order); err != nil {
		s.logger.Error("create intake", zap.Error(err))
		return nil, nil, apperrors.MapError(err)
	}
	s.publishCreated(ctx, order)
	return order, device, nil
}

func (s *WorkOrderService) buildOrder(input WorkOrderCreateInput, deviceID string) *domain.WorkOrder {
	now := s.now()
	return &domain.WorkOrder{
		ID:               uuid.NewString(),
		WorkOrderNumber:  s.nextWorkOrderNumber(now),
		CustomerID:       input.CustomerID,
		DeviceID:         deviceID,
		TechnicianID:     input.TechnicianID,
		IssueDescription: strings.TrimSpace(input.IssueDescription),
		PartsRequired:    strings.TrimSpace(input.PartsRequired),
		LaborCost:        input.LaborCost,
		PartsCost:        input.PartsCost,
		Status:           domain.StatusPending,
		CreatedAt:        now.UTC(),
	}
}

func (s *WorkOrderService) nextWorkOrderNumber(now time.Time) string {
	seq := s.counter.Add(1)
	return "WO-" + now.Format("20060102") + "-" + strconv.FormatInt(seq, 10)
}

// SetStatus applies a status change. The first transition to In Progress
// stamps startedAt; the first transition to Completed stamps completedAt;
// neither timestamp is ever cleared or overwritten by later transitions.
// Re-issuing the current status persists the write without touching
// timestamps.
func (s *WorkOrderService) SetStatus(ctx context.Context, id string, newStatus domain.WorkOrderStatus) (*domain.WorkOrder, error) {
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("load work order", zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	if !s.transition(order.Status, newStatus) {
		return nil, apperrors.NewConflict("status transition not allowed", map[string]any{
			"from": order.Status,
			"to":   newStatus,
		})
	}

	oldStatus := order.Status
	now := s.now().UTC()
	if newStatus == domain.StatusInProgress && order.StartedAt == nil {
		order.StartedAt = &now
	}
	if newStatus == domain.StatusCompleted && order.CompletedAt == nil {
		order.CompletedAt = &now
	}
	order.Status = newStatus

	if err := s.orders.Update(ctx, order); err != nil {
		s.logger.Error("update work order status", zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventWorkOrderStatusChanged,
		WorkOrderID: order.ID,
		Payload: events.WorkOrderStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return order, nil
}

// AssignTechnician overwrites the technician reference unconditionally. The
// target is not checked for the Technician role; callers gate the operation
// at the transport boundary.
func (s *WorkOrderService) AssignTechnician(ctx context.Context, workOrderID, technicianID string) (*domain.WorkOrder, error) {
	if strings.TrimSpace(technicianID) == "" {
		return nil, apperrors.NewValidationError("technician_id required", nil)
	}
	order, err := s.orders.GetByID(ctx, workOrderID)
	if err != nil {
		s.logger.Error("load work order", zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	order.TechnicianID = &technicianID
	if err := s.orders.Update(ctx, order); err != nil {
		s.logger.Error("assign technician", zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventWorkOrderAssigned,
		WorkOrderID: order.ID,
		Payload:     events.WorkOrderAssignedPayload{TechnicianID: technicianID},
	})
	return order, nil
}

// UpdateDetails edits the mutable descriptive fields of a work order.
func (s *WorkOrderService) UpdateDetails(ctx context.Context, id string, input WorkOrderCreateInput) (*domain.WorkOrder, error) {
	if strings.TrimSpace(input.IssueDescription) == "" {
		return nil, apperrors.NewValidationError("issue_description required", nil)
	}
	if input.LaborCost.IsNegative() || input.PartsCost.IsNegative() {
		return nil, apperrors.NewValidationError("costs must be non-negative", nil)
	}
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	order.IssueDescription = strings.TrimSpace(input.IssueDescription)
	order.PartsRequired = strings.TrimSpace(input.PartsRequired)
	order.LaborCost = input.LaborCost
	order.PartsCost = input.PartsCost
	if err := s.orders.Update(ctx, order); err != nil {
		s.logger.Error("update work order", zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	return order, nil
}

// Delete removes the work order together with its intake device in one
// transaction.
func (s *WorkOrderService) Delete(ctx context.Context, id string) error {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("load work order", zap.Error(err))
		return apperrors.MapError(err)
	}
	if err := s.orders.DeleteWithDevice(ctx, order.ID, order.DeviceID); err != nil {
		s.logger.Error("delete work order", zap.Error(err))
		return apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventWorkOrderDeleted,
		WorkOrderID: order.ID,
		Payload:     events.WorkOrderDeletedPayload{DeviceID: order.DeviceID},
	})
	return nil
}

// GetByID fetches a single work order.
func (s *WorkOrderService) GetByID(ctx context.Context, id string) (*domain.WorkOrder, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return order, nil
}

func (s *WorkOrderService) publishCreated(ctx context.Context, order *domain.WorkOrder) {
	s.publishEvent(ctx, events.Event{
		Type:        events.EventWorkOrderCreated,
		WorkOrderID: order.ID,
		Payload: events.WorkOrderCreatedPayload{
			WorkOrderNumber: order.WorkOrderNumber,
			CustomerID:      order.CustomerID,
			DeviceID:        order.DeviceID,
			TechnicianID:    order.TechnicianID,
		},
	})
}

func (s *WorkOrderService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
