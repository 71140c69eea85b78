package events

import (
	"time"

	"github.com/fixdesk/workorder-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventWorkOrderCreated       EventType = "work_order_created"
	EventWorkOrderStatusChanged EventType = "work_order_status_changed"
	EventWorkOrderAssigned      EventType = "work_order_assigned"
	EventWorkOrderDeleted       EventType = "work_order_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	WorkOrderID string      `json:"work_order_id"`
	ActorID     *string     `json:"actor_id,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// WorkOrderCreatedPayload payload.
type WorkOrderCreatedPayload struct {
	WorkOrderNumber string  `json:"work_order_number"`
	CustomerID      string  `json:"customer_id"`
	DeviceID        string  `json:"device_id"`
	TechnicianID    *string `json:"technician_id,omitempty"`
}

// WorkOrderStatusChangedPayload payload.
type WorkOrderStatusChangedPayload struct {
	OldStatus domain.WorkOrderStatus `json:"old_status"`
	NewStatus domain.WorkOrderStatus `json:"new_status"`
}

// WorkOrderAssignedPayload payload.
type WorkOrderAssignedPayload struct {
	TechnicianID string `json:"technician_id"`
}

// WorkOrderDeletedPayload payload.
type WorkOrderDeletedPayload struct {
	DeviceID string `json:"device_id"`
}
