package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fixdesk/workorder-service/internal/domain"
)

// CreateWorkOrderRequest opens a work order against an existing device.
type CreateWorkOrderRequest struct {
	CustomerID       string          `json:"customer_id"`
	DeviceID         string          `json:"device_id"`
	TechnicianID     *string         `json:"technician_id,omitempty"`
	IssueDescription string          `json:"issue_description"`
	PartsRequired    string          `json:"parts_required"`
	LaborCost        decimal.Decimal `json:"labor_cost"`
	PartsCost        decimal.Decimal `json:"parts_cost"`
}

// IntakeRequest registers a device and opens a work order for it atomically.
type IntakeRequest struct {
	CustomerID       string          `json:"customer_id"`
	TechnicianID     *string         `json:"technician_id,omitempty"`
	IssueDescription string          `json:"issue_description"`
	PartsRequired    string          `json:"parts_required"`
	LaborCost        decimal.Decimal `json:"labor_cost"`
	PartsCost        decimal.Decimal `json:"parts_cost"`
	Device           DeviceIntake    `json:"device"`
}

// DeviceIntake is the device block inside an intake request.
type DeviceIntake struct {
	DeviceType   string `json:"device_type"`
	Brand        string `json:"brand"`
	SerialNumber string `json:"serial_number"`
}

// UpdateWorkOrderRequest edits the descriptive fields.
type UpdateWorkOrderRequest struct {
	IssueDescription string          `json:"issue_description"`
	PartsRequired    string          `json:"parts_required"`
	LaborCost        decimal.Decimal `json:"labor_cost"`
	PartsCost        decimal.Decimal `json:"parts_cost"`
}

// SetStatusRequest payload.
type SetStatusRequest struct {
	Status domain.WorkOrderStatus `json:"status"`
}

// AssignTechnicianRequest payload.
type AssignTechnicianRequest struct {
	TechnicianID string `json:"technician_id"`
}

// WorkOrderResponse view.
type WorkOrderResponse struct {
	ID               string                 `json:"id"`
	WorkOrderNumber  string                 `json:"work_order_number"`
	CustomerID       string                 `json:"customer_id"`
	DeviceID         string                 `json:"device_id"`
	TechnicianID     *string                `json:"technician_id,omitempty"`
	IssueDescription string                 `json:"issue_description"`
	PartsRequired    string                 `json:"parts_required"`
	LaborCost        decimal.Decimal        `json:"labor_cost"`
	PartsCost        decimal.Decimal        `json:"parts_cost"`
	TotalCost        decimal.Decimal        `json:"total_cost"`
	Status           domain.WorkOrderStatus `json:"status"`
	CreatedAt        time.Time              `json:"created_at"`
	StartedAt        *time.Time             `json:"started_at,omitempty"`
	CompletedAt      *time.Time             `json:"completed_at,omitempty"`
}

// IntakeResponse bundles the created order with its registered device.
type IntakeResponse struct {
	WorkOrder WorkOrderResponse `json:"work_order"`
	Device    DeviceResponse    `json:"device"`
}
