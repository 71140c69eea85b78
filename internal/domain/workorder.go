package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkOrderStatus enumerates the lifecycle states of a work order. The string
// values are display labels and are stored as-is.
type WorkOrderStatus string

const (
	StatusPending    WorkOrderStatus = "Pending"
	StatusInProgress WorkOrderStatus = "In Progress"
	StatusCompleted  WorkOrderStatus = "Completed"
	StatusOnHold     WorkOrderStatus = "On Hold"
)

// Valid reports whether the status is one of the known states.
func (s WorkOrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusOnHold:
		return true
	}
	return false
}

// WorkOrder is one repair job. The UUID is the identity; the work-order
// number is a human-facing label and is not guaranteed unique across
// restarts. StartedAt and CompletedAt are stamped on the first transition
// into their state and never cleared afterwards.
type WorkOrder struct {
	ID               string
	WorkOrderNumber  string
	CustomerID       string
	DeviceID         string
	TechnicianID     *string
	IssueDescription string
	PartsRequired    string
	LaborCost        decimal.Decimal
	PartsCost        decimal.Decimal
	Status           WorkOrderStatus
	CreatedAt        time.Time
	StartedAt        *time.Time
	CompletedAt      *time.Time
}

// TotalCost is labor plus parts.
func (w *WorkOrder) TotalCost() decimal.Decimal {
	return w.LaborCost.Add(w.PartsCost)
}

// Turnaround is the elapsed time from creation to completion. The second
// return is false until the order has completed.
func (w *WorkOrder) Turnaround() (time.Duration, bool) {
	if w.CompletedAt == nil {
		return 0, false
	}
	return w.CompletedAt.Sub(w.CreatedAt), true
}
