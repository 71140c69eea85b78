package domain

import "time"

// Device is a customer-owned item brought in for repair. A device belongs to
// exactly one customer and is never reassigned.
type Device struct {
	ID           string
	CustomerID   string
	DeviceType   string // free-text category, e.g. "Laptop"
	Brand        string
	SerialNumber string
	CreatedAt    time.Time
	LastModified time.Time
}
