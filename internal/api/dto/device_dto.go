package dto

import "time"

// DeviceRequest payload for create and update.
type DeviceRequest struct {
	CustomerID   string `json:"customer_id"`
	DeviceType   string `json:"device_type"`
	Brand        string `json:"brand"`
	SerialNumber string `json:"serial_number"`
}

// DeviceResponse view.
type DeviceResponse struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"customer_id"`
	DeviceType   string    `json:"device_type"`
	Brand        string    `json:"brand"`
	SerialNumber string    `json:"serial_number"`
	CreatedAt    time.Time `json:"created_at"`
	LastModified time.Time `json:"last_modified"`
}
