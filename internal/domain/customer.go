package domain

import "time"

// Customer owns devices and work orders by reference; deleting a customer
// never cascades.
type Customer struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Address      string
	CreatedAt    time.Time
	LastModified time.Time
}

// FullName joins first and last name for display.
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
