package dto

import "github.com/fixdesk/workorder-service/internal/domain"

// CreateUserRequest payload for admin-created accounts.
type CreateUserRequest struct {
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      domain.Role `json:"role"`
}

// UpdateUserRequest payload.
type UpdateUserRequest struct {
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      domain.Role `json:"role"`
	Active    bool        `json:"active"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	NewPassword string `json:"new_password"`
}
