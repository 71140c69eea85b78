package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fixdesk/workorder-service/internal/api/dto"
	"github.com/fixdesk/workorder-service/internal/domain"
	"github.com/fixdesk/workorder-service/internal/service"
	apperrors "github.com/fixdesk/workorder-service/pkg/util"
)

// CustomersHandler manages customer directory endpoints.
type CustomersHandler struct {
	service *service.CustomerService
	devices *service.DeviceService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(customerService *service.CustomerService, deviceService *service.DeviceService) *CustomersHandler {
	return &CustomersHandler{service: customerService, devices: deviceService}
}

// Create POST /customers.
func (h *CustomersHandler) Create(c *fiber.Ctx) error {
	var req dto.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	customer, err := h.service.Create(c.Context(), customerInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": customerResponse(customer)})
}

// List GET /customers. A search query narrows the result.
func (h *CustomersHandler) List(c *fiber.Ctx) error {
	var (
		customers []domain.Customer
		err       error
	)
	if term := c.Query("search"); term != "" {
		customers, err = h.service.Search(c.Context(), term)
	} else {
		customers, err = h.service.List(c.Context())
	}
	if err != nil {
		return err
	}
	items := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, customerResponse(&customers[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /customers/:id.
func (h *CustomersHandler) Get(c *fiber.Ctx) error {
	customer, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customerResponse(customer)})
}

// Update PUT /customers/:id.
func (h *CustomersHandler) Update(c *fiber.Ctx) error {
	var req dto.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	customer, err := h.service.Update(c.Context(), c.Params("id"), customerInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customerResponse(customer)})
}

// Delete DELETE /customers/:id.
func (h *CustomersHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListDevices GET /customers/:id/devices.
func (h *CustomersHandler) ListDevices(c *fiber.Ctx) error {
	devices, err := h.devices.ListByCustomer(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.DeviceResponse, 0, len(devices))
	for i := range devices {
		items = append(items, deviceResponse(&devices[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func customerInput(req dto.CustomerRequest) service.CustomerInput {
	return service.CustomerInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
	}
}

func customerResponse(customer *domain.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:           customer.ID,
		FirstName:    customer.FirstName,
		LastName:     customer.LastName,
		Email:        customer.Email,
		Phone:        customer.Phone,
		Address:      customer.Address,
		CreatedAt:    customer.CreatedAt,
		LastModified: customer.LastModified,
	}
}
