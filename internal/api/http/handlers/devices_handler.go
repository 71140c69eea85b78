package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fixdesk/workorder-service/internal/api/dto"
	"github.com/fixdesk/workorder-service/internal/domain"
	"github.com/fixdesk/workorder-service/internal/service"
	apperrors "github.com/fixdesk/workorder-service/pkg/util"
)

// DevicesHandler manages device registry endpoints.
type DevicesHandler struct {
	service *service.DeviceService
}

// NewDevicesHandler constructs handler.
func NewDevicesHandler(deviceService *service.DeviceService) *DevicesHandler {
	return &DevicesHandler{service: deviceService}
}

// Create POST /devices.
func (h *DevicesHandler) Create(c *fiber.Ctx) error {
	var req dto.DeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	device, err := h.service.Create(c.Context(), service.DeviceInput{
		CustomerID:   req.CustomerID,
		DeviceType:   req.DeviceType,
		Brand:        req.Brand,
		SerialNumber: req.SerialNumber,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": deviceResponse(device)})
}

// List GET /devices.
func (h *DevicesHandler) List(c *fiber.Ctx) error {
	devices, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.DeviceResponse, 0, len(devices))
	for i := range devices {
		items = append(items, deviceResponse(&devices[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /devices/:id.
func (h *DevicesHandler) Get(c *fiber.Ctx) error {
	device, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": deviceResponse(device)})
}

// Update PUT /devices/:id.
func (h *DevicesHandler) Update(c *fiber.Ctx) error {
	var req dto.DeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	device, err := h.service.Update(c.Context(), c.Params("id"), service.DeviceInput{
		DeviceType:   req.DeviceType,
		Brand:        req.Brand,
		SerialNumber: req.SerialNumber,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": deviceResponse(device)})
}

// Delete DELETE /devices/:id.
func (h *DevicesHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func deviceResponse(device *domain.Device) dto.DeviceResponse {
	return dto.DeviceResponse{
		ID:           device.ID,
		CustomerID:   device.CustomerID,
		DeviceType:   device.DeviceType,
		Brand:        device.Brand,
		SerialNumber: device.SerialNumber,
		CreatedAt:    device.CreatedAt,
		LastModified: device.LastModified,
	}
}
