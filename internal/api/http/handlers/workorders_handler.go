package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fixdesk/workorder-service/internal/api/dto"
	"github.com/fixdesk/workorder-service/internal/domain"
	"github.com/fixdesk/workorder-service/internal/service"
	apperrors "github.com/fixdesk/workorder-service/pkg/util"
)

// WorkOrdersHandler manages work-order lifecycle and board endpoints.
type WorkOrdersHandler struct {
	orders *service.WorkOrderService
	board  *service.BoardService
}

// NewWorkOrdersHandler constructs handler.
func NewWorkOrdersHandler(orderService *service.WorkOrderService, boardService *service.BoardService) *WorkOrdersHandler {
	return &WorkOrdersHandler{orders: orderService, board: boardService}
}

// Create POST /work-orders.
func (h *WorkOrdersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateWorkOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	order, err := h.orders.CreateWorkOrder(c.Context(), service.WorkOrderCreateInput{
		CustomerID:       req.CustomerID,
		DeviceID:         req.DeviceID,
		TechnicianID:     req.TechnicianID,
		IssueDescription: req.IssueDescription,
		PartsRequired:    req.PartsRequired,
		LaborCost:        req.LaborCost,
		PartsCost:        req.PartsCost,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": workOrderResponse(order)})
}

// Intake POST /work-orders/intake registers the device and opens the order in
// one transaction.
func (h *WorkOrdersHandler) Intake(c *fiber.Ctx) error {
	var req dto.IntakeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	order, device, err := h.orders.CreateIntake(c.Context(), service.WorkOrderCreateInput{
		CustomerID:       req.CustomerID,
		TechnicianID:     req.TechnicianID,
		IssueDescription: req.IssueDescription,
		PartsRequired:    req.PartsRequired,
		LaborCost:        req.LaborCost,
		PartsCost:        req.PartsCost,
	}, service.DeviceIntakeInput{
		DeviceType:   req.Device.DeviceType,
		Brand:        req.Device.Brand,
		SerialNumber: req.Device.SerialNumber,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.IntakeResponse{
		WorkOrder: workOrderResponse(order),
		Device:    deviceResponse(device),
	}})
}

// List GET /work-orders. Query params narrow the board view:
// active=true applies the 24-hour window, status/customer_id/technician_id
// filter the set, search matches number or issue description.
func (h *WorkOrdersHandler) List(c *fiber.Ctx) error {
	orders, err := h.listOrders(c)
	if err != nil {
		return err
	}
	items := make([]dto.WorkOrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, workOrderResponse(&orders[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func (h *WorkOrdersHandler) listOrders(c *fiber.Ctx) ([]domain.WorkOrder, error) {
	ctx := c.Context()

	if term := c.Query("search"); strings.TrimSpace(term) != "" {
		return h.board.Search(ctx, term)
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		return h.board.ListByCustomer(ctx, customerID)
	}
	if technicianID := c.Query("technician_id"); technicianID != "" {
		return h.board.ListByTechnician(ctx, technicianID)
	}

	active := c.QueryBool("active")
	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.WorkOrderStatus(statusStr)
		if !status.Valid() {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": statusStr})
		}
		if active {
			return h.board.ListActiveByStatus(ctx, status)
		}
		return h.board.ListByStatus(ctx, status)
	}
	if active {
		return h.board.ListActive(ctx)
	}
	return h.board.ListAll(ctx)
}

// Get GET /work-orders/:id.
func (h *WorkOrdersHandler) Get(c *fiber.Ctx) error {
	order, err := h.orders.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": workOrderResponse(order)})
}

// Update PUT /work-orders/:id.
func (h *WorkOrdersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateWorkOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	order, err := h.orders.UpdateDetails(c.Context(), c.Params("id"), service.WorkOrderCreateInput{
		IssueDescription: req.IssueDescription,
		PartsRequired:    req.PartsRequired,
		LaborCost:        req.LaborCost,
		PartsCost:        req.PartsCost,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": workOrderResponse(order)})
}

// SetStatus POST /work-orders/:id/status.
func (h *WorkOrdersHandler) SetStatus(c *fiber.Ctx) error {
	var req dto.SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	order, err := h.orders.SetStatus(c.Context(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": workOrderResponse(order)})
}

// AssignTechnician POST /work-orders/:id/assign.
func (h *WorkOrdersHandler) AssignTechnician(c *fiber.Ctx) error {
	var req dto.AssignTechnicianRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	order, err := h.orders.AssignTechnician(c.Context(), c.Params("id"), req.TechnicianID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": workOrderResponse(order)})
}

// Delete DELETE /work-orders/:id removes the order and its intake device.
func (h *WorkOrdersHandler) Delete(c *fiber.Ctx) error {
	if err := h.orders.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func workOrderResponse(order *domain.WorkOrder) dto.WorkOrderResponse {
	return dto.WorkOrderResponse{
		ID:               order.ID,
		WorkOrderNumber:  order.WorkOrderNumber,
		CustomerID:       order.CustomerID,
		DeviceID:         order.DeviceID,
		TechnicianID:     order.TechnicianID,
		IssueDescription: order.IssueDescription,
		PartsRequired:    order.PartsRequired,
		LaborCost:        order.LaborCost,
		PartsCost:        order.PartsCost,
		TotalCost:        order.TotalCost(),
		Status:           order.Status,
		CreatedAt:        order.CreatedAt,
		StartedAt:        order.StartedAt,
		CompletedAt:      order.CompletedAt,
	}
}
