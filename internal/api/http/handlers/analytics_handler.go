package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fixdesk/workorder-service/internal/service"
)

// AnalyticsHandler serves dashboard and reporting endpoints. Responses come
// straight from the typed analytics views.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	board     *service.BoardService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService, boardService *service.BoardService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analyticsService, board: boardService}
}

// Summary GET /analytics/summary.
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.analytics.Summary(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

// Overview GET /analytics/overview.
func (h *AnalyticsHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.analytics.Overview(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": overview})
}

// TechnicianPerformance GET /analytics/technicians.
func (h *AnalyticsHandler) TechnicianPerformance(c *fiber.Ctx) error {
	cards, err := h.analytics.TechnicianPerformance(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": cards})
}

// Distribution GET /analytics/job-types.
func (h *AnalyticsHandler) Distribution(c *fiber.Ctx) error {
	slices, err := h.analytics.Distribution(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": slices})
}

// RecentOrders GET /analytics/recent-orders.
func (h *AnalyticsHandler) RecentOrders(c *fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	rows, err := h.analytics.RecentOrders(c.Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rows})
}

// History GET /history. Supports technician and month query filters over the
// completed-order snapshot.
func (h *AnalyticsHandler) History(c *fiber.Ctx) error {
	filter := service.HistoryFilter{
		TechnicianName: c.Query("technician"),
	}
	if raw := c.Query("month"); raw != "" {
		month, err := strconv.Atoi(raw)
		if err == nil && month >= 1 && month <= 12 {
			filter.Month = time.Month(month)
		}
	}
	return c.JSON(fiber.Map{"data": h.board.History(filter)})
}

// ReloadHistory POST /history/reload rebuilds the snapshot on demand.
func (h *AnalyticsHandler) ReloadHistory(c *fiber.Ctx) error {
	if err := h.board.ReloadHistory(c.Context()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
