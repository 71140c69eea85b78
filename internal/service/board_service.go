package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fixdesk/workorder-service/internal/domain"
	"github.com/fixdesk/workorder-service/internal/repository"
	apperrors "github.com/fixdesk/workorder-service/pkg/util"
)

// ActiveWindow is how long a completed work order stays on the live board
// before falling out of the working set into history. The window rolls from
// query time; the boundary comparison is inclusive.
const ActiveWindow = 24 * time.Hour

// HistoryRow is the typed view of one completed work order joined with its
// customer, device and technician labels. Deleted references degrade to
// placeholder labels rather than failing.
type HistoryRow struct {
	WorkOrderNumber string          `json:"work_order_number"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	DeviceType      string          `json:"device_type"`
	DeviceBrand     string          `json:"device_brand"`
	Diagnosis       string          `json:"diagnosis"`
	TechnicianName  string          `json:"technician_name"`
	CreatedAt       time.Time       `json:"created_at"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	TurnaroundDays  int             `json:"turnaround_days"`
	TotalCost       decimal.Decimal `json:"total_cost"`
}

// HistoryFilter narrows the in-memory history snapshot. Month filtering is
// bound to the current year; a zero Month means all months.
type HistoryFilter struct {
	TechnicianName string
	Month          time.Month
}

// BoardService computes the active vs archived view over the work-order set
// and applies status/technician/month/search filters.
type BoardService struct {
	orders    repository.WorkOrderRepository
	customers repository.CustomerRepository
	devices   repository.DeviceRepository
	users     repository.UserRepository
	logger    *zap.Logger

	mu      sync.RWMutex
	history []HistoryRow

	now func() time.Time
}

// BoardDependencies bundles collaborators for the board service.
type BoardDependencies struct {
	OrderRepo    repository.WorkOrderRepository
	CustomerRepo repository.CustomerRepository
	DeviceRepo   repository.DeviceRepository
	UserRepo     repository.UserRepository
	Logger       *zap.Logger
}

// NewBoardService constructs the service.
func NewBoardService(deps BoardDependencies) *BoardService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoardService{
		orders:    deps.OrderRepo,
		customers: deps.CustomerRepo,
		devices:   deps.DeviceRepo,
		users:     deps.UserRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// ListAll returns every work order, newest first.
func (s *BoardService) ListAll(ctx context.Context) ([]domain.WorkOrder, error) {
	return s.list(ctx, repository.WorkOrderFilter{})
}

// ListActive returns the live board: every order that is not completed plus
// completed orders whose completedAt is within the last 24 hours, inclusive.
func (s *BoardService) ListActive(ctx context.Context) ([]domain.WorkOrder, error) {
	cutoff := s.now().Add(-ActiveWindow)
	return s.list(ctx, repository.WorkOrderFilter{ActiveSince: &cutoff})
}

// ListByStatus returns all orders with the given status.
func (s *BoardService) ListByStatus(ctx context.Context, status domain.WorkOrderStatus) ([]domain.WorkOrder, error) {
	return s.list(ctx, repository.WorkOrderFilter{Status: &status})
}

// ListActiveByStatus narrows the live board to one status. The 24-hour window
// applies only to Completed; other statuses are unfiltered by time.
func (s *BoardService) ListActiveByStatus(ctx context.Context, status domain.WorkOrderStatus) ([]domain.WorkOrder, error) {
	filter := repository.WorkOrderFilter{Status: &status}
	if status == domain.StatusCompleted {
		cutoff := s.now().Add(-ActiveWindow)
		filter.CompletedSince = &cutoff
	}
	return s.list(ctx, filter)
}

// ListByCustomer returns orders for one customer, newest first.
func (s *BoardService) ListByCustomer(ctx context.Context, customerID string) ([]domain.WorkOrder, error) {
	return s.list(ctx, repository.WorkOrderFilter{CustomerID: &customerID})
}

// ListByTechnician returns orders assigned to one technician, newest first.
func (s *BoardService) ListByTechnician(ctx context.Context, technicianID string) ([]domain.WorkOrder, error) {
	return s.list(ctx, repository.WorkOrderFilter{TechnicianID: &technicianID})
}

// Search matches the term case-insensitively against the work-order number or
// issue description. An empty term short-circuits to ListAll and never
// reaches the matcher.
func (s *BoardService) Search(ctx context.Context, term string) ([]domain.WorkOrder, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.ListAll(ctx)
	}
	return s.list(ctx, repository.WorkOrderFilter{SearchTerm: &term})
}

func (s *BoardService) list(ctx context.Context, filter repository.WorkOrderFilter) ([]domain.WorkOrder, error) {
	orders, err := s.orders.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("list work orders", zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	return orders, nil
}

// ReloadHistory rebuilds the in-memory history snapshot from all completed
// work orders, joining customer, device and technician labels. Filters apply
// over this snapshot without re-fetching.
func (s *BoardService) ReloadHistory(ctx context.Context) error {
	completed, err := s.ListByStatus(ctx, domain.StatusCompleted)
	if err != nil {
		return err
	}

	rows := make([]HistoryRow, 0, len(completed))
	for i := range completed {
		rows = append(rows, s.historyRow(ctx, &completed[i]))
	}

	s.mu.Lock()
	s.history = rows
	s.mu.Unlock()
	return nil
}

// History applies the technician and month filters over the current snapshot.
func (s *BoardService) History(filter HistoryFilter) []HistoryRow {
	s.mu.RLock()
	snapshot := s.history
	s.mu.RUnlock()

	currentYear := s.now().Year()
	out := make([]HistoryRow, 0, len(snapshot))
	for _, row := range snapshot {
		if filter.TechnicianName != "" && row.TechnicianName != filter.TechnicianName {
			continue
		}
		if filter.Month != 0 {
			if row.CompletedAt == nil {
				continue
			}
			if row.CompletedAt.Month() != filter.Month || row.CompletedAt.Year() != currentYear {
				continue
			}
		}
		out = append(out, row)
	}
	return out
}

func (s *BoardService) historyRow(ctx context.Context, order *domain.WorkOrder) HistoryRow {
	row := HistoryRow{
		WorkOrderNumber: order.WorkOrderNumber,
		CustomerName:    "Unknown",
		CustomerPhone:   "N/A",
		DeviceType:      "Unknown",
		DeviceBrand:     "Unknown",
		Diagnosis:       order.IssueDescription,
		TechnicianName:  "Unassigned",
		CreatedAt:       order.CreatedAt,
		CompletedAt:     order.CompletedAt,
		TotalCost:       order.TotalCost(),
	}
	if customer, err := s.customers.GetByID(ctx, order.CustomerID); err == nil {
		row.CustomerName = customer.FullName()
		row.CustomerPhone = customer.Phone
	}
	if device, err := s.devices.GetByID(ctx, order.DeviceID); err == nil {
		row.DeviceType = device.DeviceType
		row.DeviceBrand = device.Brand
	}
	if order.TechnicianID != nil {
		if tech, err := s.users.GetByID(ctx, *order.TechnicianID); err == nil {
			row.TechnicianName = tech.FullName()
		}
	}
	if turnaround, ok := order.Turnaround(); ok {
		row.TurnaroundDays = int(turnaround.Hours() / 24)
	}
	return row
}
