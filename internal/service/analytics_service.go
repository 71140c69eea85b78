package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fixdesk/workorder-service/internal/domain"
	"github.com/fixdesk/workorder-service/internal/repository"
	apperrors "github.com/fixdesk/workorder-service/pkg/util"
)

// DashboardSummary is the aggregate view backing the dashboard.
type DashboardSummary struct {
	TotalOrders       int             `json:"total_orders"`
	CompletedOrders   int             `json:"completed_orders"`
	PendingOrders     int             `json:"pending_orders"`
	InProgressOrders  int             `json:"in_progress_orders"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	AverageTurnaround time.Duration   `json:"average_turnaround_ns"`
	CompletionRate    float64         `json:"completion_rate"`
}

// TechnicianScorecard aggregates one technician's performance.
type TechnicianScorecard struct {
	TechnicianID          string          `json:"technician_id"`
	Name                  string          `json:"name"`
	CompletedJobs         int             `json:"completed_jobs"`
	PendingJobs           int             `json:"pending_jobs"`
	InProgressJobs        int             `json:"in_progress_jobs"`
	AverageTurnaroundDays float64         `json:"average_turnaround_days"`
	Revenue               decimal.Decimal `json:"revenue"`
}

// JobTypeSlice is one group of the job-type distribution: completed work
// grouped by (issue description, device).
type JobTypeSlice struct {
	DeviceID     string          `json:"device_id"`
	DeviceType   string          `json:"device_type"`
	JobType      string          `json:"job_type"`
	Count        int             `json:"count"`
	SharePercent float64         `json:"share_percent"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// AnalyticsOverview is the analytics page headline block.
type AnalyticsOverview struct {
	TotalRevenue          decimal.Decimal `json:"total_revenue"`
	JobsCompleted         int             `json:"jobs_completed"`
	AverageTurnaroundDays float64         `json:"average_turnaround_days"`
	ActiveCustomers       int             `json:"active_customers"`
}

// RecentOrderRow is one row of the dashboard's recent-orders table.
type RecentOrderRow struct {
	WorkOrderNumber string                 `json:"work_order_number"`
	CustomerName    string                 `json:"customer_name"`
	DeviceType      string                 `json:"device_type"`
	Status          domain.WorkOrderStatus `json:"status"`
	CreatedAt       time.Time              `json:"created_at"`
}

// SummaryCache holds a short-lived copy of the dashboard summary. A nil cache
// disables caching.
type SummaryCache interface {
	Get(ctx context.Context) (*DashboardSummary, bool)
	Set(ctx context.Context, summary DashboardSummary)
	Invalidate(ctx context.Context)
}

// Summarize reduces the work-order set into dashboard metrics. Pure and
// side-effect-free.
func Summarize(orders []domain.WorkOrder) DashboardSummary {
	summary := DashboardSummary{
		TotalOrders:  len(orders),
		TotalRevenue: decimal.Zero,
	}
	var turnaroundTotal time.Duration
	for i := range orders {
		order := &orders[i]
		switch order.Status {
		case domain.StatusCompleted:
			summary.CompletedOrders++
			summary.TotalRevenue = summary.TotalRevenue.Add(order.TotalCost())
			if turnaround, ok := order.Turnaround(); ok {
				turnaroundTotal += turnaround
			}
		case domain.StatusPending:
			summary.PendingOrders++
		case domain.StatusInProgress:
			summary.InProgressOrders++
		}
	}
	if summary.CompletedOrders > 0 {
		summary.AverageTurnaround = turnaroundTotal / time.Duration(summary.CompletedOrders)
	}
	if summary.TotalOrders > 0 {
		summary.CompletionRate = float64(summary.CompletedOrders) / float64(summary.TotalOrders) * 100
	}
	return summary
}

// Scorecards reduces per-technician metrics over the full work-order set.
// Every technician appears, including those with zero assigned jobs.
func Scorecards(orders []domain.WorkOrder, technicians []domain.User) []TechnicianScorecard {
	cards := make([]TechnicianScorecard, 0, len(technicians))
	for i := range technicians {
		tech := &technicians[i]
		card := TechnicianScorecard{
			TechnicianID: tech.ID,
			Name:         tech.FullName(),
			Revenue:      decimal.Zero,
		}
		var turnaroundDays float64
		for j := range orders {
			order := &orders[j]
			if order.TechnicianID == nil || *order.TechnicianID != tech.ID {
				continue
			}
			switch order.Status {
			case domain.StatusCompleted:
				card.CompletedJobs++
				card.Revenue = card.Revenue.Add(order.TotalCost())
				if turnaround, ok := order.Turnaround(); ok {
					turnaroundDays += turnaround.Hours() / 24
				}
			case domain.StatusPending:
				card.PendingJobs++
			case domain.StatusInProgress:
				card.InProgressJobs++
			}
		}
		if card.CompletedJobs > 0 {
			card.AverageTurnaroundDays = turnaroundDays / float64(card.CompletedJobs)
		}
		cards = append(cards, card)
	}
	return cards
}

// JobTypeDistribution groups completed orders by (issue description, device)
// and resolves each group's device-type label, degrading to "Unknown" when
// the device no longer exists. Result is ordered by count descending.
func JobTypeDistribution(orders []domain.WorkOrder, devices map[string]domain.Device) []JobTypeSlice {
	type groupKey struct {
		issue    string
		deviceID string
	}

	totalCompleted := 0
	groups := make(map[groupKey]*JobTypeSlice)
	order := make([]groupKey, 0)
	for i := range orders {
		wo := &orders[i]
		if wo.Status != domain.StatusCompleted {
			continue
		}
		totalCompleted++
		key := groupKey{issue: wo.IssueDescription, deviceID: wo.DeviceID}
		slice, ok := groups[key]
		if !ok {
			deviceType := "Unknown"
			if device, found := devices[wo.DeviceID]; found {
				deviceType = device.DeviceType
			}
			slice = &JobTypeSlice{
				DeviceID:   wo.DeviceID,
				DeviceType: deviceType,
				JobType:    wo.IssueDescription,
				Revenue:    decimal.Zero,
			}
			groups[key] = slice
			order = append(order, key)
		}
		slice.Count++
		slice.Revenue = slice.Revenue.Add(wo.TotalCost())
	}

	result := make([]JobTypeSlice, 0, len(groups))
	for _, key := range order {
		slice := groups[key]
		if totalCompleted > 0 {
			slice.SharePercent = float64(slice.Count) * 100 / float64(totalCompleted)
		}
		result = append(result, *slice)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	return result
}

// AnalyticsService materializes the work-order set and reduces it into
// reports. All operations are read-only.
type AnalyticsService struct {
	orders    repository.WorkOrderRepository
	customers repository.CustomerRepository
	devices   repository.DeviceRepository
	users     repository.UserRepository
	cache     SummaryCache
	logger    *zap.Logger
}

// AnalyticsDependencies bundles collaborators for the aggregator.
type AnalyticsDependencies struct {
	OrderRepo    repository.WorkOrderRepository
	CustomerRepo repository.CustomerRepository
	DeviceRepo   repository.DeviceRepository
	UserRepo     repository.UserRepository
	Cache        SummaryCache
	Logger       *zap.Logger
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(deps AnalyticsDependencies) *AnalyticsService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		orders:    deps.OrderRepo,
		customers: deps.CustomerRepo,
		devices:   deps.DeviceRepo,
		users:     deps.UserRepo,
		cache:     deps.Cache,
		logger:    logger,
	}
}

// Summary computes the dashboard summary, served from cache when fresh.
func (s *AnalyticsService) Summary(ctx context.Context) (DashboardSummary, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx); ok {
			return *cached, nil
		}
	}
	orders, err := s.orders.ListWithFilter(ctx, repository.WorkOrderFilter{})
	if err != nil {
		s.logger.Error("load work orders for summary", zap.Error(err))
		return DashboardSummary{}, apperrors.MapError(err)
	}
	summary := Summarize(orders)
	if s.cache != nil {
		s.cache.Set(ctx, summary)
	}
	return summary, nil
}

// InvalidateSummary drops the cached dashboard summary.
func (s *AnalyticsService) InvalidateSummary(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

// TechnicianPerformance builds scorecards for every active technician.
func (s *AnalyticsService) TechnicianPerformance(ctx context.Context) ([]TechnicianScorecard, error) {
	orders, err := s.orders.ListWithFilter(ctx, repository.WorkOrderFilter{})
	if err != nil {
		s.logger.Error("load work orders for scorecards", zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	technicians, err := s.users.ListActiveByRole(ctx, domain.RoleTechnician)
	if err != nil {
		s.logger.Error("load technicians", zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	return Scorecards(orders, technicians), nil
}

// Distribution builds the job-type distribution over completed orders.
func (s *AnalyticsService) Distribution(ctx context.Context) ([]JobTypeSlice, error) {
	orders, err := s.orders.ListWithFilter(ctx, repository.WorkOrderFilter{})
	if err != nil {
		s.logger.Error("load work orders for distribution", zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	devices, err := s.devices.List(ctx)
	if err != nil {
		s.logger.Error("load devices for distribution", zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	byID := make(map[string]domain.Device, len(devices))
	for _, device := range devices {
		byID[device.ID] = device
	}
	return JobTypeDistribution(orders, byID), nil
}

// Overview builds the analytics page headline metrics.
func (s *AnalyticsService) Overview(ctx context.Context) (AnalyticsOverview, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return AnalyticsOverview{}, err
	}
	customers, err := s.customers.List(ctx)
	if err != nil {
		s.logger.Error("load customers for overview", zap.Error(err))
		return AnalyticsOverview{}, apperrors.MapError(err)
	}
	return AnalyticsOverview{
		TotalRevenue:          summary.TotalRevenue,
		JobsCompleted:         summary.CompletedOrders,
		AverageTurnaroundDays: summary.AverageTurnaround.Hours() / 24,
		ActiveCustomers:       len(customers),
	}, nil
}

// RecentOrders returns the newest orders joined with customer and device
// labels for the dashboard table. Deleted references degrade to "Unknown".
func (s *AnalyticsService) RecentOrders(ctx context.Context, limit int) ([]RecentOrderRow, error) {
	if limit <= 0 {
		limit = 5
	}
	orders, err := s.orders.ListWithFilter(ctx, repository.WorkOrderFilter{})
	if err != nil {
		s.logger.Error("load recent orders", zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	if len(orders) > limit {
		orders = orders[:limit]
	}
	rows := make([]RecentOrderRow, 0, len(orders))
	for i := range orders {
		order := &orders[i]
		row := RecentOrderRow{
			WorkOrderNumber: order.WorkOrderNumber,
			CustomerName:    "Unknown",
			DeviceType:      "Unknown",
			Status:          order.Status,
			CreatedAt:       order.CreatedAt,
		}
		if customer, err := s.customers.GetByID(ctx, order.CustomerID); err == nil {
			row.CustomerName = customer.FullName()
		}
		if device, err := s.devices.GetByID(ctx, order.DeviceID); err == nil {
			row.DeviceType = device.DeviceType
		}
		rows = append(rows, row)
	}
	return rows, nil
}
