package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixdesk/workorder-service/internal/domain"
)

func completedOrder(techID string, revenue int64, turnaround time.Duration) domain.WorkOrder {
	created := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	completed := created.Add(turnaround)
	order := domain.WorkOrder{
		ID:          "wo-" + techID,
		CustomerID:  "cust-1",
		DeviceID:    "dev-1",
		LaborCost:   decimal.NewFromInt(revenue),
		PartsCost:   decimal.Zero,
		Status:      domain.StatusCompleted,
		CreatedAt:   created,
		CompletedAt: &completed,
	}
	if techID != "" {
		order.TechnicianID = &techID
	}
	return order
}

func TestSummarizeEmptySet(t *testing.T) {
	summary := Summarize(nil)
	assert.Zero(t, summary.TotalOrders)
	assert.Zero(t, summary.CompletionRate)
	assert.Zero(t, summary.AverageTurnaround)
	assert.True(t, summary.TotalRevenue.IsZero())
}

func TestSummarizeCountsAndRate(t *testing.T) {
	orders := make([]domain.WorkOrder, 0, 10)
	for i := 0; i < 3; i++ {
		orders = append(orders, completedOrder("", 100, 48*time.Hour))
	}
	for i := 0; i < 4; i++ {
		orders = append(orders, domain.WorkOrder{Status: domain.StatusPending})
	}
	for i := 0; i < 2; i++ {
		orders = append(orders, domain.WorkOrder{Status: domain.StatusInProgress})
	}
	orders = append(orders, domain.WorkOrder{Status: domain.StatusOnHold})

	summary := Summarize(orders)
	assert.Equal(t, 10, summary.TotalOrders)
	assert.Equal(t, 3, summary.CompletedOrders)
	assert.Equal(t, 4, summary.PendingOrders)
	assert.Equal(t, 2, summary.InProgressOrders)
	assert.InDelta(t, 30.0, summary.CompletionRate, 0.001)
	assert.True(t, summary.TotalRevenue.Equal(decimal.NewFromInt(300)), "revenue counts completed orders only")
	assert.Equal(t, 48*time.Hour, summary.AverageTurnaround)
}

func TestScorecardsIncludeIdleTechnicians(t *testing.T) {
	technicians := []domain.User{
		{ID: "tech-a", FirstName: "Ana", LastName: "Gray", Role: domain.RoleTechnician, Active: true},
		{ID: "tech-b", FirstName: "Bo", LastName: "Lund", Role: domain.RoleTechnician, Active: true},
	}
	orders := []domain.WorkOrder{
		completedOrder("tech-a", 1500, 24*time.Hour),
		completedOrder("tech-a", 1000, 72*time.Hour),
		{Status: domain.StatusPending, TechnicianID: strPtr("tech-a")},
	}

	cards := Scorecards(orders, technicians)
	require.Len(t, cards, 2)

	a := cards[0]
	assert.Equal(t, "tech-a", a.TechnicianID)
	assert.Equal(t, 2, a.CompletedJobs)
	assert.Equal(t, 1, a.PendingJobs)
	assert.True(t, a.Revenue.Equal(decimal.NewFromInt(2500)))
	assert.InDelta(t, 2.0, a.AverageTurnaroundDays, 0.001)

	b := cards[1]
	assert.Equal(t, "tech-b", b.TechnicianID)
	assert.Zero(t, b.CompletedJobs)
	assert.True(t, b.Revenue.IsZero())
	assert.Zero(t, b.AverageTurnaroundDays)
}

func TestJobTypeDistributionSharesAndUnknownDevice(t *testing.T) {
	devices := map[string]domain.Device{
		"dev-1": {ID: "dev-1", DeviceType: "Laptop"},
	}
	base := completedOrder("", 100, 24*time.Hour)

	screen1 := base
	screen1.IssueDescription = "Screen replacement"
	screen2 := base
	screen2.IssueDescription = "Screen replacement"
	battery := base
	battery.IssueDescription = "Battery swap"
	orphan := base
	orphan.IssueDescription = "Battery swap"
	orphan.DeviceID = "dev-gone"
	pending := base
	pending.Status = domain.StatusPending

	slices := JobTypeDistribution([]domain.WorkOrder{screen1, screen2, battery, orphan, pending}, devices)
	require.Len(t, slices, 3)

	assert.Equal(t, "Screen replacement", slices[0].JobType)
	assert.Equal(t, 2, slices[0].Count)
	assert.InDelta(t, 50.0, slices[0].SharePercent, 0.001)

	total := 0.0
	foundUnknown := false
	for _, slice := range slices {
		total += slice.SharePercent
		if slice.DeviceID == "dev-gone" {
			foundUnknown = true
			assert.Equal(t, "Unknown", slice.DeviceType)
		}
	}
	assert.InDelta(t, 100.0, total, 0.001)
	assert.True(t, foundUnknown)
}

// fakeSummaryCache is an in-memory SummaryCache.
type fakeSummaryCache struct {
	stored *DashboardSummary
	hits   int
	sets   int
}

func (c *fakeSummaryCache) Get(context.Context) (*DashboardSummary, bool) {
	if c.stored == nil {
		return nil, false
	}
	c.hits++
	return c.stored, true
}

func (c *fakeSummaryCache) Set(_ context.Context, summary DashboardSummary) {
	c.sets++
	c.stored = &summary
}

func (c *fakeSummaryCache) Invalidate(context.Context) {
	c.stored = nil
}

func TestSummaryUsesCache(t *testing.T) {
	repo := newStubWorkOrderRepo()
	seedOrder(repo, "done", domain.StatusCompleted, time.Now().Add(-2*time.Hour), timePtr(time.Now().Add(-time.Hour)))
	cache := &fakeSummaryCache{}

	svc := NewAnalyticsService(AnalyticsDependencies{
		OrderRepo:    repo,
		CustomerRepo: newStubCustomerRepo(),
		DeviceRepo:   newStubDeviceRepo(),
		UserRepo:     newStubUserRepo(),
		Cache:        cache,
	})

	first, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first.TotalOrders, second.TotalOrders)

	svc.InvalidateSummary(context.Background())
	_, err = svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, cache.sets, "invalidation forces a recompute")
}

func TestRecentOrdersJoinsLabelsAndLimits(t *testing.T) {
	repo := newStubWorkOrderRepo()
	customers := newStubCustomerRepo()
	devices := newStubDeviceRepo()
	customers.customers["cust-1"] = domain.Customer{ID: "cust-1", FirstName: "Ada", LastName: "Osei"}
	devices.devices["dev-1"] = domain.Device{ID: "dev-1", DeviceType: "Tablet"}

	now := time.Now()
	for i := 0; i < 7; i++ {
		seedOrder(repo, string(rune('a'+i)), domain.StatusPending, now.Add(-time.Duration(i)*time.Minute), nil)
	}

	svc := NewAnalyticsService(AnalyticsDependencies{
		OrderRepo:    repo,
		CustomerRepo: customers,
		DeviceRepo:   devices,
		UserRepo:     newStubUserRepo(),
	})

	rows, err := svc.RecentOrders(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, rows, 5, "limit defaults to 5")
	assert.Equal(t, "WO-a", rows[0].WorkOrderNumber, "newest first")
	assert.Equal(t, "Ada Osei", rows[0].CustomerName)
	assert.Equal(t, "Tablet", rows[0].DeviceType)
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }
