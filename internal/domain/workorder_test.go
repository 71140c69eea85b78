package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWorkOrderStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusInProgress.Valid())
	assert.True(t, StatusCompleted.Valid())
	assert.True(t, StatusOnHold.Valid())
	assert.False(t, WorkOrderStatus("Archived").Valid())
	assert.False(t, WorkOrderStatus("").Valid())
}

func TestWorkOrderTotalCost(t *testing.T) {
	order := WorkOrder{
		LaborCost: decimal.NewFromInt(500),
		PartsCost: decimal.NewFromInt(300),
	}
	assert.True(t, order.TotalCost().Equal(decimal.NewFromInt(800)))
}

func TestWorkOrderTurnaround(t *testing.T) {
	created := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	order := WorkOrder{CreatedAt: created}

	_, ok := order.Turnaround()
	assert.False(t, ok, "no turnaround until completed")

	completed := created.Add(36 * time.Hour)
	order.CompletedAt = &completed
	turnaround, ok := order.Turnaround()
	assert.True(t, ok)
	assert.Equal(t, 36*time.Hour, turnaround)
}
