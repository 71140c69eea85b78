package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixdesk/workorder-service/internal/domain"
	"github.com/fixdesk/workorder-service/internal/events"
	apperrors "github.com/fixdesk/workorder-service/pkg/util"
)

func newTestWorkOrderService(repo *stubWorkOrderRepo, dispatcher *recordingDispatcher, now time.Time) *WorkOrderService {
	svc := NewWorkOrderService(WorkOrderDependencies{
		OrderRepo:  repo,
		Dispatcher: dispatcher,
	})
	svc.now = fixedClock(now)
	return svc
}

func TestCreateWorkOrderNumbersStartAboveSeed(t *testing.T) {
	repo := newStubWorkOrderRepo()
	now := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	svc := newTestWorkOrderService(repo, &recordingDispatcher{}, now)

	first, err := svc.CreateWorkOrder(context.Background(), validInput())
	require.NoError(t, err)
	second, err := svc.CreateWorkOrder(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, "WO-20260305-1001", first.WorkOrderNumber)
	assert.Equal(t, "WO-20260305-1002", second.WorkOrderNumber)
	assert.Equal(t, domain.StatusPending, first.Status)
	assert.Nil(t, first.StartedAt)
	assert.Nil(t, first.CompletedAt)
}

func TestCreateWorkOrderTotalCost(t *testing.T) {
	repo := newStubWorkOrderRepo()
	svc := newTestWorkOrderService(repo, &recordingDispatcher{}, time.Now())

	input := validInput()
	input.LaborCost = decimal.NewFromInt(500)
	input.PartsCost = decimal.NewFromInt(300)
	order, err := svc.CreateWorkOrder(context.Background(), input)
	require.NoError(t, err)

	assert.True(t, order.TotalCost().Equal(decimal.NewFromInt(800)))
}

func TestCreateWorkOrderValidation(t *testing.T) {
	svc := newTestWorkOrderService(newStubWorkOrderRepo(), &recordingDispatcher{}, time.Now())

	missingCustomer := validInput()
	missingCustomer.CustomerID = ""
	_, err := svc.CreateWorkOrder(context.Background(), missingCustomer)
	assertCode(t, err, "VALIDATION_FAILED")

	negativeCost := validInput()
	negativeCost.LaborCost = decimal.NewFromInt(-1)
	_, err = svc.CreateWorkOrder(context.Background(), negativeCost)
	assertCode(t, err, "VALIDATION_FAILED")
}

func TestSetStatusStampsTimestampsOnce(t *testing.T) {
	repo := newStubWorkOrderRepo()
	dispatcher := &recordingDispatcher{}
	start := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)
	svc := newTestWorkOrderService(repo, dispatcher, start)

	order, err := svc.CreateWorkOrder(context.Background(), validInput())
	require.NoError(t, err)

	svc.now = fixedClock(start.Add(time.Hour))
	order, err = svc.SetStatus(context.Background(), order.ID, domain.StatusInProgress)
	require.NoError(t, err)
	require.NotNil(t, order.StartedAt)
	firstStarted := *order.StartedAt

	svc.now = fixedClock(start.Add(2 * time.Hour))
	order, err = svc.SetStatus(context.Background(), order.ID, domain.StatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, order.CompletedAt)
	firstCompleted := *order.CompletedAt

	// Bounce back through the lifecycle; neither timestamp moves.
	svc.now = fixedClock(start.Add(3 * time.Hour))
	_, err = svc.SetStatus(context.Background(), order.ID, domain.StatusPending)
	require.NoError(t, err)
	svc.now = fixedClock(start.Add(4 * time.Hour))
	_, err = svc.SetStatus(context.Background(), order.ID, domain.StatusInProgress)
	require.NoError(t, err)
	order, err = svc.SetStatus(context.Background(), order.ID, domain.StatusCompleted)
	require.NoError(t, err)

	assert.True(t, order.StartedAt.Equal(firstStarted))
	assert.True(t, order.CompletedAt.Equal(firstCompleted))
}

func TestSetStatusSameStatusIsIdempotent(t *testing.T) {
	repo := newStubWorkOrderRepo()
	svc := newTestWorkOrderService(repo, &recordingDispatcher{}, time.Now())

	order, err := svc.CreateWorkOrder(context.Background(), validInput())
	require.NoError(t, err)

	updated, err := svc.SetStatus(context.Background(), order.ID, domain.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, updated.Status)
	assert.Nil(t, updated.StartedAt)
	assert.Nil(t, updated.CompletedAt)
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	svc := newTestWorkOrderService(newStubWorkOrderRepo(), &recordingDispatcher{}, time.Now())
	_, err := svc.SetStatus(context.Background(), "any", domain.WorkOrderStatus("Archived"))
	assertCode(t, err, "VALIDATION_FAILED")
}

func TestSetStatusHonorsTransitionPolicy(t *testing.T) {
	repo := newStubWorkOrderRepo()
	svc := NewWorkOrderService(WorkOrderDependencies{
		OrderRepo: repo,
		Transition: func(current, next domain.WorkOrderStatus) bool {
			return !(current == domain.StatusCompleted && next == domain.StatusPending)
		},
	})

	order, err := svc.CreateWorkOrder(context.Background(), validInput())
	require.NoError(t, err)
	_, err = svc.SetStatus(context.Background(), order.ID, domain.StatusCompleted)
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), order.ID, domain.StatusPending)
	assertCode(t, err, "CONFLICT")
}

func TestSetStatusNotFound(t *testing.T) {
	svc := newTestWorkOrderService(newStubWorkOrderRepo(), &recordingDispatcher{}, time.Now())
	_, err := svc.SetStatus(context.Background(), "missing", domain.StatusCompleted)
	assertCode(t, err, "NOT_FOUND")
}

func TestAssignTechnicianOverwrites(t *testing.T) {
	repo := newStubWorkOrderRepo()
	dispatcher := &recordingDispatcher{}
	svc := newTestWorkOrderService(repo, dispatcher, time.Now())

	order, err := svc.CreateWorkOrder(context.Background(), validInput())
	require.NoError(t, err)

	order, err = svc.AssignTechnician(context.Background(), order.ID, "tech-1")
	require.NoError(t, err)
	require.NotNil(t, order.TechnicianID)
	assert.Equal(t, "tech-1", *order.TechnicianID)

	order, err = svc.AssignTechnician(context.Background(), order.ID, "tech-2")
	require.NoError(t, err)
	assert.Equal(t, "tech-2", *order.TechnicianID)

	_, err = svc.AssignTechnician(context.Background(), order.ID, "  ")
	assertCode(t, err, "VALIDATION_FAILED")
}

func TestCreateIntakeRegistersDeviceAndOrder(t *testing.T) {
	repo := newStubWorkOrderRepo()
	svc := newTestWorkOrderService(repo, &recordingDispatcher{}, time.Now())

	input := validInput()
	input.DeviceID = ""
	order, device, err := svc.CreateIntake(context.Background(), input, DeviceIntakeInput{
		DeviceType:   "Laptop",
		Brand:        "Lenovo",
		SerialNumber: "SN-1",
	})
	require.NoError(t, err)
	assert.Equal(t, device.ID, order.DeviceID)
	assert.Contains(t, repo.devices, device.ID)
	assert.Contains(t, repo.orders, order.ID)
}

func TestDeleteRemovesOrderAndDevice(t *testing.T) {
	repo := newStubWorkOrderRepo()
	dispatcher := &recordingDispatcher{}
	svc := newTestWorkOrderService(repo, dispatcher, time.Now())

	input := validInput()
	input.DeviceID = ""
	order, device, err := svc.CreateIntake(context.Background(), input, DeviceIntakeInput{DeviceType: "Phone"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), order.ID))
	assert.NotContains(t, repo.orders, order.ID)
	assert.NotContains(t, repo.devices, device.ID)

	captured := dispatcher.captured()
	require.NotEmpty(t, captured)
	assert.Equal(t, events.EventWorkOrderDeleted, captured[len(captured)-1].Type)
}

func TestLifecycleEventsPublished(t *testing.T) {
	repo := newStubWorkOrderRepo()
	dispatcher := &recordingDispatcher{}
	svc := newTestWorkOrderService(repo, dispatcher, time.Now())

	order, err := svc.CreateWorkOrder(context.Background(), validInput())
	require.NoError(t, err)
	_, err = svc.SetStatus(context.Background(), order.ID, domain.StatusInProgress)
	require.NoError(t, err)
	_, err = svc.AssignTechnician(context.Background(), order.ID, "tech-1")
	require.NoError(t, err)

	captured := dispatcher.captured()
	require.Len(t, captured, 3)
	assert.Equal(t, events.EventWorkOrderCreated, captured[0].Type)
	assert.Equal(t, events.EventWorkOrderStatusChanged, captured[1].Type)
	assert.Equal(t, events.EventWorkOrderAssigned, captured[2].Type)
	for _, event := range captured {
		assert.NotEmpty(t, event.ID)
		assert.False(t, event.Timestamp.IsZero())
	}
}

func validInput() WorkOrderCreateInput {
	return WorkOrderCreateInput{
		CustomerID:       "cust-1",
		DeviceID:         "dev-1",
		IssueDescription: "Screen replacement",
		LaborCost:        decimal.NewFromInt(100),
		PartsCost:        decimal.NewFromInt(50),
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %T", err)
	assert.Equal(t, code, domainErr.Code)
}
