package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fixdesk/workorder-service/internal/domain"
	"github.com/fixdesk/workorder-service/internal/events"
	"github.com/fixdesk/workorder-service/internal/repository"
)

// stubWorkOrderRepo is an in-memory WorkOrderRepository mirroring the SQL
// filter semantics.
type stubWorkOrderRepo struct {
	mu      sync.Mutex
	orders  map[string]domain.WorkOrder
	devices map[string]domain.Device
}

func newStubWorkOrderRepo() *stubWorkOrderRepo {
	return &stubWorkOrderRepo{
		orders:  make(map[string]domain.WorkOrder),
		devices: make(map[string]domain.Device),
	}
}

func (r *stubWorkOrderRepo) Create(_ context.Context, order *domain.WorkOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = *order
	return nil
}

func (r *stubWorkOrderRepo) CreateWithDevice(_ context.Context, device *domain.Device, order *domain.WorkOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices[device.ID] = *device
	r.orders[order.ID] = *order
	return nil
}

func (r *stubWorkOrderRepo) Update(_ context.Context, order *domain.WorkOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.orders[order.ID] = *order
	return nil
}

func (r *stubWorkOrderRepo) GetByID(_ context.Context, id string) (*domain.WorkOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &order, nil
}

func (r *stubWorkOrderRepo) ListWithFilter(_ context.Context, filter repository.WorkOrderFilter) ([]domain.WorkOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.WorkOrder, 0, len(r.orders))
	for _, order := range r.orders {
		if filter.CustomerID != nil && order.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.TechnicianID != nil && (order.TechnicianID == nil || *order.TechnicianID != *filter.TechnicianID) {
			continue
		}
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		if filter.ActiveSince != nil && order.Status == domain.StatusCompleted {
			if order.CompletedAt == nil || order.CompletedAt.Before(*filter.ActiveSince) {
				continue
			}
		}
		if filter.CompletedSince != nil {
			if order.CompletedAt == nil || order.CompletedAt.Before(*filter.CompletedSince) {
				continue
			}
		}
		if filter.SearchTerm != nil {
			term := strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
			if !strings.Contains(strings.ToLower(order.WorkOrderNumber), term) &&
				!strings.Contains(strings.ToLower(order.IssueDescription), term) {
				continue
			}
		}
		result = append(result, order)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *stubWorkOrderRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.orders, id)
	return nil
}

func (r *stubWorkOrderRepo) DeleteWithDevice(_ context.Context, workOrderID, deviceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[workOrderID]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.orders, workOrderID)
	delete(r.devices, deviceID)
	return nil
}

var _ repository.WorkOrderRepository = (*stubWorkOrderRepo)(nil)

// stubCustomerRepo is an in-memory CustomerRepository.
type stubCustomerRepo struct {
	customers map[string]domain.Customer
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[string]domain.Customer)}
}

func (r *stubCustomerRepo) Create(_ context.Context, customer *domain.Customer) error {
	r.customers[customer.ID] = *customer
	return nil
}

func (r *stubCustomerRepo) Update(_ context.Context, customer *domain.Customer) error {
	if _, ok := r.customers[customer.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.customers[customer.ID] = *customer
	return nil
}

func (r *stubCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	customer, ok := r.customers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &customer, nil
}

func (r *stubCustomerRepo) List(_ context.Context) ([]domain.Customer, error) {
	result := make([]domain.Customer, 0, len(r.customers))
	for _, customer := range r.customers {
		result = append(result, customer)
	}
	return result, nil
}

func (r *stubCustomerRepo) Search(_ context.Context, term string) ([]domain.Customer, error) {
	term = strings.ToLower(term)
	var result []domain.Customer
	for _, customer := range r.customers {
		haystack := strings.ToLower(customer.FirstName + " " + customer.LastName + " " + customer.Email + " " + customer.Phone)
		if strings.Contains(haystack, term) {
			result = append(result, customer)
		}
	}
	return result, nil
}

func (r *stubCustomerRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.customers[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.customers, id)
	return nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// stubDeviceRepo is an in-memory DeviceRepository.
type stubDeviceRepo struct {
	devices map[string]domain.Device
}

func newStubDeviceRepo() *stubDeviceRepo {
	return &stubDeviceRepo{devices: make(map[string]domain.Device)}
}

func (r *stubDeviceRepo) Create(_ context.Context, device *domain.Device) error {
	r.devices[device.ID] = *device
	return nil
}

func (r *stubDeviceRepo) Update(_ context.Context, device *domain.Device) error {
	if _, ok := r.devices[device.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.devices[device.ID] = *device
	return nil
}

func (r *stubDeviceRepo) GetByID(_ context.Context, id string) (*domain.Device, error) {
	device, ok := r.devices[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &device, nil
}

func (r *stubDeviceRepo) List(_ context.Context) ([]domain.Device, error) {
	result := make([]domain.Device, 0, len(r.devices))
	for _, device := range r.devices {
		result = append(result, device)
	}
	return result, nil
}

func (r *stubDeviceRepo) ListByCustomer(_ context.Context, customerID string) ([]domain.Device, error) {
	var result []domain.Device
	for _, device := range r.devices {
		if device.CustomerID == customerID {
			result = append(result, device)
		}
	}
	return result, nil
}

func (r *stubDeviceRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.devices[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.devices, id)
	return nil
}

var _ repository.DeviceRepository = (*stubDeviceRepo)(nil)

// stubUserRepo is an in-memory UserRepository.
type stubUserRepo struct {
	users map[string]domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.users[user.ID] = *user
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.users[user.ID] = *user
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *stubUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	result := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		result = append(result, user)
	}
	return result, nil
}

func (r *stubUserRepo) ListActiveByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	var result []domain.User
	for _, user := range r.users {
		if user.Active && user.Role == role {
			result = append(result, user)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *stubUserRepo) Deactivate(_ context.Context, id string) error {
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Active = false
	r.users[id] = user
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// recordingDispatcher captures published events.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) captured() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event{}, d.events...)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
