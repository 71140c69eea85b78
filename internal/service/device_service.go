package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fixdesk/workorder-service/internal/domain"
	"github.com/fixdesk/workorder-service/internal/repository"
	apperrors "github.com/fixdesk/workorder-service/pkg/util"
)

// DeviceService manages the device registry. Devices created through intake
// are owned by the work-order flow; this service covers standalone management.
type DeviceService struct {
	devices   repository.DeviceRepository
	customers repository.CustomerRepository
	logger    *zap.Logger
}

// NewDeviceService builds the service.
func NewDeviceService(devices repository.DeviceRepository, customers repository.CustomerRepository, logger *zap.Logger) *DeviceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeviceService{devices: devices, customers: customers, logger: logger}
}

// DeviceInput describes the editable device fields.
type DeviceInput struct {
	CustomerID   string
	DeviceType   string
	Brand        string
	SerialNumber string
}

// Create registers a device for an existing customer.
func (s *DeviceService) Create(ctx context.Context, input DeviceInput) (*domain.Device, error) {
	if strings.TrimSpace(input.CustomerID) == "" {
		return nil, apperrors.NewValidationError("customer_id required", nil)
	}
	if strings.TrimSpace(input.DeviceType) == "" {
		return nil, apperrors.NewValidationError("device_type required", nil)
	}
	if _, err := s.customers.GetByID(ctx, input.CustomerID); err != nil {
		return nil, apperrors.MapError(err)
	}

	now := time.Now().UTC()
	device := &domain.Device{
		ID:           uuid.NewString(),
		CustomerID:   input.CustomerID,
		DeviceType:   strings.TrimSpace(input.DeviceType),
		Brand:        strings.TrimSpace(input.Brand),
		SerialNumber: strings.TrimSpace(input.SerialNumber),
		CreatedAt:    now,
		LastModified: now,
	}
	if err := s.devices.Create(ctx, device); err != nil {
		s.logger.Error("create device", zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	return device, nil
}

// Update edits device fields and refreshes last_modified. The owning customer
// is fixed at creation.
func (s *DeviceService) Update(ctx context.Context, id string, input DeviceInput) (*domain.Device, error) {
	if strings.TrimSpace(input.DeviceType) == "" {
		return nil, apperrors.NewValidationError("device_type required", nil)
	}
	device, err := s.devices.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	device.DeviceType = strings.TrimSpace(input.DeviceType)
	device.Brand = strings.TrimSpace(input.Brand)
	device.SerialNumber = strings.TrimSpace(input.SerialNumber)
	device.LastModified = time.Now().UTC()
	if err := s.devices.Update(ctx, device); err != nil {
		s.logger.Error("update device", zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	return device, nil
}

// GetByID fetches one device.
func (s *DeviceService) GetByID(ctx context.Context, id string) (*domain.Device, error) {
	device, err := s.devices.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return device, nil
}

// List returns all devices, newest first.
func (s *DeviceService) List(ctx context.Context) ([]domain.Device, error) {
	devices, err := s.devices.List(ctx)
	if err != nil {
		s.logger.Error("list devices", zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	return devices, nil
}

// ListByCustomer returns one customer's devices.
func (s *DeviceService) ListByCustomer(ctx context.Context, customerID string) ([]domain.Device, error) {
	devices, err := s.devices.ListByCustomer(ctx, customerID)
	if err != nil {
		s.logger.Error("list devices by customer", zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	return devices, nil
}

// Delete removes the device record.
func (s *DeviceService) Delete(ctx context.Context, id string) error {
	if err := s.devices.Delete(ctx, id); err != nil {
		s.logger.Error("delete device", zap.Error(err))
		return apperrors.MapError(err)
	}
	return nil
}
