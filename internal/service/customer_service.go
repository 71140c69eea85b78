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

// CustomerService manages the customer directory.
type CustomerService struct {
	customers repository.CustomerRepository
	logger    *zap.Logger
}

// NewCustomerService builds the service.
func NewCustomerService(customers repository.CustomerRepository, logger *zap.Logger) *CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{customers: customers, logger: logger}
}

// CustomerInput describes the editable customer fields.
type CustomerInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
}

func (in CustomerInput) validate() error {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return apperrors.NewValidationError("first and last name required", nil)
	}
	if strings.TrimSpace(in.Phone) == "" {
		return apperrors.NewValidationError("phone required", nil)
	}
	return nil
}

// Create registers a new customer.
func (s *CustomerService) Create(ctx context.Context, input CustomerInput) (*domain.Customer, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	customer := &domain.Customer{
		ID:           uuid.NewString(),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        strings.TrimSpace(input.Email),
		Phone:        strings.TrimSpace(input.Phone),
		Address:      strings.TrimSpace(input.Address),
		CreatedAt:    now,
		LastModified: now,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		s.logger.Error("create customer", zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// Update edits an existing customer and refreshes last_modified.
func (s *CustomerService) Update(ctx context.Context, id string, input CustomerInput) (*domain.Customer, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	customer.FirstName = strings.TrimSpace(input.FirstName)
	customer.LastName = strings.TrimSpace(input.LastName)
	customer.Email = strings.TrimSpace(input.Email)
	customer.Phone = strings.TrimSpace(input.Phone)
	customer.Address = strings.TrimSpace(input.Address)
	customer.LastModified = time.Now().UTC()
	if err := s.customers.Update(ctx, customer); err != nil {
		s.logger.Error("update customer", zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// GetByID fetches one customer.
func (s *CustomerService) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// List returns all customers, newest first.
func (s *CustomerService) List(ctx context.Context) ([]domain.Customer, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		s.logger.Error("list customers", zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	return customers, nil
}

// Search matches name, email or phone case-insensitively. An empty term falls
// back to List.
func (s *CustomerService) Search(ctx context.Context, term string) ([]domain.Customer, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.List(ctx)
	}
	customers, err := s.customers.Search(ctx, term)
	if err != nil {
		s.logger.Error("search customers", zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	return customers, nil
}

// Delete removes the customer record.
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	if err := s.customers.Delete(ctx, id); err != nil {
		s.logger.Error("delete customer", zap.Error(err))
		return apperrors.MapError(err)
	}
	return nil
}
