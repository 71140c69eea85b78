package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/fixdesk/workorder-service/internal/auth"
	"github.com/fixdesk/workorder-service/internal/config"
	"github.com/fixdesk/workorder-service/internal/domain"
	"github.com/fixdesk/workorder-service/internal/repository"
	apperrors "github.com/fixdesk/workorder-service/pkg/util"
)

// UserService handles administrative account management. Route-level checks
// restrict these operations to Admin.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
	logger     *zap.Logger
}

// NewUserService builds the service.
func NewUserService(cfg config.Config, users repository.UserRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, bcryptCost: cfg.Auth.BcryptCost, logger: logger}
}

// UserCreateInput describes an admin-created account.
type UserCreateInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      domain.Role
}

// Create provisions an account with an explicit role.
func (s *UserService) Create(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("username and password required", nil)
	}
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}

	if _, err := s.users.GetByUsername(ctx, input.Username); err == nil {
		return nil, apperrors.NewConflict("username already taken", map[string]any{"username": input.Username})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     input.Username,
		PasswordHash: hash,
		Email:        strings.TrimSpace(input.Email),
		Role:         input.Role,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("create user", zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// UserUpdateInput describes editable account fields.
type UserUpdateInput struct {
	Email     string
	FirstName string
	LastName  string
	Role      domain.Role
	Active    bool
}

// Update edits account details and role.
func (s *UserService) Update(ctx context.Context, id string, input UserUpdateInput) (*domain.User, error) {
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	user.Email = strings.TrimSpace(input.Email)
	user.FirstName = strings.TrimSpace(input.FirstName)
	user.LastName = strings.TrimSpace(input.LastName)
	user.Role = input.Role
	user.Active = input.Active
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error("update user", zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Deactivate flips the active flag off, keeping the record.
func (s *UserService) Deactivate(ctx context.Context, id string) error {
	if err := s.users.Deactivate(ctx, id); err != nil {
		s.logger.Error("deactivate user", zap.Error(err))
		return apperrors.MapError(err)
	}
	return nil
}

// Delete removes the account entirely.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		s.logger.Error("delete user", zap.Error(err))
		return apperrors.MapError(err)
	}
	return nil
}

// ChangePassword rehashes and stores a new password for the account.
func (s *UserService) ChangePassword(ctx context.Context, id, newPassword string) error {
	if newPassword == "" {
		return apperrors.NewValidationError("password required", nil)
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error("change password", zap.Error(err))
		return apperrors.MapError(err)
	}
	return nil
}

// List returns all accounts.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		s.logger.Error("list users", zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// ListTechnicians returns active accounts holding the Technician role.
func (s *UserService) ListTechnicians(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.ListActiveByRole(ctx, domain.RoleTechnician)
	if err != nil {
		s.logger.Error("list technicians", zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// GetByID fetches one account.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}
