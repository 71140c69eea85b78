package bootstrap

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/fixdesk/workorder-service/internal/auth"
	"github.com/fixdesk/workorder-service/internal/config"
	"github.com/fixdesk/workorder-service/internal/domain"
	"github.com/fixdesk/workorder-service/internal/repository"
)

// EnsureAdmin seeds the default administrator account when it does not exist
// yet, so a fresh deployment is immediately usable.
func EnsureAdmin(ctx context.Context, cfg config.Config, users repository.UserRepository, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	_, err := users.GetByUsername(ctx, cfg.Bootstrap.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(cfg.Bootstrap.AdminPassword, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		ID:           uuid.NewString(),
		Username:     cfg.Bootstrap.AdminUsername,
		PasswordHash: hash,
		Email:        cfg.Bootstrap.AdminEmail,
		Role:         domain.RoleAdmin,
		FirstName:    "System",
		LastName:     "Administrator",
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	logger.Info("seeded default admin account", zap.String("username", admin.Username))
	return nil
}
