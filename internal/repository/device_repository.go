package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fixdesk/workorder-service/internal/domain"
)

// DeviceRepository encapsulates device persistence.
type DeviceRepository interface {
	Create(ctx context.Context, device *domain.Device) error
	Update(ctx context.Context, device *domain.Device) error
	GetByID(ctx context.Context, id string) (*domain.Device, error)
	List(ctx context.Context) ([]domain.Device, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Device, error)
	Delete(ctx context.Context, id string) error
}

type deviceRepository struct {
	pool *pgxpool.Pool
}

// NewDeviceRepository instantiates repository.
func NewDeviceRepository(pool *pgxpool.Pool) DeviceRepository {
	return &deviceRepository{pool: pool}
}

const deviceColumns = `id, customer_id, device_type, brand, serial_number, created_at, last_modified`

func (r *deviceRepository) Create(ctx context.Context, device *domain.Device) error {
	const query = `
        INSERT INTO devices (id, customer_id, device_type, brand, serial_number, created_at, last_modified)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.pool.Exec(ctx, query,
		device.ID,
		device.CustomerID,
		device.DeviceType,
		device.Brand,
		device.SerialNumber,
		device.CreatedAt,
		device.LastModified,
	)
	return err
}

func (r *deviceRepository) Update(ctx context.Context, device *domain.Device) error {
	const query = `
        UPDATE devices SET device_type=$1, brand=$2, serial_number=$3, last_modified=$4
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		device.DeviceType,
		device.Brand,
		device.SerialNumber,
		device.LastModified,
		device.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *deviceRepository) GetByID(ctx context.Context, id string) (*domain.Device, error) {
	var device domain.Device
	if err := r.pool.QueryRow(ctx, `SELECT `+deviceColumns+` FROM devices WHERE id=$1`, id).Scan(
		&device.ID,
		&device.CustomerID,
		&device.DeviceType,
		&device.Brand,
		&device.SerialNumber,
		&device.CreatedAt,
		&device.LastModified,
	); err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *deviceRepository) List(ctx context.Context) ([]domain.Device, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+deviceColumns+` FROM devices ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDevices(rows)
}

func (r *deviceRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Device, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+deviceColumns+` FROM devices WHERE customer_id=$1 ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDevices(rows)
}

func (r *deviceRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM devices WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanDevices(rows pgx.Rows) ([]domain.Device, error) {
	var result []domain.Device
	for rows.Next() {
		var device domain.Device
		if err := rows.Scan(
			&device.ID,
			&device.CustomerID,
			&device.DeviceType,
			&device.Brand,
			&device.SerialNumber,
			&device.CreatedAt,
			&device.LastModified,
		); err != nil {
			return nil, err
		}
		result = append(result, device)
	}
	return result, rows.Err()
}
