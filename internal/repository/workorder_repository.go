package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fixdesk/workorder-service/internal/domain"
)

// WorkOrderFilter captures query parameters for work-order listings.
// ActiveSince expresses the live-board visibility rule: keep every order that
// is not completed, plus completed orders whose completed_at is at or after
// the cutoff (inclusive).
type WorkOrderFilter struct {
	CustomerID     *string
	TechnicianID   *string
	Status         *domain.WorkOrderStatus
	ActiveSince    *time.Time
	CompletedSince *time.Time
	SearchTerm     *string
}

// WorkOrderRepository encapsulates work-order persistence.
type WorkOrderRepository interface {
	Create(ctx context.Context, order *domain.WorkOrder) error
	CreateWithDevice(ctx context.Context, device *domain.Device, order *domain.WorkOrder) error
	Update(ctx context.Context, order *domain.WorkOrder) error
	GetByID(ctx context.Context, id string) (*domain.WorkOrder, error)
	ListWithFilter(ctx context.Context, filter WorkOrderFilter) ([]domain.WorkOrder, error)
	Delete(ctx context.Context, id string) error
	DeleteWithDevice(ctx context.Context, workOrderID, deviceID string) error
}

type workOrderRepository struct {
	pool *pgxpool.Pool
}

// NewWorkOrderRepository instantiates repository.
func NewWorkOrderRepository(pool *pgxpool.Pool) WorkOrderRepository {
	return &workOrderRepository{pool: pool}
}

const workOrderColumns = `id, work_order_number, customer_id, device_id, technician_id,
        issue_description, parts_required, labor_cost, parts_cost, status,
        created_at, started_at, completed_at`

func (r *workOrderRepository) Create(ctx context.Context, order *domain.WorkOrder) error {
	const query = `
        INSERT INTO work_orders (id, work_order_number, customer_id, device_id, technician_id,
            issue_description, parts_required, labor_cost, parts_cost, status, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`
	_, err := r.pool.Exec(ctx, query,
		order.ID,
		order.WorkOrderNumber,
		order.CustomerID,
		order.DeviceID,
		order.TechnicianID,
		order.IssueDescription,
		order.PartsRequired,
		order.LaborCost,
		order.PartsCost,
		order.Status,
		order.CreatedAt,
	)
	return err
}

// CreateWithDevice inserts the intake device and its work order in a single
// transaction so a failure never leaves an orphaned device behind.
func (r *workOrderRepository) CreateWithDevice(ctx context.Context, device *domain.Device, order *domain.WorkOrder) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const deviceQuery = `
            INSERT INTO devices (id, customer_id, device_type, brand, serial_number, created_at, last_modified)
            VALUES ($1,$2,$3,$4,$5,$6,$7)`
		if _, err := tx.Exec(ctx, deviceQuery,
			device.ID,
			device.CustomerID,
			device.DeviceType,
			device.Brand,
			device.SerialNumber,
			device.CreatedAt,
			device.LastModified,
		); err != nil {
			return err
		}
		const orderQuery = `
            INSERT INTO work_orders (id, work_order_number, customer_id, device_id, technician_id,
                issue_description, parts_required, labor_cost, parts_cost, status, created_at)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`
		_, err := tx.Exec(ctx, orderQuery,
			order.ID,
			order.WorkOrderNumber,
			order.CustomerID,
			order.DeviceID,
			order.TechnicianID,
			order.IssueDescription,
			order.PartsRequired,
			order.LaborCost,
			order.PartsCost,
			order.Status,
			order.CreatedAt,
		)
		return err
	})
}

func (r *workOrderRepository) Update(ctx context.Context, order *domain.WorkOrder) error {
	const query = `
        UPDATE work_orders SET technician_id=$1, issue_description=$2, parts_required=$3,
            labor_cost=$4, parts_cost=$5, status=$6, started_at=$7, completed_at=$8
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		order.TechnicianID,
		order.IssueDescription,
		order.PartsRequired,
		order.LaborCost,
		order.PartsCost,
		order.Status,
		order.StartedAt,
		order.CompletedAt,
		order.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *workOrderRepository) GetByID(ctx context.Context, id string) (*domain.WorkOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM work_orders WHERE id=$1`, workOrderColumns)
	var order domain.WorkOrder
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.WorkOrderNumber,
		&order.CustomerID,
		&order.DeviceID,
		&order.TechnicianID,
		&order.IssueDescription,
		&order.PartsRequired,
		&order.LaborCost,
		&order.PartsCost,
		&order.Status,
		&order.CreatedAt,
		&order.StartedAt,
		&order.CompletedAt,
	); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *workOrderRepository) ListWithFilter(ctx context.Context, filter WorkOrderFilter) ([]domain.WorkOrder, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if filter.TechnicianID != nil {
		args = append(args, *filter.TechnicianID)
		clauses = append(clauses, fmt.Sprintf("technician_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.ActiveSince != nil {
		args = append(args, domain.StatusCompleted, *filter.ActiveSince)
		clauses = append(clauses, fmt.Sprintf("(status <> $%d OR completed_at >= $%d)", len(args)-1, len(args)))
	}
	if filter.CompletedSince != nil {
		args = append(args, *filter.CompletedSince)
		clauses = append(clauses, fmt.Sprintf("completed_at >= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(work_order_number) LIKE %s OR LOWER(issue_description) LIKE %s)", placeholder, placeholder))
	}

	query := fmt.Sprintf(`SELECT %s FROM work_orders WHERE %s ORDER BY created_at DESC`,
		workOrderColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkOrders(rows)
}

func (r *workOrderRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM work_orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteWithDevice removes the work order and its intake device in a single
// transaction.
func (r *workOrderRepository) DeleteWithDevice(ctx context.Context, workOrderID, deviceID string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, `DELETE FROM work_orders WHERE id=$1`, workOrderID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		_, err = tx.Exec(ctx, `DELETE FROM devices WHERE id=$1`, deviceID)
		return err
	})
}

func scanWorkOrders(rows pgx.Rows) ([]domain.WorkOrder, error) {
	var result []domain.WorkOrder
	for rows.Next() {
		var order domain.WorkOrder
		if err := rows.Scan(
			&order.ID,
			&order.WorkOrderNumber,
			&order.CustomerID,
			&order.DeviceID,
			&order.TechnicianID,
			&order.IssueDescription,
			&order.PartsRequired,
			&order.LaborCost,
			&order.PartsCost,
			&order.Status,
			&order.CreatedAt,
			&order.StartedAt,
			&order.CompletedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	return result, rows.Err()
}
