package directory

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/valdezmx/wms-traceability/internal/traceability/domain"
	"github.com/valdezmx/wms-traceability/internal/traceability/usecase"
)

// directory serves read-only lookups of the entities checkpoints reference.
// Rows flagged as soft-deleted are treated as missing, the same as rows that
// never existed: callers receive (nil, nil) and degrade to absence.
type directory struct {
	sqlDB  *sql.DB
	logger *slog.Logger
}

var _ usecase.Directory = (*directory)(nil)

func NewDirectory(
	sqlDB *sql.DB,
	logger *slog.Logger,
) *directory {
	return &directory{
		sqlDB:  sqlDB,
		logger: logger,
	}
}

func (d *directory) GetShipment(ctx context.Context, id uuid.UUID) (*domain.Shipment, error) {
	logger := d.logger.With(slog.Any("infra", "directory"), slog.String("method", "get_shipment"))

	queryStmt := `
	SELECT id, tracking_number, tenant_id, status
	FROM shipments
	WHERE id = $1 AND NOT is_deleted
	`

	var shipment domain.Shipment
	err := d.sqlDB.QueryRowContext(ctx, queryStmt, id).Scan(
		&shipment.ID,
		&shipment.TrackingNumber,
		&shipment.TenantID,
		&shipment.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("error scanning shipment", slog.Any("error", err))
		return nil, err
	}

	return &shipment, nil
}

func (d *directory) GetLocation(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	logger := d.logger.With(slog.Any("infra", "directory"), slog.String("method", "get_location"))

	queryStmt := `
	SELECT id, name, code
	FROM locations
	WHERE id = $1 AND NOT is_deleted
	`

	var location domain.Location
	err := d.sqlDB.QueryRowContext(ctx, queryStmt, id).Scan(
		&location.ID,
		&location.Name,
		&location.Code,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("error scanning location", slog.Any("error", err))
		return nil, err
	}

	return &location, nil
}

func (d *directory) GetDriver(ctx context.Context, id uuid.UUID) (*domain.Driver, error) {
	logger := d.logger.With(slog.Any("infra", "directory"), slog.String("method", "get_driver"))

	queryStmt := `
	SELECT id, employee_id
	FROM drivers
	WHERE id = $1 AND NOT is_deleted
	`

	var driver domain.Driver
	err := d.sqlDB.QueryRowContext(ctx, queryStmt, id).Scan(
		&driver.ID,
		&driver.EmployeeID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("error scanning driver", slog.Any("error", err))
		return nil, err
	}

	return &driver, nil
}

func (d *directory) GetWarehouseOperator(ctx context.Context, id uuid.UUID) (*domain.WarehouseOperator, error) {
	logger := d.logger.With(slog.Any("infra", "directory"), slog.String("method", "get_warehouse_operator"))

	queryStmt := `
	SELECT id, employee_id
	FROM warehouse_operators
	WHERE id = $1 AND NOT is_deleted
	`

	var operator domain.WarehouseOperator
	err := d.sqlDB.QueryRowContext(ctx, queryStmt, id).Scan(
		&operator.ID,
		&operator.EmployeeID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("error scanning warehouse operator", slog.Any("error", err))
		return nil, err
	}

	return &operator, nil
}

func (d *directory) GetEmployee(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	logger := d.logger.With(slog.Any("infra", "directory"), slog.String("method", "get_employee"))

	queryStmt := `
	SELECT id, user_id
	FROM employees
	WHERE id = $1 AND NOT is_deleted
	`

	var employee domain.Employee
	err := d.sqlDB.QueryRowContext(ctx, queryStmt, id).Scan(
		&employee.ID,
		&employee.UserID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("error scanning employee", slog.Any("error", err))
		return nil, err
	}

	return &employee, nil
}

func (d *directory) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	logger := d.logger.With(slog.Any("infra", "directory"), slog.String("method", "get_user"))

	queryStmt := `
	SELECT id, full_name
	FROM users
	WHERE id = $1 AND NOT is_deleted
	`

	var user domain.User
	err := d.sqlDB.QueryRowContext(ctx, queryStmt, id).Scan(
		&user.ID,
		&user.FullName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("error scanning user", slog.Any("error", err))
		return nil, err
	}

	return &user, nil
}

func (d *directory) GetTruck(ctx context.Context, id uuid.UUID) (*domain.Truck, error) {
	logger := d.logger.With(slog.Any("infra", "directory"), slog.String("method", "get_truck"))

	queryStmt := `
	SELECT id, plate
	FROM trucks
	WHERE id = $1 AND NOT is_deleted
	`

	var truck domain.Truck
	err := d.sqlDB.QueryRowContext(ctx, queryStmt, id).Scan(
		&truck.ID,
		&truck.Plate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("error scanning truck", slog.Any("error", err))
		return nil, err
	}

	return &truck, nil
}
