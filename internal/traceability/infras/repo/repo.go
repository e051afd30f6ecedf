package repo

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/valdezmx/wms-traceability/internal/traceability/domain"
	"github.com/valdezmx/wms-traceability/internal/traceability/usecase"
)

type repo struct {
	sqlDB  *sql.DB
	logger *slog.Logger
}

var _ usecase.Repo = (*repo)(nil)

func NewRepo(
	sqlDB *sql.DB,
	logger *slog.Logger,
) *repo {
	return &repo{
		sqlDB:  sqlDB,
		logger: logger,
	}
}

const checkpointColumns = `
	id, shipment_id, location_id, status_code, remarks, timestamp,
	created_by_user_id, handled_by_driver_id, handled_by_warehouse_operator_id,
	loaded_onto_truck_id, action_type, previous_custodian, new_custodian,
	latitude, longitude, created_at
`

func (r *repo) InsertCheckpoint(ctx context.Context, checkpoint *domain.Checkpoint) error {
	logger := r.logger.With(slog.Any("infra", "repo"), slog.String("method", "insert_checkpoint"))

	// Checkpoints are append-only: this is the only statement that ever
	// touches the table outside of reads.
	insertStmt := `
	INSERT INTO shipment_checkpoints(` + checkpointColumns + `)
	VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	if _, err := r.sqlDB.ExecContext(
		ctx,
		insertStmt,
		checkpoint.ID,
		checkpoint.ShipmentID,
		nullUUID(checkpoint.LocationID),
		string(checkpoint.StatusCode),
		checkpoint.Remarks,
		checkpoint.Timestamp,
		checkpoint.CreatedByUserID,
		nullUUID(checkpoint.HandledByDriverID),
		nullUUID(checkpoint.HandledByWarehouseOperatorID),
		nullUUID(checkpoint.LoadedOntoTruckID),
		checkpoint.ActionType,
		checkpoint.PreviousCustodian,
		checkpoint.NewCustodian,
		checkpoint.Latitude,
		checkpoint.Longitude,
		checkpoint.CreatedAt,
	); err != nil {
		logger.Error("failed to insert record", slog.Any("error", err))
		return err
	}

	return nil
}

func (r *repo) GetCheckpoint(ctx context.Context, id uuid.UUID) (*domain.Checkpoint, error) {
	logger := r.logger.With(slog.Any("infra", "repo"), slog.String("method", "get_checkpoint"))

	queryStmt := `
	SELECT ` + checkpointColumns + `
	FROM shipment_checkpoints
	WHERE id = $1
	`

	checkpoint, err := scanCheckpoint(r.sqlDB.QueryRowContext(ctx, queryStmt, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("error scanning checkpoint", slog.Any("error", err))
		return nil, err
	}

	return checkpoint, nil
}

func (r *repo) ListByShipment(ctx context.Context, shipmentID uuid.UUID) ([]domain.Checkpoint, error) {
	logger := r.logger.With(slog.Any("infra", "repo"), slog.String("method", "list_by_shipment"))

	queryStmt := `
	SELECT ` + checkpointColumns + `
	FROM shipment_checkpoints
	WHERE shipment_id = $1
	ORDER BY timestamp ASC
	`

	return r.queryCheckpoints(ctx, logger, queryStmt, shipmentID)
}

func (r *repo) ListByStatus(ctx context.Context, shipmentID uuid.UUID, status domain.CheckpointStatus) ([]domain.Checkpoint, error) {
	logger := r.logger.With(slog.Any("infra", "repo"), slog.String("method", "list_by_status"))

	queryStmt := `
	SELECT ` + checkpointColumns + `
	FROM shipment_checkpoints
	WHERE shipment_id = $1 AND status_code = $2
	ORDER BY timestamp ASC
	`

	return r.queryCheckpoints(ctx, logger, queryStmt, shipmentID, string(status))
}

func (r *repo) LastByShipment(ctx context.Context, shipmentID uuid.UUID) (*domain.Checkpoint, error) {
	logger := r.logger.With(slog.Any("infra", "repo"), slog.String("method", "last_by_shipment"))

	queryStmt := `
	SELECT ` + checkpointColumns + `
	FROM shipment_checkpoints
	WHERE shipment_id = $1
	ORDER BY timestamp DESC
	LIMIT 1
	`

	checkpoint, err := scanCheckpoint(r.sqlDB.QueryRowContext(ctx, queryStmt, shipmentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("error scanning checkpoint", slog.Any("error", err))
		return nil, err
	}

	return checkpoint, nil
}

func (r *repo) ListPaged(ctx context.Context, limit, offset int) ([]domain.Checkpoint, int, error) {
	logger := r.logger.With(slog.Any("infra", "repo"), slog.String("method", "list_paged"))

	var totalCount int
	if err := r.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM shipment_checkpoints`).Scan(&totalCount); err != nil {
		logger.Error("failed to count checkpoints", slog.Any("error", err))
		return nil, 0, err
	}

	queryStmt := `
	SELECT ` + checkpointColumns + `
	FROM shipment_checkpoints
	ORDER BY timestamp DESC
	LIMIT $1 OFFSET $2
	`

	checkpoints, err := r.queryCheckpoints(ctx, logger, queryStmt, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return checkpoints, totalCount, nil
}

func (r *repo) queryCheckpoints(ctx context.Context, logger *slog.Logger, queryStmt string, args ...any) ([]domain.Checkpoint, error) {
	rows, err := r.sqlDB.QueryContext(ctx, queryStmt, args...)
	if err != nil {
		logger.Error("failed to query checkpoints", slog.Any("error", err))
		return nil, err
	}
	defer rows.Close()

	checkpoints := []domain.Checkpoint{}
	for rows.Next() {
		checkpoint, err := scanCheckpoint(rows)
		if err != nil {
			logger.Error("error scanning checkpoint", slog.Any("error", err))
			return nil, err
		}
		checkpoints = append(checkpoints, *checkpoint)
	}
	if err := rows.Err(); err != nil {
		logger.Error("error iterating checkpoints", slog.Any("error", err))
		return nil, err
	}

	return checkpoints, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCheckpoint(row rowScanner) (*domain.Checkpoint, error) {
	var (
		checkpoint                      domain.Checkpoint
		statusCode                      string
		locationID, driverID            uuid.NullUUID
		warehouseOperatorID, truckID    uuid.NullUUID
		remarks, actionType             sql.NullString
		previousCustodian, newCustodian sql.NullString
		latitude, longitude             sql.NullFloat64
	)

	if err := row.Scan(
		&checkpoint.ID,
		&checkpoint.ShipmentID,
		&locationID,
		&statusCode,
		&remarks,
		&checkpoint.Timestamp,
		&checkpoint.CreatedByUserID,
		&driverID,
		&warehouseOperatorID,
		&truckID,
		&actionType,
		&previousCustodian,
		&newCustodian,
		&latitude,
		&longitude,
		&checkpoint.CreatedAt,
	); err != nil {
		return nil, err
	}

	checkpoint.StatusCode = domain.CheckpointStatus(statusCode)
	checkpoint.LocationID = uuidPtr(locationID)
	checkpoint.HandledByDriverID = uuidPtr(driverID)
	checkpoint.HandledByWarehouseOperatorID = uuidPtr(warehouseOperatorID)
	checkpoint.LoadedOntoTruckID = uuidPtr(truckID)
	checkpoint.Remarks = stringPtr(remarks)
	checkpoint.ActionType = stringPtr(actionType)
	checkpoint.PreviousCustodian = stringPtr(previousCustodian)
	checkpoint.NewCustodian = stringPtr(newCustodian)
	checkpoint.Latitude = floatPtr(latitude)
	checkpoint.Longitude = floatPtr(longitude)

	return &checkpoint, nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func uuidPtr(id uuid.NullUUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	value := id.UUID
	return &value
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	value := s.String
	return &value
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	value := f.Float64
	return &value
}
