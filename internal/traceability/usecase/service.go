package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/valdezmx/wms-traceability/internal/traceability/domain"
	internal_error "github.com/valdezmx/wms-traceability/internal/traceability/error"
)

type usecase struct {
	repo      Repo
	directory Directory
	webhook   WebhookPublisher
	logger    *slog.Logger
}

var _ UseCase = (*usecase)(nil)

func NewUseCase(
	repo Repo,
	directory Directory,
	webhook WebhookPublisher,
	logger *slog.Logger,
) *usecase {
	return &usecase{
		repo:      repo,
		directory: directory,
		webhook:   webhook,
		logger:    logger,
	}
}

func (u *usecase) CreateCheckpoint(ctx context.Context, input *domain.CreateCheckpointInput, createdByUserID uuid.UUID) (*domain.CheckpointResponse, error) {
	logger := u.logger.With(slog.String("usecase", "create_checkpoint"), slog.String("shipment_id", input.ShipmentID.String()))

	if err := input.Validate(); err != nil {
		logger.Error("input validation failed", slog.Any("error", err))
		return nil, internal_error.ValidationError(err.Error())
	}

	shipment, err := u.directory.GetShipment(ctx, input.ShipmentID)
	if err != nil {
		logger.Error("failed to fetch shipment", slog.Any("error", err))
		return nil, err
	}
	if shipment == nil {
		logger.Error("shipment not found")
		return nil, internal_error.NotFoundError("shipment not found")
	}

	status, _ := domain.ParseCheckpointStatus(input.StatusCode)

	now := time.Now().UTC()
	checkpoint := &domain.Checkpoint{
		ID:                           uuid.New(),
		ShipmentID:                   input.ShipmentID,
		LocationID:                   input.LocationID,
		StatusCode:                   status,
		Remarks:                      input.Remarks,
		Timestamp:                    now,
		CreatedByUserID:              createdByUserID,
		HandledByDriverID:            input.HandledByDriverID,
		HandledByWarehouseOperatorID: input.HandledByWarehouseOperatorID,
		LoadedOntoTruckID:            input.LoadedOntoTruckID,
		ActionType:                   input.ActionType,
		PreviousCustodian:            input.PreviousCustodian,
		NewCustodian:                 input.NewCustodian,
		Latitude:                     input.Latitude,
		Longitude:                    input.Longitude,
		CreatedAt:                    now,
	}

	if err := u.repo.InsertCheckpoint(ctx, checkpoint); err != nil {
		logger.Error("failed to insert checkpoint", slog.Any("error", err))
		return nil, err
	}

	// The insert is committed at this point: webhook publication is
	// best-effort and must never surface a failure to the caller.
	u.publishCheckpointCreated(ctx, logger, checkpoint, shipment)

	return u.mapToResponse(ctx, logger, checkpoint), nil
}

func (u *usecase) GetByID(ctx context.Context, id uuid.UUID) (*domain.CheckpointResponse, error) {
	logger := u.logger.With(slog.String("usecase", "get_by_id"), slog.String("checkpoint_id", id.String()))

	checkpoint, err := u.repo.GetCheckpoint(ctx, id)
	if err != nil {
		logger.Error("failed to fetch checkpoint", slog.Any("error", err))
		return nil, err
	}
	if checkpoint == nil {
		return nil, internal_error.NotFoundError("checkpoint not found")
	}

	return u.mapToResponse(ctx, logger, checkpoint), nil
}

func (u *usecase) GetByShipment(ctx context.Context, shipmentID uuid.UUID) ([]domain.CheckpointResponse, error) {
	logger := u.logger.With(slog.String("usecase", "get_by_shipment"), slog.String("shipment_id", shipmentID.String()))

	checkpoints, err := u.repo.ListByShipment(ctx, shipmentID)
	if err != nil {
		logger.Error("failed to list checkpoints", slog.Any("error", err))
		return nil, err
	}

	return u.mapAllToResponse(ctx, logger, checkpoints), nil
}

func (u *usecase) GetLastCheckpoint(ctx context.Context, shipmentID uuid.UUID) (*domain.CheckpointResponse, error) {
	logger := u.logger.With(slog.String("usecase", "get_last_checkpoint"), slog.String("shipment_id", shipmentID.String()))

	checkpoint, err := u.repo.LastByShipment(ctx, shipmentID)
	if err != nil {
		logger.Error("failed to fetch last checkpoint", slog.Any("error", err))
		return nil, err
	}
	if checkpoint == nil {
		return nil, internal_error.NotFoundError("shipment has no checkpoints")
	}

	return u.mapToResponse(ctx, logger, checkpoint), nil
}

func (u *usecase) GetByStatusCode(ctx context.Context, shipmentID uuid.UUID, statusCode string) ([]domain.CheckpointResponse, error) {
	logger := u.logger.With(slog.String("usecase", "get_by_status_code"), slog.String("shipment_id", shipmentID.String()), slog.String("status_code", statusCode))

	status, ok := domain.ParseCheckpointStatus(statusCode)
	if !ok {
		// Unknown status filters match nothing; not an error.
		return []domain.CheckpointResponse{}, nil
	}

	checkpoints, err := u.repo.ListByStatus(ctx, shipmentID, status)
	if err != nil {
		logger.Error("failed to list checkpoints by status", slog.Any("error", err))
		return nil, err
	}

	return u.mapAllToResponse(ctx, logger, checkpoints), nil
}

func (u *usecase) GetAll(ctx context.Context, request domain.PagedRequest) (*domain.PagedCheckpoints, error) {
	logger := u.logger.With(slog.String("usecase", "get_all"))

	request = request.Normalized()

	checkpoints, totalCount, err := u.repo.ListPaged(ctx, request.PageSize, request.Offset())
	if err != nil {
		logger.Error("failed to list checkpoints page", slog.Any("error", err))
		return nil, err
	}

	return &domain.PagedCheckpoints{
		Items:      u.mapAllToResponse(ctx, logger, checkpoints),
		TotalCount: totalCount,
		Page:       request.Page,
		PageSize:   request.PageSize,
	}, nil
}

func (u *usecase) publishCheckpointCreated(ctx context.Context, logger *slog.Logger, checkpoint *domain.Checkpoint, shipment *domain.Shipment) {
	if ctx.Err() != nil {
		logger.Warn("skipping webhook publication: context cancelled", slog.Any("error", ctx.Err()))
		return
	}

	var locationCode *string
	if checkpoint.LocationID != nil {
		location, err := u.directory.GetLocation(ctx, *checkpoint.LocationID)
		if err != nil {
			logger.Warn("failed to resolve location for webhook", slog.Any("error", err))
		} else if location != nil {
			locationCode = &location.Code
		}
	}

	event := domain.CheckpointCreatedEvent{
		CheckpointID:                 checkpoint.ID,
		ShipmentID:                   shipment.ID,
		TrackingNumber:               shipment.TrackingNumber,
		TenantID:                     shipment.TenantID,
		StatusCode:                   string(checkpoint.StatusCode),
		LocationID:                   checkpoint.LocationID,
		LocationCode:                 locationCode,
		Timestamp:                    checkpoint.Timestamp,
		HandledByDriverID:            checkpoint.HandledByDriverID,
		HandledByWarehouseOperatorID: checkpoint.HandledByWarehouseOperatorID,
		Remarks:                      checkpoint.Remarks,
		WasQrScanned:                 checkpoint.StatusCode == domain.StatusQrScanned,
	}

	if err := u.webhook.Publish(ctx, "checkpoint.created", event); err != nil {
		logger.Warn("failed to publish checkpoint.created webhook", slog.String("checkpoint_id", checkpoint.ID.String()), slog.Any("error", err))
		return
	}

	logger.Info("published checkpoint.created webhook", slog.String("checkpoint_id", checkpoint.ID.String()))
}

// mapToResponse enriches a checkpoint with display fields. Every lookup is
// optional: a dangling reference or a failed read resolves to absence and
// never fails the response.
func (u *usecase) mapToResponse(ctx context.Context, logger *slog.Logger, checkpoint *domain.Checkpoint) *domain.CheckpointResponse {
	response := &domain.CheckpointResponse{
		ID:                           checkpoint.ID,
		ShipmentID:                   checkpoint.ShipmentID,
		LocationID:                   checkpoint.LocationID,
		StatusCode:                   string(checkpoint.StatusCode),
		Remarks:                      checkpoint.Remarks,
		Timestamp:                    checkpoint.Timestamp,
		CreatedByUserID:              checkpoint.CreatedByUserID,
		CreatedByName:                "Unknown",
		HandledByDriverID:            checkpoint.HandledByDriverID,
		HandledByWarehouseOperatorID: checkpoint.HandledByWarehouseOperatorID,
		LoadedOntoTruckID:            checkpoint.LoadedOntoTruckID,
		ActionType:                   checkpoint.ActionType,
		PreviousCustodian:            checkpoint.PreviousCustodian,
		NewCustodian:                 checkpoint.NewCustodian,
		Latitude:                     checkpoint.Latitude,
		Longitude:                    checkpoint.Longitude,
		CreatedAt:                    checkpoint.CreatedAt,
	}

	if checkpoint.LocationID != nil {
		location, err := u.directory.GetLocation(ctx, *checkpoint.LocationID)
		if err != nil {
			logger.Warn("failed to resolve location", slog.Any("error", err))
		} else if location != nil {
			response.LocationName = &location.Name
		}
	}

	createdBy, err := u.directory.GetUser(ctx, checkpoint.CreatedByUserID)
	if err != nil {
		logger.Warn("failed to resolve created-by user", slog.Any("error", err))
	} else if createdBy != nil {
		response.CreatedByName = createdBy.FullName
	}

	if checkpoint.HandledByDriverID != nil {
		response.DriverName = u.resolveDriverName(ctx, logger, *checkpoint.HandledByDriverID)
	}

	if checkpoint.LoadedOntoTruckID != nil {
		truck, err := u.directory.GetTruck(ctx, *checkpoint.LoadedOntoTruckID)
		if err != nil {
			logger.Warn("failed to resolve truck", slog.Any("error", err))
		} else if truck != nil {
			response.TruckPlate = &truck.Plate
		}
	}

	return response
}

func (u *usecase) mapAllToResponse(ctx context.Context, logger *slog.Logger, checkpoints []domain.Checkpoint) []domain.CheckpointResponse {
	responses := make([]domain.CheckpointResponse, 0, len(checkpoints))
	for i := range checkpoints {
		responses = append(responses, *u.mapToResponse(ctx, logger, &checkpoints[i]))
	}
	return responses
}
