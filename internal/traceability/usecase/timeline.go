package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/valdezmx/wms-traceability/internal/traceability/domain"
)

// GetTimeline projects a shipment's checkpoints into display-ready timeline
// items. Ordering is input-driven: the repo returns checkpoints ascending by
// timestamp and the builder does not re-sort.
func (u *usecase) GetTimeline(ctx context.Context, shipmentID uuid.UUID) ([]domain.TimelineItem, error) {
	logger := u.logger.With(slog.String("usecase", "get_timeline"), slog.String("shipment_id", shipmentID.String()))

	checkpoints, err := u.repo.ListByShipment(ctx, shipmentID)
	if err != nil {
		logger.Error("failed to list checkpoints", slog.Any("error", err))
		return nil, err
	}

	if len(checkpoints) == 0 {
		return []domain.TimelineItem{}, nil
	}

	lastID := checkpoints[len(checkpoints)-1].ID

	timeline := make([]domain.TimelineItem, 0, len(checkpoints))
	for i := range checkpoints {
		checkpoint := &checkpoints[i]

		var locationName, locationCode *string
		if checkpoint.LocationID != nil {
			location, err := u.directory.GetLocation(ctx, *checkpoint.LocationID)
			if err != nil {
				logger.Warn("failed to resolve location", slog.Any("error", err))
			} else if location != nil {
				locationName = &location.Name
				locationCode = &location.Code
			}
		}

		timeline = append(timeline, domain.TimelineItem{
			CheckpointID: checkpoint.ID,
			StatusCode:   string(checkpoint.StatusCode),
			StatusLabel:  checkpoint.StatusCode.Label(),
			LocationName: locationName,
			LocationCode: locationCode,
			Timestamp:    checkpoint.Timestamp,
			HandlerName:  u.resolveHandlerName(ctx, logger, checkpoint),
			Remarks:      checkpoint.Remarks,
			IsCurrent:    checkpoint.ID == lastID,
		})
	}

	return timeline, nil
}

// resolveHandlerName resolves the display name of whoever handled the
// checkpoint. Driver takes precedence when both handler ids are set. Any
// broken link in the chain resolves to nil; a dangling reference must not
// block timeline rendering for the remaining checkpoints.
func (u *usecase) resolveHandlerName(ctx context.Context, logger *slog.Logger, checkpoint *domain.Checkpoint) *string {
	if checkpoint.HandledByDriverID != nil {
		return u.resolveDriverName(ctx, logger, *checkpoint.HandledByDriverID)
	}

	if checkpoint.HandledByWarehouseOperatorID != nil {
		operator, err := u.directory.GetWarehouseOperator(ctx, *checkpoint.HandledByWarehouseOperatorID)
		if err != nil {
			logger.Warn("failed to resolve warehouse operator", slog.Any("error", err))
			return nil
		}
		if operator == nil {
			return nil
		}
		return u.resolveEmployeeName(ctx, logger, operator.EmployeeID)
	}

	return nil
}

func (u *usecase) resolveDriverName(ctx context.Context, logger *slog.Logger, driverID uuid.UUID) *string {
	driver, err := u.directory.GetDriver(ctx, driverID)
	if err != nil {
		logger.Warn("failed to resolve driver", slog.Any("error", err))
		return nil
	}
	if driver == nil {
		return nil
	}
	return u.resolveEmployeeName(ctx, logger, driver.EmployeeID)
}

func (u *usecase) resolveEmployeeName(ctx context.Context, logger *slog.Logger, employeeID uuid.UUID) *string {
	employee, err := u.directory.GetEmployee(ctx, employeeID)
	if err != nil {
		logger.Warn("failed to resolve employee", slog.Any("error", err))
		return nil
	}
	if employee == nil {
		return nil
	}

	user, err := u.directory.GetUser(ctx, employee.UserID)
	if err != nil {
		logger.Warn("failed to resolve user", slog.Any("error", err))
		return nil
	}
	if user == nil {
		return nil
	}

	return &user.FullName
}
