package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/valdezmx/wms-traceability/internal/traceability/domain"
)

type (
	// Repo is the append-only checkpoint store. Lookups that find nothing
	// return (nil, nil); errors are reserved for infrastructure failures.
	Repo interface {
		InsertCheckpoint(ctx context.Context, checkpoint *domain.Checkpoint) error
		GetCheckpoint(ctx context.Context, id uuid.UUID) (*domain.Checkpoint, error)
		ListByShipment(ctx context.Context, shipmentID uuid.UUID) ([]domain.Checkpoint, error)
		ListByStatus(ctx context.Context, shipmentID uuid.UUID, status domain.CheckpointStatus) ([]domain.Checkpoint, error)
		LastByShipment(ctx context.Context, shipmentID uuid.UUID) (*domain.Checkpoint, error)
		ListPaged(ctx context.Context, limit, offset int) ([]domain.Checkpoint, int, error)
	}

	// Directory serves read-only lookups of the entities checkpoints
	// reference. A missing row is (nil, nil), never an error: references
	// may dangle (soft-deleted or removed rows) and enrichment must
	// degrade to absence.
	Directory interface {
		GetShipment(ctx context.Context, id uuid.UUID) (*domain.Shipment, error)
		GetLocation(ctx context.Context, id uuid.UUID) (*domain.Location, error)
		GetDriver(ctx context.Context, id uuid.UUID) (*domain.Driver, error)
		GetWarehouseOperator(ctx context.Context, id uuid.UUID) (*domain.WarehouseOperator, error)
		GetEmployee(ctx context.Context, id uuid.UUID) (*domain.Employee, error)
		GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
		GetTruck(ctx context.Context, id uuid.UUID) (*domain.Truck, error)
	}

	WebhookPublisher interface {
		Publish(ctx context.Context, eventName string, payload any) error
	}

	UseCase interface {
		CreateCheckpoint(ctx context.Context, input *domain.CreateCheckpointInput, createdByUserID uuid.UUID) (*domain.CheckpointResponse, error)
		GetByID(ctx context.Context, id uuid.UUID) (*domain.CheckpointResponse, error)
		GetByShipment(ctx context.Context, shipmentID uuid.UUID) ([]domain.CheckpointResponse, error)
		GetTimeline(ctx context.Context, shipmentID uuid.UUID) ([]domain.TimelineItem, error)
		GetLastCheckpoint(ctx context.Context, shipmentID uuid.UUID) (*domain.CheckpointResponse, error)
		GetByStatusCode(ctx context.Context, shipmentID uuid.UUID, statusCode string) ([]domain.CheckpointResponse, error)
		GetAll(ctx context.Context, request domain.PagedRequest) (*domain.PagedCheckpoints, error)
	}
)
