package domain

import (
	"time"

	"github.com/google/uuid"
)

// Checkpoint is an immutable traceability event. Checkpoints are only ever
// inserted; no update or delete path exists anywhere in the service.
type Checkpoint struct {
	ID                           uuid.UUID
	ShipmentID                   uuid.UUID
	LocationID                   *uuid.UUID
	StatusCode                   CheckpointStatus
	Remarks                      *string
	Timestamp                    time.Time
	CreatedByUserID              uuid.UUID
	HandledByDriverID            *uuid.UUID
	HandledByWarehouseOperatorID *uuid.UUID
	LoadedOntoTruckID            *uuid.UUID
	ActionType                   *string
	PreviousCustodian            *string
	NewCustodian                 *string
	Latitude                     *float64
	Longitude                    *float64
	CreatedAt                    time.Time
}

type Shipment struct {
	ID             uuid.UUID
	TrackingNumber string
	TenantID       uuid.UUID
	Status         string
}

type Location struct {
	ID   uuid.UUID
	Name string
	Code string
}

type Truck struct {
	ID    uuid.UUID
	Plate string
}

type User struct {
	ID       uuid.UUID
	FullName string
}

type Employee struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

type Driver struct {
	ID         uuid.UUID
	EmployeeID uuid.UUID
}

type WarehouseOperator struct {
	ID         uuid.UUID
	EmployeeID uuid.UUID
}
