package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// CheckpointStatus is the closed set of traceability statuses a checkpoint
// can record. Parsing is exact: unknown input is rejected, never stored.
type CheckpointStatus string

const (
	StatusLoaded          CheckpointStatus = "Loaded"
	StatusQrScanned       CheckpointStatus = "QrScanned"
	StatusArrivedHub      CheckpointStatus = "ArrivedHub"
	StatusDepartedHub     CheckpointStatus = "DepartedHub"
	StatusOutForDelivery  CheckpointStatus = "OutForDelivery"
	StatusDeliveryAttempt CheckpointStatus = "DeliveryAttempt"
	StatusDelivered       CheckpointStatus = "Delivered"
	StatusException       CheckpointStatus = "Exception"
)

var knownStatuses = map[CheckpointStatus]struct{}{
	StatusLoaded:          {},
	StatusQrScanned:       {},
	StatusArrivedHub:      {},
	StatusDepartedHub:     {},
	StatusOutForDelivery:  {},
	StatusDeliveryAttempt: {},
	StatusDelivered:       {},
	StatusException:       {},
}

// statusLabels maps each status to its display label. Initialized once,
// never mutated at runtime.
var statusLabels = map[CheckpointStatus]string{
	StatusLoaded:          "Cargado en camión",
	StatusQrScanned:       "QR escaneado",
	StatusArrivedHub:      "Llegó a Hub",
	StatusDepartedHub:     "Salió de Hub",
	StatusOutForDelivery:  "En camino",
	StatusDeliveryAttempt: "Intento de entrega",
	StatusDelivered:       "Entregado",
	StatusException:       "Excepción",
}

// ParseCheckpointStatus parses a raw status string into a known status.
func ParseCheckpointStatus(raw string) (CheckpointStatus, bool) {
	status := CheckpointStatus(raw)
	_, ok := knownStatuses[status]
	return status, ok
}

// Label returns the display label for the status, falling back to the raw
// status string when unmapped.
func (s CheckpointStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

type CreateCheckpointInput struct {
	ShipmentID                   uuid.UUID  `json:"shipment_id"`
	LocationID                   *uuid.UUID `json:"location_id,omitempty"`
	StatusCode                   string     `json:"status_code"`
	Remarks                      *string    `json:"remarks,omitempty"`
	HandledByDriverID            *uuid.UUID `json:"handled_by_driver_id,omitempty"`
	HandledByWarehouseOperatorID *uuid.UUID `json:"handled_by_warehouse_operator_id,omitempty"`
	LoadedOntoTruckID            *uuid.UUID `json:"loaded_onto_truck_id,omitempty"`
	ActionType                   *string    `json:"action_type,omitempty"`
	PreviousCustodian            *string    `json:"previous_custodian,omitempty"`
	NewCustodian                 *string    `json:"new_custodian,omitempty"`
	Latitude                     *float64   `json:"latitude,omitempty"`
	Longitude                    *float64   `json:"longitude,omitempty"`
}

func (o *CreateCheckpointInput) Validate() error {
	var errs *multierror.Error

	if o.ShipmentID == uuid.Nil {
		errs = multierror.Append(errs, errors.New("shipment_id is required"))
	}

	if o.StatusCode == "" {
		errs = multierror.Append(errs, errors.New("status_code is required"))
	} else if _, ok := ParseCheckpointStatus(o.StatusCode); !ok {
		errs = multierror.Append(errs, fmt.Errorf("status_code %q is not a known status", o.StatusCode))
	}

	if o.Latitude != nil && (*o.Latitude < -90 || *o.Latitude > 90) {
		errs = multierror.Append(errs, errors.New("latitude must be between -90 and 90"))
	}

	if o.Longitude != nil && (*o.Longitude < -180 || *o.Longitude > 180) {
		errs = multierror.Append(errs, errors.New("longitude must be between -180 and 180"))
	}

	return errs.ErrorOrNil()
}

type CheckpointResponse struct {
	ID                           uuid.UUID  `json:"id"`
	ShipmentID                   uuid.UUID  `json:"shipment_id"`
	LocationID                   *uuid.UUID `json:"location_id,omitempty"`
	LocationName                 *string    `json:"location_name,omitempty"`
	StatusCode                   string     `json:"status_code"`
	Remarks                      *string    `json:"remarks,omitempty"`
	Timestamp                    time.Time  `json:"timestamp"`
	CreatedByUserID              uuid.UUID  `json:"created_by_user_id"`
	CreatedByName                string     `json:"created_by_name"`
	HandledByDriverID            *uuid.UUID `json:"handled_by_driver_id,omitempty"`
	DriverName                   *string    `json:"driver_name,omitempty"`
	HandledByWarehouseOperatorID *uuid.UUID `json:"handled_by_warehouse_operator_id,omitempty"`
	LoadedOntoTruckID            *uuid.UUID `json:"loaded_onto_truck_id,omitempty"`
	TruckPlate                   *string    `json:"truck_plate,omitempty"`
	ActionType                   *string    `json:"action_type,omitempty"`
	PreviousCustodian            *string    `json:"previous_custodian,omitempty"`
	NewCustodian                 *string    `json:"new_custodian,omitempty"`
	Latitude                     *float64   `json:"latitude,omitempty"`
	Longitude                    *float64   `json:"longitude,omitempty"`
	CreatedAt                    time.Time  `json:"created_at"`
}

type TimelineItem struct {
	CheckpointID uuid.UUID `json:"checkpoint_id"`
	StatusCode   string    `json:"status_code"`
	StatusLabel  string    `json:"status_label"`
	LocationName *string   `json:"location_name,omitempty"`
	LocationCode *string   `json:"location_code,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	HandlerName  *string   `json:"handler_name,omitempty"`
	Remarks      *string   `json:"remarks,omitempty"`
	IsCurrent    bool      `json:"is_current"`
}

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PagedRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Normalized returns the request clamped to sane bounds: 1-based page,
// size capped at MaxPageSize.
func (o PagedRequest) Normalized() PagedRequest {
	if o.Page < 1 {
		o.Page = DefaultPage
	}
	if o.PageSize < 1 {
		o.PageSize = DefaultPageSize
	}
	if o.PageSize > MaxPageSize {
		o.PageSize = MaxPageSize
	}
	return o
}

func (o PagedRequest) Offset() int {
	return (o.Page - 1) * o.PageSize
}

type PagedCheckpoints struct {
	Items      []CheckpointResponse `json:"items"`
	TotalCount int                  `json:"total_count"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
}

// CheckpointCreatedEvent is the webhook envelope published after a
// checkpoint insert commits.
type CheckpointCreatedEvent struct {
	CheckpointID                 uuid.UUID  `json:"checkpoint_id"`
	ShipmentID                   uuid.UUID  `json:"shipment_id"`
	TrackingNumber               string     `json:"tracking_number"`
	TenantID                     uuid.UUID  `json:"tenant_id"`
	StatusCode                   string     `json:"status_code"`
	LocationID                   *uuid.UUID `json:"location_id,omitempty"`
	LocationCode                 *string    `json:"location_code,omitempty"`
	Timestamp                    time.Time  `json:"timestamp"`
	HandledByDriverID            *uuid.UUID `json:"handled_by_driver_id,omitempty"`
	HandledByWarehouseOperatorID *uuid.UUID `json:"handled_by_warehouse_operator_id,omitempty"`
	Remarks                      *string    `json:"remarks,omitempty"`
	WasQrScanned                 bool       `json:"was_qr_scanned"`
}
