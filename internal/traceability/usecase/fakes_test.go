package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/valdezmx/wms-traceability/internal/traceability/domain"
)

type fakeRepo struct {
	checkpoints []domain.Checkpoint
	insertErr   error
}

func (f *fakeRepo) InsertCheckpoint(_ context.Context, checkpoint *domain.Checkpoint) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.checkpoints = append(f.checkpoints, *checkpoint)
	return nil
}

func (f *fakeRepo) GetCheckpoint(_ context.Context, id uuid.UUID) (*domain.Checkpoint, error) {
	for i := range f.checkpoints {
		if f.checkpoints[i].ID == id {
			checkpoint := f.checkpoints[i]
			return &checkpoint, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ListByShipment(_ context.Context, shipmentID uuid.UUID) ([]domain.Checkpoint, error) {
	matches := []domain.Checkpoint{}
	for _, c := range f.checkpoints {
		if c.ShipmentID == shipmentID {
			matches = append(matches, c)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Timestamp.Before(matches[j].Timestamp)
	})
	return matches, nil
}

func (f *fakeRepo) ListByStatus(_ context.Context, shipmentID uuid.UUID, status domain.CheckpointStatus) ([]domain.Checkpoint, error) {
	matches := []domain.Checkpoint{}
	for _, c := range f.checkpoints {
		if c.ShipmentID == shipmentID && c.StatusCode == status {
			matches = append(matches, c)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Timestamp.Before(matches[j].Timestamp)
	})
	return matches, nil
}

func (f *fakeRepo) LastByShipment(ctx context.Context, shipmentID uuid.UUID) (*domain.Checkpoint, error) {
	ordered, err := f.ListByShipment(ctx, shipmentID)
	if err != nil || len(ordered) == 0 {
		return nil, err
	}
	last := ordered[len(ordered)-1]
	return &last, nil
}

func (f *fakeRepo) ListPaged(_ context.Context, limit, offset int) ([]domain.Checkpoint, int, error) {
	ordered := append([]domain.Checkpoint{}, f.checkpoints...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.After(ordered[j].Timestamp)
	})

	if offset >= len(ordered) {
		return []domain.Checkpoint{}, len(f.checkpoints), nil
	}
	end := offset + limit
	if end > len(ordered) {
		end = len(ordered)
	}
	return ordered[offset:end], len(f.checkpoints), nil
}

type fakeDirectory struct {
	shipments          map[uuid.UUID]domain.Shipment
	locations          map[uuid.UUID]domain.Location
	drivers            map[uuid.UUID]domain.Driver
	warehouseOperators map[uuid.UUID]domain.WarehouseOperator
	employees          map[uuid.UUID]domain.Employee
	users              map[uuid.UUID]domain.User
	trucks             map[uuid.UUID]domain.Truck
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		shipments:          map[uuid.UUID]domain.Shipment{},
		locations:          map[uuid.UUID]domain.Location{},
		drivers:            map[uuid.UUID]domain.Driver{},
		warehouseOperators: map[uuid.UUID]domain.WarehouseOperator{},
		employees:          map[uuid.UUID]domain.Employee{},
		users:              map[uuid.UUID]domain.User{},
		trucks:             map[uuid.UUID]domain.Truck{},
	}
}

func (f *fakeDirectory) GetShipment(_ context.Context, id uuid.UUID) (*domain.Shipment, error) {
	if shipment, ok := f.shipments[id]; ok {
		return &shipment, nil
	}
	return nil, nil
}

func (f *fakeDirectory) GetLocation(_ context.Context, id uuid.UUID) (*domain.Location, error) {
	if location, ok := f.locations[id]; ok {
		return &location, nil
	}
	return nil, nil
}

func (f *fakeDirectory) GetDriver(_ context.Context, id uuid.UUID) (*domain.Driver, error) {
	if driver, ok := f.drivers[id]; ok {
		return &driver, nil
	}
	return nil, nil
}

func (f *fakeDirectory) GetWarehouseOperator(_ context.Context, id uuid.UUID) (*domain.WarehouseOperator, error) {
	if operator, ok := f.warehouseOperators[id]; ok {
		return &operator, nil
	}
	return nil, nil
}

func (f *fakeDirectory) GetEmployee(_ context.Context, id uuid.UUID) (*domain.Employee, error) {
	if employee, ok := f.employees[id]; ok {
		return &employee, nil
	}
	return nil, nil
}

func (f *fakeDirectory) GetUser(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if user, ok := f.users[id]; ok {
		return &user, nil
	}
	return nil, nil
}

func (f *fakeDirectory) GetTruck(_ context.Context, id uuid.UUID) (*domain.Truck, error) {
	if truck, ok := f.trucks[id]; ok {
		return &truck, nil
	}
	return nil, nil
}

// addDriverChain wires driver -> employee -> user and returns the driver id.
func (f *fakeDirectory) addDriverChain(fullName string) uuid.UUID {
	userID := uuid.New()
	employeeID := uuid.New()
	driverID := uuid.New()
	f.users[userID] = domain.User{ID: userID, FullName: fullName}
	f.employees[employeeID] = domain.Employee{ID: employeeID, UserID: userID}
	f.drivers[driverID] = domain.Driver{ID: driverID, EmployeeID: employeeID}
	return driverID
}

func (f *fakeDirectory) addOperatorChain(fullName string) uuid.UUID {
	userID := uuid.New()
	employeeID := uuid.New()
	operatorID := uuid.New()
	f.users[userID] = domain.User{ID: userID, FullName: fullName}
	f.employees[employeeID] = domain.Employee{ID: employeeID, UserID: userID}
	f.warehouseOperators[operatorID] = domain.WarehouseOperator{ID: operatorID, EmployeeID: employeeID}
	return operatorID
}

type publishedEvent struct {
	name    string
	payload any
}

type fakePublisher struct {
	events     []publishedEvent
	publishErr error
}

func (f *fakePublisher) Publish(_ context.Context, eventName string, payload any) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.events = append(f.events, publishedEvent{name: eventName, payload: payload})
	return nil
}

var errInfra = errors.New("infrastructure failure")

func newTestUseCase(repo *fakeRepo, directory *fakeDirectory, publisher *fakePublisher) *usecase {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewUseCase(repo, directory, publisher, logger)
}

func ptr[T any](v T) *T { return &v }
