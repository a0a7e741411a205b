package ports

import (
	"context"
	"errors"
	"time"

	"install-scheduling-service/internal/domain"
)

// ErrNotFound is returned by repositories when a referenced entity does not
// exist.
var ErrNotFound = errors.New("not found")

// Port: order read/write operations the engine depends on. The engine never
// touches persistence directly and assumes exclusive ownership of the
// pending pool for the duration of one run.
type OrderRepository interface {
	// ListPendingOrders returns every order awaiting scheduling.
	ListPendingOrders(ctx context.Context) ([]*domain.Order, error)
	// GetLineItems returns the ordered positions of one order.
	GetLineItems(ctx context.Context, orderID string) ([]domain.LineItem, error)
	// UpdateSchedule commits a schedule entry to the order: scheduling
	// fields and the pending -> scheduled transition in one write.
	UpdateSchedule(ctx context.Context, orderID string, entry domain.ScheduleEntry) error
	// UpdateStatus transitions an order's status without touching its
	// scheduling fields.
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error
}

// Port: read-only building reference data.
type BuildingDirectory interface {
	GetBuilding(ctx context.Context, buildingID string) (*domain.Building, error)
}

// Port: read-only product reference data.
type ProductCatalog interface {
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
}

// Port: time-slot inventory storage.
type TimeSlotRepository interface {
	// ListUpcoming returns slots starting at or after the given instant,
	// ordered chronologically.
	ListUpcoming(ctx context.Context, from time.Time) ([]*domain.TimeSlot, error)
	// SlotExists reports whether a slot with this date and window start
	// already exists, regardless of availability.
	SlotExists(ctx context.Context, date time.Time, startMinute int) (bool, error)
	// CreateSlot inserts a slot. Implementations enforce uniqueness on
	// (date, window start) with insert-or-ignore semantics.
	CreateSlot(ctx context.Context, slot *domain.TimeSlot) error
	// NextAvailableAfter returns the earliest available slot starting
	// after the given instant, or ErrNotFound.
	NextAvailableAfter(ctx context.Context, after time.Time) (*domain.TimeSlot, error)
}

// Port: truck reference data.
type TruckFleet interface {
	ListAvailable(ctx context.Context) ([]*domain.Truck, error)
}
